// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/slackline/lib/codec"
	"github.com/bureau-foundation/slackline/model"
)

// snapshotMagic opens every snapshot file.
const snapshotMagic = "SLSNAP1\n"

// Header layout: magic, compression tag (1 byte), uncompressed payload
// length (8 bytes, big endian), BLAKE3 digest of the uncompressed
// payload (32 bytes).
const headerSize = len(snapshotMagic) + 1 + 8 + 32

// maxSnapshotPayload bounds the uncompressed payload a reader accepts.
const maxSnapshotPayload = 1 << 30

// ErrDigestMismatch is returned when a snapshot's payload does not
// hash to the digest in its header.
var ErrDigestMismatch = errors.New("cache: snapshot digest mismatch")

// Snapshot is the persisted form of a Cache.
type Snapshot struct {
	Created       time.Time            `cbor:"created"`
	Self          *model.Self          `cbor:"self,omitempty"`
	Team          *model.WireTeam      `cbor:"team,omitempty"`
	Users         []UserRecord         `cbor:"users"`
	Conversations []ConversationRecord `cbor:"conversations"`
}

// UserRecord is one persisted user.
type UserRecord struct {
	User model.WireUser `cbor:"user"`
	DND  *model.WireDND `cbor:"dnd,omitempty"`
}

// ConversationRecord is one persisted conversation with its member ids
// and recent history, oldest first.
type ConversationRecord struct {
	Conversation model.WireConversation `cbor:"conversation"`
	Deleted      bool                   `cbor:"deleted,omitempty"`
	Messages     []model.WireMessage    `cbor:"messages,omitempty"`
}

// SnapshotOptions control WriteSnapshot.
type SnapshotOptions struct {
	Compression Compression

	// Now stamps the snapshot. Zero means time.Now.
	Now time.Time
}

// Capture copies the cache's contents into a Snapshot.
func Capture(cache *Cache, now time.Time) *Snapshot {
	snapshot := &Snapshot{Created: now.UTC()}
	if self := cache.Self(); self != nil {
		copied := *self
		snapshot.Self = &copied
	}
	if team := cache.Team(); team != nil {
		wire := team.Wire()
		snapshot.Team = &wire
	}
	for _, user := range cache.Users.Values() {
		record := UserRecord{User: user.Wire()}
		if dnd := user.DND(); dnd != nil {
			wire := dnd.Wire()
			record.DND = &wire
		}
		snapshot.Users = append(snapshot.Users, record)
	}
	for _, conversation := range cache.Conversations.Values() {
		record := ConversationRecord{
			Conversation: conversation.Wire(),
			Deleted:      conversation.IsDeleted(),
		}
		for _, message := range conversation.Messages() {
			record.Messages = append(record.Messages, message.Wire())
		}
		snapshot.Conversations = append(snapshot.Conversations, record)
	}
	return snapshot
}

// Restore loads the snapshot into cache. Entities already cached are
// updated in place. Users are restored before conversations so member
// ids resolve.
func (s *Snapshot) Restore(cache *Cache) error {
	if s.Self != nil {
		self := *s.Self
		cache.SetSelf(&self)
	}
	if s.Team != nil {
		team, err := model.TeamFromWire(*s.Team)
		if err != nil {
			return fmt.Errorf("cache: restoring team: %w", err)
		}
		cache.SetTeam(team)
	}
	for _, record := range s.Users {
		user, err := cache.PutUser(record.User)
		if err != nil {
			return fmt.Errorf("cache: restoring user: %w", err)
		}
		if record.DND != nil {
			user.SetDND(*record.DND)
		}
	}
	for _, record := range s.Conversations {
		conversation, _, err := cache.PutConversation(record.Conversation)
		if err != nil {
			return fmt.Errorf("cache: restoring conversation: %w", err)
		}
		if record.Deleted {
			conversation.MarkDeleted()
		}
		for _, wire := range record.Messages {
			message, err := model.MessageFromWire(conversation.ID(), wire)
			if err != nil {
				return fmt.Errorf("cache: restoring message in %s: %w", conversation.ID(), err)
			}
			if err := conversation.AppendMessage(message); err != nil {
				return fmt.Errorf("cache: restoring message in %s: %w", conversation.ID(), err)
			}
		}
	}
	return nil
}

// WriteSnapshot captures cache and writes it to w.
func WriteSnapshot(w io.Writer, cache *Cache, options SnapshotOptions) error {
	now := options.Now
	if now.IsZero() {
		now = time.Now()
	}
	payload, err := codec.Marshal(Capture(cache, now))
	if err != nil {
		return fmt.Errorf("cache: encoding snapshot: %w", err)
	}

	compression := options.Compression
	body, err := compress(payload, compression)
	if errors.Is(err, errIncompressible) {
		compression, body = CompressionNone, payload
	} else if err != nil {
		return fmt.Errorf("cache: compressing snapshot: %w", err)
	}

	header := make([]byte, 0, headerSize)
	header = append(header, snapshotMagic...)
	header = append(header, byte(compression))
	header = binary.BigEndian.AppendUint64(header, uint64(len(payload)))
	digest := blake3.Sum256(payload)
	header = append(header, digest[:]...)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("cache: writing snapshot header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("cache: writing snapshot payload: %w", err)
	}
	return nil
}

// ReadSnapshot reads and verifies a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("cache: reading snapshot header: %w", err)
	}
	if !bytes.Equal(header[:len(snapshotMagic)], []byte(snapshotMagic)) {
		return nil, fmt.Errorf("cache: not a snapshot file")
	}
	offset := len(snapshotMagic)
	compression := Compression(header[offset])
	size := binary.BigEndian.Uint64(header[offset+1 : offset+9])
	if size > maxSnapshotPayload {
		return nil, fmt.Errorf("cache: snapshot payload of %d bytes exceeds limit", size)
	}
	var digest [32]byte
	copy(digest[:], header[offset+9:])

	body, err := io.ReadAll(io.LimitReader(r, maxSnapshotPayload+1))
	if err != nil {
		return nil, fmt.Errorf("cache: reading snapshot payload: %w", err)
	}
	payload, err := decompress(body, compression, int(size))
	if err != nil {
		return nil, fmt.Errorf("cache: decompressing snapshot: %w", err)
	}
	if blake3.Sum256(payload) != digest {
		return nil, ErrDigestMismatch
	}

	var snapshot Snapshot
	if err := codec.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("cache: decoding snapshot: %w", err)
	}
	return &snapshot, nil
}

// SaveFile writes a snapshot of cache to path atomically: the data is
// written to a temporary file in the same directory, synced, and
// renamed into place. The file has mode 0600.
func SaveFile(path string, cache *Cache, options SnapshotOptions) error {
	var buffer bytes.Buffer
	if err := WriteSnapshot(&buffer, cache, options); err != nil {
		return err
	}

	temporaryPath := path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cache: creating temporary snapshot: %w", err)
	}
	if _, err := file.Write(buffer.Bytes()); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("cache: writing temporary snapshot: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("cache: syncing temporary snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("cache: closing temporary snapshot: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("cache: renaming snapshot into place: %w", err)
	}

	parentDirectory, err := os.Open(filepath.Dir(path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}
	return nil
}

// LoadFile reads a snapshot from path. A missing file yields an error
// satisfying errors.Is(err, fs.ErrNotExist).
func LoadFile(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening snapshot: %w", err)
	}
	defer file.Close()
	return ReadSnapshot(file)
}
