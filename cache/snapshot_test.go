// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/bureau-foundation/slackline/model"
)

// populatedCache returns a cache with enough repetitive content that
// every compression algorithm shrinks the payload.
func populatedCache(t *testing.T) *Cache {
	t.Helper()
	cache := New(Config{MessageLimit: 50})
	cache.SetSelf(&model.Self{ID: "U0", Name: "bot", TeamID: "T1"})
	team, err := model.TeamFromWire(model.WireTeam{ID: "T1", Name: "Engines", Domain: "engines"})
	if err != nil {
		t.Fatalf("TeamFromWire failed: %v", err)
	}
	cache.SetTeam(team)

	for i := 0; i < 20; i++ {
		user, err := cache.PutUser(model.WireUser{ID: fmt.Sprintf("U%02d", i), Name: fmt.Sprintf("user-%02d", i)})
		if err != nil {
			t.Fatalf("PutUser failed: %v", err)
		}
		if i%2 == 0 {
			user.SetDND(model.WireDND{Enabled: true, NextStart: 1700000000, NextEnd: 1700003600})
		}
	}
	conversation, _, err := cache.PutConversation(model.WireConversation{
		ID: "C1", Name: "general", IsChannel: true, Members: []string{"U00", "U01"},
		Topic: model.WireDescriptor{Value: "engines", Creator: "U00", LastSet: 1700000000},
	})
	if err != nil {
		t.Fatalf("PutConversation failed: %v", err)
	}
	for i := 0; i < 30; i++ {
		message, err := model.MessageFromWire("C1", model.WireMessage{
			User: "U00", Text: "the analytical engine weaves algebraic patterns", TS: fmt.Sprintf("1700000%03d.000100", i),
		})
		if err != nil {
			t.Fatalf("MessageFromWire failed: %v", err)
		}
		conversation.AppendMessage(message)
	}
	archived, _, _ := cache.PutConversation(model.WireConversation{ID: "G1", Name: "old", IsGroup: true, IsArchived: true})
	archived.MarkDeleted()
	return cache
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(compression.String(), func(t *testing.T) {
			source := populatedCache(t)
			created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

			var buffer bytes.Buffer
			if err := WriteSnapshot(&buffer, source, SnapshotOptions{Compression: compression, Now: created}); err != nil {
				t.Fatalf("WriteSnapshot failed: %v", err)
			}
			if tag := Compression(buffer.Bytes()[len(snapshotMagic)]); tag != compression {
				t.Errorf("header compression = %s, want %s", tag, compression)
			}

			snapshot, err := ReadSnapshot(&buffer)
			if err != nil {
				t.Fatalf("ReadSnapshot failed: %v", err)
			}
			if !snapshot.Created.Equal(created) {
				t.Errorf("Created = %v, want %v", snapshot.Created, created)
			}

			restored := New(Config{MessageLimit: 50})
			if err := snapshot.Restore(restored); err != nil {
				t.Fatalf("Restore failed: %v", err)
			}
			if !reflect.DeepEqual(restored.Users.IDs(), source.Users.IDs()) {
				t.Errorf("user ids = %v, want %v", restored.Users.IDs(), source.Users.IDs())
			}
			if !reflect.DeepEqual(restored.Conversations.IDs(), source.Conversations.IDs()) {
				t.Errorf("conversation ids = %v, want %v", restored.Conversations.IDs(), source.Conversations.IDs())
			}
			if self := restored.Self(); self == nil || self.ID != "U0" {
				t.Errorf("Self() = %+v", self)
			}
			if team := restored.Team(); team == nil || team.Domain() != "engines" {
				t.Errorf("Team() = %+v", team)
			}

			general, _ := restored.Conversations.Get("C1")
			if got := general.MemberIDs(); !reflect.DeepEqual(got, []string{"U00", "U01"}) {
				t.Errorf("C1 members = %v", got)
			}
			if got := len(general.Messages()); got != 30 {
				t.Errorf("C1 history has %d messages, want 30", got)
			}
			if general.Topic().Value != "engines" {
				t.Errorf("C1 topic = %+v", general.Topic())
			}
			old, _ := restored.Conversations.Get("G1")
			if !old.IsDeleted() || !old.IsArchived() {
				t.Error("G1 lost its deleted or archived flag")
			}
			user, _ := restored.Users.Get("U00")
			if dnd := user.DND(); dnd == nil || !dnd.Enabled {
				t.Errorf("U00 DND = %+v", dnd)
			}
		})
	}
}

func TestSnapshotIncompressibleFallsBack(t *testing.T) {
	var buffer bytes.Buffer
	if err := WriteSnapshot(&buffer, New(Config{}), SnapshotOptions{Compression: CompressionLZ4}); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	if tag := Compression(buffer.Bytes()[len(snapshotMagic)]); tag != CompressionNone {
		t.Errorf("tiny snapshot stored as %s, want none", tag)
	}
	if _, err := ReadSnapshot(&buffer); err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
}

func TestSnapshotRejectsCorruption(t *testing.T) {
	var buffer bytes.Buffer
	if err := WriteSnapshot(&buffer, populatedCache(t), SnapshotOptions{Compression: CompressionNone}); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	data := buffer.Bytes()

	t.Run("payload", func(t *testing.T) {
		corrupted := bytes.Clone(data)
		corrupted[len(corrupted)-1] ^= 0xff
		if _, err := ReadSnapshot(bytes.NewReader(corrupted)); !errors.Is(err, ErrDigestMismatch) {
			t.Errorf("ReadSnapshot error = %v, want ErrDigestMismatch", err)
		}
	})

	t.Run("digest", func(t *testing.T) {
		corrupted := bytes.Clone(data)
		corrupted[headerSize-1] ^= 0xff
		if _, err := ReadSnapshot(bytes.NewReader(corrupted)); !errors.Is(err, ErrDigestMismatch) {
			t.Errorf("ReadSnapshot error = %v, want ErrDigestMismatch", err)
		}
	})

	t.Run("magic", func(t *testing.T) {
		corrupted := bytes.Clone(data)
		corrupted[0] = 'X'
		if _, err := ReadSnapshot(bytes.NewReader(corrupted)); err == nil {
			t.Error("ReadSnapshot accepted a bad magic")
		}
	})

	t.Run("truncated", func(t *testing.T) {
		if _, err := ReadSnapshot(bytes.NewReader(data[:headerSize-4])); err == nil {
			t.Error("ReadSnapshot accepted a truncated header")
		}
	})
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.snap")

	if _, err := LoadFile(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("LoadFile of missing file error = %v, want fs.ErrNotExist", err)
	}
	if err := SaveFile(path, populatedCache(t), SnapshotOptions{Compression: CompressionZstd}); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	snapshot, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(snapshot.Users) != 20 || len(snapshot.Conversations) != 2 {
		t.Errorf("snapshot has %d users and %d conversations", len(snapshot.Users), len(snapshot.Conversations))
	}
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]Compression{"none": CompressionNone, "lz4": CompressionLZ4, "zstd": CompressionZstd, "": CompressionZstd} {
		got, err := ParseCompression(name)
		if err != nil || got != want {
			t.Errorf("ParseCompression(%q) = %s, %v; want %s", name, got, err, want)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Error("ParseCompression accepted gzip")
	}
}
