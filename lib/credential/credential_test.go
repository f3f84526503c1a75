// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/slackline/lib/config"
	"github.com/bureau-foundation/slackline/lib/sealed"
)

func lookupFrom(values map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		value, ok := values[name]
		return value, ok
	}
}

func TestResolve_Env(t *testing.T) {
	token, err := Resolve(config.TokenConfig{Env: "SLACK_TOKEN"},
		lookupFrom(map[string]string{"SLACK_TOKEN": "  xoxb-env \n"}))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	defer token.Close()
	if token.String() != "xoxb-env" {
		t.Errorf("token = %q, want xoxb-env", token.String())
	}
}

func TestResolve_EnvMissing(t *testing.T) {
	_, err := Resolve(config.TokenConfig{Env: "SLACK_TOKEN"}, lookupFrom(nil))
	if err == nil {
		t.Fatal("Resolve() with unset variable succeeded")
	}
}

func TestResolve_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("xoxb-file\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	token, err := Resolve(config.TokenConfig{File: path}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	defer token.Close()
	if token.String() != "xoxb-file" {
		t.Errorf("token = %q, want xoxb-file", token.String())
	}
}

func TestResolve_Sealed(t *testing.T) {
	keypair, err := sealed.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair() error: %v", err)
	}
	defer keypair.Close()

	directory := t.TempDir()
	identityPath := filepath.Join(directory, "identity.txt")
	if err := os.WriteFile(identityPath, []byte(keypair.PrivateKey.String()+"\n"), 0600); err != nil {
		t.Fatalf("WriteFile(identity): %v", err)
	}
	ciphertext, err := sealed.Seal([]byte("xoxb-sealed"), []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	sealedPath := filepath.Join(directory, "token.age")
	if err := os.WriteFile(sealedPath, ciphertext, 0600); err != nil {
		t.Fatalf("WriteFile(sealed): %v", err)
	}

	token, err := Resolve(config.TokenConfig{SealedFile: sealedPath, Identity: identityPath}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	defer token.Close()
	if token.String() != "xoxb-sealed" {
		t.Errorf("token = %q, want xoxb-sealed", token.String())
	}
}

func TestResolve_SealedWithoutIdentity(t *testing.T) {
	if _, err := Resolve(config.TokenConfig{SealedFile: "/nonexistent.age"}, nil); err == nil {
		t.Fatal("Resolve() without identity succeeded")
	}
}

func TestResolve_NoSource(t *testing.T) {
	_, err := Resolve(config.TokenConfig{}, nil)
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("Resolve() error = %v, want ErrNoSource", err)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		tokenConfig config.TokenConfig
		want        string
	}{
		{config.TokenConfig{Env: "SLACK_TOKEN"}, "env:SLACK_TOKEN"},
		{config.TokenConfig{File: "/run/token"}, "file:/run/token"},
		{config.TokenConfig{SealedFile: "/run/token.age", Identity: "/id"}, "sealed:/run/token.age"},
		{config.TokenConfig{}, "none"},
	}
	for _, tt := range tests {
		if got := Describe(tt.tokenConfig); got != tt.want {
			t.Errorf("Describe(%+v) = %q, want %q", tt.tokenConfig, got, tt.want)
		}
	}
}
