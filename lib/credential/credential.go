// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"errors"
	"fmt"
	"os"

	"github.com/bureau-foundation/slackline/lib/config"
	"github.com/bureau-foundation/slackline/lib/sealed"
	"github.com/bureau-foundation/slackline/lib/secret"
)

// ErrNoSource is returned when the token config names no source.
var ErrNoSource = errors.New("credential: no token source configured")

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(name string) (string, bool)

// Resolve loads the token from the configured source. lookup defaults
// to os.LookupEnv when nil.
//
// The caller owns the returned buffer and must Close it.
func Resolve(tokenConfig config.TokenConfig, lookup LookupFunc) (*secret.Buffer, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	switch {
	case tokenConfig.SealedFile != "":
		return openSealed(tokenConfig.SealedFile, tokenConfig.Identity)
	case tokenConfig.File != "":
		buffer, err := secret.ReadFile(tokenConfig.File)
		if err != nil {
			return nil, fmt.Errorf("credential: reading token file: %w", err)
		}
		return buffer, nil
	case tokenConfig.Env != "":
		value, ok := lookup(tokenConfig.Env)
		if !ok || value == "" {
			return nil, fmt.Errorf("credential: environment variable %s is not set", tokenConfig.Env)
		}
		buffer, err := secret.FromBytesTrimmed([]byte(value), tokenConfig.Env)
		if err != nil {
			return nil, fmt.Errorf("credential: %w", err)
		}
		return buffer, nil
	default:
		return nil, ErrNoSource
	}
}

func openSealed(sealedPath, identityPath string) (*secret.Buffer, error) {
	if identityPath == "" {
		return nil, fmt.Errorf("credential: %s is sealed but no identity is configured", sealedPath)
	}

	identity, err := secret.ReadFile(identityPath)
	if err != nil {
		return nil, fmt.Errorf("credential: reading identity: %w", err)
	}
	defer identity.Close()

	ciphertext, err := os.ReadFile(sealedPath)
	if err != nil {
		return nil, fmt.Errorf("credential: reading sealed token: %w", err)
	}

	token, err := sealed.Open(ciphertext, identity)
	if err != nil {
		return nil, fmt.Errorf("credential: opening %s: %w", sealedPath, err)
	}
	return token, nil
}

// Describe names the configured source for logs without revealing
// the token.
func Describe(tokenConfig config.TokenConfig) string {
	switch {
	case tokenConfig.SealedFile != "":
		return "sealed:" + tokenConfig.SealedFile
	case tokenConfig.File != "":
		return "file:" + tokenConfig.File
	case tokenConfig.Env != "":
		return "env:" + tokenConfig.Env
	default:
		return "none"
	}
}
