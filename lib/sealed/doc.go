// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed provides age encryption and decryption for slackline
// token files. It wraps filippo.io/age for the operations slackline
// needs: generate x25519 keypairs, seal a token to one or more
// recipients, and open a sealed file with an identity.
//
// Sealed files are ASCII-armored. [Open] also accepts binary age
// files so tokens sealed with the age CLI work unchanged. Private keys
// and decrypted plaintext are returned as [secret.Buffer] values
// backed by mmap memory outside the Go heap.
//
// Key exports:
//
//   - [GenerateKeypair] -- new age x25519 keypair in a secret.Buffer
//   - [Seal] -- encrypt to age public key recipients
//   - [Open] -- decrypt with a secret.Buffer identity
//   - [ParsePublicKey] -- recipient validation
//
// Depends on lib/secret for secure memory allocation.
package sealed
