// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential resolves the workspace token named by a
// [config.TokenConfig] into a [secret.Buffer].
//
// Three sources are supported, exactly one of which is configured:
//   - an environment variable (token.env)
//   - a plaintext file (token.file)
//   - an age-sealed file plus an identity file (token.sealed_file,
//     token.identity), opened with lib/sealed
//
// The token never lands in a Go string owned by this package: file
// contents are zeroed after they are copied into mmap-backed memory.
// Environment values are copied the same way, though the process
// environment itself keeps its copy.
package credential
