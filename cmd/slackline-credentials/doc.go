// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Slackline-credentials manages age-sealed workspace tokens for the
// token.sealed_file config source. Subcommands: keygen writes an age
// identity, seal encrypts a token read from a terminal prompt, a file,
// or stdin, and check verifies that a sealed file opens with an
// identity without printing the token.
package main
