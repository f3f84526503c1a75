// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version carries build metadata injected with -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/slackline/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// The api client sends [UserAgent] on every request and the binaries
// print [Info] for --version.
package version
