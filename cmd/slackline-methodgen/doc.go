// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// slackline-methodgen generates api/methods_gen.go from
// api/methods.jsonc. It is invoked through go generate in the api
// package; --check verifies that the checked-in file is current.
package main
