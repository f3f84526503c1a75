// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret keeps API tokens out of the Go heap.
//
// A [Buffer] is an anonymous mmap region locked into RAM and excluded
// from core dumps. The api client stores its bearer token in one and
// converts it to a string only while building the Authorization
// header. Close zeroes and unmaps the region.
package secret
