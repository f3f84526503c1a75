// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
)

// MethodFunc pairs a dotted method name with its bound call, as
// enumerated by [Methods.All].
type MethodFunc struct {
	Name string
	Call func(ctx context.Context, args Args) (json.RawMessage, error)
}
