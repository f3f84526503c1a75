// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
)

// Args are the arguments of one method call. Strings are sent
// verbatim. Any other value is JSON-encoded first, so a bool becomes
// "true" and a slice becomes a JSON array. Nil values are omitted.
type Args map[string]any

// Encode renders args as a query string.
func (a Args) Encode() (string, error) {
	values, err := a.values()
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}

func (a Args) values() (url.Values, error) {
	values := make(url.Values, len(a))
	keys := make([]string, 0, len(a))
	for key := range a {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch value := a[key].(type) {
		case nil:
			continue
		case string:
			values.Set(key, value)
		default:
			encoded, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("api: encoding argument %q: %w", key, err)
			}
			// Typed nil pointers and nil maps encode as null.
			if bytes.Equal(encoded, []byte("null")) {
				continue
			}
			values.Set(key, string(encoded))
		}
	}
	return values, nil
}

// With returns a copy of a with key set to value.
func (a Args) With(key string, value any) Args {
	copied := make(Args, len(a)+1)
	for existingKey, existingValue := range a {
		copied[existingKey] = existingValue
	}
	copied[key] = value
	return copied
}
