// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/tidwall/jsonc"
)

func TestEveryMethodSendsOneAuthenticatedRequest(t *testing.T) {
	var mu sync.Mutex
	requests := make(map[string]int)
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assertAuth(t, request)
		mu.Lock()
		requests[strings.TrimPrefix(request.URL.Path, "/api/")]++
		mu.Unlock()
		writeJSON(writer, http.StatusOK, map[string]any{"ok": true})
	})

	all := client.Methods.All()
	for _, method := range all {
		if _, err := method.Call(context.Background(), Args{"marker": method.Name}); err != nil {
			t.Errorf("%s failed: %v", method.Name, err)
		}
	}

	if len(requests) != len(all) {
		t.Errorf("saw %d distinct paths for %d methods", len(requests), len(all))
	}
	for _, method := range all {
		if count := requests[method.Name]; count != 1 {
			t.Errorf("%s issued %d requests, want 1", method.Name, count)
		}
	}
}

func TestMethodTableMatchesList(t *testing.T) {
	data, err := os.ReadFile("methods.jsonc")
	if err != nil {
		t.Fatalf("reading methods.jsonc: %v", err)
	}
	var file struct {
		Methods []string `json:"methods"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		t.Fatalf("parsing methods.jsonc: %v", err)
	}

	all := NewMethods(nil).All()
	if len(all) != len(file.Methods) {
		t.Fatalf("table has %d methods, list has %d", len(all), len(file.Methods))
	}
	for index, name := range file.Methods {
		if all[index].Name != name {
			t.Errorf("entry %d = %s, want %s", index, all[index].Name, name)
		}
	}
}

// recordingCaller captures calls without any transport.
type recordingCaller struct {
	method string
	args   Args
}

func (r *recordingCaller) Call(_ context.Context, method string, args Args) (json.RawMessage, error) {
	r.method = method
	r.args = args
	return json.RawMessage(`{"ok":true}`), nil
}

func TestGeneratedMethodPassesNameAndArgs(t *testing.T) {
	caller := &recordingCaller{}
	methods := NewMethods(caller)

	if _, err := methods.Users.ProfileGet(context.Background(), Args{"user": "U1"}); err != nil {
		t.Fatalf("ProfileGet failed: %v", err)
	}
	if caller.method != "users.profile.get" || caller.args["user"] != "U1" {
		t.Errorf("recorded %s %v", caller.method, caller.args)
	}
}
