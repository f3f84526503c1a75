// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportName(t *testing.T) {
	tests := map[string]string{
		"api":           "API",
		"rtm":           "RTM",
		"conversations": "Conversations",
		"postMessage":   "PostMessage",
		"profile.get":   "ProfileGet",
		"endDnd":        "EndDnd",
	}
	for input, want := range tests {
		if got := exportName(input); got != want {
			t.Errorf("exportName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseMethods(t *testing.T) {
	input := []byte(`// comment
{
  "methods": [
    "users.list",
    /* block */ "chat.postMessage",
    "users.profile.get",
  ],
}`)
	categories, err := parseMethods(input)
	if err != nil {
		t.Fatalf("parseMethods failed: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(categories))
	}
	users := categories[0]
	if users.Field != "Users" || users.Type != "UsersMethods" || users.Prefix != "users" {
		t.Errorf("first category = %+v", users)
	}
	if len(users.Methods) != 2 || users.Methods[1].Func != "ProfileGet" || users.Methods[1].Name != "users.profile.get" {
		t.Errorf("users methods = %+v", users.Methods)
	}
}

func TestParseMethodsErrors(t *testing.T) {
	tests := map[string]string{
		"empty":        `{"methods": []}`,
		"no category":  `{"methods": ["test"]}`,
		"duplicate":    `{"methods": ["api.test", "api.test"]}`,
		"name clash":   `{"methods": ["users.profile.get", "users.profileGet"]}`,
		"invalid json": `{"methods": [`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := parseMethods([]byte(input)); err == nil {
				t.Errorf("parseMethods(%s) succeeded", input)
			}
		})
	}
}

func TestGenerateProducesValidGo(t *testing.T) {
	categories, err := parseMethods([]byte(`{"methods": ["api.test", "rtm.connect", "users.profile.get"]}`))
	if err != nil {
		t.Fatalf("parseMethods failed: %v", err)
	}
	source, err := generate(categories, "api", "methods.jsonc")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := parser.ParseFile(token.NewFileSet(), "methods_gen.go", source, parser.AllErrors); err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, source)
	}
	for _, want := range []string{
		"// Code generated by slackline-methodgen from methods.jsonc. DO NOT EDIT.",
		"func (m RTMMethods) Connect(ctx context.Context, args Args) (json.RawMessage, error) {",
		`return m.caller.Call(ctx, "users.profile.get", args)`,
		`{Name: "api.test", Call: m.API.Test},`,
	} {
		if !strings.Contains(string(source), want) {
			t.Errorf("generated source missing %q", want)
		}
	}
}

func TestCheckedInTableIsCurrent(t *testing.T) {
	apiDirectory := filepath.Join("..", "..", "api")
	input, err := os.ReadFile(filepath.Join(apiDirectory, "methods.jsonc"))
	if err != nil {
		t.Fatalf("reading methods.jsonc: %v", err)
	}
	categories, err := parseMethods(input)
	if err != nil {
		t.Fatalf("parseMethods failed: %v", err)
	}
	source, err := generate(categories, "api", "methods.jsonc")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	existing, err := os.ReadFile(filepath.Join(apiDirectory, "methods_gen.go"))
	if err != nil {
		t.Fatalf("reading methods_gen.go: %v", err)
	}
	if string(existing) != string(source) {
		t.Error("api/methods_gen.go is stale; run go generate ./api")
	}
}
