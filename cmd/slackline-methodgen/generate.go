// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/tidwall/jsonc"
)

// methodFile is the JSONC input format.
type methodFile struct {
	Methods []string `json:"methods"`
}

// category is one generated group type.
type category struct {
	// Field is the Methods struct field, e.g. "Conversations".
	Field string
	// Type is the group type name, e.g. "ConversationsMethods".
	Type string
	// Prefix is the dotted category, e.g. "conversations".
	Prefix  string
	Methods []method
}

type method struct {
	// Name is the full dotted method, e.g. "users.profile.get".
	Name string
	// Func is the Go method name, e.g. "ProfileGet".
	Func string
}

// initialisms are segments rendered in upper case.
var initialisms = map[string]string{
	"api": "API",
	"dnd": "DND",
	"rtm": "RTM",
}

// parseMethods strips JSONC comments and trailing commas and returns
// the method list grouped by category in first-appearance order.
func parseMethods(data []byte) ([]category, error) {
	var file methodFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return nil, fmt.Errorf("parsing method list: %w", err)
	}
	if len(file.Methods) == 0 {
		return nil, fmt.Errorf("method list is empty")
	}

	var categories []category
	index := make(map[string]int)
	seen := make(map[string]bool)
	for _, name := range file.Methods {
		prefix, action, ok := strings.Cut(name, ".")
		if !ok || prefix == "" || action == "" {
			return nil, fmt.Errorf("method %q is not <category>.<action>", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("method %q listed twice", name)
		}
		seen[name] = true

		position, exists := index[prefix]
		if !exists {
			field := exportName(prefix)
			categories = append(categories, category{
				Field:  field,
				Type:   field + "Methods",
				Prefix: prefix,
			})
			position = len(categories) - 1
			index[prefix] = position
		}

		funcName := exportName(action)
		for _, existing := range categories[position].Methods {
			if existing.Func == funcName {
				return nil, fmt.Errorf("methods %q and %q both map to %s.%s", existing.Name, name, categories[position].Field, funcName)
			}
		}
		categories[position].Methods = append(categories[position].Methods, method{Name: name, Func: funcName})
	}
	return categories, nil
}

// exportName turns a dotted, camelCase name into an exported Go
// identifier: "profile.get" becomes "ProfileGet".
func exportName(dotted string) string {
	var builder strings.Builder
	for _, segment := range strings.Split(dotted, ".") {
		if upper, ok := initialisms[segment]; ok {
			builder.WriteString(upper)
			continue
		}
		first, size := utf8.DecodeRuneInString(segment)
		builder.WriteRune(unicode.ToUpper(first))
		builder.WriteString(segment[size:])
	}
	return builder.String()
}

var sourceTemplate = template.Must(template.New("methods").Parse(`// Code generated by slackline-methodgen from {{.Input}}. DO NOT EDIT.

package {{.Package}}

import (
	"context"
	"encoding/json"
)

// Methods is the platform method table, one field per category.
type Methods struct {
{{- range .Categories}}
	{{.Field}} {{.Type}}
{{- end}}
}

// NewMethods binds every method to caller.
func NewMethods(caller Caller) Methods {
	return Methods{
{{- range .Categories}}
		{{.Field}}: {{.Type}}{caller: caller},
{{- end}}
	}
}

// All lists every method in the table.
func (m Methods) All() []MethodFunc {
	return []MethodFunc{
{{- range $category := .Categories}}
{{- range .Methods}}
		{Name: "{{.Name}}", Call: m.{{$category.Field}}.{{.Func}}},
{{- end}}
{{- end}}
	}
}
{{range $category := .Categories}}
// {{.Type}} groups the {{.Prefix}}.* methods.
type {{.Type}} struct {
	caller Caller
}
{{range .Methods}}
// {{.Func}} calls {{.Name}}.
func (m {{$category.Type}}) {{.Func}}(ctx context.Context, args Args) (json.RawMessage, error) {
	return m.caller.Call(ctx, "{{.Name}}", args)
}
{{end}}
{{- end}}`))

type templateData struct {
	Input      string
	Package    string
	Categories []category
}

// generate renders the method table as formatted Go source. input is
// recorded in the generated header.
func generate(categories []category, packageName, input string) ([]byte, error) {
	var buffer bytes.Buffer
	if err := sourceTemplate.Execute(&buffer, templateData{
		Input:      input,
		Package:    packageName,
		Categories: categories,
	}); err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}

	formatted, err := format.Source(buffer.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return formatted, nil
}
