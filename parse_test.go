// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestParseSchemaKeepsPropertyOrderJSON(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchema([]byte(`{
  "type": "object",
  "properties": {
    "zeta": {"type": "string"},
    "alpha": {"type": "integer"},
    "mid": {"type": "boolean"}
  },
  "required": ["alpha"]
}`))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}

	object, ok := schema.(*ObjectSchema)
	if !ok {
		t.Fatalf("ParseSchema returned %T, want *ObjectSchema", schema)
	}

	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, propertyNames(object)); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}

	if !object.IsRequired("alpha") || object.IsRequired("zeta") {
		t.Fatalf("required = %v, want [alpha]", object.Required)
	}
}

func TestParseSchemaKeepsPropertyOrderYAML(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchema([]byte(`
type: object
properties:
  zeta:
    type: string
    default: none
  alpha:
    type: integer
    minimum: 1
    maximum: 10.5
  mid:
    type: array
    items:
      type: string
    maxItems: 3
`))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}

	object := schema.(*ObjectSchema)
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, propertyNames(object)); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}

	alpha := object.Properties[1].Schema.Meta()
	if alpha.Minimum == nil || *alpha.Minimum != json.Number("1") {
		t.Fatalf("minimum = %v, want 1", alpha.Minimum)
	}

	if alpha.Maximum == nil || *alpha.Maximum != json.Number("10.5") {
		t.Fatalf("maximum = %v, want 10.5", alpha.Maximum)
	}

	mid, ok := object.Properties[2].Schema.(*ArraySchema)
	if !ok {
		t.Fatalf("mid is %T, want *ArraySchema", object.Properties[2].Schema)
	}

	if mid.MaxItems == nil || *mid.MaxItems != 3 {
		t.Fatalf("maxItems = %v, want 3", mid.MaxItems)
	}
}

func TestParseSchemaExpandsYAMLMergeKeys(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchema([]byte(`
type: object
properties:
  base: &base
    type: object
    description: base
    properties:
      host:
        type: string
  derived:
    description: derived
    <<: *base
  layered:
    <<: [{type: object, properties: {port: {type: integer}}}, *base]
`))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}

	nodes, err := BuildTree(schema)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	derived := nodes[1]
	if derived.Kind != KindObject || len(derived.Children) != 1 || derived.Children[0].Key != "host" {
		t.Fatalf("derived = kind %q children %d, want object with host", derived.Kind, len(derived.Children))
	}

	if derived.Description == nil || *derived.Description != "derived" {
		t.Fatalf("derived description = %v, want own value", derived.Description)
	}

	layered := nodes[2]
	if len(layered.Children) != 1 || layered.Children[0].Key != "port" {
		t.Fatalf("layered children = %+v, want first merged mapping to win", layered.Children)
	}

	if layered.Description == nil || *layered.Description != "base" {
		t.Fatalf("layered description = %v, want merged from base", layered.Description)
	}

	_, err = ParseSchema([]byte("type: object\nproperties:\n  bad:\n    <<: scalar\n"))
	if !errors.Is(err, ErrDecodeSchema) {
		t.Fatalf("scalar merge error = %v, want ErrDecodeSchema", err)
	}
}

func TestParseSchemaAcceptsFlowStyleYAML(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchema([]byte("{type: object, properties: {name: {type: string}, port: {type: integer}}, required: [name]}"))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}

	object := schema.(*ObjectSchema)
	if diff := cmp.Diff([]string{"name", "port"}, propertyNames(object)); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}

	if !object.IsRequired("name") {
		t.Fatalf("required = %v, want [name]", object.Required)
	}
}

func TestParseSchemaResolvesReferencesWithSiblingOverrides(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchema([]byte(`{
  "$defs": {
    "Level": {"description": "log level", "enum": ["DEBUG", "INFO", null]}
  },
  "type": "object",
  "properties": {
    "file": {"$ref": "#/$defs/Level", "title": "File"},
    "console": {"$ref": "#/$defs/Level", "description": "console level"}
  }
}`))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}

	object := schema.(*ObjectSchema)
	file := object.Properties[0].Schema.Meta()
	console := object.Properties[1].Schema.Meta()

	if file.Title != "File" || file.Description == nil || *file.Description != "log level" {
		t.Fatalf("file meta = title %q description %v", file.Title, file.Description)
	}

	if console.Description == nil || *console.Description != "console level" {
		t.Fatalf("console description = %v, want override", console.Description)
	}

	if diff := cmp.Diff([]any{"DEBUG", "INFO", nil}, console.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSchemaMergesAllOf(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchema([]byte(`{
  "$defs": {
    "Base": {
      "type": "object",
      "description": "base",
      "properties": {"name": {"type": "string"}},
      "required": ["name"]
    }
  },
  "type": "object",
  "properties": {
    "target": {
      "allOf": [
        {"$ref": "#/$defs/Base"},
        {"properties": {"url": {"type": "string"}}, "required": ["url"], "description": "extended"}
      ]
    }
  }
}`))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}

	target, ok := schema.(*ObjectSchema).Properties[0].Schema.(*ObjectSchema)
	if !ok {
		t.Fatalf("target is %T, want *ObjectSchema", schema.(*ObjectSchema).Properties[0].Schema)
	}

	if diff := cmp.Diff([]string{"name", "url"}, propertyNames(target)); diff != "" {
		t.Fatalf("merged properties mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"name", "url"}, target.Required); diff != "" {
		t.Fatalf("merged required mismatch (-want +got):\n%s", diff)
	}

	if target.Description == nil || *target.Description != "extended" {
		t.Fatalf("description = %v, want entry override", target.Description)
	}
}

func TestParseSchemaUnionKeywordsAndTypeLists(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchema([]byte(`{
  "type": "object",
  "properties": {
    "any": {"anyOf": [{"type": "string"}, {"type": "null"}]},
    "one": {"oneOf": [{"type": "integer"}, {"type": "boolean"}, {"type": "null"}]},
    "tags": {"type": ["array", "null"], "items": {"type": "string"}},
    "name": {"type": ["string", "null"]}
  }
}`))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}

	properties := schema.(*ObjectSchema).Properties
	anyUnion, ok := properties[0].Schema.(*UnionSchema)
	if !ok || len(anyUnion.AnyOf) != 2 {
		t.Fatalf("any = %T, want union with 2 options", properties[0].Schema)
	}

	oneUnion, ok := properties[1].Schema.(*UnionSchema)
	if !ok || len(oneUnion.AnyOf) != 3 {
		t.Fatalf("one = %T, want union with 3 options", properties[1].Schema)
	}

	tags, ok := properties[2].Schema.(*ArraySchema)
	if !ok || tags.Type != "array | null" {
		t.Fatalf("tags = %T %q, want array labelled \"array | null\"", properties[2].Schema, properties[2].Schema.Meta().Type)
	}

	name, ok := properties[3].Schema.(*ScalarSchema)
	if !ok || name.Type != "string | null" {
		t.Fatalf("name = %T %q, want scalar labelled \"string | null\"", properties[3].Schema, properties[3].Schema.Meta().Type)
	}
}

func TestParseSchemaSharedReferenceIsNotCycle(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchema([]byte(`{
  "$defs": {"Port": {"type": "integer", "minimum": 1}},
  "type": "object",
  "properties": {
    "http": {"$ref": "#/$defs/Port"},
    "https": {"$ref": "#/$defs/Port"}
  }
}`))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}

	if len(schema.(*ObjectSchema).Properties) != 2 {
		t.Fatalf("unexpected properties: %+v", schema)
	}
}

func TestParseSchemaErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data string
		want error
		path string
	}{
		{
			name: "recursive reference",
			data: `{"$defs": {"Node": {"type": "object", "properties": {"next": {"$ref": "#/$defs/Node"}}}}, "$ref": "#/$defs/Node"}`,
			want: ErrReferenceCycle,
			path: "next",
		},
		{
			name: "missing reference target",
			data: `{"type": "object", "properties": {"a": {"$ref": "#/$defs/Missing"}}}`,
			want: ErrUnresolvedReference,
			path: "a",
		},
		{
			name: "remote reference",
			data: `{"type": "object", "properties": {"a": {"$ref": "https://example.com/schema.json"}}}`,
			want: ErrUnresolvedReference,
			path: "a",
		},
		{
			name: "object without properties",
			data: `{"type": "object", "properties": {"a": {"type": "object"}}}`,
			want: ErrMalformedSchema,
			path: "a",
		},
		{
			name: "array without items",
			data: `{"type": "object", "properties": {"list": {"type": "array"}}}`,
			want: ErrMalformedSchema,
			path: "list",
		},
		{
			name: "empty union",
			data: `{"type": "object", "properties": {"u": {"anyOf": []}}}`,
			want: ErrMalformedSchema,
			path: "u",
		},
		{
			name: "boolean schema",
			data: `{"type": "object", "properties": {"flag": true}}`,
			want: ErrMalformedSchema,
			path: "flag",
		},
		{
			name: "negative length",
			data: `{"type": "object", "properties": {"s": {"type": "string", "minLength": -1}}}`,
			want: ErrMalformedSchema,
			path: "s",
		},
		{
			name: "required without property",
			data: `{"type": "object", "properties": {"a": {"type": "string"}}, "required": ["b"]}`,
			want: ErrMalformedSchema,
			path: "",
		},
		{
			name: "nested item error path",
			data: `{"type": "object", "properties": {"list": {"type": "array", "items": {"type": "object"}}}}`,
			want: ErrMalformedSchema,
			path: "list.#",
		},
	}

	for _, tc := range cases {
		_, err := ParseSchema([]byte(tc.data))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: error = %v, want %v", tc.name, err, tc.want)
		}

		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("%s: error %T is not *SchemaError", tc.name, err)
		}

		if schemaErr.Path != tc.path {
			t.Fatalf("%s: error path = %q, want %q", tc.name, schemaErr.Path, tc.path)
		}
	}
}

func TestParseSchemaDecodeErrors(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		`{"type": "object"`,
		`{"type": "object"} {}`,
		"type: [object",
	}

	for _, input := range inputs {
		if _, err := ParseSchema([]byte(input)); !errors.Is(err, ErrDecodeSchema) {
			t.Fatalf("ParseSchema(%q) error = %v, want ErrDecodeSchema", input, err)
		}
	}
}

func TestParseSchemaFileFixture(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchemaFile(filepath.Join("testdata", "config.schema.json"))
	if err != nil {
		t.Fatalf("ParseSchemaFile: %v", err)
	}

	object := schema.(*ObjectSchema)
	want := []string{"general", "logging_verbosity", "helpers", "upload", "tags"}
	if diff := cmp.Diff(want, propertyNames(object)); diff != "" {
		t.Fatalf("fixture properties mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseSchemaFile(filepath.Join("testdata", "missing.json")); !errors.Is(err, ErrReadSchemaFile) {
		t.Fatalf("missing file error = %v, want ErrReadSchemaFile", err)
	}
}

func propertyNames(object *ObjectSchema) []string {
	names := make([]string, 0, len(object.Properties))
	for _, prop := range object.Properties {
		names = append(names, prop.Name)
	}

	return names
}
