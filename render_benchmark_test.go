// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"os"
	"path/filepath"
	"testing"
)

// BenchmarkParseSchema measures ordered decoding and $ref/allOf expansion cost.
func BenchmarkParseSchema(b *testing.B) {
	schemaBytes := readBenchmarkFile(b, filepath.Join("testdata", "config.schema.json"))

	b.ReportAllocs()
	b.SetBytes(int64(len(schemaBytes)))

	for b.Loop() {
		if _, err := ParseSchema(schemaBytes); err != nil {
			b.Fatalf("ParseSchema: %v", err)
		}
	}
}

// BenchmarkBuildTree measures document tree construction over a parsed schema.
func BenchmarkBuildTree(b *testing.B) {
	schemaBytes := readBenchmarkFile(b, filepath.Join("testdata", "config.schema.json"))
	schema, err := ParseSchema(schemaBytes)
	if err != nil {
		b.Fatalf("ParseSchema: %v", err)
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := BuildTree(schema); err != nil {
			b.Fatalf("BuildTree: %v", err)
		}
	}
}

// BenchmarkRenderListTemplate measures full in-memory render flow for list template.
func BenchmarkRenderListTemplate(b *testing.B) {
	benchmarkRenderTemplate(b, "list")
}

// BenchmarkRenderHTMLTemplate measures full in-memory render flow for html template.
func BenchmarkRenderHTMLTemplate(b *testing.B) {
	benchmarkRenderTemplate(b, "html")
}

// benchmarkRenderTemplate runs common in-memory benchmark for selected template.
func benchmarkRenderTemplate(b *testing.B, templateName string) {
	schemaBytes := readBenchmarkFile(b, filepath.Join("testdata", "config.schema.json"))
	options := Options{
		Title:        "configuration reference",
		SourcePath:   "config.schema.json",
		TemplateName: templateName,
		ExampleMode:  ExampleModeAll,
	}

	b.ReportAllocs()
	b.SetBytes(int64(len(schemaBytes)))

	for b.Loop() {
		if _, err := Render(schemaBytes, options); err != nil {
			b.Fatalf("Render: %v", err)
		}
	}
}

// readBenchmarkFile loads benchmark fixture bytes.
func readBenchmarkFile(b *testing.B, path string) []byte {
	b.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		b.Fatalf("read fixture %q: %v", path, err)
	}

	return data
}
