// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"errors"
	"strings"
)

var (
	// ErrMalformedSchema is returned when a schema node violates the kind/field invariant.
	ErrMalformedSchema = errors.New("malformed schema")
	// ErrUnsupportedDepth is returned when a depth is negative or beyond styled levels under strict policy.
	ErrUnsupportedDepth = errors.New("unsupported depth")
	// ErrSchemaCycle is returned when a schema value contains itself on one descent path.
	ErrSchemaCycle = errors.New("schema cycle")
	// ErrUnknownDepthPolicy is returned when requested depth policy is not registered.
	ErrUnknownDepthPolicy = errors.New("unknown depth policy")
	// ErrReadSchemaFile is returned when schema file loading fails.
	ErrReadSchemaFile = errors.New("read schema file")
	// ErrDecodeSchema is returned when schema JSON or YAML decoding fails.
	ErrDecodeSchema = errors.New("decode schema")
	// ErrUnresolvedReference is returned when a $ref target cannot be found.
	ErrUnresolvedReference = errors.New("unresolved reference")
	// ErrReferenceCycle is returned when $ref expansion re-enters an active reference.
	ErrReferenceCycle = errors.New("reference cycle")
	// ErrEmptyDocument is returned when there are no nodes to render.
	ErrEmptyDocument = errors.New("document has no nodes to render")
	// ErrExecuteTemplate is returned when document template execution fails.
	ErrExecuteTemplate = errors.New("execute document template")
	// ErrUnknownBuiltinTemplate is returned when requested built-in template name is not registered.
	ErrUnknownBuiltinTemplate = errors.New("unknown built-in template")
	// ErrReadBuiltinTemplate is returned when built-in template file loading fails.
	ErrReadBuiltinTemplate = errors.New("read built-in template")
	// ErrParseTemplate is returned when built-in or custom template parsing fails.
	ErrParseTemplate = errors.New("parse document template")
	// ErrUnknownExampleMode is returned when example generation mode is not supported.
	ErrUnknownExampleMode = errors.New("unknown example mode")
	// ErrUnknownExampleFormat is returned when example generation format is not supported.
	ErrUnknownExampleFormat = errors.New("unknown example format")
	// ErrEncodeExampleJSON is returned when generated example JSON encoding fails.
	ErrEncodeExampleJSON = errors.New("encode example json")
	// ErrEncodeExampleYAML is returned when generated example YAML encoding fails.
	ErrEncodeExampleYAML = errors.New("encode example yaml")
)

// SchemaError locates a schema failure at the node where it was detected.
type SchemaError struct {
	// Path is the dot-joined key path from the document root; empty for the root itself.
	Path string
	// Detail describes the violated rule.
	Detail string
	// Err is one of the package sentinel errors.
	Err error
}

// Error implements error.
func (e *SchemaError) Error() string {
	var out strings.Builder
	out.WriteString(e.Err.Error())
	out.WriteString(" at ")
	out.WriteString(displayPath(e.Path))
	if e.Detail != "" {
		out.WriteString(": ")
		out.WriteString(e.Detail)
	}

	return out.String()
}

// Unwrap exposes sentinel error for errors.Is checks.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// newSchemaError builds located schema error.
func newSchemaError(path string, err error, detail string) *SchemaError {
	return &SchemaError{Path: path, Detail: detail, Err: err}
}

// atPath fills missing location of constructor errors with caller path.
func atPath(err error, path string) error {
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		return err
	}

	located := *schemaErr
	located.Path = appendPath(path, schemaErr.Path)
	return &located
}

// displayPath renders empty root path as explicit marker.
func displayPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "(root)"
	}

	return path
}

// appendPath joins path segments with a dot while preserving empty root prefix.
func appendPath(base, segment string) string {
	base = strings.TrimSpace(base)
	segment = strings.TrimSpace(segment)
	if base == "" {
		return segment
	}

	if segment == "" {
		return base
	}

	return base + "." + segment
}
