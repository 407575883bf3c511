// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
)

// Kind is the structural variant of one schema node.
type Kind string

const (
	// KindScalar is a leaf value (string, integer, number, boolean, null or untyped).
	KindScalar Kind = "scalar"
	// KindObject is a mapping of named properties.
	KindObject Kind = "object"
	// KindArray is a homogeneous list described by one item schema.
	KindArray Kind = "array"
	// KindUnion is an ordered list of alternative shapes.
	KindUnion Kind = "union"
)

const (
	typeObject = "object"
	typeArray  = "array"
)

// Schema is one node of a documented configuration format.
//
// The set of implementations is closed: *ScalarSchema, *ObjectSchema,
// *ArraySchema and *UnionSchema.
type Schema interface {
	// Kind reports node variant.
	Kind() Kind
	// Meta returns descriptive metadata shared by all variants.
	Meta() Metadata

	isSchema()
}

// Literal wraps a JSON value whose presence matters, so a nil *Literal means
// "absent" while a Literal with nil Value means explicit null.
type Literal struct {
	Value any
}

// MarshalJSON encodes wrapped value.
func (l Literal) MarshalJSON() ([]byte, error) {
	return marshalJSONRaw(l.Value)
}

// MarshalYAML encodes wrapped value.
func (l Literal) MarshalYAML() (any, error) {
	return l.Value, nil
}

// NullLiteral returns explicit null literal.
func NullLiteral() *Literal {
	return &Literal{}
}

// Constraints holds optional constraint keywords rendered next to a node.
type Constraints struct {
	Examples  []any        `json:"examples,omitempty" yaml:"examples,omitempty"`
	Pattern   *string      `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinLength *int         `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int         `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Minimum   *json.Number `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum   *json.Number `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	MinItems  *int         `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems  *int         `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	Enum      []any        `json:"enum,omitempty" yaml:"enum,omitempty"`
	Const     *Literal     `json:"const,omitempty" yaml:"const,omitempty"`
}

// Metadata holds descriptive fields common to every schema variant.
type Metadata struct {
	// Type is the primitive type label, e.g. "string" or "string | null".
	Type        string
	Title       string
	Description *string
	// Default is nil when the schema declares no default.
	Default *Literal
	Constraints
}

// ScalarSchema is a leaf node without children.
type ScalarSchema struct {
	Metadata
}

// Property is one named entry of an object schema.
type Property struct {
	Name   string
	Schema Schema
}

// ObjectSchema is a node with ordered named properties.
type ObjectSchema struct {
	Metadata
	// Properties are kept in display order.
	Properties []Property
	// Required lists property names that must be present; order is irrelevant.
	Required []string
}

// ArraySchema is a node whose elements share one item schema.
type ArraySchema struct {
	Metadata
	Items Schema
}

// UnionSchema is a node matching any of its ordered options.
type UnionSchema struct {
	Metadata
	AnyOf []Schema
}

func (*ScalarSchema) Kind() Kind { return KindScalar }
func (*ObjectSchema) Kind() Kind { return KindObject }
func (*ArraySchema) Kind() Kind  { return KindArray }
func (*UnionSchema) Kind() Kind  { return KindUnion }

func (s *ScalarSchema) Meta() Metadata { return s.Metadata }
func (s *ObjectSchema) Meta() Metadata { return s.Metadata }
func (s *ArraySchema) Meta() Metadata  { return s.Metadata }
func (s *UnionSchema) Meta() Metadata  { return s.Metadata }

func (*ScalarSchema) isSchema() {}
func (*ObjectSchema) isSchema() {}
func (*ArraySchema) isSchema()  {}
func (*UnionSchema) isSchema()  {}

// IsRequired reports whether property key is present in required list.
func (s *ObjectSchema) IsRequired(key string) bool {
	return slices.Contains(s.Required, key)
}

// InferKind derives node kind from the type tag and union presence.
//
// Object and array types win over anyOf; anything else is a scalar.
func InferKind(typeName string, hasAnyOf bool) Kind {
	switch strings.ToLower(strings.TrimSpace(typeName)) {
	case typeObject:
		return KindObject
	case typeArray:
		return KindArray
	}

	if hasAnyOf {
		return KindUnion
	}

	return KindScalar
}

// NewScalar builds a validated scalar node.
func NewScalar(meta Metadata) (*ScalarSchema, error) {
	node := &ScalarSchema{Metadata: meta}
	if err := node.validate(); err != nil {
		return nil, err
	}

	return node, nil
}

// NewObject builds a validated object node; missing type tag defaults to "object".
func NewObject(meta Metadata, properties []Property, required ...string) (*ObjectSchema, error) {
	if meta.Type == "" {
		meta.Type = typeObject
	}

	node := &ObjectSchema{
		Metadata:   meta,
		Properties: properties,
		Required:   required,
	}
	if err := node.validate(); err != nil {
		return nil, err
	}

	return node, nil
}

// NewArray builds a validated array node; missing type tag defaults to "array".
func NewArray(meta Metadata, items Schema) (*ArraySchema, error) {
	if meta.Type == "" {
		meta.Type = typeArray
	}

	node := &ArraySchema{Metadata: meta, Items: items}
	if err := node.validate(); err != nil {
		return nil, err
	}

	return node, nil
}

// NewUnion builds a validated union node.
func NewUnion(meta Metadata, options ...Schema) (*UnionSchema, error) {
	node := &UnionSchema{Metadata: meta, AnyOf: options}
	if err := node.validate(); err != nil {
		return nil, err
	}

	return node, nil
}

// validateSchema checks one node shallowly; children are checked when visited.
func validateSchema(schema Schema) error {
	switch typed := schema.(type) {
	case *ScalarSchema:
		return typed.validate()
	case *ObjectSchema:
		return typed.validate()
	case *ArraySchema:
		return typed.validate()
	case *UnionSchema:
		return typed.validate()
	default:
		return newSchemaError("", ErrMalformedSchema, fmt.Sprintf("unsupported schema variant %T", schema))
	}
}

func (s *ScalarSchema) validate() error {
	if s == nil {
		return newSchemaError("", ErrMalformedSchema, "missing scalar schema")
	}

	switch InferKind(s.Type, false) {
	case KindObject, KindArray:
		return newSchemaError("", ErrMalformedSchema, fmt.Sprintf("scalar node declares type %q", s.Type))
	}

	return nil
}

func (s *ObjectSchema) validate() error {
	if s == nil {
		return newSchemaError("", ErrMalformedSchema, "missing object schema")
	}

	if len(s.Properties) == 0 {
		return newSchemaError("", ErrMalformedSchema, "object node has no properties")
	}

	seen := make(map[string]struct{}, len(s.Properties))
	for _, prop := range s.Properties {
		if strings.TrimSpace(prop.Name) == "" {
			return newSchemaError("", ErrMalformedSchema, "object node has property with empty name")
		}

		if _, exists := seen[prop.Name]; exists {
			return newSchemaError("", ErrMalformedSchema, fmt.Sprintf("duplicate property %q", prop.Name))
		}

		if isNilSchema(prop.Schema) {
			return newSchemaError(prop.Name, ErrMalformedSchema, "property has no schema")
		}

		seen[prop.Name] = struct{}{}
	}

	for _, name := range s.Required {
		if _, ok := seen[name]; !ok {
			return newSchemaError("", ErrMalformedSchema, fmt.Sprintf("required property %q is not declared", name))
		}
	}

	return nil
}

func (s *ArraySchema) validate() error {
	if s == nil {
		return newSchemaError("", ErrMalformedSchema, "missing array schema")
	}

	if isNilSchema(s.Items) {
		return newSchemaError("", ErrMalformedSchema, "array node has no items schema")
	}

	return nil
}

func (s *UnionSchema) validate() error {
	if s == nil {
		return newSchemaError("", ErrMalformedSchema, "missing union schema")
	}

	if len(s.AnyOf) == 0 {
		return newSchemaError("", ErrMalformedSchema, "union node has no options")
	}

	for index, option := range s.AnyOf {
		if isNilSchema(option) {
			return newSchemaError(unionOptionKey(index), ErrMalformedSchema, "union option has no schema")
		}
	}

	return nil
}

// isNilSchema reports nil interfaces and typed nil pointers.
func isNilSchema(schema Schema) bool {
	switch typed := schema.(type) {
	case nil:
		return true
	case *ScalarSchema:
		return typed == nil
	case *ObjectSchema:
		return typed == nil
	case *ArraySchema:
		return typed == nil
	case *UnionSchema:
		return typed == nil
	default:
		return false
	}
}

// clone deep-copies constraint values so documents never alias schema input.
func (c Constraints) clone() Constraints {
	return Constraints{
		Examples:  cloneSlice(c.Examples),
		Pattern:   clonePointer(c.Pattern),
		MinLength: clonePointer(c.MinLength),
		MaxLength: clonePointer(c.MaxLength),
		Minimum:   clonePointer(c.Minimum),
		Maximum:   clonePointer(c.Maximum),
		MinItems:  clonePointer(c.MinItems),
		MaxItems:  clonePointer(c.MaxItems),
		Enum:      cloneSlice(c.Enum),
		Const:     cloneLiteral(c.Const),
	}
}

// cloneLiteral deep-copies literal wrapper and payload.
func cloneLiteral(value *Literal) *Literal {
	if value == nil {
		return nil
	}

	return &Literal{Value: cloneJSONValue(value.Value)}
}

func clonePointer[T any](value *T) *T {
	if value == nil {
		return nil
	}

	out := *value
	return &out
}

func cloneSlice(values []any) []any {
	if values == nil {
		return nil
	}

	return cloneJSONValue(values).([]any)
}

// cloneJSONValue deep-copies maps and slices of JSON-like values.
func cloneJSONValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = cloneJSONValue(item)
		}

		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, cloneJSONValue(item))
		}

		return out
	default:
		return typed
	}
}
