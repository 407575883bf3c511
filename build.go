// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"fmt"
	"strconv"
)

const (
	// ArrayItemKey is the display key of the synthetic node describing array elements.
	ArrayItemKey = "#"
	// RootKey is the display key used when a non-object schema is built as a whole.
	RootKey = "root"
)

// DocumentNode is the rendered-tree counterpart of one schema node.
//
// Nodes own their children and never alias the schema they were built from.
type DocumentNode struct {
	Key         string  `json:"key" yaml:"key"`
	Depth       int     `json:"depth" yaml:"depth"`
	Kind        Kind    `json:"kind" yaml:"kind"`
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	// Required is decided by the parent object; false for roots, items and options.
	Required bool `json:"required" yaml:"required"`
	// UnionOption marks entries of a parent's anyOf list.
	UnionOption bool `json:"unionOption" yaml:"unionOption"`
	// Default is the effective default after null inference; nil means no default.
	Default *Literal `json:"default,omitempty" yaml:"default,omitempty"`

	Constraints `yaml:",inline"`

	Children []DocumentNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsArrayItem reports whether node describes elements of its parent array.
func (n DocumentNode) IsArrayItem() bool {
	return n.Key == ArrayItemKey
}

// Walk visits node and its descendants in pre-order until fn returns false.
func (n DocumentNode) Walk(fn func(node DocumentNode) bool) bool {
	if !fn(n) {
		return false
	}

	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}

	return true
}

// MaxDepth returns the deepest node depth in a forest, or -1 when empty.
func MaxDepth(nodes []DocumentNode) int {
	deepest := -1
	for _, root := range nodes {
		root.Walk(func(node DocumentNode) bool {
			deepest = max(deepest, node.Depth)
			return true
		})
	}

	return deepest
}

// treeBuilder tracks schema values on the current descent path.
type treeBuilder struct {
	active map[Schema]struct{}
}

func newTreeBuilder() *treeBuilder {
	return &treeBuilder{active: make(map[Schema]struct{})}
}

// BuildNode builds the document subtree for one schema node placed under key.
//
// required tells whether the parent mandates the key. Use BuildOption for
// nodes that sit in a parent's anyOf list.
func BuildNode(depth int, key string, schema Schema, required bool) (DocumentNode, error) {
	if depth < 0 {
		return DocumentNode{}, newSchemaError(key, ErrUnsupportedDepth, fmt.Sprintf("negative depth %d", depth))
	}

	return newTreeBuilder().build(depth, key, key, schema, required, false)
}

// BuildOption builds schema as an anyOf entry: never required and without
// an inferred null default.
func BuildOption(depth int, key string, schema Schema) (DocumentNode, error) {
	if depth < 0 {
		return DocumentNode{}, newSchemaError(key, ErrUnsupportedDepth, fmt.Sprintf("negative depth %d", depth))
	}

	return newTreeBuilder().build(depth, key, key, schema, false, true)
}

// BuildDocument builds every top-level property of root at depth 0.
func BuildDocument(root *ObjectSchema) ([]DocumentNode, error) {
	if err := root.validate(); err != nil {
		return nil, err
	}

	builder := newTreeBuilder()
	builder.active[root] = struct{}{}

	out := make([]DocumentNode, 0, len(root.Properties))
	for _, prop := range root.Properties {
		node, err := builder.build(0, prop.Name, prop.Name, prop.Schema, root.IsRequired(prop.Name), false)
		if err != nil {
			return nil, err
		}

		out = append(out, node)
	}

	return out, nil
}

// BuildTree builds a document forest for any schema: object roots expand to
// their top-level properties, other roots become one required node keyed RootKey.
func BuildTree(schema Schema) ([]DocumentNode, error) {
	if root, ok := schema.(*ObjectSchema); ok {
		return BuildDocument(root)
	}

	node, err := BuildNode(0, RootKey, schema, true)
	if err != nil {
		return nil, err
	}

	return []DocumentNode{node}, nil
}

// build renders one node and recurses by kind.
func (b *treeBuilder) build(depth int, path, key string, schema Schema, required, unionOption bool) (DocumentNode, error) {
	if isNilSchema(schema) {
		return DocumentNode{}, newSchemaError(path, ErrMalformedSchema, "missing schema")
	}

	if _, ok := b.active[schema]; ok {
		return DocumentNode{}, newSchemaError(path, ErrSchemaCycle, "schema contains itself")
	}

	if err := validateSchema(schema); err != nil {
		return DocumentNode{}, atPath(err, path)
	}

	b.active[schema] = struct{}{}
	defer delete(b.active, schema)

	meta := schema.Meta()
	node := DocumentNode{
		Key:         key,
		Depth:       depth,
		Kind:        schema.Kind(),
		Type:        meta.Type,
		Title:       meta.Title,
		Description: clonePointer(meta.Description),
		Required:    required,
		UnionOption: unionOption,
		Default:     effectiveDefault(meta.Default, required, unionOption || key == ArrayItemKey),
		Constraints: meta.Constraints.clone(),
	}

	switch typed := schema.(type) {
	case *ObjectSchema:
		node.Children = make([]DocumentNode, 0, len(typed.Properties))
		for _, prop := range typed.Properties {
			child, err := b.build(depth+1, appendPath(path, prop.Name), prop.Name, prop.Schema, typed.IsRequired(prop.Name), false)
			if err != nil {
				return DocumentNode{}, err
			}

			node.Children = append(node.Children, child)
		}
	case *ArraySchema:
		child, err := b.build(depth+1, appendPath(path, ArrayItemKey), ArrayItemKey, typed.Items, false, false)
		if err != nil {
			return DocumentNode{}, err
		}

		node.Children = []DocumentNode{child}
	case *UnionSchema:
		node.Children = make([]DocumentNode, 0, len(typed.AnyOf))
		for index, option := range typed.AnyOf {
			optionKey := unionOptionKey(index)
			child, err := b.build(depth+1, appendPath(path, optionKey), optionKey, option, false, true)
			if err != nil {
				return DocumentNode{}, err
			}

			node.Children = append(node.Children, child)
		}
	}

	return node, nil
}

// effectiveDefault applies null inference: optional keys without default render
// as defaulting to null. Positional nodes (items, options) keep what they declare.
func effectiveDefault(declared *Literal, required, positional bool) *Literal {
	if declared != nil {
		return cloneLiteral(declared)
	}

	if required || positional {
		return nil
	}

	return NullLiteral()
}

// unionOptionKey returns 1-based display key for union option index.
func unionOptionKey(index int) string {
	return "option " + strconv.Itoa(index+1)
}
