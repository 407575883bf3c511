// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	// ExampleModeAll builds example with all declared properties.
	ExampleModeAll ExampleMode = "all"
	// ExampleModeRequired builds example with required properties only.
	ExampleModeRequired ExampleMode = "required"
)

// ExampleMode configures example generation property coverage.
type ExampleMode string

const (
	// ExampleFormatJSON encodes example payload as JSON.
	ExampleFormatJSON ExampleFormat = "json"
	// ExampleFormatYAML encodes example payload as YAML.
	ExampleFormatYAML ExampleFormat = "yaml"
)

// ExampleFormat configures output format for generated example payload.
type ExampleFormat string

// exampleScalarPlaceholders provides fallback values for scalar schema types.
var exampleScalarPlaceholders = map[string]any{
	"string":  "<string>",
	"number":  0,
	"integer": 0,
	"boolean": false,
	"null":    nil,
}

// exampleBuilder converts document nodes into example values.
type exampleBuilder struct {
	mode ExampleMode
}

// GenerateExampleJSON returns example payload for a document forest encoded as pretty JSON.
func GenerateExampleJSON(nodes []DocumentNode, mode ExampleMode) ([]byte, error) {
	mode, err := normalizeExampleMode(mode)
	if err != nil {
		return nil, err
	}

	builder := exampleBuilder{mode: mode}
	data, err := marshalExampleJSON(builder.buildObject(nodes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleJSON, err)
	}

	return data, nil
}

// GenerateExampleYAML returns example payload for a document forest encoded as
// YAML with node descriptions attached as key comments.
func GenerateExampleYAML(nodes []DocumentNode, mode ExampleMode) ([]byte, error) {
	mode, err := normalizeExampleMode(mode)
	if err != nil {
		return nil, err
	}

	builder := exampleBuilder{mode: mode}
	rootNode, err := yamlNodeForValue(builder.buildObject(nodes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
	}

	annotateYAMLMapping(rootNode, nodes)

	data, err := marshalExampleYAMLNode(rootNode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
	}

	return data, nil
}

// GenerateExample returns example payload encoded in selected format.
func GenerateExample(nodes []DocumentNode, mode ExampleMode, format ExampleFormat) ([]byte, error) {
	format, err := normalizeExampleFormat(format)
	if err != nil {
		return nil, err
	}

	switch format {
	case ExampleFormatJSON:
		return GenerateExampleJSON(nodes, mode)
	case ExampleFormatYAML:
		return GenerateExampleYAML(nodes, mode)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownExampleFormat, format)
	}
}

// normalizeExampleMode validates and normalizes caller mode value.
func normalizeExampleMode(mode ExampleMode) (ExampleMode, error) {
	normalized := ExampleMode(strings.ToLower(strings.TrimSpace(string(mode))))
	switch normalized {
	case ExampleModeAll, ExampleModeRequired:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownExampleMode, mode)
	}
}

// normalizeExampleFormat validates and normalizes caller format value.
func normalizeExampleFormat(format ExampleFormat) (ExampleFormat, error) {
	normalized := ExampleFormat(strings.ToLower(strings.TrimSpace(string(format))))
	switch normalized {
	case ExampleFormatJSON, ExampleFormatYAML:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownExampleFormat, format)
	}
}

// buildObject materializes object members in display order; a forest is built
// as one object keyed by top-level node keys.
func (builder *exampleBuilder) buildObject(children []DocumentNode) *orderedObject {
	out := newOrderedObject(len(children))
	for _, child := range children {
		if builder.mode == ExampleModeRequired && !child.Required {
			continue
		}

		out.set(child.Key, builder.buildNode(child))
	}

	return out
}

// buildNode recursively builds example value for one document node.
func (builder *exampleBuilder) buildNode(node DocumentNode) any {
	if value, ok := explicitExampleValue(node); ok {
		return cloneJSONValue(value)
	}

	switch node.Kind {
	case KindObject:
		return builder.buildObject(node.Children)
	case KindArray:
		if len(node.Children) == 0 {
			return []any{}
		}

		return []any{builder.buildNode(node.Children[0])}
	case KindUnion:
		return builder.buildUnion(node)
	}

	if value, ok := enumExampleValue(node); ok {
		return cloneJSONValue(value)
	}

	if node.Default != nil {
		return nil
	}

	if value, ok := scalarPlaceholder(node.Type); ok {
		return value
	}

	return nil
}

// buildUnion prefers the first option that yields a non-null value.
func (builder *exampleBuilder) buildUnion(node DocumentNode) any {
	for _, option := range node.Children {
		if value := builder.buildNode(option); value != nil {
			return value
		}
	}

	return nil
}

// explicitExampleValue returns declared sample value: non-null default, first example, const.
func explicitExampleValue(node DocumentNode) (any, bool) {
	if node.Default != nil && node.Default.Value != nil {
		return node.Default.Value, true
	}

	if len(node.Examples) > 0 {
		return node.Examples[0], true
	}

	if node.Const != nil {
		return node.Const.Value, true
	}

	return nil, false
}

// enumExampleValue returns first non-null enum value as example when available.
func enumExampleValue(node DocumentNode) (any, bool) {
	for _, value := range node.Enum {
		if value != nil {
			return value, true
		}
	}

	return nil, false
}

// scalarPlaceholder returns fallback placeholder for first known type in label.
func scalarPlaceholder(label string) (any, bool) {
	for part := range strings.SplitSeq(label, "|") {
		value, ok := exampleScalarPlaceholders[strings.ToLower(strings.TrimSpace(part))]
		if ok && value != nil {
			return value, true
		}
	}

	return nil, false
}

// marshalExampleJSON serializes example payload as pretty JSON.
func marshalExampleJSON(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// marshalExampleYAMLNode serializes example payload as YAML.
func marshalExampleYAMLNode(node *yaml.Node) ([]byte, error) {
	document := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{node},
	}

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)

	if err := encoder.Encode(document); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// annotateYAMLMapping assigns node titles and descriptions as comments on mapping keys.
func annotateYAMLMapping(node *yaml.Node, children []DocumentNode) {
	if node.Kind != yaml.MappingNode {
		return
	}

	byKey := make(map[string]DocumentNode, len(children))
	for _, child := range children {
		byKey[child.Key] = child
	}

	for index := 0; index+1 < len(node.Content); index += 2 {
		keyNode := node.Content[index]
		valueNode := node.Content[index+1]

		child, ok := byKey[keyNode.Value]
		if !ok {
			continue
		}

		if comment := nodeComment(child); comment != "" {
			keyNode.HeadComment = comment
		}

		annotateYAMLValue(valueNode, child)
	}
}

// annotateYAMLValue descends into structured example values.
func annotateYAMLValue(node *yaml.Node, doc DocumentNode) {
	switch {
	case node.Kind == yaml.MappingNode && doc.Kind == KindObject:
		annotateYAMLMapping(node, doc.Children)
	case node.Kind == yaml.SequenceNode && doc.Kind == KindArray && len(doc.Children) > 0:
		for _, item := range node.Content {
			annotateYAMLValue(item, doc.Children[0])
		}
	case doc.Kind == KindUnion:
		for _, option := range doc.Children {
			if option.Kind == KindObject && node.Kind == yaml.MappingNode {
				annotateYAMLMapping(node, option.Children)
				return
			}
		}
	}
}

// nodeComment builds YAML key comment from node title and description.
func nodeComment(node DocumentNode) string {
	title := strings.TrimSpace(node.Title)
	description := ""
	if node.Description != nil {
		description = strings.TrimSpace(*node.Description)
	}

	switch {
	case title == "" && description == "":
		return ""
	case title == "":
		return normalizeYAMLComment(description)
	case description == "":
		return normalizeYAMLComment(title)
	default:
		if title == description {
			return normalizeYAMLComment(title)
		}

		return normalizeYAMLComment(title + "\n" + description)
	}
}

// normalizeYAMLComment drops blank lines from comment body.
func normalizeYAMLComment(comment string) string {
	lines := strings.Split(normalizeLineEndings(comment), "\n")
	normalized := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		normalized = append(normalized, strings.TrimRight(line, " \t"))
	}

	return strings.Join(normalized, "\n")
}

// yamlNodeForValue builds deterministic yaml.Node tree from JSON-like value.
func yamlNodeForValue(value any) (*yaml.Node, error) {
	switch typed := value.(type) {
	case nil:
		return yamlScalarNode("!!null", "null"), nil

	case bool:
		return yamlScalarNode("!!bool", strconv.FormatBool(typed)), nil

	case string:
		return yamlScalarNode("!!str", typed), nil

	case json.Number:
		if int64Value, err := typed.Int64(); err == nil {
			return yamlScalarNode("!!int", strconv.FormatInt(int64Value, 10)), nil
		}
		float64Value, err := typed.Float64()
		if err != nil {
			return nil, err
		}
		return yamlScalarNode("!!float", strconv.FormatFloat(float64Value, 'g', -1, 64)), nil

	case int:
		return yamlScalarNode("!!int", strconv.Itoa(typed)), nil

	case float64:
		return yamlScalarNode("!!float", strconv.FormatFloat(typed, 'g', -1, 64)), nil

	case *orderedObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range typed.keys {
			valueNode, err := yamlNodeForValue(typed.values[key])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, yamlScalarNode("!!str", key), valueNode)
		}
		return node, nil

	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range sortedKeys(typed) {
			valueNode, err := yamlNodeForValue(typed[key])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, yamlScalarNode("!!str", key), valueNode)
		}
		return node, nil

	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed {
			valueNode, err := yamlNodeForValue(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, valueNode)
		}
		return node, nil

	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return nil, err
		}
		normalized, err := decodeOrderedJSON(data)
		if err != nil {
			return nil, err
		}
		return yamlNodeForValue(normalized)
	}
}

// yamlScalarNode creates one scalar yaml.Node with explicit tag.
func yamlScalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   tag,
		Value: value,
	}
}

// sortedKeys returns deterministic sorted keys of a JSON object map.
func sortedKeys(values map[string]any) []string {
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}

	slices.Sort(out)
	return out
}
