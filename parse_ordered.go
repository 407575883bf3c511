// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// orderedObject is a decoded JSON/YAML mapping that keeps key insertion order.
type orderedObject struct {
	keys   []string
	values map[string]any
}

func newOrderedObject(capacity int) *orderedObject {
	return &orderedObject{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

// set stores value; a repeated key keeps its first position and last value.
func (o *orderedObject) set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}

	o.values[key] = value
}

func (o *orderedObject) get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}

	value, ok := o.values[key]
	return value, ok
}

func (o *orderedObject) has(key string) bool {
	_, ok := o.get(key)
	return ok
}

// without returns shallow copy excluding listed keys.
func (o *orderedObject) without(skip ...string) *orderedObject {
	out := newOrderedObject(len(o.keys))
	for _, key := range o.keys {
		if slices.Contains(skip, key) {
			continue
		}

		out.set(key, o.values[key])
	}

	return out
}

// MarshalJSON encodes object members in insertion order.
func (o *orderedObject) MarshalJSON() ([]byte, error) {
	var out bytes.Buffer
	out.WriteByte('{')
	for index, key := range o.keys {
		if index > 0 {
			out.WriteByte(',')
		}

		keyData, err := marshalJSONRaw(key)
		if err != nil {
			return nil, err
		}

		valueData, err := marshalJSONRaw(o.values[key])
		if err != nil {
			return nil, err
		}

		out.Write(keyData)
		out.WriteByte(':')
		out.Write(valueData)
	}

	out.WriteByte('}')
	return out.Bytes(), nil
}

// marshalJSONRaw encodes value as compact JSON without HTML escaping.
func marshalJSONRaw(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return bytes.TrimRight(out.Bytes(), "\n"), nil
}

// decodeOrdered decodes JSON or YAML bytes into ordered JSON-like values.
func decodeOrdered(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty input")
	}

	if trimmed[0] != '{' && trimmed[0] != '[' {
		return decodeOrderedYAML(trimmed)
	}

	value, jsonErr := decodeOrderedJSON(trimmed)
	if jsonErr == nil {
		return value, nil
	}

	// Flow-style YAML also starts with a bracket.
	value, err := decodeOrderedYAML(trimmed)
	if err != nil {
		return nil, jsonErr
	}

	return value, nil
}

// decodeOrderedJSON walks go-json token stream to keep object key order.
func decodeOrderedJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := readJSONValue(decoder)
	if err != nil {
		return nil, err
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	return value, nil
}

// readJSONValue reads one complete value from token stream.
func readJSONValue(decoder *json.Decoder) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := token.(json.Delim)
	if !ok {
		return token, nil
	}

	switch delim {
	case '{':
		object := newOrderedObject(8)
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return nil, err
			}

			key, ok := keyToken.(string)
			if !ok {
				return nil, fmt.Errorf("object key must be string, got %T", keyToken)
			}

			value, err := readJSONValue(decoder)
			if err != nil {
				return nil, err
			}

			object.set(key, value)
		}

		if _, err := decoder.Token(); err != nil {
			return nil, err
		}

		return object, nil
	case '[':
		items := make([]any, 0)
		for decoder.More() {
			value, err := readJSONValue(decoder)
			if err != nil {
				return nil, err
			}

			items = append(items, value)
		}

		if _, err := decoder.Token(); err != nil {
			return nil, err
		}

		return items, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

// decodeOrderedYAML converts yaml.Node tree into ordered JSON-like values.
func decodeOrderedYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	if len(root.Content) == 0 {
		return nil, errors.New("empty yaml document")
	}

	return yamlNodeValue(root.Content[0])
}

// yamlNodeValue converts one YAML node; numbers become json.Number.
func yamlNodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return yamlNodeValue(node.Content[0])
	case yaml.AliasNode:
		return yamlNodeValue(node.Alias)
	case yaml.MappingNode:
		return yamlMappingValue(node)
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := yamlNodeValue(child)
			if err != nil {
				return nil, err
			}

			items = append(items, value)
		}

		return items, nil
	case yaml.ScalarNode:
		return yamlScalarValue(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", node.Line, node.Kind)
	}
}

// yamlMappingValue converts a mapping and expands "<<" merge keys in place.
// Keys set by the mapping itself win over merged ones; among merged
// mappings the first one listed wins.
func yamlMappingValue(node *yaml.Node) (any, error) {
	own := make(map[string]struct{}, len(node.Content)/2)
	for index := 0; index+1 < len(node.Content); index += 2 {
		keyNode := node.Content[index]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping key must be scalar", keyNode.Line)
		}

		if !isYAMLMergeKey(keyNode) {
			own[keyNode.Value] = struct{}{}
		}
	}

	object := newOrderedObject(len(node.Content) / 2)
	for index := 0; index+1 < len(node.Content); index += 2 {
		keyNode := node.Content[index]
		if isYAMLMergeKey(keyNode) {
			if err := mergeYAMLValue(object, own, node.Content[index+1]); err != nil {
				return nil, err
			}

			continue
		}

		value, err := yamlNodeValue(node.Content[index+1])
		if err != nil {
			return nil, err
		}

		object.set(keyNode.Value, value)
	}

	return object, nil
}

func isYAMLMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!merge"
}

// mergeYAMLValue copies keys of a mapping, or of each mapping in a sequence,
// that are neither set by the owner nor merged earlier.
func mergeYAMLValue(object *orderedObject, own map[string]struct{}, source *yaml.Node) error {
	sources := []*yaml.Node{source}
	if resolved := resolveYAMLAlias(source); resolved.Kind == yaml.SequenceNode {
		sources = resolved.Content
	}

	for _, item := range sources {
		if resolveYAMLAlias(item).Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings", item.Line)
		}

		value, err := yamlNodeValue(item)
		if err != nil {
			return err
		}

		merged := value.(*orderedObject)
		for _, key := range merged.keys {
			if _, ok := own[key]; ok || object.has(key) {
				continue
			}

			object.set(key, merged.values[key])
		}
	}

	return nil
}

func resolveYAMLAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	return node
}

// yamlScalarValue resolves scalar by its YAML tag.
func yamlScalarValue(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var value bool
		if err := node.Decode(&value); err != nil {
			return nil, err
		}

		return value, nil
	case "!!int":
		var value int64
		if err := node.Decode(&value); err != nil {
			return nil, err
		}

		return json.Number(strconv.FormatInt(value, 10)), nil
	case "!!float":
		var value float64
		if err := node.Decode(&value); err != nil {
			return nil, err
		}

		if math.IsInf(value, 0) || math.IsNaN(value) {
			return nil, fmt.Errorf("line %d: non-finite number %q", node.Line, node.Value)
		}

		return json.Number(strconv.FormatFloat(value, 'g', -1, 64)), nil
	default:
		return node.Value, nil
	}
}

// plainValue converts ordered objects into maps for literal payloads.
func plainValue(value any) any {
	switch typed := value.(type) {
	case *orderedObject:
		out := make(map[string]any, len(typed.keys))
		for _, key := range typed.keys {
			out[key] = plainValue(typed.values[key])
		}

		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, plainValue(item))
		}

		return out
	default:
		return typed
	}
}

// asObject returns ordered object value or nil.
func asObject(value any) *orderedObject {
	object, _ := value.(*orderedObject)
	return object
}

// asString returns string value or empty string.
func asString(value any) string {
	text, _ := value.(string)
	return text
}

// asSlice returns list value or nil.
func asSlice(value any) []any {
	items, _ := value.([]any)
	return items
}

// asStringSlice returns string members of list value.
func asStringSlice(value any) []string {
	items := asSlice(value)
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := item.(string); ok {
			out = append(out, text)
		}
	}

	return out
}
