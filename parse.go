// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// unionKeywords are treated as ordered alternative lists, first match wins.
var unionKeywords = []string{"anyOf", "oneOf"}

// schemaConverter turns decoded documents into typed schema trees.
type schemaConverter struct {
	root       any
	activeRefs map[string]int
}

// ParseSchemaFile reads JSON or YAML schema from file and converts it.
func ParseSchemaFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSchemaFile, err)
	}

	return ParseSchema(data)
}

// ParseSchema decodes JSON or YAML schema bytes into a typed schema tree.
//
// Local $ref pointers are expanded in place, allOf entries are merged into
// their parent and $defs sections are dropped. Key order of "properties" is
// preserved as display order.
func ParseSchema(data []byte) (Schema, error) {
	raw, err := decodeOrdered(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	converter := schemaConverter{
		root:       raw,
		activeRefs: make(map[string]int),
	}

	return converter.convert(raw, "")
}

// convert expands one raw node and converts it with its subtree.
func (c *schemaConverter) convert(raw any, path string) (Schema, error) {
	object, release, err := c.expand(raw, path)
	if release != nil {
		defer release()
	}

	if err != nil {
		return nil, err
	}

	meta, err := schemaMetadata(object, path)
	if err != nil {
		return nil, err
	}

	options, hasUnion := unionOptions(object)
	switch InferKind(schemaTypeName(object), hasUnion) {
	case KindObject:
		return c.convertObject(object, meta, path)
	case KindArray:
		items, ok := object.get("items")
		if !ok {
			return nil, newSchemaError(path, ErrMalformedSchema, "array node has no items schema")
		}

		itemSchema, err := c.convert(items, appendPath(path, ArrayItemKey))
		if err != nil {
			return nil, err
		}

		node, err := NewArray(meta, itemSchema)
		if err != nil {
			return nil, atPath(err, path)
		}

		return node, nil
	case KindUnion:
		converted := make([]Schema, 0, len(options))
		for index, option := range options {
			schema, err := c.convert(option, appendPath(path, unionOptionKey(index)))
			if err != nil {
				return nil, err
			}

			converted = append(converted, schema)
		}

		node, err := NewUnion(meta, converted...)
		if err != nil {
			return nil, atPath(err, path)
		}

		return node, nil
	default:
		node, err := NewScalar(meta)
		if err != nil {
			return nil, atPath(err, path)
		}

		return node, nil
	}
}

// convertObject converts ordered properties and required list.
func (c *schemaConverter) convertObject(object *orderedObject, meta Metadata, path string) (Schema, error) {
	rawProperties := asObject(mustGet(object, "properties"))
	if rawProperties == nil {
		return nil, newSchemaError(path, ErrMalformedSchema, "object node has no properties")
	}

	properties := make([]Property, 0, len(rawProperties.keys))
	for _, name := range rawProperties.keys {
		schema, err := c.convert(rawProperties.values[name], appendPath(path, name))
		if err != nil {
			return nil, err
		}

		properties = append(properties, Property{Name: name, Schema: schema})
	}

	node, err := NewObject(meta, properties, asStringSlice(mustGet(object, "required"))...)
	if err != nil {
		return nil, atPath(err, path)
	}

	return node, nil
}

// expand resolves $ref chains and allOf merges at the top of one node.
//
// The returned release callback must run after the node subtree is converted,
// so recursive references are detected across the whole descent.
func (c *schemaConverter) expand(raw any, path string) (*orderedObject, func(), error) {
	object := asObject(raw)
	if object == nil {
		return nil, nil, newSchemaError(path, ErrMalformedSchema, fmt.Sprintf("schema must be an object, got %s", describeValue(raw)))
	}

	releases := make([]func(), 0, 2)
	releaseAll := func() {
		for index := len(releases) - 1; index >= 0; index-- {
			releases[index]()
		}
	}

	for object.has("$ref") {
		ref := strings.TrimSpace(asString(mustGet(object, "$ref")))
		release, err := c.enterReference(ref, path)
		if err != nil {
			releaseAll()
			return nil, nil, err
		}

		releases = append(releases, release)

		target, err := c.resolveLocalReference(ref, path)
		if err != nil {
			releaseAll()
			return nil, nil, err
		}

		object = mergeSchemaObjects(target, object)
	}

	if entries, ok := object.get("allOf"); ok {
		merged := object.without("allOf")
		for index, entry := range asSlice(entries) {
			entryObject, release, err := c.expand(entry, appendPath(path, "allOf["+strconv.Itoa(index)+"]"))
			if release != nil {
				releases = append(releases, release)
			}

			if err != nil {
				releaseAll()
				return nil, nil, err
			}

			merged = mergeAllOfEntry(merged, entryObject)
		}

		object = merged
	}

	return object, releaseAll, nil
}

// enterReference registers active local ref and returns release callback.
func (c *schemaConverter) enterReference(ref, path string) (func(), error) {
	if c.activeRefs[ref] > 0 {
		return nil, newSchemaError(path, ErrReferenceCycle, fmt.Sprintf("%q is already being expanded", ref))
	}

	c.activeRefs[ref]++
	return func() {
		c.activeRefs[ref]--
		if c.activeRefs[ref] <= 0 {
			delete(c.activeRefs, ref)
		}
	}, nil
}

// resolveLocalReference resolves local JSON pointer references against root schema.
func (c *schemaConverter) resolveLocalReference(ref, path string) (*orderedObject, error) {
	if ref == "" || !strings.HasPrefix(ref, "#") {
		return nil, newSchemaError(path, ErrUnresolvedReference, fmt.Sprintf("only local references are supported, got %q", ref))
	}

	raw, ok := resolveJSONPointer(c.root, ref)
	if !ok {
		return nil, newSchemaError(path, ErrUnresolvedReference, fmt.Sprintf("%q not found", ref))
	}

	target := asObject(raw)
	if target == nil {
		return nil, newSchemaError(path, ErrUnresolvedReference, fmt.Sprintf("%q does not point to a schema object", ref))
	}

	return target, nil
}

// resolveJSONPointer resolves JSON pointer token path from root document value.
func resolveJSONPointer(root any, ref string) (any, bool) {
	if ref == "#" {
		return root, true
	}

	if !strings.HasPrefix(ref, "#/") {
		return nil, false
	}

	current := root
	for token := range strings.SplitSeq(strings.TrimPrefix(ref, "#/"), "/") {
		token = decodeJSONPointerToken(token)

		switch typed := current.(type) {
		case *orderedObject:
			next, exists := typed.get(token)
			if !exists {
				return nil, false
			}

			current = next
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(typed) {
				return nil, false
			}

			current = typed[index]
		default:
			return nil, false
		}
	}

	return current, true
}

// decodeJSONPointerToken unescapes one JSON pointer token.
func decodeJSONPointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// mergeSchemaObjects merges resolved reference object with sibling keyword overrides.
func mergeSchemaObjects(base, overlay *orderedObject) *orderedObject {
	out := base.without()
	for _, key := range overlay.keys {
		if key == "$ref" {
			continue
		}

		out.set(key, overlay.values[key])
	}

	return out
}

// mergeAllOfEntry overlays one allOf entry: properties and required lists are
// unioned, other keywords from the entry replace the parent's.
func mergeAllOfEntry(parent, entry *orderedObject) *orderedObject {
	out := parent.without()
	for _, key := range entry.keys {
		value := entry.values[key]
		switch key {
		case "properties":
			out.set(key, mergePropertySchemas(asObject(mustGet(out, key)), asObject(value)))
		case "required":
			out.set(key, mergeRequiredKeys(asStringSlice(mustGet(out, key)), asStringSlice(value)))
		default:
			out.set(key, value)
		}
	}

	return out
}

// mergePropertySchemas merges property maps while preserving existing keys and order.
func mergePropertySchemas(left, right *orderedObject) *orderedObject {
	if left == nil {
		left = newOrderedObject(0)
	}

	out := left.without()
	if right == nil {
		return out
	}

	for _, key := range right.keys {
		if out.has(key) {
			continue
		}

		out.set(key, right.values[key])
	}

	return out
}

// mergeRequiredKeys appends unique required keys while preserving first-seen order.
func mergeRequiredKeys(left, right []string) []any {
	seen := make(map[string]struct{}, len(left)+len(right))
	out := make([]any, 0, len(left)+len(right))

	for _, key := range append(append([]string{}, left...), right...) {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, key)
	}

	return out
}

// unionOptions returns options of the first present union keyword.
func unionOptions(object *orderedObject) ([]any, bool) {
	for _, keyword := range unionKeywords {
		if value, ok := object.get(keyword); ok {
			return asSlice(value), true
		}
	}

	return nil, false
}

// schemaTypeName returns first non-null type value from schema "type" keyword.
func schemaTypeName(object *orderedObject) string {
	typeValue, exists := object.get("type")
	if !exists {
		return ""
	}

	if text := strings.ToLower(asString(typeValue)); text != "" {
		return text
	}

	for _, item := range asStringSlice(typeValue) {
		text := strings.ToLower(item)
		if text == "" || text == "null" {
			continue
		}

		return text
	}

	return ""
}

// typeLabel renders "type" keyword for display, joining type lists with " | ".
func typeLabel(value any) string {
	if text := asString(value); text != "" {
		return text
	}

	return strings.Join(asStringSlice(value), " | ")
}

// schemaMetadata extracts descriptive keywords from one expanded node.
func schemaMetadata(object *orderedObject, path string) (Metadata, error) {
	meta := Metadata{
		Type:  typeLabel(mustGet(object, "type")),
		Title: asString(mustGet(object, "title")),
	}

	if value, ok := object.get("description"); ok {
		text := asString(value)
		meta.Description = &text
	}

	if value, ok := object.get("default"); ok {
		meta.Default = &Literal{Value: plainValue(value)}
	}

	if value, ok := object.get("const"); ok {
		meta.Const = &Literal{Value: plainValue(value)}
	}

	if value, ok := object.get("examples"); ok {
		items, ok := plainValue(value).([]any)
		if !ok {
			return Metadata{}, newSchemaError(path, ErrMalformedSchema, "examples must be a list")
		}

		meta.Examples = items
	}

	if value, ok := object.get("enum"); ok {
		items, ok := plainValue(value).([]any)
		if !ok {
			return Metadata{}, newSchemaError(path, ErrMalformedSchema, "enum must be a list")
		}

		meta.Enum = items
	}

	if value, ok := object.get("pattern"); ok {
		text, ok := value.(string)
		if !ok {
			return Metadata{}, newSchemaError(path, ErrMalformedSchema, "pattern must be a string")
		}

		meta.Pattern = &text
	}

	intKeywords := []struct {
		name   string
		target **int
	}{
		{"minLength", &meta.MinLength},
		{"maxLength", &meta.MaxLength},
		{"minItems", &meta.MinItems},
		{"maxItems", &meta.MaxItems},
	}
	for _, keyword := range intKeywords {
		value, ok := object.get(keyword.name)
		if !ok {
			continue
		}

		number, err := integerKeyword(value)
		if err != nil {
			return Metadata{}, newSchemaError(path, ErrMalformedSchema, keyword.name+": "+err.Error())
		}

		*keyword.target = &number
	}

	numberKeywords := []struct {
		name   string
		target **json.Number
	}{
		{"minimum", &meta.Minimum},
		{"maximum", &meta.Maximum},
	}
	for _, keyword := range numberKeywords {
		value, ok := object.get(keyword.name)
		if !ok {
			continue
		}

		number, ok := value.(json.Number)
		if !ok {
			return Metadata{}, newSchemaError(path, ErrMalformedSchema, keyword.name+" must be a number")
		}

		*keyword.target = &number
	}

	return meta, nil
}

// integerKeyword converts non-negative integer keyword value.
func integerKeyword(value any) (int, error) {
	number, ok := value.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected integer, got %s", describeValue(value))
	}

	parsed, err := strconv.Atoi(number.String())
	if err != nil {
		floatValue, floatErr := number.Float64()
		if floatErr != nil || floatValue != float64(int(floatValue)) {
			return 0, fmt.Errorf("expected integer, got %s", number)
		}

		parsed = int(floatValue)
	}

	if parsed < 0 {
		return 0, fmt.Errorf("expected non-negative integer, got %d", parsed)
	}

	return parsed, nil
}

// mustGet returns keyword value or nil.
func mustGet(object *orderedObject, key string) any {
	value, _ := object.get(key)
	return value
}

// describeValue names JSON value kind for error details.
func describeValue(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []any:
		return "list"
	case *orderedObject:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
