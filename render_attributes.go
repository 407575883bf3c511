// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import "strings"

// nodeAttributes collects labeled metadata lines in fixed display order.
func nodeAttributes(node DocumentNode) []attributeView {
	out := make([]attributeView, 0, 4)
	add := func(name string, value any) {
		out = append(out, attributeView{Name: name, Value: displayJSON(value)})
	}

	if node.Examples != nil {
		add("examples", node.Examples)
	}

	if node.Default != nil && !node.IsArrayItem() && !node.UnionOption {
		add("default", node.Default)
	}

	if node.Const != nil {
		add("const", node.Const)
	}

	if node.Pattern != nil {
		add("regex pattern", *node.Pattern)
	}

	if node.MinLength != nil {
		add("min. length", *node.MinLength)
	}

	if node.MaxLength != nil {
		add("max. length", *node.MaxLength)
	}

	if node.Minimum != nil {
		add("min.", *node.Minimum)
	}

	if node.Maximum != nil {
		add("max.", *node.Maximum)
	}

	if node.MinItems != nil {
		add("min. items", *node.MinItems)
	}

	if node.MaxItems != nil {
		add("max. items", *node.MaxItems)
	}

	if node.Enum != nil {
		add("allowed values", node.Enum)
	}

	return out
}

// displayJSON encodes value as inline JSON with doubled backslashes collapsed,
// so regex patterns read as written in the schema.
func displayJSON(value any) string {
	return strings.ReplaceAll(mustJSONInline(value), `\\`, `\`)
}
