// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"fmt"
	"strings"
)

// viewSettings carries normalized options through node view construction.
type viewSettings struct {
	wrapWidth  int
	listMarker string
	policy     DepthPolicy
}

// buildRenderView prepares data for document template rendering.
func buildRenderView(nodes []DocumentNode, opt Options) (renderView, error) {
	if len(nodes) == 0 {
		return renderView{}, ErrEmptyDocument
	}

	policy, err := normalizeDepthPolicy(opt.DepthPolicy)
	if err != nil {
		return renderView{}, err
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = defaultTitle
	}

	settings := viewSettings{
		wrapWidth:  normalizeWrapWidth(opt.WrapWidth),
		listMarker: normalizeListMarker(opt.ListMarker),
		policy:     policy,
	}

	view := renderView{
		Title:        sanitizeText(title),
		SourceSchema: strings.TrimSpace(opt.SourcePath),
		Description:  formatDescriptionMarkdown(opt.Description, settings.wrapWidth),
		DepthPolicy:  string(policy),
		Nodes:        make([]nodeView, 0, len(nodes)),
	}

	for _, node := range nodes {
		nodeView, err := buildNodeView(node, node.Key, 0, settings)
		if err != nil {
			return renderView{}, err
		}

		view.Nodes = append(view.Nodes, nodeView)
	}

	if strings.TrimSpace(string(opt.ExampleMode)) != "" {
		requested := opt.ExampleFormat
		if strings.TrimSpace(string(requested)) == "" {
			requested = ExampleFormatYAML
		}

		format, err := normalizeExampleFormat(requested)
		if err != nil {
			return renderView{}, err
		}

		example, err := GenerateExample(nodes, opt.ExampleMode, format)
		if err != nil {
			return renderView{}, err
		}

		view.HasExample = true
		view.Example = strings.TrimRight(string(example), "\n")
		view.ExampleFormat = string(format)
	}

	return view, nil
}

// buildNodeView converts one document node; level is nesting inside the rendered forest.
func buildNodeView(node DocumentNode, path string, level int, settings viewSettings) (nodeView, error) {
	style, err := StyleFor(node.Depth, settings.policy)
	if err != nil {
		return nodeView{}, fmt.Errorf("style %s: %w", displayPath(path), err)
	}

	description := ""
	if node.Description != nil {
		description = formatDescriptionMarkdown(*node.Description, settings.wrapWidth)
	}

	indent := strings.Repeat("  ", level)
	view := nodeView{
		Key:           node.Key,
		Path:          path,
		TypeLabel:     nodeTypeLabel(node),
		Kind:          string(node.Kind),
		Required:      node.Required,
		UnionOption:   node.UnionOption,
		Depth:         node.Depth,
		Style:         style,
		Marker:        settings.listMarker,
		Indent:        indent,
		ContentIndent: indent + "  ",
		Description:   description,
		Attributes:    nodeAttributes(node),
		Children:      make([]nodeView, 0, len(node.Children)),
	}

	for _, child := range node.Children {
		childView, err := buildNodeView(child, appendPath(path, child.Key), level+1, settings)
		if err != nil {
			return nodeView{}, err
		}

		view.Children = append(view.Children, childView)
	}

	return view, nil
}

// nodeTypeLabel returns declared type label or "union" when node has none.
func nodeTypeLabel(node DocumentNode) string {
	if label := strings.TrimSpace(node.Type); label != "" {
		return label
	}

	return "union"
}
