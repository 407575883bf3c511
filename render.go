// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	// defaultTitle is used when caller does not provide custom title.
	defaultTitle = "configuration reference"
	// defaultTemplateName is used when caller does not provide template name.
	defaultTemplateName = "list"
	// defaultWrapWidth wraps plain description paragraphs at this width.
	defaultWrapWidth = 80
	// defaultListMarker is used when caller does not provide list marker style.
	defaultListMarker = "*"
)

const (
	templateListName = "list"
	templateHTMLName = "html"
)

// Options configures document rendering.
type Options struct {
	// Title is the document heading.
	Title string
	// SourcePath is shown as the schema origin; empty hides the marker.
	SourcePath string
	// Description is the page intro; RenderSchema fills it from the root schema when empty.
	Description string
	// TemplateName selects built-in template ("list" or "html").
	TemplateName string
	// TemplateText overrides built-in template with custom text/template source.
	TemplateText string
	// WrapWidth wraps description paragraphs; zero means default width.
	WrapWidth int
	// ListMarker is "*" or "-" for markdown list items.
	ListMarker string
	// DepthPolicy resolves styles for nodes deeper than the last style level.
	DepthPolicy DepthPolicy
	// ExampleMode enables embedded example payload when not empty.
	ExampleMode ExampleMode
	// ExampleFormat selects example encoding; empty means YAML.
	ExampleFormat ExampleFormat
}

// renderView is the root view model passed to document templates.
type renderView struct {
	Title         string
	SourceSchema  string
	Description   string
	DepthPolicy   string
	Nodes         []nodeView
	HasExample    bool
	Example       string
	ExampleFormat string
}

// nodeView is one document node prepared for templates.
type nodeView struct {
	Key         string
	Path        string
	TypeLabel   string
	Kind        string
	Required    bool
	UnionOption bool
	Depth       int
	Style       StyleLevel
	// Marker is the markdown list marker.
	Marker string
	// Indent prefixes the node list item; ContentIndent prefixes its body lines.
	Indent        string
	ContentIndent string
	Description   string
	Attributes    []attributeView
	Children      []nodeView
}

// attributeView is a single rendered label/value metadata item.
type attributeView struct {
	Name  string
	Value string
}

// RenderFile reads schema from file and renders documentation.
func RenderFile(path string, opt Options) (string, error) {
	schemaBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadSchemaFile, err)
	}

	if strings.TrimSpace(opt.SourcePath) == "" {
		opt.SourcePath = path
	}

	return Render(schemaBytes, opt)
}

// Render converts JSON or YAML schema bytes into a documentation page.
func Render(schemaBytes []byte, opt Options) (string, error) {
	schema, err := ParseSchema(schemaBytes)
	if err != nil {
		return "", err
	}

	return RenderSchema(schema, opt)
}

// RenderSchema builds the document tree for schema and renders it.
func RenderSchema(schema Schema, opt Options) (string, error) {
	nodes, err := BuildTree(schema)
	if err != nil {
		return "", err
	}

	if text := schema.Meta().Description; text != nil && strings.TrimSpace(opt.Description) == "" {
		opt.Description = *text
	}

	return renderDocument(nodes, opt)
}

// RenderTree renders an already built document forest.
func RenderTree(nodes []DocumentNode, opt Options) (string, error) {
	return renderDocument(nodes, opt)
}

// renderDocument executes selected template over the document view.
func renderDocument(nodes []DocumentNode, opt Options) (string, error) {
	view, err := buildRenderView(nodes, opt)
	if err != nil {
		return "", err
	}

	documentTemplate, err := resolveTemplate(opt)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := documentTemplate.Execute(&out, view); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecuteTemplate, err)
	}

	if rendersHTML(opt) {
		return ensureTrailingNewline(normalizeLineEndings(out.String())), nil
	}

	return ensureTrailingNewline(normalizeMarkdownOutput(out.String())), nil
}

// BuiltinTemplateNames returns all available built-in template names.
func BuiltinTemplateNames() []string {
	names := make([]string, 0, len(builtInTemplateFiles))
	for name := range builtInTemplateFiles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// BuiltinTemplate returns one built-in template by name.
func BuiltinTemplate(name string) (string, error) {
	name = normalizeTemplateName(name)
	path, ok := builtInTemplateFiles[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownBuiltinTemplate, name)
	}

	data, err := templateFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadBuiltinTemplate, err)
	}

	return string(data), nil
}
