// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

// templateFS stores built-in document templates embedded into the package.
//
//go:embed templates/*.gotmpl
var templateFS embed.FS

// builtInTemplateFiles maps template aliases to embedded file paths.
var builtInTemplateFiles = map[string]string{
	templateListName: "templates/list.md.gotmpl",
	templateHTMLName: "templates/html.gotmpl",
}

// resolveTemplate resolves either custom or built-in template text into a parsed template.
func resolveTemplate(opt Options) (*template.Template, error) {
	if text := strings.TrimSpace(opt.TemplateText); text != "" {
		parsed, err := template.New("custom").Funcs(templateFuncs()).Parse(opt.TemplateText)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrParseTemplate, "custom", err)
		}

		return parsed, nil
	}

	name := normalizeTemplateName(opt.TemplateName)
	if name == "" {
		name = defaultTemplateName
	}

	text, err := BuiltinTemplate(name)
	if err != nil {
		return nil, err
	}

	parsed, err := template.New(name).Funcs(templateFuncs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseTemplate, name, err)
	}

	return parsed, nil
}

// rendersHTML reports whether opt selects the built-in html template.
func rendersHTML(opt Options) bool {
	return strings.TrimSpace(opt.TemplateText) == "" && normalizeTemplateName(opt.TemplateName) == templateHTMLName
}

// normalizeTemplateName normalizes built-in template identifiers.
func normalizeTemplateName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// templateFuncs provides helper functions available inside document templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"code":   escapeInline,
		"indent": indentBlock,
	}
}
