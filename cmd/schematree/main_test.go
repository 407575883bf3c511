// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

const fixtureSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string", "description": "Display name."},
    "port": {"type": "integer", "default": 8080},
    "tags": {"type": "array", "items": {"type": "string"}},
    "mode": {"anyOf": [{"type": "string", "enum": ["fast", "safe"]}, {"type": "null"}]}
  },
  "required": ["name"]
}`

func TestRunRenderWritesDocumentToStdout(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t, fixtureSchema)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", schemaPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	expected := []string{
		"# configuration reference\n",
		"Source schema: `" + schemaPath + "`\n",
		"* `name` (string) **required**\n",
		"* `port` (integer)\n  * default: `8080`\n",
		"  * `#` (string)\n",
		"  * `option 1` (string)\n",
	}
	for _, fragment := range expected {
		if !strings.Contains(stdout.String(), fragment) {
			t.Fatalf("missing %q in output: %s", fragment, stdout.String())
		}
	}

	if stderr.Len() != 0 {
		t.Fatalf("stderr should be empty without diagnostics, got: %s", stderr.String())
	}
}

func TestRunRenderFromStdin(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := runWithIO([]string{"render", "--title", "Stdin Doc"}, strings.NewReader(fixtureSchema), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "# Stdin Doc") {
		t.Fatalf("expected custom title in output: %s", stdout.String())
	}

	if strings.Contains(stdout.String(), "Source schema:") {
		t.Fatalf("stdin output should not include source schema marker: %s", stdout.String())
	}
}

func TestRunRenderBuildsTreeOnce(t *testing.T) {
	t.Parallel()

	schema := `{"type": "object", "description": "Service settings.", "properties": {"name": {"type": "string"}}}`
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := runWithIO([]string{"--verbose", "render"}, strings.NewReader(schema), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "\nService settings.\n") {
		t.Fatalf("missing root description in output: %s", stdout.String())
	}

	if count := strings.Count(stderr.String(), `msg="document tree built"`); count != 1 {
		t.Fatalf("tree built %d times, want 1: %s", count, stderr.String())
	}
}

func TestRunRenderWritesOutputFile(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t, fixtureSchema)
	outPath := filepath.Join(t.TempDir(), "config.html")
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "-t", "html", "-e", "required", "--example-format", "json", schemaPath, outPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if stdout.Len() != 0 {
		t.Fatalf("stdout should be empty when output path is provided, got: %s", stdout.String())
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read out file: %v", err)
	}

	for _, fragment := range []string{`data-key="name"`, `class="language-json"`, `&#34;name&#34;: &#34;&lt;string&gt;&#34;`} {
		if !strings.Contains(string(content), fragment) {
			t.Fatalf("missing %q in output file: %s", fragment, content)
		}
	}
}

func TestRunRenderWithTemplateFile(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t, fixtureSchema)
	customTemplatePath := filepath.Join(t.TempDir(), "custom.gotmpl")
	if err := os.WriteFile(customTemplatePath, []byte("# custom\n{{ range .Nodes }}- {{ .Key }}@{{ .Depth }}\n{{ end }}"), 0o600); err != nil {
		t.Fatalf("write custom template: %v", err)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "--template-file", customTemplatePath, schemaPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	want := "# custom\n- name@0\n- port@0\n- tags@0\n- mode@0\n"
	if diff := cmp.Diff(want, stdout.String()); diff != "" {
		t.Fatalf("custom template output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunTreeJSON(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t, fixtureSchema)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"tree", schemaPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	var nodes []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &nodes); err != nil {
		t.Fatalf("decode tree: %v\n%s", err, stdout.String())
	}

	if len(nodes) != 4 {
		t.Fatalf("tree nodes = %d, want 4", len(nodes))
	}

	if nodes[0]["required"] != true {
		t.Fatalf("name required = %v, want true", nodes[0]["required"])
	}

	if _, ok := nodes[0]["default"]; ok {
		t.Fatalf("required node has default: %v", nodes[0])
	}

	tags := nodes[2]
	if value, ok := tags["default"]; !ok || value != nil {
		t.Fatalf("optional tags default = %v (present %v), want null", value, ok)
	}

	item := tags["children"].([]any)[0].(map[string]any)
	if item["key"] != "#" || item["depth"] != float64(1) {
		t.Fatalf("array item = %v", item)
	}

	if _, ok := item["default"]; ok {
		t.Fatalf("array item has default: %v", item)
	}

	option := nodes[3]["children"].([]any)[0].(map[string]any)
	if option["unionOption"] != true || option["key"] != "option 1" {
		t.Fatalf("union option = %v", option)
	}
}

func TestRunTreeYAML(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t, fixtureSchema)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"tree", "--format", "yaml", schemaPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	var nodes []map[string]any
	if err := yaml.Unmarshal(stdout.Bytes(), &nodes); err != nil {
		t.Fatalf("decode yaml tree: %v\n%s", err, stdout.String())
	}

	if nodes[1]["key"] != "port" || nodes[1]["default"] != 8080 {
		t.Fatalf("port node = %v, want default 8080", nodes[1])
	}
}

func TestRunExample(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t, fixtureSchema)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"example", "-m", "all", "-o", "json", schemaPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	var got map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode example: %v\n%s", err, stdout.String())
	}

	want := map[string]any{
		"name": "<string>",
		"port": float64(8080),
		"tags": []any{"<string>"},
		"mode": "fast",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("example mismatch (-want +got):\n%s", diff)
	}
}

func TestRunTemplate(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"template", "-t", "html"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "{{ .Style.Background }}") {
		t.Fatalf("html template expected, got: %s", stdout.String())
	}
}

func TestRunVerboseLogsDiagnostics(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t, fixtureSchema)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"--verbose", "tree", schemaPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	for _, fragment := range []string{`level=debug msg="schema parsed"`, `level=debug msg="document tree built" max_depth=1 nodes=7`} {
		if !strings.Contains(stderr.String(), fragment) {
			t.Fatalf("missing %q in diagnostics: %s", fragment, stderr.String())
		}
	}
}

func TestRunWarnsOnDeepDocument(t *testing.T) {
	t.Parallel()

	schema := `{"type": "string"}`
	for range 8 {
		schema = `{"type": "object", "properties": {"next": ` + schema + `}}`
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := runWithIO([]string{"render"}, strings.NewReader(schema), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stderr.String(), "level=warning") {
		t.Fatalf("expected depth warning, got: %s", stderr.String())
	}

	stderr.Reset()
	code = runWithIO([]string{"render", "--depth-policy", "strict"}, strings.NewReader(schema), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("strict exit code = %d, want 1", code)
	}

	if !strings.Contains(stderr.String(), "unsupported depth") {
		t.Fatalf("expected unsupported depth error, got: %s", stderr.String())
	}
}

func TestRunExitCodes(t *testing.T) {
	t.Parallel()

	schemaPath := writeSchemaFixture(t, `{"type": "object", "properties": {"list": {"type": "array"}}}`)

	cases := []struct {
		name   string
		args   []string
		code   int
		stream string
		want   string
	}{
		{name: "help", args: []string{"--help"}, code: 0, stream: "stdout", want: "render"},
		{name: "unknown template", args: []string{"render", "--template", "table", schemaPath}, code: 2, stream: "stderr", want: "table"},
		{name: "malformed schema", args: []string{"render", schemaPath}, code: 1, stream: "stderr", want: "malformed schema at list: array node has no items schema"},
		{name: "missing file", args: []string{"tree", filepath.Join(t.TempDir(), "missing.json")}, code: 1, stream: "stderr", want: "read schema input"},
		{name: "version", args: []string{"version"}, code: 0, stream: "stdout", want: "version:  dev"},
	}

	for _, tc := range cases {
		var stdout bytes.Buffer
		var stderr bytes.Buffer
		code := run(tc.args, &stdout, &stderr)
		if code != tc.code {
			t.Fatalf("%s: exit code = %d, want %d (stderr: %s)", tc.name, code, tc.code, stderr.String())
		}

		output := stdout.String()
		if tc.stream == "stderr" {
			output = stderr.String()
		}

		if !strings.Contains(output, tc.want) {
			t.Fatalf("%s: %s does not contain %q: %s", tc.name, tc.stream, tc.want, output)
		}
	}
}

func writeSchemaFixture(t *testing.T, schema string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "schema.json")
	if err := os.WriteFile(path, []byte(schema), 0o600); err != nil {
		t.Fatalf("write schema fixture: %v", err)
	}

	return path
}
