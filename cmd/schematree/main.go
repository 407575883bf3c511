// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

// schematree renders depth-annotated documentation trees from JSON Schema.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/schematree"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/schematree"
	_buildTime string
)

// cliOptions describes schematree CLI flags and subcommands.
type cliOptions struct {
	Verbose bool `short:"v" long:"verbose" description:"Enable debug diagnostics on stderr"`

	Version  versionCommand  `command:"version" description:"Print version information"`
	Render   renderCommand   `command:"render" description:"Render schema documentation page"`
	Tree     treeCommand     `command:"tree" description:"Dump built document tree"`
	Example  exampleCommand  `command:"example" description:"Generate example configuration payload"`
	Template templateCommand `command:"template" description:"Print built-in document template"`
}

// ioArgs groups input and output positional arguments.
type ioArgs struct {
	Input  string `positional-arg-name:"input" description:"Input schema file path (optional; stdin when omitted)"`
	Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
}

// documentRenderFlags groups document rendering flags.
type documentRenderFlags struct {
	TemplateName string `short:"t" long:"template" description:"Built-in template style" choice:"list" choice:"html" default:"list"`
	TemplatePath string `short:"f" long:"template-file" description:"Path to custom document template (.gotmpl)"`
	Title        string `short:"T" long:"title" description:"Document title" default:"configuration reference"`
	ListMarker   string `short:"l" long:"list-marker" description:"Unordered list marker" choice:"-" choice:"*" default:"*"`
	WrapWidth    int    `short:"w" long:"wrap" description:"Wrap width for plain text descriptions" default:"80"`
	DepthPolicy  string `short:"d" long:"depth-policy" description:"Style lookup for nodes deeper than the last level" choice:"clamp" choice:"cycle" choice:"strict" default:"clamp"`
}

// exampleFlags groups example payload flags.
type exampleFlags struct {
	Mode   string `short:"m" long:"mode" description:"Properties included in example" choice:"all" choice:"required" default:"all"`
	Format string `short:"o" long:"format" description:"Example encoding" choice:"yaml" choice:"json" default:"yaml"`
}

// renderCommand converts schema to documentation page.
type renderCommand struct {
	runner *cliRunner

	Args        ioArgs              `positional-args:"yes"`
	RenderFlags documentRenderFlags `group:"Document Render"`
	ExampleMode string              `short:"e" long:"example" description:"Append example payload with selected coverage" choice:"all" choice:"required"`
	ExampleFmt  string              `long:"example-format" description:"Embedded example encoding" choice:"yaml" choice:"json" default:"yaml"`
}

// Execute runs render subcommand.
func (command *renderCommand) Execute(_ []string) error {
	return command.runner.runRender(command.RenderFlags, command.ExampleMode, command.ExampleFmt, command.Args)
}

// treeCommand dumps document tree as structured data.
type treeCommand struct {
	runner *cliRunner

	Args   ioArgs `positional-args:"yes"`
	Format string `short:"o" long:"format" description:"Tree encoding" choice:"json" choice:"yaml" default:"json"`
}

// Execute runs tree subcommand.
func (command *treeCommand) Execute(_ []string) error {
	return command.runner.runTree(command.Format, command.Args)
}

// exampleCommand generates example payload from schema.
type exampleCommand struct {
	runner *cliRunner

	Args         ioArgs       `positional-args:"yes"`
	ExampleFlags exampleFlags `group:"Example"`
}

// Execute runs example subcommand.
func (command *exampleCommand) Execute(_ []string) error {
	return command.runner.runExample(command.ExampleFlags, command.Args)
}

// templateCommand exports built-in document template.
type templateCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output template file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	TemplateName string `short:"t" long:"template" description:"Built-in template style" choice:"list" choice:"html" default:"list"`
}

// Execute runs template subcommand.
func (command *templateCommand) Execute(_ []string) error {
	return command.runner.runTemplate(command.TemplateName, command.Args.Output)
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	return command.runner.printVersionInfo()
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	logger      *logrus.Logger
	programName string
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "schematree"
	}

	runner := cliRunner{
		programName: filepath.Base(programName),
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
		logger:      newLogger(stderr),
	}

	return runner.run(args)
}

// newLogger builds diagnostics logger writing plain text lines to output.
func newLogger(output io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(output)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	logger.SetLevel(logrus.InfoLevel)

	return logger
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// runRender renders documentation page and writes result to stdout or file.
func (runner *cliRunner) runRender(renderFlags documentRenderFlags, exampleMode, exampleFormat string, args ioArgs) error {
	schema, sourcePath, err := runner.loadSchema(args.Input)
	if err != nil {
		return err
	}

	nodes, err := runner.buildTree(schema)
	if err != nil {
		return fmt.Errorf("build document tree: %w", err)
	}

	renderOptions := schematree.Options{
		Title:         renderFlags.Title,
		SourcePath:    sourcePath,
		Description:   schemaDescription(schema),
		TemplateName:  renderFlags.TemplateName,
		WrapWidth:     renderFlags.WrapWidth,
		ListMarker:    renderFlags.ListMarker,
		DepthPolicy:   schematree.DepthPolicy(renderFlags.DepthPolicy),
		ExampleMode:   schematree.ExampleMode(exampleMode),
		ExampleFormat: schematree.ExampleFormat(exampleFormat),
	}

	if renderFlags.TemplatePath != "" {
		customTemplate, err := os.ReadFile(renderFlags.TemplatePath)
		if err != nil {
			return fmt.Errorf("read template file %q: %w", renderFlags.TemplatePath, err)
		}

		runner.logger.WithField("path", renderFlags.TemplatePath).Debug("using custom template")
		renderOptions.TemplateText = string(customTemplate)
	}

	rendered, err := schematree.RenderTree(nodes, renderOptions)
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}

	return runner.writeOutput(args.Output, []byte(rendered), "document")
}

// schemaDescription returns root schema description used as page intro.
func schemaDescription(schema schematree.Schema) string {
	if text := schema.Meta().Description; text != nil {
		return *text
	}

	return ""
}

// runTree writes built document tree as JSON or YAML.
func (runner *cliRunner) runTree(format string, args ioArgs) error {
	schema, _, err := runner.loadSchema(args.Input)
	if err != nil {
		return err
	}

	nodes, err := runner.buildTree(schema)
	if err != nil {
		return fmt.Errorf("build document tree: %w", err)
	}

	data, err := encodeTree(nodes, format)
	if err != nil {
		return fmt.Errorf("encode document tree: %w", err)
	}

	return runner.writeOutput(args.Output, data, "tree")
}

// runExample writes example payload generated from document tree.
func (runner *cliRunner) runExample(options exampleFlags, args ioArgs) error {
	schema, _, err := runner.loadSchema(args.Input)
	if err != nil {
		return err
	}

	nodes, err := runner.buildTree(schema)
	if err != nil {
		return fmt.Errorf("build document tree: %w", err)
	}

	data, err := schematree.GenerateExample(nodes, schematree.ExampleMode(options.Mode), schematree.ExampleFormat(options.Format))
	if err != nil {
		return fmt.Errorf("generate example: %w", err)
	}

	return runner.writeOutput(args.Output, data, "example")
}

// runTemplate writes selected built-in template to stdout or file.
func (runner *cliRunner) runTemplate(templateName, outputPath string) error {
	tpl, err := schematree.BuiltinTemplate(templateName)
	if err != nil {
		return fmt.Errorf("load built-in template %q: %w", templateName, err)
	}

	return runner.writeOutput(outputPath, []byte(tpl), "template")
}

// loadSchema reads and parses schema from file path or stdin.
func (runner *cliRunner) loadSchema(path string) (schematree.Schema, string, error) {
	data, sourcePath, err := runner.readSchemaInput(path)
	if err != nil {
		return nil, "", fmt.Errorf("read schema input: %w", err)
	}

	sourceLabel := sourcePath
	if sourceLabel == "" {
		sourceLabel = "(stdin)"
	}

	schema, err := schematree.ParseSchema(data)
	if err != nil {
		return nil, "", fmt.Errorf("parse schema %s: %w", sourceLabel, err)
	}

	runner.logger.WithFields(logrus.Fields{
		"source": sourceLabel,
		"kind":   schema.Kind(),
	}).Debug("schema parsed")

	return schema, sourcePath, nil
}

// buildTree builds document forest and reports depth diagnostics.
func (runner *cliRunner) buildTree(schema schematree.Schema) ([]schematree.DocumentNode, error) {
	nodes, err := schematree.BuildTree(schema)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, node := range nodes {
		node.Walk(func(schematree.DocumentNode) bool {
			count++
			return true
		})
	}

	maxDepth := schematree.MaxDepth(nodes)
	runner.logger.WithFields(logrus.Fields{
		"nodes":     count,
		"max_depth": maxDepth,
	}).Debug("document tree built")

	if lastLevel := schematree.StyleLevelCount - 1; maxDepth > lastLevel {
		runner.logger.WithFields(logrus.Fields{
			"max_depth":  maxDepth,
			"last_level": lastLevel,
		}).Warn("document is deeper than styled levels; depth policy applies")
	}

	return nodes, nil
}

// readSchemaInput reads schema from file path or stdin; source path is empty for stdin.
func (runner *cliRunner) readSchemaInput(path string) ([]byte, string, error) {
	path = strings.TrimSpace(path)
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read schema file %q: %w", path, err)
		}

		return data, path, nil
	}

	data, err := io.ReadAll(runner.stdin)
	if err != nil {
		return nil, "", fmt.Errorf("read schema from stdin: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, "", errors.New("read schema from stdin: empty input")
	}

	return data, "", nil
}

// writeOutput writes data to stdout or file.
func (runner *cliRunner) writeOutput(path string, data []byte, what string) error {
	if strings.TrimSpace(path) == "" {
		if _, err := runner.stdout.Write(data); err != nil {
			return fmt.Errorf("write %s to stdout: %w", what, err)
		}

		return nil
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s file %q: %w", what, path, err)
	}

	runner.logger.WithField("path", path).Debugf("%s written", what)
	return nil
}

// encodeTree serializes document forest in selected format.
func encodeTree(nodes []schematree.DocumentNode, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml":
		return yaml.Marshal(nodes)
	case "", "json":
		data, err := json.MarshalIndent(nodes, "", "  ")
		if err != nil {
			return nil, err
		}

		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown tree format %q", format)
	}
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Version.runner = runner
	options.Render.runner = runner
	options.Tree.runner = runner
	options.Example.runner = runner
	options.Template.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if options.Verbose {
			runner.logger.SetLevel(logrus.DebugLevel)
		}

		if command == nil {
			return nil
		}

		return command.Execute(args)
	}
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	return err
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"render": strings.TrimSpace(fmt.Sprintf(`
Render schema documentation as nested markdown list or depth-styled HTML.
Reads schema (JSON or YAML) from file argument or stdin; writes to file argument or stdout.

Examples:
> $ %s render config.schema.json > config.md
> $ cat config.schema.json | %s render -t html -e required > config.html
`, programName, programName)),
		"tree": strings.TrimSpace(fmt.Sprintf(`
Dump the document tree with depth, required, union option and effective default per node.

Examples:
> $ %s tree config.schema.json
> $ %s tree -o yaml config.schema.yaml tree.yaml
`, programName, programName)),
		"example": strings.TrimSpace(fmt.Sprintf(`
Generate example configuration from defaults, examples and type placeholders.

Examples:
> $ %s example config.schema.json > config.yaml
> $ %s example -m required -o json config.schema.json
`, programName, programName)),
		"template": strings.TrimSpace(fmt.Sprintf(`
Print built-in template text (`+"`list` or `html`"+`).
Use it as a starting point for a custom template file.

Examples:
> $ %s template > list.gotmpl
> $ %s template -t html templates/html.gotmpl
`, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

// printVersionInfo writes build metadata to stdout stream.
func (runner *cliRunner) printVersionInfo() error {
	_, err := fmt.Fprintf(runner.stdout, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, os.Args[0], Version, Commit, BuildTime)

	return err
}
