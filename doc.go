// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

/*
Package schematree builds depth-annotated document trees from configuration
schemas and renders them as documentation.

A schema is a closed tagged union of *ScalarSchema, *ObjectSchema,
*ArraySchema and *UnionSchema nodes. It can be constructed directly with the
New* constructors or parsed from JSON Schema text (JSON or YAML) with local
$ref and allOf resolution. Building walks the schema once and produces a tree
of DocumentNode values that carry depth, required and union option flags and
the effective default: a property that is neither required nor declares a
default documents an explicit null default. Array items ("#") and union
options ("option N") never receive that substitution.

Build a tree from a parsed schema:

	schema, err := schematree.ParseSchemaFile("config.schema.json")
	if err != nil {
		return err
	}

	nodes, err := schematree.BuildTree(schema)
	if err != nil {
		return err
	}

	fmt.Println(schematree.MaxDepth(nodes))

Build a single node from constructed schema:

	port, _ := schematree.NewScalar(schematree.Metadata{Type: "integer"})
	server, err := schematree.NewObject(schematree.Metadata{},
		[]schematree.Property{{Name: "port", Schema: port}}, "port")
	if err != nil {
		return err
	}

	node, err := schematree.BuildNode(0, "server", server, true)

Resolve depth-indexed presentation style:

	style, err := schematree.StyleFor(node.Depth, schematree.DepthPolicyClamp)

Render a documentation page:

	md, err := schematree.RenderFile("config.schema.json", schematree.Options{
		Title:        "Config Reference",
		TemplateName: "list",
		ExampleMode:  schematree.ExampleModeRequired,
	})
	if err != nil {
		return err
	}

	fmt.Println(md)

Generate example payload:

	yamlExample, err := schematree.GenerateExampleYAML(nodes, schematree.ExampleModeAll)

Errors are fail-fast. Structural problems are reported as *SchemaError with
the dotted path of the offending node and wrap sentinels such as
ErrMalformedSchema, ErrSchemaCycle and ErrUnsupportedDepth.
*/
package schematree
