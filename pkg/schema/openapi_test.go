package schema

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const treeDoc = `
openapi: 3.0.3
info: {title: trees, version: "1"}
paths:
  /trees:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                properties:
                  total: {type: integer}
                  root: {$ref: "#/components/schemas/Tree"}
components:
  schemas:
    Tree:
      type: object
      properties:
        name: {type: string}
        children:
          type: array
          items: {$ref: "#/components/schemas/Tree"}
        label: {type: string, enum: [x, y]}
`

func loadTreeDoc(t *testing.T) (*openapi3.T, KeyOrder) {
	t.Helper()
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(treeDoc))
	require.NoError(t, err)

	var raw yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(treeDoc), &raw))
	return doc, IndexKeyOrder(&raw)
}

func TestIndexKeyOrder(t *testing.T) {
	_, order := loadTreeDoc(t)
	assert.Equal(t, []string{"name", "children", "label"}, order["/components/schemas/Tree/properties"])
	assert.Equal(t, []string{"openapi", "info", "paths", "components"}, order[""])
}

func TestEscapePointer(t *testing.T) {
	assert.Equal(t, "~1trees~1{id}", EscapePointer("/trees/{id}"))
	assert.Equal(t, "a~0b", EscapePointer("a~b"))
}

func TestConverter_OrderAndCycle(t *testing.T) {
	doc, order := loadTreeDoc(t)
	op := doc.Paths.Find("/trees").Get
	media := op.Responses.Status(200).Value.Content.Get("application/json")
	require.NotNil(t, media)

	loc := "/paths/" + EscapePointer("/trees") + "/get/responses/200/content/application~1json/schema"
	n := NewConverter(order).Convert(media.Schema, loc)
	require.NotNil(t, n)
	assert.Equal(t, []string{"total", "root"}, n.Properties.Names())

	tree, ok := n.Properties.Get("root")
	require.True(t, ok)
	assert.Equal(t, TypeObject, tree.Type)
	assert.Equal(t, []string{"name", "children", "label"}, tree.Properties.Names())

	children, ok := tree.Properties.Get("children")
	require.True(t, ok)
	assert.Same(t, tree, children.Items, "reference cycle should become a pointer cycle")

	label, _ := tree.Properties.Get("label")
	assert.Equal(t, []any{"x", "y"}, label.Enum)
}

func TestConverter_UnknownLocationSortsNames(t *testing.T) {
	s := openapi3.NewObjectSchema().
		WithProperty("b", openapi3.NewStringSchema()).
		WithProperty("a", openapi3.NewIntegerSchema())
	n := NewConverter(nil).Convert(openapi3.NewSchemaRef("", s), "")
	require.NotNil(t, n)
	assert.Equal(t, []string{"a", "b"}, n.Properties.Names())

	a, _ := n.Properties.Get("a")
	assert.Equal(t, TypeInteger, a.Type)
}

func TestConverter_NilRef(t *testing.T) {
	assert.Nil(t, NewConverter(nil).Convert(nil, ""))
	assert.Nil(t, NewConverter(nil).Convert(&openapi3.SchemaRef{}, ""))
}

func TestConverter_ExclusiveBounds(t *testing.T) {
	s := openapi3.NewFloat64Schema().
		WithMin(0).WithExclusiveMin(true).
		WithMax(0.3).WithExclusiveMax(true)
	n := NewConverter(nil).Convert(openapi3.NewSchemaRef("", s), "")
	require.NotNil(t, n)
	require.NotNil(t, n.Minimum)
	require.NotNil(t, n.Maximum)
	assert.Equal(t, 0.3, *n.Maximum)
	assert.True(t, n.ExclusiveMinimum)
	assert.True(t, n.ExclusiveMaximum)
}
