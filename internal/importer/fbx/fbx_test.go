package fbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/importer/fbx/fbxtest"
)

func sampleRecords() []fbxtest.Record {
	return []fbxtest.Record{
		{Name: "FBXHeaderExtension", Children: []fbxtest.Record{
			{Name: "FBXVersion", Props: []any{int32(7400)}},
		}},
		{Name: "Objects", Children: []fbxtest.Record{
			{Name: "Model", Props: []any{int64(100), "Wheel\x00\x01Model", "Mesh"}},
			{Name: "Geometry", Props: []any{int64(200), "WheelGeo\x00\x01Geometry", "Mesh"}, Children: []fbxtest.Record{
				{Name: "Vertices", Props: []any{fbxtest.Compressed{-1, 0, 0, 1, 2, 3}}},
				{Name: "PolygonVertexIndex", Props: []any{[]float64{0}}},
			}},
		}},
	}
}

func TestParse32BitRecords(t *testing.T) {
	doc, err := Parse(fbxtest.Encode(7400, sampleRecords()...))
	require.NoError(t, err)
	assert.Equal(t, uint32(7400), doc.Version)
	require.Len(t, doc.Root.Children, 2)

	objects := doc.Root.Child("Objects")
	require.NotNil(t, objects)
	model := objects.Child("Model")
	require.NotNil(t, model)
	assert.Equal(t, []any{int64(100), "Wheel\x00\x01Model", "Mesh"}, model.Properties)

	geo := objects.Child("Geometry")
	require.NotNil(t, geo)
	verts := geo.Child("Vertices")
	require.NotNil(t, verts)
	assert.Equal(t, []float64{-1, 0, 0, 1, 2, 3}, verts.Properties[0])
	assert.Len(t, objects.ChildrenNamed("Model"), 1)
}

func TestParse64BitRecords(t *testing.T) {
	doc, err := Parse(fbxtest.Encode(7500, sampleRecords()...))
	require.NoError(t, err)
	assert.Equal(t, uint32(7500), doc.Version)
	objects := doc.Root.Child("Objects")
	require.NotNil(t, objects)
	assert.Equal(t, "Wheel\x00\x01Model", objects.Child("Model").Properties[1])
}

func TestParseRejectsASCII(t *testing.T) {
	_, err := Parse([]byte("; FBX 7.4.0 project file\nFBXHeaderExtension:  {\n}\n"))
	assert.ErrorIs(t, err, ErrASCII)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("definitely not an fbx file, just some words"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrASCII)
}

func TestParseTruncated(t *testing.T) {
	data := fbxtest.Encode(7400, sampleRecords()...)
	_, err := Parse(data[:60])
	assert.Error(t, err)
}

func inflatedVertices(a fbxtest.Inflated) []byte {
	return fbxtest.Encode(7400, fbxtest.Record{Name: "Geometry", Children: []fbxtest.Record{
		{Name: "Vertices", Props: []any{a}},
	}})
}

func TestParseCompressedArrayStopsAtDeclaredCount(t *testing.T) {
	doc, err := Parse(inflatedVertices(fbxtest.Inflated{Count: 2, Payload: make([]byte, 8<<20)}))
	require.NoError(t, err)
	geo := doc.Root.Child("Geometry")
	require.NotNil(t, geo)
	verts := geo.Child("Vertices")
	require.NotNil(t, verts)
	assert.Equal(t, []float64{0, 0}, verts.Properties[0])
}

func TestParseCompressedArrayRejectsImpossibleCount(t *testing.T) {
	_, err := Parse(inflatedVertices(fbxtest.Inflated{Count: 1 << 30, Payload: make([]byte, 64)}))
	assert.Error(t, err)
	_, err = Parse(inflatedVertices(fbxtest.Inflated{Count: 16, Payload: make([]byte, 64)}))
	assert.Error(t, err, "stream shorter than the declared count")
}
