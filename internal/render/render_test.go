package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

type triple struct {
	Code  string
	Name  string
	Level int
}

func triples(f *hierarchy.Forest) []triple {
	var out []triple
	f.Walk(func(id hierarchy.NodeID, _ int) bool {
		n := f.Node(id)
		out = append(out, triple{Code: n.Code, Name: n.Name, Level: n.Level})
		return true
	})
	return out
}

func sampleForest() *hierarchy.Forest {
	return hierarchy.Build(
		[]string{"A00", "A00.0", "A00.1", "A00.9", "M25", "M25.5", "M25.511", "R51.9"},
		hierarchy.Catalog{
			"A00":     "Cholera",
			"A00.0":   "Cholera due to Vibrio cholerae 01, biovar cholerae",
			"M25.511": "Pain in right shoulder",
			"R51.9":   "Headache, unspecified <adult> & \"other\" – ü",
		},
	)
}

func TestWriteJSON_Shape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleForest()))

	var raw map[string]map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	codes := raw["icd10cm"]["codes"]
	require.Len(t, codes, 3)
	assert.Equal(t, "A00", codes[0]["code"])
	assert.Equal(t, "Cholera", codes[0]["name"])
	assert.EqualValues(t, 1, codes[0]["level"])

	children := codes[0]["children"].([]interface{})
	require.Len(t, children, 3)
	leaf := children[0].(map[string]interface{})
	assert.Equal(t, "A00.0", leaf["code"])
	_, hasChildren := leaf["children"]
	assert.False(t, hasChildren, "leaf must not carry a children key")

	assert.Equal(t, "R51.9", codes[2]["code"])
	assert.NotContains(t, codes[2], "children")
}

func TestWriteJSON_NoEscaping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleForest()))

	out := buf.String()
	assert.Contains(t, out, `<adult> & \"other\" – ü`)
	assert.Contains(t, out, "\n  \"icd10cm\": {")
}

func TestWriteJSON_EmptyForest(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, hierarchy.Build(nil, nil)))
	assert.JSONEq(t, `{"icd10cm":{"codes":[]}}`, buf.String())
}

func TestJSONRoundTrip(t *testing.T) {
	want := sampleForest()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, want))
	got, err := ReadJSON(&buf)
	require.NoError(t, err)

	assert.Equal(t, triples(want), triples(got))
	assert.Equal(t, want.Edges(), got.Edges())

	id, ok := got.Lookup("A00.1")
	require.True(t, ok)
	assert.True(t, got.Node(id).Placeholder)
}

func TestXMLRoundTripMatchesJSON(t *testing.T) {
	f := sampleForest()

	var xmlBuf bytes.Buffer
	require.NoError(t, WriteXML(&xmlBuf, f))
	fromXML, err := ReadXML(bytes.NewReader(xmlBuf.Bytes()))
	require.NoError(t, err)

	var jsonBuf bytes.Buffer
	require.NoError(t, WriteJSON(&jsonBuf, f))
	fromJSON, err := ReadJSON(&jsonBuf)
	require.NoError(t, err)

	assert.Equal(t, triples(fromJSON), triples(fromXML))
	assert.Equal(t, fromJSON.Edges(), fromXML.Edges())
}

func TestWriteXML_Shape(t *testing.T) {
	var buf bytes.Buffer
	f := hierarchy.Build([]string{"A00", "A00.0", "A00.1", "A00.9"}, hierarchy.Catalog{"A00": "Cholera"})
	require.NoError(t, WriteXML(&buf, f))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "<icd10cm>\n  <code value=\"A00\" level=\"1\">\n    <name>Cholera</name>\n    <children>")
	assert.Contains(t, out, `<code value="A00.9" level="2">`)
	assert.Equal(t, 1, strings.Count(out, "<children>"))
	assert.True(t, strings.HasSuffix(out, "</icd10cm>\n"))
}

func TestWriteXML_EscapesText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, sampleForest()))
	assert.Contains(t, buf.String(), "Headache, unspecified &lt;adult&gt; &amp;")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleForest()))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.ICD10CM.Codes, 3)
	assert.Equal(t, "M25", doc.ICD10CM.Codes[1].Code)
	assert.Equal(t, "M25.5", doc.ICD10CM.Codes[1].Children[0].Code)
	assert.Equal(t, "M25.511", doc.ICD10CM.Codes[1].Children[0].Children[0].Code)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteYAML_ReportsWriteError(t *testing.T) {
	err := WriteYAML(failingWriter{}, sampleForest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWriteText(t *testing.T) {
	f := hierarchy.Build([]string{"J44.9", "J44.1"}, hierarchy.Catalog{"J44": "COPD", "J44.9": "COPD, unspecified"})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, f, 0))
	assert.Equal(t, "- J44  COPD (synthesized)\n  - J44.1\n  - J44.9  COPD, unspecified\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteText(&buf, f, 1))
	assert.Equal(t, "- J44  COPD (synthesized)\n", buf.String())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []Format
		wantErr bool
	}{
		{in: "both", want: []Format{FormatJSON, FormatXML}},
		{in: "", want: []Format{FormatJSON, FormatXML}},
		{in: "json", want: []Format{FormatJSON}},
		{in: " XML ", want: []Format{FormatXML}},
		{in: "all", want: []Format{FormatJSON, FormatXML, FormatYAML}},
		{in: "yaml,json,json", want: []Format{FormatYAML, FormatJSON}},
		{in: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_PicksDecoderByName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, sampleForest()))

	f, err := Read(&buf, "out/ICD10CM_HIERARCHY.XML")
	require.NoError(t, err)
	assert.Equal(t, sampleForest().Len(), f.Len())

	_, err = Read(strings.NewReader(""), "tree.txt")
	assert.Error(t, err)
}

func TestFormatFileName(t *testing.T) {
	assert.Equal(t, "icd10cm_hierarchy.json", FormatJSON.FileName())
	assert.Equal(t, "application/xml", FormatXML.ContentType())
}
