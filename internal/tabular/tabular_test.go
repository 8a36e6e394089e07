package tabular

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

const sampleTabular = `<?xml version="1.0" encoding="utf-8"?>
<ICD10CM.tabular>
  <version>2026</version>
  <chapter>
    <name>1</name>
    <desc>Certain infectious and parasitic diseases (A00-B99)</desc>
    <section id="A00-A09">
      <desc>Intestinal infectious diseases (A00-A09)</desc>
      <diag>
        <name>A01</name>
        <desc>Typhoid and paratyphoid fevers</desc>
        <diag>
          <name>A01.0</name>
          <desc>Typhoid fever</desc>
          <diag>
            <name>A01.00</name>
            <desc>Typhoid fever, unspecified</desc>
          </diag>
        </diag>
      </diag>
      <diag>
        <name>A00</name>
        <desc>Cholera</desc>
        <inclusionTerm><note>ignored</note></inclusionTerm>
        <diag><name>A00.9</name><desc>Cholera, unspecified</desc></diag>
        <diag><name>A00.0</name><desc>Cholera due to Vibrio cholerae 01, biovar cholerae</desc></diag>
      </diag>
    </section>
  </chapter>
  <chapter>
    <name>13</name>
    <section id="M20-M25">
      <diag>
        <name>M25</name>
        <desc>Other joint disorder, not elsewhere classified</desc>
        <diag><name>M25.5</name></diag>
        <diag><name> </name><desc>nameless</desc></diag>
      </diag>
      <diag>
        <name>A00</name>
        <desc>Duplicate cholera</desc>
        <diag><name>A00.1</name><desc>Lost with its parent</desc></diag>
      </diag>
    </section>
  </chapter>
</ICD10CM.tabular>`

func TestRead_NestingAndOrder(t *testing.T) {
	f, sum, err := Read(strings.NewReader(sampleTabular))
	require.NoError(t, err)

	assert.Equal(t, Summary{Sections: 2, Codes: 8, Duplicates: 1, Skipped: 1}, sum)

	var roots []string
	for _, id := range f.Roots() {
		roots = append(roots, f.Node(id).Code)
	}
	assert.Equal(t, []string{"A01", "A00", "M25"}, roots)

	a00, ok := f.Lookup("A00")
	require.True(t, ok)
	assert.Equal(t, "Cholera", f.Node(a00).Name)

	var children []string
	for _, id := range f.Children(a00) {
		children = append(children, f.Node(id).Code)
	}
	assert.Equal(t, []string{"A00.9", "A00.0"}, children, "document order is kept")

	deep, ok := f.Lookup("A01.00")
	require.True(t, ok)
	assert.Equal(t, 3, f.Node(deep).Level)
	parent, ok := f.Parent(deep)
	require.True(t, ok)
	assert.Equal(t, "A01.0", f.Node(parent).Code)

	_, ok = f.Lookup("A00.1")
	assert.False(t, ok, "subtree of a duplicate is dropped")
}

func TestRead_EmptyDescriptionUsesPlaceholder(t *testing.T) {
	f, _, err := Read(strings.NewReader(sampleTabular))
	require.NoError(t, err)

	id, ok := f.Lookup("M25.5")
	require.True(t, ok)
	n := f.Node(id)
	assert.Equal(t, hierarchy.Placeholder("M25.5"), n.Name)
	assert.True(t, n.Placeholder)
}

func TestRead_Malformed(t *testing.T) {
	_, _, err := Read(strings.NewReader(`<ICD10CM.tabular><section><diag><name>A00</name></section>`))
	require.Error(t, err)
}

func TestRead_NoSections(t *testing.T) {
	f, sum, err := Read(strings.NewReader(`<ICD10CM.tabular><version>2026</version></ICD10CM.tabular>`))
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, 0, sum.Sections)
}

func TestReadFile_Missing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
