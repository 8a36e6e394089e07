package hierarchy

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestResolveParent(t *testing.T) {
	available := NewCodeSet([]string{"M25", "M25.5", "M25.51", "A000", "C50"})

	tests := []struct {
		name       string
		code       string
		wantParent string
		wantOK     bool
	}{
		{name: "category has no parent", code: "M25", wantOK: false},
		{name: "short code has no parent", code: "AB", wantOK: false},
		{name: "empty code has no parent", code: "", wantOK: false},
		{name: "longest prefix wins", code: "M25.511", wantParent: "M25.51", wantOK: true},
		{name: "skips missing intermediate level", code: "M25.59", wantParent: "M25.5", wantOK: true},
		{name: "undotted candidate", code: "A0001", wantParent: "A000", wantOK: true},
		{name: "dotted input resolves undotted parent", code: "A00.01", wantParent: "A000", wantOK: true},
		{name: "falls back to category in set", code: "C50.911", wantParent: "C50", wantOK: true},
		{name: "falls back to absent category", code: "J44.1", wantParent: "J44", wantOK: true},
		{name: "fallback strips dots", code: "Z.9.9.1", wantParent: "Z99", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent, ok := ResolveParent(tt.code, available)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantParent, parent)
		})
	}
}

func TestResolveParent_PrefersDottedForm(t *testing.T) {
	available := NewCodeSet([]string{"A00.0", "A000"})

	parent, ok := ResolveParent("A0001", available)
	assert.True(t, ok)
	assert.Equal(t, "A00.0", parent)
}

func TestResolveParent_EmptySet(t *testing.T) {
	parent, ok := ResolveParent("M25.511", nil)
	assert.True(t, ok)
	assert.Equal(t, "M25", parent)
}

func TestResolveParent_NonASCII(t *testing.T) {
	available := NewCodeSet([]string{"ÉÉ1.2"})

	_, ok := ResolveParent("ÉÉ.1", available)
	assert.False(t, ok, "three characters make a category")

	parent, ok := ResolveParent("ÉÉ1.23", available)
	assert.True(t, ok)
	assert.Equal(t, "ÉÉ1.2", parent)

	parent, ok = ResolveParent("ÉÉ1.2", available)
	assert.True(t, ok)
	assert.Equal(t, "ÉÉ1", parent)
	assert.True(t, utf8.ValidString(parent))
}
