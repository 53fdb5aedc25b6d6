package cssdata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
properties:
  - name: color
    description: Sets the foreground color.
    browsers: ["E12", "FF1", "C1"]
    status: standard
    values:
      - name: red
  - name: -webkit-appearance
    status: nonstandard
atDirectives:
  - name: "@media"
    status: standard
pseudoClasses:
  - name: ":hover"
pseudoElements:
  - name: "::before"
`

func TestLoadAndLookup(t *testing.T) {
	data, err := Load([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, data.Properties, 2)

	p := NewProvider(data)

	entry, ok := p.Property("color")
	require.True(t, ok)
	require.Equal(t, Standard, entry.Status)
	require.Equal(t, BrowserSupport{{Browser: Edge, Version: "12"}, {Browser: Firefox, Version: "1"}, {Browser: Chrome, Version: "1"}}, entry.BrowserSupport)

	_, ok = p.Property("not-a-property")
	require.False(t, ok)

	at, ok := p.AtDirective("@media")
	require.True(t, ok)
	require.Equal(t, Standard, at.Status)

	_, ok = p.PseudoClass(":hover")
	require.True(t, ok)
	_, ok = p.PseudoElement("::before")
	require.True(t, ok)
}

func TestInvalidStatusRejected(t *testing.T) {
	_, err := Load([]byte("properties:\n  - name: x\n    status: bogus\n"))
	require.Error(t, err)
}

func TestLoadDefault(t *testing.T) {
	data, err := LoadDefault()
	require.NoError(t, err)
	require.NotEmpty(t, data.Properties)

	p := NewProvider(data)
	_, ok := p.Property("color")
	require.True(t, ok)
}
