package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest_SetKeepsPosition(t *testing.T) {
	m := NewManifest()
	assert.Nil(t, m.Set(&Entry{Name: "A", QualifiedName: "x.A"}))
	assert.Nil(t, m.Set(&Entry{Name: "B", QualifiedName: "x.B"}))

	replaced := m.Set(&Entry{Name: "A", QualifiedName: "y.A"})
	require.NotNil(t, replaced)
	assert.Equal(t, "x.A", replaced.QualifiedName)

	assert.Equal(t, []string{"A", "B"}, m.Names())
	assert.Equal(t, "y.A", m.Get("A").QualifiedName)
	assert.Equal(t, 2, m.Len())
	assert.Nil(t, m.Get("C"))
}

func TestManifest_NilSafe(t *testing.T) {
	var m *Manifest
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Names())
	assert.Nil(t, m.Get("A"))

	var zero Manifest
	zero.Set(&Entry{Name: "A"})
	assert.Equal(t, 1, zero.Len())
}

func TestManifest_MarshalJSON_Order(t *testing.T) {
	m := NewManifest()
	m.Set(&Entry{Name: "Zeta"})
	m.Set(&Entry{Name: "Alpha"})

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Regexp(t, `^\{"Zeta":\{.*\},"Alpha":\{.*\}\}$`, string(data))
}
