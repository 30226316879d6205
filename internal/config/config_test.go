package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cubecraft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, 16, s.World.TableWidth)
	assert.Equal(t, 10, s.World.RenderRange)
	assert.Equal(t, float32(4), s.Player.SelectRadius)
	assert.Equal(t, 11, s.VisibleChunks())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
world:
  table_width: 32
  render_range: 20
  generator: flat
  flat_height: 12
mesh:
  max_faces: 50000
log:
  verbose: true
`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, s.World.TableWidth)
	assert.Equal(t, GeneratorFlat, s.World.Generator)
	assert.Equal(t, 12, s.World.FlatHeight)
	assert.Equal(t, 50000, s.Mesh.MaxFaces)
	assert.True(t, s.Log.Verbose)
	// Untouched sections keep their defaults.
	assert.Equal(t, float32(0.18), s.Player.JumpVelocity)
	assert.Equal(t, "saves", s.Saves.Dir)
}

func TestLoadWithoutPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	path := writeConfig(t, "world:\n  render_range: 6\n")
	t.Setenv(EnvPath, path)
	s, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 6, s.World.RenderRange)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"width not power of two": "world:\n  table_width: 12\n",
		"range exceeds table":    "world:\n  render_range: 16\n",
		"unknown generator":      "world:\n  generator: caves\n",
		"negative face budget":   "mesh:\n  max_faces: -1\n",
		"zero select radius":     "player:\n  select_radius: 0\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetRenderRangeClamps(t *testing.T) {
	s := Default()
	s.SetRenderRange(1)
	assert.Equal(t, 2, s.World.RenderRange)
	s.SetRenderRange(99)
	assert.Equal(t, 15, s.World.RenderRange)
	s.SetRenderRange(8)
	assert.Equal(t, 8, s.World.RenderRange)
}
