package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortableHome(t *testing.T) {
	root := t.TempDir()
	t.Setenv("TABDECK_HOME", root)

	assert.Equal(t, filepath.Join(root, "config"), ConfigDir())
	assert.Equal(t, filepath.Join(root, "state"), StateDir())
	assert.Equal(t, filepath.Join(root, "state", "logs"), LogDir())
	assert.Equal(t, filepath.Join(root, "state", "tabdeck.pid"), PidFile())

	require.NoError(t, EnsureDirs())
	assert.DirExists(t, LogDir())
}

func TestXDGVariables(t *testing.T) {
	t.Setenv("TABDECK_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	assert.Equal(t, "/xdg/config/tabdeck", ConfigDir())
	assert.Equal(t, "/xdg/state/tabdeck", StateDir())
}
