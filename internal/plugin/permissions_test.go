package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandsAllowlistReturnsNilWhenNeverSet(t *testing.T) {
	store, err := OpenPermissionStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	allow, err := store.RunCommandsAllowlist("plugin://a")
	require.NoError(t, err)
	assert.Nil(t, allow)
}

func TestSetThenGetRunCommandsAllowlistRoundTrips(t *testing.T) {
	store, err := OpenPermissionStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Record("plugin://a", CapRunCommands, true))
	require.NoError(t, store.SetRunCommandsAllowlist("plugin://a", []string{"git *", "ls"}))

	allow, err := store.RunCommandsAllowlist("plugin://a")
	require.NoError(t, err)
	assert.Equal(t, []string{"git *", "ls"}, allow)
}

func TestRunCommandsAllowlistPropagatesAGenuineQueryError(t *testing.T) {
	store, err := OpenPermissionStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.db.Close())

	_, err = store.RunCommandsAllowlist("plugin://a")
	assert.Error(t, err, "a real query error must not be swallowed as though the allow-list were merely unset")
}
