package sessiondir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	ResetBaseDirCache()
	t.Cleanup(ResetBaseDirCache)
	return dir
}

func TestBaseDirCreatesDotGridmuxUnderHome(t *testing.T) {
	home := withTempHome(t)
	got := BaseDir()
	assert.Equal(t, filepath.Join(home, ".gridmux"), got)
	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveSocketDirUsesRealDirWhenPathFitsLimit(t *testing.T) {
	base := t.TempDir()
	dir := ResolveSocketDir(base)
	assert.Equal(t, filepath.Join(base, "sockets"), dir)
}

func TestResolveSocketDirFallsBackToSymlinkWhenPathTooLong(t *testing.T) {
	long := filepath.Join(t.TempDir(), "an-extremely-long-directory-component-name-chosen-specifically-to-overflow-the-unix-socket-path-limit-on-purpose")
	dir := ResolveSocketDir(long)
	assert.NotEqual(t, filepath.Join(long, "sockets"), dir, "a path exceeding the socket-path limit must fall back to a shorter symlinked directory")

	target, err := os.Readlink(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(long, "sockets"), target)
}

func TestAcquireLockFailsOnSecondHolder(t *testing.T) {
	withTempHome(t)
	f, err := AcquireLock("dup-session")
	require.NoError(t, err)
	defer f.Close()
	defer ReleaseLock("dup-session")

	_, err = AcquireLock("dup-session")
	assert.Error(t, err)
}

func TestReleaseLockRemovesFile(t *testing.T) {
	withTempHome(t)
	f, err := AcquireLock("release-me")
	require.NoError(t, err)
	f.Close()

	require.NoError(t, ReleaseLock("release-me"))
	_, statErr := os.Stat(LockPath("release-me"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestListSessionsReturnsSocketNamesWithoutExtension(t *testing.T) {
	withTempHome(t)
	dir := SocketDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.sock"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beta.sock"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "not-a-socket.txt"), nil, 0o644))

	names, err := ListSessions()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}

func TestWriteAndReadDumpedLayoutRoundTrips(t *testing.T) {
	withTempHome(t)
	l := DumpedLayout{
		SessionName: "roundtrip",
		Tabs: []DumpedTab{
			{Name: "editor", Panes: []DumpedPane{{Command: "vim", Args: []string{"main.go"}}}},
		},
	}
	require.NoError(t, WriteDumpedLayout(l))

	got, err := ReadDumpedLayout("roundtrip")
	require.NoError(t, err)
	assert.Equal(t, l, got)
}
