// Package sessiondir resolves the per-user runtime directory a session's
// Unix socket, lock file, and optional dumped layouts live under, and
// serializes dumped layouts to YAML, generalized from "agent/bridge socket naming" to
// "session socket naming", and extended with the lock-file and
// dumped-layout responsibilities the external-interfaces section assigns
// to this component.
package sessiondir

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// maxSocketPathLen is the conservative limit for Unix domain socket paths;
// macOS's sizeof(sockaddr_un.sun_path) is 104, and 100 leaves room for the
// filename itself.
const maxSocketPathLen = 100

var (
	baseDir     string
	baseDirOnce sync.Once
)

// BaseDir returns the gridmux runtime directory, creating it if necessary:
// $HOME/.gridmux, resolved with go-homedir so it still works when $HOME is
// unset in restricted environments (e.g. some container init systems).
func BaseDir() string {
	baseDirOnce.Do(func() {
		home, err := homedir.Dir()
		if err != nil {
			home = os.TempDir()
		}
		baseDir = filepath.Join(home, ".gridmux")
		os.MkdirAll(baseDir, 0o755)
	})
	return baseDir
}

// ResetBaseDirCache resets the cached BaseDir result. For testing only.
func ResetBaseDirCache() {
	baseDirOnce = sync.Once{}
	baseDir = ""
}

// SocketDir returns the directory session sockets are created in. If the
// resulting path would be too long for a Unix domain socket, a symlink
// under the OS temp directory is created and returned instead.
func SocketDir() string {
	return ResolveSocketDir(BaseDir())
}

// ResolveSocketDir is SocketDir's pure form, taking the base dir as an
// argument so tests can exercise the long-path fallback deterministically.
func ResolveSocketDir(base string) string {
	realDir := filepath.Join(base, "sockets")
	testPath := filepath.Join(realDir, "session.a-reasonably-long-session-name.sock")
	if len(testPath) <= maxSocketPathLen {
		os.MkdirAll(realDir, 0o755)
		return realDir
	}

	hash := sha256.Sum256([]byte(realDir))
	shortDir := filepath.Join(os.TempDir(), fmt.Sprintf("gridmux-%x", hash[:8]))
	if target, err := os.Readlink(shortDir); err == nil && target == realDir {
		return shortDir
	}
	os.MkdirAll(realDir, 0o755)
	os.Remove(shortDir)
	if err := os.Symlink(realDir, shortDir); err != nil {
		return realDir
	}
	return shortDir
}

// SocketPath returns the socket path for a named session.
func SocketPath(name string) string {
	return filepath.Join(SocketDir(), name+".sock")
}

// LockPath returns the path of the lock file recording which session name
// is active, used to refuse a second daemon for the same name before
// binding the socket.
func LockPath(name string) string {
	return filepath.Join(BaseDir(), name+".lock")
}

// AcquireLock creates the session's lock file exclusively, writing the
// current process id, and fails if the lock file already exists, whether
// or not the process that wrote it is still running.
func AcquireLock(name string) (*os.File, error) {
	path := LockPath(name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("acquire session lock %s: %w", path, err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	return f, nil
}

// ReleaseLock removes the session's lock file.
func ReleaseLock(name string) error {
	return os.Remove(LockPath(name))
}

// ListSessions returns the names of sessions with a .sock entry in the
// default socket directory; whether a daemon still listens on it is not
// checked.
func ListSessions() ([]string, error) {
	entries, err := os.ReadDir(SocketDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sock") {
			names = append(names, strings.TrimSuffix(e.Name(), ".sock"))
		}
	}
	return names, nil
}

// DumpedLayout is the on-disk representation of a session's current tiled
// layout, written on request so a new session can be started from the
// same arrangement.
type DumpedLayout struct {
	SessionName string         `yaml:"session_name"`
	Tabs        []DumpedTab    `yaml:"tabs"`
}

// DumpedTab is one tab's dumped state: its name and the RunCommand (or
// plugin url) behind each of its panes, in logical-position order, enough
// to drive a fresh layout application on restore.
type DumpedTab struct {
	Name  string       `yaml:"name"`
	Panes []DumpedPane `yaml:"panes"`
}

// DumpedPane is one pane's dumped identity.
type DumpedPane struct {
	Command string `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`
	Cwd     string `yaml:"cwd,omitempty"`
	Plugin  string `yaml:"plugin,omitempty"`
}

// DumpLayoutPath returns where a session's dumped layout is written.
func DumpLayoutPath(sessionName string) string {
	return filepath.Join(BaseDir(), "layouts", sessionName+".yaml")
}

// WriteDumpedLayout serializes l to its session's dump path.
func WriteDumpedLayout(l DumpedLayout) error {
	path := DumpLayoutPath(l.SessionName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create layout dir: %w", err)
	}
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal dumped layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dumped layout: %w", err)
	}
	return nil
}

// ReadDumpedLayout loads a previously dumped layout for sessionName.
func ReadDumpedLayout(sessionName string) (DumpedLayout, error) {
	var l DumpedLayout
	data, err := os.ReadFile(DumpLayoutPath(sessionName))
	if err != nil {
		return l, fmt.Errorf("read dumped layout: %w", err)
	}
	if err := yaml.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("unmarshal dumped layout: %w", err)
	}
	return l, nil
}
