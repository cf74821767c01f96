package plugin

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// PermissionStore persists per-plugin-url capability grants across
// restarts, grounded on the pack's sqlite-backed local-store pattern
// (database/sql over modernc.org/sqlite, schema created on open): one row
// per (plugin url, capability), written once the user answers the
// first-use prompt and never asked again.
type PermissionStore struct {
	db *sql.DB
}

// OpenPermissionStore opens (creating if necessary) the sqlite database
// under dir that backs plugin permission grants.
func OpenPermissionStore(dir string) (*PermissionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plugin permission store dir: %w", err)
	}
	path := filepath.Join(dir, "plugin_permissions.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open plugin permission store: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	store := &PermissionStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PermissionStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS grants (
		plugin_url TEXT NOT NULL,
		capability TEXT NOT NULL,
		granted INTEGER NOT NULL,
		run_commands_allow TEXT,
		PRIMARY KEY (plugin_url, capability)
	);`)
	if err != nil {
		return fmt.Errorf("create plugin permission schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *PermissionStore) Close() error { return s.db.Close() }

// Lookup reports a prior grant decision for (pluginURL, cap), and whether
// one has been recorded at all (ok is false the first time a plugin
// requests this capability, which is the caller's cue to prompt).
func (s *PermissionStore) Lookup(pluginURL string, cap Capability) (granted bool, ok bool, err error) {
	row := s.db.QueryRow(`SELECT granted FROM grants WHERE plugin_url = ? AND capability = ?`, pluginURL, cap.String())
	var g int
	switch scanErr := row.Scan(&g); scanErr {
	case nil:
		return g != 0, true, nil
	case sql.ErrNoRows:
		return false, false, nil
	default:
		return false, false, fmt.Errorf("lookup plugin grant: %w", scanErr)
	}
}

// Record persists the user's decision for (pluginURL, cap), overwriting
// any prior decision (a user can always revoke or re-grant from a
// settings surface, which this package does not itself provide).
func (s *PermissionStore) Record(pluginURL string, cap Capability, granted bool) error {
	_, err := s.db.Exec(`
		INSERT INTO grants (plugin_url, capability, granted)
		VALUES (?, ?, ?)
		ON CONFLICT(plugin_url, capability) DO UPDATE SET granted = excluded.granted`,
		pluginURL, cap.String(), boolToInt(granted))
	if err != nil {
		return fmt.Errorf("record plugin grant: %w", err)
	}
	return nil
}

// SetRunCommandsAllowlist stores the glob allow-list (newline-joined
// patterns) a plugin's run-commands grant is additionally scoped by. It
// updates the already-recorded run-commands grant row; when no grant has
// been recorded for pluginURL yet, nothing is stored.
func (s *PermissionStore) SetRunCommandsAllowlist(pluginURL string, patterns []string) error {
	joined := ""
	for i, p := range patterns {
		if i > 0 {
			joined += "\n"
		}
		joined += p
	}
	_, err := s.db.Exec(`
		UPDATE grants SET run_commands_allow = ? WHERE plugin_url = ? AND capability = ?`,
		joined, pluginURL, CapRunCommands.String())
	if err != nil {
		return fmt.Errorf("set run-commands allowlist: %w", err)
	}
	return nil
}

// RunCommandsAllowlist returns the stored glob allow-list for pluginURL, or
// nil if none was ever set (an empty, unset allow-list denies every
// command, matching deny-by-default).
func (s *PermissionStore) RunCommandsAllowlist(pluginURL string) ([]string, error) {
	var raw sql.NullString
	err := s.db.QueryRow(`
		SELECT run_commands_allow FROM grants WHERE plugin_url = ? AND capability = ?`,
		pluginURL, CapRunCommands.String()).Scan(&raw)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("read run-commands allowlist: %w", err)
	}
	if err == sql.ErrNoRows || !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(raw.String); i++ {
		if i == len(raw.String) || raw.String[i] == '\n' {
			out = append(out, raw.String[start:i])
			start = i + 1
		}
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
