package screen

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"gridmux/internal/grid"
	"gridmux/internal/pane"
)

// SearchState is one client's in-progress scrollback search: the query
// typed in EnterSearch mode, and the last match position found, so
// SearchNext/SearchPrevious continue from where the previous hit left off
// instead of always restarting from the bottom.
type SearchState struct {
	Query     string
	LastRow   int
	LastCol   int
	HasMatch  bool
	Direction int // +1 forward, -1 backward
}

// SearchMatch is one hit's position, in AllRows() row coordinates.
type SearchMatch struct {
	Row, Col int
}

// SearchScrollback performs a literal, exact substring search (never
// fuzzy — scrollback content search must show exactly what the user typed,
// not an approximate match) through g's retained scrollback and visible
// screen, starting just past from and advancing in dir, wrapping once.
// Returns ok=false if query never occurs.
func SearchScrollback(g *grid.Grid, query string, from SearchMatch, dir int) (SearchMatch, bool) {
	if query == "" {
		return SearchMatch{}, false
	}
	rows := g.AllRows()
	n := len(rows)
	if n == 0 {
		return SearchMatch{}, false
	}

	start := from.Row
	if start < 0 {
		start = 0
	}
	if start >= n {
		start = n - 1
	}

	for step := 0; step <= n; step++ {
		row := ((start+dir*step)%n + n) % n
		text := rows[row].Plain()
		searchFrom := 0
		if step == 0 {
			if dir <= 0 {
				continue
			}
			searchFrom = from.Col + 1
		}
		if searchFrom > len(text) {
			continue
		}
		idx := strings.Index(text[searchFrom:], query)
		if idx >= 0 {
			return SearchMatch{Row: row, Col: searchFrom + idx}, true
		}
	}
	return SearchMatch{}, false
}

// switchTarget is one fuzzy-rankable entry in the Session-mode tab/pane
// switcher: either a tab (PaneID is the zero value) or a pane within one.
type switchTarget struct {
	Label   string
	TabIdx  int
	PaneID  pane.ID
	IsPane  bool
}

// FuzzySwitchTargets lists every tab and pane name across the session as
// candidates for the fuzzy switcher, tabs first (by index) then their
// panes (by insertion order), matching how they'd naturally be enumerated
// by a user scanning the tab bar left to right.
func FuzzySwitchTargets(s *Screen) []switchTarget {
	var out []switchTarget
	for _, tb := range s.Tabs() {
		out = append(out, switchTarget{Label: tb.Name, TabIdx: tb.Index})
		for _, p := range tb.Tiled.All() {
			name := p.Name()
			if name == "" {
				continue
			}
			out = append(out, switchTarget{Label: name, TabIdx: tb.Index, PaneID: p.ID(), IsPane: true})
		}
	}
	return out
}

// FuzzySwitch ranks FuzzySwitchTargets against query using sahilm/fuzzy's
// subsequence scoring, returning the best matches in descending score
// order (the switcher's caller presents these as the Session-mode jump
// list).
func FuzzySwitch(s *Screen, query string) []switchTarget {
	targets := FuzzySwitchTargets(s)
	labels := make([]string, len(targets))
	for i, t := range targets {
		labels[i] = t.Label
	}
	matches := fuzzy.Find(query, labels)
	out := make([]switchTarget, len(matches))
	for i, m := range matches {
		out[i] = targets[m.Index]
	}
	return out
}
