package layout

import "gridmux/internal/pane"

// LivePane is the subset of a tab's live pane state the reconciler
// matches against: its id, current Run instruction (for exact-match), and
// name and logical position as of the layout currently in effect.
type LivePane struct {
	ID            pane.ID
	Run           pane.RunInstruction
	Name          string
	LogicalPos    uint32
	IsPlugin      bool
	PluginURL     string
}

// ReapplyResult assigns each new leaf to a live pane id (if matched) and
// reports which live panes were left unclaimed (stale) and which
// pre-spawned ids went unused because their leaf matched a live pane.
type ReapplyResult struct {
	Leaves     []ResolvedLeaf
	Floating   []ResolvedFloat
	Assignment map[int]pane.ID // leaf index in Leaves -> live pane id
	StalePanes []pane.ID       // live panes with no matching leaf

	FloatAssignment map[int]pane.ID // index in Floating -> live floating pane id
	StaleFloats     []pane.ID       // live floating panes with no matching layout entry

	// Ids handed to a leaf (or floating entry) that then matched a live
	// pane; caller must close them. Ids no leaf consumed are not listed.
	ExcessTerminalIDs []pane.ID // tiled leaves
	ExcessFloatingIDs []pane.ID // floating entries
}

// Reapply reconciles root's tiled leaves against live and floatingLayouts
// against liveFloats, independently, with the same matching priority in
// both: exact Run match, then name match, then (tiled only) logical-
// position match, then first unclaimed live pane in insertion order.
// Excess leaves (more leaves than live panes) are left unmatched; excess
// live panes (more live panes than leaves) are reported as stale and keep
// their current geoms. Pre-spawned ids consumed by FreshApplyFull for a
// leaf that turned out to match a live pane are reported as excess for
// the caller to close.
func Reapply(root *Node, floatingLayouts []FloatingPaneLayout, viewport pane.Geom, live []LivePane, liveFloats []LivePane, res *Resources) (*ReapplyResult, error) {
	full, err := FreshApplyFull(root, floatingLayouts, viewport, &Resources{
		TerminalIDs: append([]pane.ID(nil), res.TerminalIDs...),
		PluginIDs:   clonePluginIDs(res.PluginIDs),
		Client:      res.Client,
	})
	if err != nil {
		return nil, err
	}
	leaves := full.Leaves

	claimed := make(map[pane.ID]bool, len(live))
	assignment := make(map[int]pane.ID, len(leaves))

	tryClaim := func(id pane.ID) bool {
		if claimed[id] {
			return false
		}
		claimed[id] = true
		return true
	}

	// Pass 1: exact Run match.
	for i, leaf := range leaves {
		for _, lp := range live {
			if claimed[lp.ID] {
				continue
			}
			if runMatches(leaf.Node.Run, lp) {
				if tryClaim(lp.ID) {
					assignment[i] = lp.ID
					break
				}
			}
		}
	}
	// Pass 2: name match.
	for i, leaf := range leaves {
		if _, ok := assignment[i]; ok {
			continue
		}
		for _, lp := range live {
			if claimed[lp.ID] {
				continue
			}
			if leaf.Node.Name != "" && leaf.Node.Name == lp.Name {
				if tryClaim(lp.ID) {
					assignment[i] = lp.ID
					break
				}
			}
		}
	}
	// Pass 3: logical-position match.
	for i, leaf := range leaves {
		if _, ok := assignment[i]; ok {
			continue
		}
		for _, lp := range live {
			if claimed[lp.ID] {
				continue
			}
			if lp.LogicalPos == leaf.LogicalPos {
				if tryClaim(lp.ID) {
					assignment[i] = lp.ID
					break
				}
			}
		}
	}
	// Pass 4: first unclaimed live pane in insertion order.
	for i := range leaves {
		if _, ok := assignment[i]; ok {
			continue
		}
		for _, lp := range live {
			if claimed[lp.ID] {
				continue
			}
			if tryClaim(lp.ID) {
				assignment[i] = lp.ID
				break
			}
		}
	}

	result := &ReapplyResult{Leaves: leaves, Floating: full.Floating, Assignment: assignment}
	for _, lp := range live {
		if !claimed[lp.ID] {
			result.StalePanes = append(result.StalePanes, lp.ID)
		}
	}

	// Any leaf that matched a live pane (passes 1-4) did not need the
	// pre-spawned id FreshApplyFull handed it above, so that id is excess
	// and must be closed by the caller.
	for i, leaf := range leaves {
		if leaf.TerminalID == nil {
			continue
		}
		if _, claimedByLive := assignment[i]; claimedByLive {
			result.ExcessTerminalIDs = append(result.ExcessTerminalIDs, *leaf.TerminalID)
		}
	}

	floatClaimed := make(map[pane.ID]bool, len(liveFloats))
	floatAssignment := make(map[int]pane.ID, len(full.Floating))
	tryClaimFloat := func(id pane.ID) bool {
		if floatClaimed[id] {
			return false
		}
		floatClaimed[id] = true
		return true
	}
	// Pass 1: exact Run match.
	for i, rf := range full.Floating {
		for _, lp := range liveFloats {
			if floatClaimed[lp.ID] {
				continue
			}
			if runMatches(rf.Layout.Run, lp) {
				if tryClaimFloat(lp.ID) {
					floatAssignment[i] = lp.ID
					break
				}
			}
		}
	}
	// Pass 2: name match. Floating panes have no logical position, so the
	// remaining priority collapses straight to first-unclaimed.
	for i, rf := range full.Floating {
		if _, ok := floatAssignment[i]; ok {
			continue
		}
		for _, lp := range liveFloats {
			if floatClaimed[lp.ID] {
				continue
			}
			if rf.Layout.Name != "" && rf.Layout.Name == lp.Name {
				if tryClaimFloat(lp.ID) {
					floatAssignment[i] = lp.ID
					break
				}
			}
		}
	}
	// Pass 3: first unclaimed live floating pane in insertion order.
	for i := range full.Floating {
		if _, ok := floatAssignment[i]; ok {
			continue
		}
		for _, lp := range liveFloats {
			if floatClaimed[lp.ID] {
				continue
			}
			if tryClaimFloat(lp.ID) {
				floatAssignment[i] = lp.ID
				break
			}
		}
	}
	result.FloatAssignment = floatAssignment
	for _, lp := range liveFloats {
		if !floatClaimed[lp.ID] {
			result.StaleFloats = append(result.StaleFloats, lp.ID)
		}
	}
	for i, rf := range full.Floating {
		if rf.TerminalID == nil {
			continue
		}
		if _, claimedByLive := floatAssignment[i]; claimedByLive {
			result.ExcessFloatingIDs = append(result.ExcessFloatingIDs, *rf.TerminalID)
		}
	}

	return result, nil
}

func runMatches(run pane.RunInstruction, lp LivePane) bool {
	if run.Kind == pane.RunPlugin {
		return lp.IsPlugin && lp.PluginURL == run.Plugin.URL
	}
	if lp.IsPlugin {
		return false
	}
	return run.Command.Command == lp.Run.Command.Command &&
		sameArgs(run.Command.Args, lp.Run.Command.Args) &&
		run.Command.Cwd == lp.Run.Command.Cwd
}

func sameArgs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func clonePluginIDs(m map[string][]pane.ID) map[string][]pane.ID {
	out := make(map[string][]pane.ID, len(m))
	for k, v := range m {
		out[k] = append([]pane.ID(nil), v...)
	}
	return out
}
