package cmd

import "math/rand/v2"

// colors and objects combine into a generated session name, for the
// common case of starting a session without bothering to name it.
var colors = []string{
	"amber", "azure", "coral", "crimson", "cyan",
	"emerald", "fawn", "gold", "indigo", "ivory",
	"jade", "lilac", "maroon", "navy", "olive",
	"onyx", "pearl", "plum", "rose", "rust",
	"sage", "sand", "scarlet", "silver", "slate",
	"teal", "umber", "violet", "walnut", "willow",
}

var objects = []string{
	"anchor", "arbor", "beacon", "bramble", "cabin",
	"cinder", "copper", "ember", "fjord", "forge",
	"grove", "harbor", "hollow", "kiln", "lantern",
	"meadow", "orchard", "paddock", "quarry", "ridge",
	"summit", "tavern", "thicket", "tower", "trellis",
	"tundra", "valley", "vessel", "warren", "yard",
}

// generateSessionName produces a name like "amber-forge", retrying up to 100
// times while the pick collides with existing (vanishingly rare at this
// list size). If every attempt collides it returns one more random pair,
// which may itself be in existing.
func generateSessionName(existing []string) string {
	taken := make(map[string]bool, len(existing))
	for _, n := range existing {
		taken[n] = true
	}
	for attempt := 0; attempt < 100; attempt++ {
		name := colors[rand.IntN(len(colors))] + "-" + objects[rand.IntN(len(objects))]
		if !taken[name] {
			return name
		}
	}
	return colors[rand.IntN(len(colors))] + "-" + objects[rand.IntN(len(objects))]
}
