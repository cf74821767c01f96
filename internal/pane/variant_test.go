package pane

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommonGetSetGeomNameAndBorderless(t *testing.T) {
	p := NewTerminalPane(Terminal(1), Geom{Cols: 10, Rows: 5}, RunCommand{}, nil)

	p.SetName("build")
	assert.Equal(t, "build", p.Name())

	p.SetGeom(Geom{Cols: 20, Rows: 8})
	assert.Equal(t, uint32(20), p.Geom().Cols)

	assert.False(t, p.Borderless())
	p.SetBorderless(true)
	assert.True(t, p.Borderless())
}

func TestTerminalAndPluginPanesAreSelectableButPlaceholderIsNot(t *testing.T) {
	term := NewTerminalPane(Terminal(1), Geom{}, RunCommand{}, nil)
	plug := NewPluginPane(Plugin(1), Geom{}, 42)
	ph := NewPlaceholderPane(Terminal(2), Geom{})

	assert.True(t, term.Selectable())
	assert.True(t, plug.Selectable())
	assert.False(t, ph.Selectable())
}

func TestNewPluginPaneRecordsPluginID(t *testing.T) {
	p := NewPluginPane(Plugin(3), Geom{}, 99)
	assert.Equal(t, uint32(99), p.PluginID)
	assert.Equal(t, Plugin(3), p.ID())
}

func TestExcludeFromSyncDefaultsFalseAndIsSettable(t *testing.T) {
	p := NewTerminalPane(Terminal(1), Geom{}, RunCommand{}, nil)
	assert.False(t, p.ExcludeFromSync())
	p.SetExcludeFromSync(true)
	assert.True(t, p.ExcludeFromSync())
}
