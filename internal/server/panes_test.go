package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultShellUsesSHELLEnvWhenSet(t *testing.T) {
	t.Setenv("SHELL", "/usr/bin/zsh")
	assert.Equal(t, "/usr/bin/zsh", defaultShell())
}

func TestDefaultShellFallsBackToBinShWhenUnset(t *testing.T) {
	t.Setenv("SHELL", "")
	assert.Equal(t, "/bin/sh", defaultShell())
}
