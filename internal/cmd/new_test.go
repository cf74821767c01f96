package cmd

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridmux/internal/sessiondir"
)

func TestWaitForSocketReturnsNilOnceSocketFileExists(t *testing.T) {
	withTempSessionHome(t)
	require.NoError(t, os.WriteFile(sessiondir.SocketPath("ready"), nil, 0o644))

	err := waitForSocket("ready", time.Second)
	assert.NoError(t, err)
}

func TestWaitForSocketTimesOutWhenSocketNeverAppears(t *testing.T) {
	withTempSessionHome(t)
	err := waitForSocket("never-starts", 50*time.Millisecond)
	assert.ErrorContains(t, err, "did not start in time")
}
