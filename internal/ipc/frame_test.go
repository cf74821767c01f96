package ipc

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFrameThenReadFrameRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, FrameInput, []byte("hello")))

	typ, payload, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FrameInput, typ)
	assert.Equal(t, []byte("hello"), payload)
}

func TestWriteFrameWithEmptyPayloadRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, FrameExit, nil))

	typ, payload, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FrameExit, typ)
	assert.Empty(t, payload)
}

func TestReadFrameRejectsLengthAboveMaxFrameLen(t *testing.T) {
	var buf bytes.Buffer
	header := make([]byte, 5)
	header[0] = FrameRender
	binary.BigEndian.PutUint32(header[1:5], maxFrameLen+1)
	buf.Write(header)

	_, _, err := ReadFrame(&buf)
	assert.ErrorContains(t, err, "too large")
}

func TestReadFrameReturnsErrorOnTruncatedHeader(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{FrameRender, 0, 0})

	_, _, err := ReadFrame(&buf)
	assert.Error(t, err)
}

func TestMultipleFramesWrittenSequentiallyReadBackInOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, FrameControl, []byte("one")))
	require.NoError(t, WriteFrame(&buf, FrameAction, []byte("two")))

	typ1, p1, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FrameControl, typ1)
	assert.Equal(t, []byte("one"), p1)

	typ2, p2, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FrameAction, typ2)
	assert.Equal(t, []byte("two"), p2)
}
