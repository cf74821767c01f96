// Package ipc implements the length-prefixed framed transport carrying
// ClientToServerMsg/ServerToClientMsg over a session's Unix socket, and the
// semver-based attach handshake that rejects cross-version clients.
// A length-prefixed frame codec generalized from "one PTY byte stream plus a resize
// control frame" to the full client/server message family.
package ipc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Frame types, carried in the frame header's first byte.
const (
	FrameRender  byte = 0x00
	FrameControl byte = 0x01
	FrameInput   byte = 0x02
	FrameResize  byte = 0x03
	FrameAction  byte = 0x04
	FrameExit    byte = 0x05
)

// maxFrameLen bounds a single frame payload to a 10MB sanity limit so a
// corrupt length header cannot force an unbounded
// allocation.
const maxFrameLen = 10 * 1024 * 1024

// WriteFrame writes a framed message: [1 byte type][4-byte big-endian
// length][payload].
func WriteFrame(w io.Writer, frameType byte, payload []byte) error {
	header := make([]byte, 5)
	header[0] = frameType
	binary.BigEndian.PutUint32(header[1:5], uint32(len(payload)))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("write frame payload: %w", err)
		}
	}
	return nil
}

// ReadFrame reads one framed message and returns its type and payload.
func ReadFrame(r io.Reader) (byte, []byte, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}
	frameType := header[0]
	length := binary.BigEndian.Uint32(header[1:5])
	if length > maxFrameLen {
		return 0, nil, fmt.Errorf("frame too large: %d bytes", length)
	}
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return 0, nil, fmt.Errorf("read frame payload: %w", err)
		}
	}
	return frameType, payload, nil
}
