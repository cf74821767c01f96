package ipc

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/blang/semver"
)

// ProtocolVersion is this build's wire protocol version. A client whose
// version does not match exactly is rejected at attach time: the schema is
// private and stable only within one build, per the external-interfaces
// contract.
var ProtocolVersion = semver.MustParse("1.0.0")

// ErrVersionMismatch is wrapped by the error ClientHandshake and
// ServerHandshake return when the two ends advertise incompatible protocol
// versions.
var ErrVersionMismatch = fmt.Errorf("version-mismatch")

// handshakeMsg is exchanged once, un-framed, immediately after connect: the
// client sends its version, the server replies with its own or an error.
type handshakeMsg struct {
	Version string `json:"version"`
	Error   string `json:"error,omitempty"`
}

// ClientHandshake sends this build's version to the server and validates
// its reply.
func ClientHandshake(rw io.ReadWriter) error {
	if err := json.NewEncoder(rw).Encode(handshakeMsg{Version: ProtocolVersion.String()}); err != nil {
		return fmt.Errorf("send handshake: %w", err)
	}
	var resp handshakeMsg
	if err := json.NewDecoder(rw).Decode(&resp); err != nil {
		return fmt.Errorf("read handshake reply: %w", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("%w: %s", ErrVersionMismatch, resp.Error)
	}
	return checkVersion(resp.Version)
}

// ServerHandshake reads the client's advertised version, replies with this
// build's version (or a version-mismatch error), and returns the outcome.
func ServerHandshake(rw io.ReadWriter) error {
	var req handshakeMsg
	if err := json.NewDecoder(rw).Decode(&req); err != nil {
		return fmt.Errorf("read handshake: %w", err)
	}
	if err := checkVersion(req.Version); err != nil {
		json.NewEncoder(rw).Encode(handshakeMsg{Error: err.Error()})
		return err
	}
	if err := json.NewEncoder(rw).Encode(handshakeMsg{Version: ProtocolVersion.String()}); err != nil {
		return fmt.Errorf("send handshake reply: %w", err)
	}
	return nil
}

func checkVersion(raw string) error {
	v, err := semver.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: malformed version %q", ErrVersionMismatch, raw)
	}
	if !v.EQ(ProtocolVersion) {
		return fmt.Errorf("%w: this build is %s, peer is %s", ErrVersionMismatch, ProtocolVersion, v)
	}
	return nil
}
