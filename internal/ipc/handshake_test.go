package ipc

import (
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientAndServerHandshakeSucceedOnMatchingVersions(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	serverErr := make(chan error, 1)
	go func() { serverErr <- ServerHandshake(serverConn) }()

	clientErr := ClientHandshake(clientConn)
	assert.NoError(t, clientErr)
	assert.NoError(t, <-serverErr)
}

func TestServerHandshakeRejectsMismatchedClientVersion(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	serverErr := make(chan error, 1)
	go func() { serverErr <- ServerHandshake(serverConn) }()

	go func() {
		json.NewEncoder(clientConn).Encode(handshakeMsg{Version: "0.1.0"})
	}()

	err := <-serverErr
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestClientHandshakeReportsServerSideVersionMismatch(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	go func() {
		var req handshakeMsg
		json.NewDecoder(serverConn).Decode(&req)
		json.NewEncoder(serverConn).Encode(handshakeMsg{Error: "server is too old"})
	}()

	err := ClientHandshake(clientConn)
	assert.ErrorContains(t, err, "server is too old")
}

func TestCheckVersionRejectsMalformedVersionString(t *testing.T) {
	err := checkVersion("not-a-version")
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestCheckVersionAcceptsExactMatch(t *testing.T) {
	assert.NoError(t, checkVersion(ProtocolVersion.String()))
}
