package vtparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures every dispatch a Parser makes, for assertion
// without needing internal/grid wired in.
type recordingSink struct {
	printed []rune
	executed []byte
	csi     []csiCall
	osc     [][][]byte
	dcs     []dcsCall
	apc     [][]byte
	esc     []escCall
}

type csiCall struct {
	params       []int
	intermediate []byte
	final        byte
	private      byte
}

type dcsCall struct {
	params       []int
	intermediate []byte
	final        byte
	data         []byte
}

type escCall struct {
	intermediate []byte
	final        byte
}

func (s *recordingSink) Print(r rune)   { s.printed = append(s.printed, r) }
func (s *recordingSink) Execute(b byte) { s.executed = append(s.executed, b) }
func (s *recordingSink) CSIDispatch(params []int, intermediate []byte, final byte, private byte) {
	s.csi = append(s.csi, csiCall{append([]int(nil), params...), append([]byte(nil), intermediate...), final, private})
}
func (s *recordingSink) OSCDispatch(params [][]byte) { s.osc = append(s.osc, params) }
func (s *recordingSink) DCSDispatch(params []int, intermediate []byte, final byte, data []byte) {
	s.dcs = append(s.dcs, dcsCall{append([]int(nil), params...), append([]byte(nil), intermediate...), final, append([]byte(nil), data...)})
}
func (s *recordingSink) APCDispatch(data []byte) { s.apc = append(s.apc, append([]byte(nil), data...)) }
func (s *recordingSink) EscDispatch(intermediate []byte, final byte) {
	s.esc = append(s.esc, escCall{append([]byte(nil), intermediate...), final})
}

func TestGroundStatePrintsPlainBytes(t *testing.T) {
	sink := &recordingSink{}
	p := New(sink)
	p.Write([]byte("hi"))
	assert.Equal(t, []rune{'h', 'i'}, sink.printed)
}

func TestC0ControlIsExecutedNotPrinted(t *testing.T) {
	sink := &recordingSink{}
	p := New(sink)
	p.Write([]byte{'a', '\n', 'b'})
	assert.Equal(t, []rune{'a', 'b'}, sink.printed)
	assert.Equal(t, []byte{'\n'}, sink.executed)
}

func TestCSIDispatchParsesParamsAndFinal(t *testing.T) {
	sink := &recordingSink{}
	p := New(sink)
	p.Write([]byte("\x1b[1;31m"))
	require.Len(t, sink.csi, 1)
	assert.Equal(t, []int{1, 31}, sink.csi[0].params)
	assert.Equal(t, byte('m'), sink.csi[0].final)
}

func TestCSIPrivateMarkerIsCaptured(t *testing.T) {
	sink := &recordingSink{}
	p := New(sink)
	p.Write([]byte("\x1b[?25h"))
	require.Len(t, sink.csi, 1)
	assert.Equal(t, byte('?'), sink.csi[0].private)
	assert.Equal(t, []int{25}, sink.csi[0].params)
	assert.Equal(t, byte('h'), sink.csi[0].final)
}

func TestCSIWithNoParamsDefaultsToSingleZero(t *testing.T) {
	sink := &recordingSink{}
	p := New(sink)
	p.Write([]byte("\x1b[m"))
	require.Len(t, sink.csi, 1)
	assert.Equal(t, []int{0}, sink.csi[0].params)
}

func TestOSCDispatchSplitsOnSemicolonAndTerminatesOnBEL(t *testing.T) {
	sink := &recordingSink{}
	p := New(sink)
	p.Write([]byte("\x1b]0;window title\x07"))
	require.Len(t, sink.osc, 1)
	require.Len(t, sink.osc[0], 2)
	assert.Equal(t, "0", string(sink.osc[0][0]))
	assert.Equal(t, "window title", string(sink.osc[0][1]))
}

func TestOSCDispatchTerminatesOnStringTerminator(t *testing.T) {
	sink := &recordingSink{}
	p := New(sink)
	p.Write([]byte("\x1b]8;;https://example.com\x1b\\"))
	require.Len(t, sink.osc, 1)
	assert.Equal(t, "https://example.com", string(sink.osc[0][2]))
}

func TestEscDispatchWithoutIntermediate(t *testing.T) {
	sink := &recordingSink{}
	p := New(sink)
	p.Write([]byte("\x1bc")) // RIS full reset
	require.Len(t, sink.esc, 1)
	assert.Equal(t, byte('c'), sink.esc[0].final)
	assert.Empty(t, sink.esc[0].intermediate)
}

func TestDCSSixelBodyDispatchesOnFinalQ(t *testing.T) {
	sink := &recordingSink{}
	p := New(sink)
	p.Write([]byte("\x1bP1;1;1q#0;2;0;0;0\x1b\\"))
	require.Len(t, sink.dcs, 1)
	assert.Equal(t, byte('q'), sink.dcs[0].final)
	assert.Equal(t, "#0;2;0;0;0", string(sink.dcs[0].data))
}

func TestAPCDispatchCollectsDataUntilTerminator(t *testing.T) {
	sink := &recordingSink{}
	p := New(sink)
	p.Write([]byte("\x1b_Gf=24,a=T;payload\x1b\\"))
	require.Len(t, sink.apc, 1)
	assert.Equal(t, "Gf=24,a=T;payload", string(sink.apc[0]))
}

func TestWriteRuneInGroundStatePrintsDirectly(t *testing.T) {
	sink := &recordingSink{}
	p := New(sink)
	p.WriteRune('界')
	assert.Equal(t, []rune{'界'}, sink.printed)
}
