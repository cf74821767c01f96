// Package bus implements the thread bus: typed bounded channels connecting
// the server's long-lived tasks (screen, pty, plugin, client, server),
// envelopes carrying an error-context stack, and poison-message shutdown.
// One channel per long-lived task (screen, pty, plugin, client, server),
// generalized from a single session/daemon link to a five-channel family.
package bus

import (
	"fmt"
	"sync"

	goerrors "github.com/go-errors/errors"
	"github.com/google/uuid"
)

// ErrorContextFrame is one entry in a message's error-context stack: the
// component that forwarded it and what it was doing.
type ErrorContextFrame struct {
	Component string
	Operation string
}

// Envelope wraps any instruction payload with a bounded error-context
// stack, pushed to by every task that forwards the message onward.
type Envelope struct {
	ID      uuid.UUID
	Payload any
	Context []ErrorContextFrame
}

// maxContextFrames bounds the error-context stack so a message that loops
// between tasks (which should never happen, but must not be fatal if it
// does) cannot grow envelopes without limit.
const maxContextFrames = 32

// Push appends a frame to the envelope's error-context stack, dropping the
// oldest entry if the stack is already at its bound.
func (e *Envelope) Push(component, operation string) {
	if len(e.Context) >= maxContextFrames {
		e.Context = e.Context[1:]
	}
	e.Context = append(e.Context, ErrorContextFrame{Component: component, Operation: operation})
}

// Trace renders the error-context stack as a forwarding chain, for
// inclusion in a fatal log line.
func (e *Envelope) Trace() string {
	s := ""
	for i, f := range e.Context {
		if i > 0 {
			s += " -> "
		}
		s += fmt.Sprintf("%s.%s", f.Component, f.Operation)
	}
	return s
}

// NewEnvelope creates an envelope carrying payload with an empty context
// stack and a fresh id for correlation in logs.
func NewEnvelope(payload any) *Envelope {
	return &Envelope{ID: uuid.New(), Payload: payload}
}

// poison is the sentinel payload type used to drain a channel and signal
// its consuming task to exit, once queued messages ahead of it are
// processed.
type poison struct{}

// Channel is one task's bounded input queue.
type Channel struct {
	name string
	ch   chan *Envelope
}

func newChannel(name string, capacity int) *Channel {
	return &Channel{name: name, ch: make(chan *Envelope, capacity)}
}

// Send enqueues env, pushing a context frame for this channel's name first.
// It parks (blocks) if the channel is at capacity, matching the bus
// contract: sending is non-blocking until the queue is bounded-full.
func (c *Channel) Send(env *Envelope, operation string) {
	env.Push(c.name, operation)
	c.ch <- env
}

// TrySend enqueues env without blocking; it reports false if the channel
// is full, for call sites that must not stall (e.g. render coalescing).
func (c *Channel) TrySend(env *Envelope, operation string) bool {
	env.Push(c.name, operation)
	select {
	case c.ch <- env:
		return true
	default:
		return false
	}
}

// Close enqueues a poison message, draining after any messages already
// queued ahead of it.
func (c *Channel) Close() {
	c.ch <- &Envelope{Payload: poison{}}
}

// Recv blocks for the next envelope. The second return is false once a
// poison message has been consumed; the caller's loop should exit.
func (c *Channel) Recv() (*Envelope, bool) {
	env := <-c.ch
	if _, isPoison := env.Payload.(poison); isPoison {
		return nil, false
	}
	return env, true
}

// Reconfigure is the palette/style/keybind handle-swap instruction family,
// broadcastable to any task via its channel.
type Reconfigure struct {
	Palette  any
	Style    any
	Keybinds any
}

// Bus owns the five typed channels every task communicates through, plus a
// mutex-guarded fatal-error hook invoked when a message's error context is
// about to surface as a session-fatal Exit.
type Bus struct {
	Screen *Channel
	Pty    *Channel
	Plugin *Channel
	Client *Channel
	Server *Channel

	mu       sync.Mutex
	onFatal  func(err error, trace string)
}

// New creates a Bus with the given per-channel capacity.
func New(capacity int) *Bus {
	return &Bus{
		Screen: newChannel("screen", capacity),
		Pty:    newChannel("pty", capacity),
		Plugin: newChannel("plugin", capacity),
		Client: newChannel("client", capacity),
		Server: newChannel("server", capacity),
	}
}

// OnFatal registers the callback invoked by Fatal.
func (b *Bus) OnFatal(f func(err error, trace string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onFatal = f
}

// Fatal captures a stack trace at the point a fatal-to-session error is
// about to cross a channel boundary into the Exit(Error) path, so the log
// line includes where the error was constructed rather than just where it
// surfaced.
func (b *Bus) Fatal(env *Envelope, err error) {
	wrapped := goerrors.Wrap(err, 1)
	b.mu.Lock()
	cb := b.onFatal
	b.mu.Unlock()
	if cb != nil {
		cb(wrapped, env.Trace())
	}
}

// Shutdown sends poison messages in dependency order: clients → screen →
// pty → plugin → server, so each task finishes forwarding to its
// downstream neighbour before that neighbour is told to stop.
func (b *Bus) Shutdown() {
	b.Client.Close()
	b.Screen.Close()
	b.Pty.Close()
	b.Plugin.Close()
	b.Server.Close()
}

// BroadcastReconfigure sends a Reconfigure instruction to the screen, pty,
// plugin and client channels, used both for an explicit client Action and
// for the fsnotify watch in internal/server noticing a changed config file.
// The server channel is not sent to.
func (b *Bus) BroadcastReconfigure(r Reconfigure) {
	for _, c := range []*Channel{b.Screen, b.Pty, b.Plugin, b.Client} {
		c.Send(NewEnvelope(r), "Reconfigure")
	}
}
