package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"gridmux/internal/ipc"
	"gridmux/internal/sessiondir"
)

// detachByte is the ctrl+\ (0x1C) byte: typed as a lone keypress, in any
// input mode, it ends the attach loop and returns the local terminal to cooked mode
// without killing the session.
const detachByte = 0x1C

// Attach dials sessionName's socket, performs the version handshake, puts
// the local terminal into raw mode for the duration, and pumps stdin to the
// server and server frames to stdout until the server closes the
// connection, the session exits, or the user hits the detach key.
func Attach(sessionName string) error {
	sockPath := sessiondir.SocketPath(sessionName)
	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		return fmt.Errorf("dial session %q: %w", sessionName, err)
	}
	defer conn.Close()

	if err := ipc.ClientHandshake(conn); err != nil {
		return fmt.Errorf("handshake with session %q: %w", sessionName, err)
	}

	fd := int(os.Stdin.Fd())
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		cols, rows = 80, 24
	}

	profile := termenv.EnvColorProfile()
	attach := ipc.ClientToServerMsg{
		Type: "attach_client",
		AttachClient: &ipc.AttachClientMsg{
			Cols: cols, Rows: rows,
			TermType:     os.Getenv("TERM"),
			ColorProfile: profile.String(),
		},
	}
	if err := sendMsg(conn, attach); err != nil {
		return fmt.Errorf("send attach: %w", err)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() {
		term.Restore(fd, oldState)
		fmt.Fprint(os.Stdout, "\033[?1000l\033[?1002l\033[?1003l\033[?25h")
	}()

	var once sync.Once
	done := make(chan struct{})
	closeDone := func() { once.Do(func() { close(done) }) }

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)
	go watchResize(conn, sigCh, done, fd)

	go pumpStdin(conn, closeDone)

	exitReason := pumpFrames(conn, closeDone)

	<-done
	if exitReason != "" {
		fmt.Fprintf(os.Stderr, "\nsession %q ended: %s\n", sessionName, exitReason)
	}
	return nil
}

func sendMsg(w io.Writer, msg ipc.ClientToServerMsg) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return ipc.WriteFrame(w, ipc.FrameControl, payload)
}

func watchResize(conn net.Conn, sigCh chan os.Signal, done chan struct{}, fd int) {
	for {
		select {
		case <-done:
			return
		case <-sigCh:
			cols, rows, err := term.GetSize(fd)
			if err != nil {
				continue
			}
			sendMsg(conn, ipc.ClientToServerMsg{
				Type:   "terminal_resize",
				Resize: &ipc.TerminalResizeMsg{Cols: cols, Rows: rows},
			})
		}
	}
}

// pumpStdin reads raw terminal bytes and forwards them as key frames, until
// stdin closes, the connection is torn down, or the user types the detach
// byte as a lone keypress.
func pumpStdin(conn net.Conn, closeDone func()) {
	defer closeDone()
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if n == 1 && chunk[0] == detachByte {
				conn.Close() // unblocks pumpFrames so Attach returns
				return
			}
			msg := ipc.ClientToServerMsg{
				Type: "key",
				Key:  &ipc.KeyMsg{Raw: append([]byte(nil), chunk...)},
			}
			if sendErr := sendMsg(conn, msg); sendErr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// pumpFrames reads render/control frames from the server and writes render
// payloads to stdout until the connection closes or the server sends an
// exit frame, returning the exit reason (if any) for the caller to report.
func pumpFrames(conn net.Conn, closeDone func()) string {
	defer closeDone()
	for {
		frameType, payload, err := ipc.ReadFrame(conn)
		if err != nil {
			return ""
		}
		switch frameType {
		case ipc.FrameRender:
			os.Stdout.Write(payload)
		case ipc.FrameControl:
			var msg ipc.ServerToClientMsg
			if jsonErr := json.Unmarshal(payload, &msg); jsonErr != nil {
				continue
			}
			if len(msg.Render) > 0 {
				os.Stdout.Write(msg.Render)
			}
			if msg.Type == "exit" {
				return msg.ExitReason
			}
		case ipc.FrameExit:
			return string(payload)
		}
	}
}
