package mock

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/wire"
)

// Conn adapts a System into an io.ReadWriteCloser, so channel.New can
// drive it exactly as it would a real device's socket: request lines
// written by the channel are decoded and dispatched here, and the
// resulting response lines (plus any injected events) are handed back
// through Read. Two io.Pipe pairs carry bytes across the client/server
// boundary in-process; a background goroutine owns the server side.
type Conn struct {
	system *System

	inR *io.PipeReader
	inW *io.PipeWriter

	outR *io.PipeReader
	outW *io.PipeWriter

	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

// NewConn starts a Conn serving sys. Closing the returned Conn stops
// the serve loop and unblocks any pending Read/Write.
func NewConn(sys *System) *Conn {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	c := &Conn{
		system: sys,
		inR:    inR,
		inW:    inW,
		outR:   outR,
		outW:   outW,
		done:   make(chan struct{}),
	}
	go c.serve()
	return c
}

func (c *Conn) Read(p []byte) (int, error)  { return c.outR.Read(p) }
func (c *Conn) Write(p []byte) (int, error) { return c.inW.Write(p) }

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.inW.Close()
		c.inR.Close()
		c.outW.Close()
		c.outR.Close()
		close(c.done)
	})
	return nil
}

// EmitEvent writes an unsolicited event/... frame to the outbound side,
// as if the mock device had pushed it unprompted. Used by tests driving
// the event dispatcher without a real device.
func (c *Conn) EmitEvent(frame wire.RawResponse) error {
	return c.writeFrame(frame)
}

func (c *Conn) writeFrame(frame wire.RawResponse) error {
	b, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("mock: marshal frame: %w", err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err = c.outW.Write(append(b, '\r', '\n'))
	return err
}

func (c *Conn) serve() {
	r := bufio.NewReaderSize(c.inR, 64*1024)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		cmd, err := raw.ParseLine(line)
		if err != nil {
			continue
		}
		resp := c.system.Dispatch(cmd)
		if err := c.writeFrame(resp); err != nil {
			return
		}
	}
}

// EmitEventKind is a convenience over EmitEvent: it builds the
// heos.command/"event/<kind>" and heos.message query-encoded params an
// unsolicited event frame takes.
func (c *Conn) EmitEventKind(kind string, params map[string]string) error {
	v := url.Values{}
	for k, val := range params {
		v.Set(k, val)
	}
	return c.writeFrame(wire.RawResponse{
		Heos: wire.RawResponseHeos{Command: "event/" + kind, Message: v.Encode()},
	})
}
