// Package mpv drives an mpv process over its JSON IPC socket.
package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

var (
	// ErrClosed indicates the IPC connection is gone.
	ErrClosed = errors.New("mpv connection closed")

	// ErrUnavailable indicates a property has no value yet.
	ErrUnavailable = errors.New("property unavailable")
)

// CommandError is an error reported by mpv for a request.
type CommandError struct {
	Command string
	Reason  string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("mpv %s: %s", e.Command, e.Reason)
}

type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// message is either a reply (request_id set) or an event.
type message struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int64           `json:"request_id"`
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
}

// Client is a JSON IPC connection. Replies are matched to requests by id;
// property-change and file events are folded into observable state.
type Client struct {
	conn   io.ReadWriteCloser
	nextID atomic.Int64

	writeMu sync.Mutex

	mu       sync.Mutex
	pending  map[int64]chan message
	props    map[string]json.RawMessage
	loaded   bool
	fileErr  error
	changed  chan struct{} // closed and replaced on every state change
	readErr  error
	done     chan struct{}
	closeOne sync.Once
}

// NewClient starts reading from conn.
func NewClient(conn io.ReadWriteCloser) *Client {
	c := &Client{
		conn:    conn,
		pending: make(map[int64]chan message),
		props:   make(map[string]json.RawMessage),
		changed: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for scanner.Scan() {
		var msg message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if msg.Event != "" {
			c.handleEvent(msg)
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[msg.RequestID]
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
		if ok {
			ch <- msg
		}
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}

	c.mu.Lock()
	c.readErr = fmt.Errorf("%w: %v", ErrClosed, err)
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.broadcastLocked()
	c.mu.Unlock()
	close(c.done)
}

func (c *Client) handleEvent(msg message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg.Event {
	case "property-change":
		c.props[msg.Name] = msg.Data
	case "file-loaded":
		c.loaded = true
		c.fileErr = nil
	case "end-file":
		if msg.Reason == "error" {
			reason := msg.FileError
			if reason == "" {
				reason = "unknown error"
			}
			c.fileErr = &CommandError{Command: "loadfile", Reason: reason}
		}
	default:
		return
	}
	c.broadcastLocked()
}

func (c *Client) broadcastLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

// Command sends a command and waits for its reply data.
func (c *Client) Command(ctx context.Context, args ...any) (json.RawMessage, error) {
	id := c.nextID.Add(1)
	ch := make(chan message, 1)

	c.mu.Lock()
	if c.readErr != nil {
		err := c.readErr
		c.mu.Unlock()
		return nil, err
	}
	c.pending[id] = ch
	c.mu.Unlock()

	line, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("encode command: %w", err)
	}

	c.writeMu.Lock()
	_, err = c.conn.Write(append(line, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("%w: %v", ErrClosed, err)
	}

	name := fmt.Sprint(args[0])
	select {
	case msg, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if msg.Error != "success" {
			return nil, &CommandError{Command: name, Reason: msg.Error}
		}
		return msg.Data, nil
	case <-ctx.Done():
		c.forget(id)
		return nil, ctx.Err()
	}
}

func (c *Client) forget(id int64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Get reads a property.
func (c *Client) Get(ctx context.Context, name string) (json.RawMessage, error) {
	return c.Command(ctx, "get_property", name)
}

// Set writes a property.
func (c *Client) Set(ctx context.Context, name string, value any) error {
	_, err := c.Command(ctx, "set_property", name, value)
	return err
}

// Observe subscribes to changes of a property.
func (c *Client) Observe(ctx context.Context, id int, name string) error {
	_, err := c.Command(ctx, "observe_property", id, name)
	return err
}

// WaitProperty blocks until an observed property has a non-null value.
func (c *Client) WaitProperty(ctx context.Context, name string) (json.RawMessage, error) {
	for {
		c.mu.Lock()
		raw, ok := c.props[name]
		changed := c.changed
		readErr := c.readErr
		c.mu.Unlock()

		if ok && len(raw) > 0 && string(raw) != "null" {
			return raw, nil
		}
		if readErr != nil {
			return nil, readErr
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// WaitLoaded blocks until mpv reports the file loaded or failed.
func (c *Client) WaitLoaded(ctx context.Context) error {
	for {
		c.mu.Lock()
		loaded, fileErr, readErr := c.loaded, c.fileErr, c.readErr
		changed := c.changed
		c.mu.Unlock()

		switch {
		case fileErr != nil:
			return fileErr
		case loaded:
			return nil
		case readErr != nil:
			return readErr
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close closes the connection and waits for the reader to finish.
func (c *Client) Close() error {
	var err error
	c.closeOne.Do(func() {
		err = c.conn.Close()
		<-c.done
	})
	return err
}

func decodeFloat(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, ErrUnavailable
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("decode number: %w", err)
	}
	return v, nil
}
