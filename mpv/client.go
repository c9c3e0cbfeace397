// Package mpv drives an mpv player over its JSON IPC socket: sampling the
// playback position for timestamps, play/pause, seeking and OSD messages.
package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"
	"time"
)

const (
	// DefaultSocketPath is the IPC socket used when none is configured.
	DefaultSocketPath = "/tmp/touch-ref-logger-mpv.sock"

	// commandTimeout bounds one request/response round trip.
	commandTimeout = 2 * time.Second
)

var (
	// ErrNotConnected is returned by commands issued without a connection.
	ErrNotConnected = errors.New("mpv: not connected")
	// ErrSocketNotFound is returned when nothing listens on the socket path.
	ErrSocketNotFound = errors.New("mpv: socket not found - is mpv running with --input-ipc-server?")
)

type request struct {
	Command   []interface{} `json:"command"`
	RequestID uint64        `json:"request_id"`
}

// response lines without our request_id are mpv events and are skipped.
type response struct {
	Data      interface{} `json:"data"`
	RequestID uint64      `json:"request_id"`
	Error     string      `json:"error"`
}

// Playback is one sample of the player state.
type Playback struct {
	TimePos  float64
	Duration float64 // 0 until the file is loaded
	Paused   bool
}

// Client talks to one mpv instance. Commands are serialised; a write or read
// failure drops the connection so the caller can reconnect.
type Client struct {
	socketPath string

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID uint64
}

// NewClient returns a client for socketPath, or DefaultSocketPath when empty.
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	return &Client{socketPath: socketPath}
}

// Connect dials the socket. Connecting twice is a no-op.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}

	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSocketNotFound, err)
	}
	c.conn, c.reader = conn, bufio.NewReader(conn)
	return nil
}

// WaitForConnect retries Connect every interval until it succeeds or ctx is
// done. mpv creates its socket a moment after the process starts.
func (c *Client) WaitForConnect(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		err := c.Connect()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for mpv: %w", err)
		case <-ticker.C:
		}
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn, c.reader = nil, nil
	return err
}

// IsConnected reports whether the client holds a live connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Sample reads position, duration and pause state. The position is required;
// duration stays 0 while mpv is still loading.
func (c *Client) Sample() (Playback, error) {
	var p Playback
	var err error
	if p.TimePos, err = c.GetTimePos(); err != nil {
		return p, err
	}
	if p.Paused, err = c.GetPaused(); err != nil {
		return p, err
	}
	if d, err := c.GetDuration(); err == nil {
		p.Duration = d
	}
	return p, nil
}

// GetTimePos returns the playback position in seconds.
func (c *Client) GetTimePos() (float64, error) {
	return c.number("time-pos")
}

// GetDuration returns the length of the loaded file in seconds.
func (c *Client) GetDuration() (float64, error) {
	return c.number("duration")
}

// GetPaused reports whether playback is paused.
func (c *Client) GetPaused() (bool, error) {
	v, err := c.send("get_property", "pause")
	if err != nil {
		return false, err
	}
	paused, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("mpv: pause is %T, not bool", v)
	}
	return paused, nil
}

func (c *Client) TogglePause() error {
	_, err := c.send("cycle", "pause")
	return err
}

func (c *Client) SetPaused(paused bool) error {
	_, err := c.send("set_property", "pause", paused)
	return err
}

// Seek jumps to an absolute position. Negative and NaN positions seek to 0.
func (c *Client) Seek(seconds float64) error {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	_, err := c.send("seek", seconds, "absolute")
	return err
}

// SeekRelative moves the position by delta seconds.
func (c *Client) SeekRelative(delta float64) error {
	_, err := c.send("seek", delta, "relative")
	return err
}

// ShowText shows text on the player's OSD for d.
func (c *Client) ShowText(text string, d time.Duration) error {
	_, err := c.send("show-text", text, d.Milliseconds())
	return err
}

// Quit asks mpv to exit.
func (c *Client) Quit() error {
	_, err := c.send("quit")
	return err
}

func (c *Client) number(property string) (float64, error) {
	v, err := c.send("get_property", property)
	if err != nil {
		return 0, err
	}
	// encoding/json decodes every JSON number as float64
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("mpv: %s is %T, not a number", property, v)
	}
	return f, nil
}

// send writes one newline-terminated command and reads until the matching
// response arrives.
func (c *Client) send(name string, args ...interface{}) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	c.nextID++
	req := request{Command: append([]interface{}{name}, args...), RequestID: c.nextID}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("mpv: encode %s: %w", name, err)
	}

	if err := c.conn.SetDeadline(time.Now().Add(commandTimeout)); err != nil {
		return nil, fmt.Errorf("mpv: set deadline: %w", err)
	}
	defer func() {
		if c.conn != nil {
			c.conn.SetDeadline(time.Time{})
		}
	}()

	if _, err := c.conn.Write(append(data, '\n')); err != nil {
		c.drop()
		return nil, fmt.Errorf("mpv: send %s: %w", name, err)
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			c.drop()
			return nil, fmt.Errorf("mpv: read %s response: %w", name, err)
		}
		var resp response
		if json.Unmarshal(line, &resp) != nil || resp.RequestID != req.RequestID {
			continue
		}
		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv: %s: %s", name, resp.Error)
		}
		return resp.Data, nil
	}
}

// drop forgets a broken connection. c.mu must be held.
func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn, c.reader = nil, nil
}
