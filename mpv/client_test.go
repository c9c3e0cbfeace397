package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMpv answers IPC requests on a unix socket. Each request is recorded and
// answered by reply; an unsolicited event line precedes every response.
type fakeMpv struct {
	ln       net.Listener
	requests chan []interface{}
	reply    func(cmd []interface{}) (interface{}, string)
}

func startFakeMpv(t *testing.T, reply func(cmd []interface{}) (interface{}, string)) (*fakeMpv, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)

	f := &fakeMpv{ln: ln, requests: make(chan []interface{}, 16), reply: reply}
	go f.serve()
	t.Cleanup(func() { ln.Close() })
	return f, path
}

func (f *fakeMpv) serve() {
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return
		}
		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			return
		}
		f.requests <- req.Command

		data, errText := f.reply(req.Command)
		conn.Write([]byte(`{"event":"property-change"}` + "\n"))
		resp, _ := json.Marshal(map[string]interface{}{"data": data, "request_id": req.RequestID, "error": errText})
		conn.Write(append(resp, '\n'))
	}
}

func TestClientCommands(t *testing.T) {
	fake, path := startFakeMpv(t, func(cmd []interface{}) (interface{}, string) {
		if cmd[0] == "get_property" {
			switch cmd[1] {
			case "time-pos":
				return 125.4, "success"
			case "duration":
				return 3600.0, "success"
			case "pause":
				return true, "success"
			}
		}
		return nil, "success"
	})

	c := NewClient(path)
	require.NoError(t, c.Connect())
	defer c.Close()
	assert.True(t, c.IsConnected())

	pos, err := c.GetTimePos()
	require.NoError(t, err)
	assert.Equal(t, 125.4, pos)
	assert.Equal(t, []interface{}{"get_property", "time-pos"}, <-fake.requests)

	dur, err := c.GetDuration()
	require.NoError(t, err)
	assert.Equal(t, 3600.0, dur)
	<-fake.requests

	paused, err := c.GetPaused()
	require.NoError(t, err)
	assert.True(t, paused)
	<-fake.requests

	require.NoError(t, c.TogglePause())
	assert.Equal(t, []interface{}{"cycle", "pause"}, <-fake.requests)

	require.NoError(t, c.Seek(90))
	assert.Equal(t, []interface{}{"seek", 90.0, "absolute"}, <-fake.requests)

	require.NoError(t, c.SeekRelative(-5))
	assert.Equal(t, []interface{}{"seek", -5.0, "relative"}, <-fake.requests)

	require.NoError(t, c.ShowText("Sam: Short 7M", 1500*time.Millisecond))
	assert.Equal(t, []interface{}{"show-text", "Sam: Short 7M", 1500.0}, <-fake.requests)
}

func TestClientErrorResponse(t *testing.T) {
	_, path := startFakeMpv(t, func(cmd []interface{}) (interface{}, string) {
		return nil, "property unavailable"
	})

	c := NewClient(path)
	require.NoError(t, c.Connect())
	defer c.Close()

	_, err := c.GetTimePos()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "property unavailable")
	assert.True(t, c.IsConnected(), "an mpv error response keeps the connection")
}

func TestClientNotConnected(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "absent.sock"))

	_, err := c.GetTimePos()
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.ErrorIs(t, c.Connect(), ErrSocketNotFound)
	assert.False(t, c.IsConnected())
}

func TestClientDropsBrokenConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	c := NewClient(path)
	require.NoError(t, c.Connect())
	_, err = c.GetTimePos()
	require.Error(t, err)
	assert.False(t, c.IsConnected())
}

func TestWaitForConnect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.sock")
	c := NewClient(path)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := c.WaitForConnect(ctx, 5*time.Millisecond)
	assert.True(t, errors.Is(err, ErrSocketNotFound))

	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()
	go ln.Accept()

	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	require.NoError(t, c.WaitForConnect(ctx2, 5*time.Millisecond))
	assert.True(t, c.IsConnected())
	c.Close()
}

func TestSample(t *testing.T) {
	var loaded atomic.Bool
	_, path := startFakeMpv(t, func(cmd []interface{}) (interface{}, string) {
		switch cmd[1] {
		case "time-pos":
			return 42.0, "success"
		case "pause":
			return false, "success"
		case "duration":
			if !loaded.Load() {
				return nil, "property unavailable"
			}
			return 600.0, "success"
		}
		return nil, "success"
	})

	c := NewClient(path)
	require.NoError(t, c.Connect())
	defer c.Close()

	p, err := c.Sample()
	require.NoError(t, err)
	assert.Equal(t, Playback{TimePos: 42}, p, "duration is 0 while loading")

	loaded.Store(true)
	p, err = c.Sample()
	require.NoError(t, err)
	assert.Equal(t, Playback{TimePos: 42, Duration: 600}, p)
}
