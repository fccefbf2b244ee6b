package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/finlane/tutordock/internal/domain"
)

// Property observation IDs registered with mpv at startup.
const (
	obsTimePos = iota + 1
	obsDuration
	obsPause
	obsEOF
)

const requestTimeout = 2 * time.Second

// Options configures an mpv launch.
type Options struct {
	Binary    string   // mpv binary, defaults to "mpv"
	Args      []string // extra player arguments
	SocketDir string   // directory for the IPC socket, defaults to os.TempDir()
	StartAt   float64  // initial position in seconds
	Logger    *slog.Logger
}

// MPV drives an mpv process over its JSON IPC socket and adapts it to the
// coordinator's engine contract. One MPV instance corresponds to one mpv
// process; Close tears both down.
type MPV struct {
	cmd    *exec.Cmd
	conn   net.Conn
	socket string
	logger *slog.Logger

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan response
	closed  bool

	events chan domain.EngineEvent
	done   chan struct{}
}

// response is a decoded reply to a single IPC request.
type response struct {
	data json.RawMessage
	err  error
}

// message is the wire shape of anything mpv writes on the socket: either an
// asynchronous event or a request reply.
type message struct {
	Event     string          `json:"event"`
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID int64           `json:"request_id"`
	Reason    string          `json:"reason"`
}

// Launch starts mpv for the given media URL and connects to its IPC socket.
func Launch(url string, opts Options) (*MPV, error) {
	binary := opts.Binary
	if binary == "" {
		binary = "mpv"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	socketDir := opts.SocketDir
	if socketDir == "" {
		socketDir = os.TempDir()
	}
	socket := filepath.Join(socketDir, fmt.Sprintf("tutordock-mpv-%d.sock", time.Now().UnixNano()))

	args := append([]string{}, opts.Args...)
	args = append(args, "--input-ipc-server="+socket, "--pause")
	if opts.StartAt > 0 {
		args = append(args, fmt.Sprintf("--start=%.3f", opts.StartAt))
	}
	args = append(args, url)

	cmd := exec.Command(binary, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mpv: %w", err)
	}

	logger.Info("mpv started", "pid", cmd.Process.Pid, "socket", socket)

	conn, err := dialWithRetry(socket, 5*time.Second)
	if err != nil {
		cmd.Process.Kill()
		return nil, fmt.Errorf("failed to connect to mpv ipc socket: %w", err)
	}

	m := &MPV{
		cmd:     cmd,
		conn:    conn,
		socket:  socket,
		logger:  logger,
		pending: make(map[int64]chan response),
		events:  make(chan domain.EngineEvent, 64),
		done:    make(chan struct{}),
	}

	go m.readLoop()

	// Subscribe to the properties the coordinator consumes.
	observed := map[int]string{
		obsTimePos:  "time-pos",
		obsDuration: "duration",
		obsPause:    "pause",
		obsEOF:      "eof-reached",
	}
	for id, name := range observed {
		if _, err := m.request("observe_property", id, name); err != nil {
			m.Close()
			return nil, fmt.Errorf("failed to observe %s: %w", name, err)
		}
	}

	return m, nil
}

// dialWithRetry polls for the IPC socket; mpv creates it asynchronously
// after process start.
func dialWithRetry(socket string, timeout time.Duration) (net.Conn, error) {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.Dial("unix", socket)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// Events implements domain.Engine.
func (m *MPV) Events() <-chan domain.EngineEvent {
	return m.events
}

// Play implements domain.Engine.
func (m *MPV) Play() error {
	return m.setProperty("pause", false)
}

// Pause implements domain.Engine.
func (m *MPV) Pause() error {
	return m.setProperty("pause", true)
}

// Paused implements domain.Engine.
func (m *MPV) Paused() (bool, error) {
	return m.getPropertyBool("pause")
}

// CurrentTime implements domain.Engine.
func (m *MPV) CurrentTime() (float64, error) {
	return m.getPropertyFloat("time-pos")
}

// SetCurrentTime implements domain.Engine.
func (m *MPV) SetCurrentTime(seconds float64) error {
	return m.setProperty("time-pos", seconds)
}

// Duration implements domain.Engine.
func (m *MPV) Duration() (float64, error) {
	return m.getPropertyFloat("duration")
}

// SetVolume implements domain.Engine. The coordinator's 0..1 scale maps to
// mpv's 0..100.
func (m *MPV) SetVolume(v float64) error {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return m.setProperty("volume", v*100)
}

// Close shuts the player down: best-effort quit command, then socket close
// and process kill. Safe to call more than once.
func (m *MPV) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	// Ask mpv to quit; if the write fails the kill below still applies.
	payload, _ := json.Marshal(map[string]interface{}{"command": []interface{}{"quit"}})
	m.conn.SetWriteDeadline(time.Now().Add(requestTimeout))
	m.conn.Write(append(payload, '\n'))

	close(m.done)
	m.conn.Close()
	os.Remove(m.socket)

	if m.cmd.Process != nil {
		waited := make(chan struct{})
		go func() {
			m.cmd.Wait()
			close(waited)
		}()
		select {
		case <-waited:
		case <-time.After(requestTimeout):
			m.cmd.Process.Kill()
			<-waited
		}
	}

	m.logger.Info("mpv closed")
	return nil
}

// readLoop decodes everything mpv writes: request replies are routed to
// their waiters, property changes become engine events. It exits when the
// socket closes, failing all pending requests.
func (m *MPV) readLoop() {
	scanner := bufio.NewScanner(m.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		var msg message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			m.logger.Debug("unparseable ipc line", "error", err)
			continue
		}

		if msg.Event == "" {
			m.deliver(msg)
			continue
		}
		m.handleEvent(msg)
	}

	m.mu.Lock()
	wasClosed := m.closed
	for id, ch := range m.pending {
		ch <- response{err: domain.ErrEngineClosed}
		delete(m.pending, id)
	}
	m.mu.Unlock()

	if !wasClosed {
		m.emit(domain.EngineEvent{Kind: domain.EventError, Err: domain.ErrEngineClosed})
	}
	close(m.events)
}

func (m *MPV) deliver(msg message) {
	m.mu.Lock()
	ch, ok := m.pending[msg.RequestID]
	if ok {
		delete(m.pending, msg.RequestID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	if msg.Error != "" && msg.Error != "success" {
		ch <- response{err: fmt.Errorf("mpv: %s", msg.Error)}
		return
	}
	ch <- response{data: msg.Data}
}

func (m *MPV) handleEvent(msg message) {
	switch msg.Event {
	case "property-change":
		m.handlePropertyChange(msg)
	case "end-file":
		if msg.Reason == "eof" {
			m.emit(domain.EngineEvent{Kind: domain.EventEnded})
		}
	}
}

func (m *MPV) handlePropertyChange(msg message) {
	// mpv reports null data while a property is unavailable (e.g. time-pos
	// before the file loads); those updates carry no information.
	if len(msg.Data) == 0 || string(msg.Data) == "null" {
		return
	}

	switch msg.ID {
	case obsTimePos:
		var seconds float64
		if json.Unmarshal(msg.Data, &seconds) == nil {
			m.emit(domain.EngineEvent{Kind: domain.EventTimeUpdate, Seconds: seconds})
		}
	case obsDuration:
		var seconds float64
		if json.Unmarshal(msg.Data, &seconds) == nil {
			m.emit(domain.EngineEvent{Kind: domain.EventDurationChange, Seconds: seconds})
		}
	case obsEOF:
		var eof bool
		if json.Unmarshal(msg.Data, &eof) == nil && eof {
			m.emit(domain.EngineEvent{Kind: domain.EventEnded})
		}
	}
}

// emit never blocks: a slow consumer loses intermediate updates, not commands.
func (m *MPV) emit(ev domain.EngineEvent) {
	select {
	case m.events <- ev:
	default:
	}
}

// request issues one IPC command and waits for its reply.
func (m *MPV) request(cmd ...interface{}) (json.RawMessage, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, domain.ErrEngineClosed
	}
	m.nextID++
	id := m.nextID
	ch := make(chan response, 1)
	m.pending[id] = ch
	m.mu.Unlock()

	payload, err := json.Marshal(map[string]interface{}{
		"command":    cmd,
		"request_id": id,
	})
	if err != nil {
		m.dropPending(id)
		return nil, err
	}

	m.conn.SetWriteDeadline(time.Now().Add(requestTimeout))
	if _, err := m.conn.Write(append(payload, '\n')); err != nil {
		m.dropPending(id)
		return nil, fmt.Errorf("ipc write failed: %w", err)
	}

	select {
	case resp := <-ch:
		return resp.data, resp.err
	case <-m.done:
		m.dropPending(id)
		return nil, domain.ErrEngineClosed
	case <-time.After(requestTimeout):
		m.dropPending(id)
		return nil, fmt.Errorf("ipc request timed out")
	}
}

func (m *MPV) dropPending(id int64) {
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
}

func (m *MPV) setProperty(name string, value interface{}) error {
	_, err := m.request("set_property", name, value)
	return err
}

func (m *MPV) getPropertyFloat(name string) (float64, error) {
	data, err := m.request("get_property", name)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 || string(data) == "null" {
		return 0, nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("unexpected %s value: %w", name, err)
	}
	return v, nil
}

func (m *MPV) getPropertyBool(name string) (bool, error) {
	data, err := m.request("get_property", name)
	if err != nil {
		return false, err
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return false, fmt.Errorf("unexpected %s value: %w", name, err)
	}
	return v, nil
}
