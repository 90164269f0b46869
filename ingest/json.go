// Package ingest accepts already-normalized unified events over a
// JSON-lines TCP listener. Vendor-specific log adapters live upstream;
// this listener only speaks the unified shape.
package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"argus/core"
	"argus/metrics"
)

// maxLineBytes bounds a single event line to keep a misbehaving sender
// from exhausting memory
const maxLineBytes = 1 * 1024 * 1024

// readIdleTimeout is the per-line read deadline; a sender that goes
// silent for this long is disconnected
const readIdleTimeout = 5 * time.Minute

// JSONListener accepts TCP connections carrying one JSON-encoded
// UnifiedEvent per line and forwards decoded events to the output channel.
// Malformed lines are counted and skipped, never fatal to the connection.
type JSONListener struct {
	addr     string
	eventCh  chan<- *core.UnifiedEvent
	logger   *zap.SugaredLogger
	listener net.Listener
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once

	// connMu guards conns, the accepted connections Stop force-closes
	connMu sync.Mutex
	conns  map[net.Conn]struct{}
}

// NewJSONListener creates a listener that will bind host:port on Start
func NewJSONListener(host string, port int, eventCh chan<- *core.UnifiedEvent, logger *zap.SugaredLogger) *JSONListener {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &JSONListener{
		addr:    fmt.Sprintf("%s:%d", host, port),
		eventCh: eventCh,
		logger:  logger,
		stopCh:  make(chan struct{}),
		conns:   make(map[net.Conn]struct{}),
	}
}

// Addr returns the bound address; valid after Start
func (l *JSONListener) Addr() string {
	if l.listener == nil {
		return l.addr
	}
	return l.listener.Addr().String()
}

// Start binds the socket and begins accepting connections
func (l *JSONListener) Start() error {
	listener, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to bind JSON listener on %s: %w", l.addr, err)
	}
	l.listener = listener
	l.logger.Infof("JSON event listener started on %s", listener.Addr())

	l.wg.Add(1)
	go l.acceptLoop()
	return nil
}

func (l *JSONListener) acceptLoop() {
	defer l.wg.Done()
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			select {
			case <-l.stopCh:
				return
			default:
				l.logger.Warnf("Accept failed: %v", err)
				continue
			}
		}
		l.trackConn(conn)
		l.wg.Add(1)
		go l.handleConn(conn)
	}
}

func (l *JSONListener) trackConn(conn net.Conn) {
	l.connMu.Lock()
	l.conns[conn] = struct{}{}
	l.connMu.Unlock()
}

func (l *JSONListener) untrackConn(conn net.Conn) {
	l.connMu.Lock()
	delete(l.conns, conn)
	l.connMu.Unlock()
}

func (l *JSONListener) closeConns() {
	l.connMu.Lock()
	for conn := range l.conns {
		conn.Close()
	}
	l.connMu.Unlock()
}

func (l *JSONListener) handleConn(conn net.Conn) {
	defer l.wg.Done()
	defer l.untrackConn(conn)
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for {
		// The deadline is refreshed per line so a silent sender cannot
		// pin the connection (and Stop) forever
		if err := conn.SetReadDeadline(time.Now().Add(readIdleTimeout)); err != nil {
			return
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event core.UnifiedEvent
		if err := json.Unmarshal(line, &event); err != nil {
			metrics.IngestDecodeFailures.Inc()
			l.logger.Warnf("Dropping undecodable event line from %s: %v", conn.RemoteAddr(), err)
			continue
		}
		if !event.Source.IsValid() {
			metrics.IngestDecodeFailures.Inc()
			l.logger.Warnf("Dropping event with unknown source %q from %s", event.Source, conn.RemoteAddr())
			continue
		}
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now().UTC()
		}

		metrics.EventsIngested.WithLabelValues(event.Source.String()).Inc()
		select {
		case l.eventCh <- &event:
		case <-l.stopCh:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		l.logger.Debugf("Connection from %s closed: %v", conn.RemoteAddr(), err)
	}
}

// Stop closes the socket, force-closes accepted connections and waits
// for their handlers. Safe to call more than once.
func (l *JSONListener) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
		if l.listener != nil {
			l.listener.Close()
		}
		l.closeConns()
		l.wg.Wait()
		l.logger.Info("JSON event listener stopped")
	})
}
