package kvserver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/prefixkv/internal/telemetry/logger"
	"github.com/yndnr/prefixkv/internal/telemetry/metric"
)

// ErrServerClosed is returned by Start after Shutdown has been called.
var ErrServerClosed = errors.New("kvserver: server closed")

// rejectTimeout bounds the write of the rejection reply at the connection cap.
const rejectTimeout = time.Second

// Config holds the server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// MaxLineBytes bounds one request line. 0 disables the limit.
	MaxLineBytes int
	// MaxConnections caps concurrent connections. 0 means unlimited.
	MaxConnections int
	// RateLimit is the per-connection command rate in commands/second.
	// Commands over the rate wait. 0 means unlimited.
	RateLimit float64
	// IdleTimeout closes connections that send nothing for this long.
	IdleTimeout time.Duration
	// WriteTimeout bounds each reply flush.
	WriteTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "0.0.0.0:6379",
		MaxLineBytes: 1 << 20,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records connection and command metrics in reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = reg
	}
}

// Server accepts client connections and serves the line protocol.
type Server struct {
	cfg     *Config
	store   Store
	handler *CommandHandler
	logger  *slog.Logger
	metrics *metric.Registry

	mu       sync.Mutex
	listener net.Listener
	conns    map[*Conn]struct{}
	cancel   context.CancelFunc

	running atomic.Bool
	closed  atomic.Bool
	wg      sync.WaitGroup
}

// Conn is a single client connection.
type Conn struct {
	id      ulid.ULID
	netConn net.Conn
	br      *bufio.Reader
	bw      *bufio.Writer
	limiter *rate.Limiter

	closed atomic.Bool
}

func newConn(c net.Conn, rps float64) *Conn {
	conn := &Conn{
		id:      ulid.Make(),
		netConn: c,
		br:      bufio.NewReader(c),
		bw:      bufio.NewWriter(c),
	}
	if rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		conn.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return conn
}

// ID returns the connection's ULID.
func (c *Conn) ID() string {
	return c.id.String()
}

// Close closes the underlying connection once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// New creates a server that dispatches to store.
func New(cfg *Config, store Store, logger *slog.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
		conns:  make(map[*Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = NewCommandHandler(store, s.metrics, logger)
	return s
}

// Start binds the listen address and serves connections in the background.
// Cancelling ctx has the same effect on live connections as Shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves connections accepted on ln in the background.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.closed.Load() {
		_ = ln.Close()
		return ErrServerClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.listener = ln
	s.cancel = cancel
	s.mu.Unlock()

	s.running.Store(true)
	s.logger.Info("kv server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil {
			s.logger.Error("kv server accept error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ActiveConnections returns the number of connections being served.
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Shutdown stops accepting, closes live connections and waits for their
// workers to exit or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closed.Store(true)
	s.running.Store(false)

	var firstErr error

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("kv server stopped")
	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		conn := newConn(c, s.cfg.RateLimit)
		if !s.track(conn) {
			s.reject(conn)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, conn)
		}()
	}
}

// track registers c unless the connection cap is reached or the server is
// shutting down.
func (s *Server) track(c *Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	if s.cfg.MaxConnections > 0 && len(s.conns) >= s.cfg.MaxConnections {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) reject(c *Conn) {
	defer c.Close()
	if !s.running.Load() {
		return
	}
	s.metrics.ConnRejected()
	s.logger.Warn("connection limit reached", "remote", c.RemoteAddr().String(), "max_connections", s.cfg.MaxConnections)
	_ = c.netConn.SetWriteDeadline(time.Now().Add(rejectTimeout))
	_ = writeLine(c.bw, ReplyMaxConnections)
	_ = c.bw.Flush()
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	log := s.logger.With("conn_id", c.ID(), "remote", c.RemoteAddr().String())
	ctx = logger.WithConnID(ctx, c.ID())
	s.metrics.ConnOpened()
	log.Debug("connection opened")

	defer func() {
		_ = c.Close()
		s.untrack(c)
		s.metrics.ConnClosed()
	}()

	for {
		if s.cfg.IdleTimeout > 0 {
			if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
				return
			}
		}

		line, err := readLine(c.br, s.cfg.MaxLineBytes)
		if err != nil {
			s.readFailed(log, c, err)
			return
		}

		if line = strings.TrimSpace(line); line != "" {
			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					return
				}
			}
			if s.cfg.WriteTimeout > 0 {
				if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
					return
				}
			}
			if err := s.handler.Handle(ctx, c.bw, line); err != nil {
				log.Debug("connection write error", "error", err)
				return
			}
		}

		// Replies are held only while another complete line is buffered.
		if !hasBufferedLine(c.br) {
			if err := c.bw.Flush(); err != nil {
				log.Debug("connection write error", "error", err)
				return
			}
		}
	}
}

// hasBufferedLine reports whether br holds a whole line without reading
// from the connection.
func hasBufferedLine(br *bufio.Reader) bool {
	n := br.Buffered()
	if n == 0 {
		return false
	}
	buf, err := br.Peek(n)
	if err != nil {
		return false
	}
	return bytes.IndexByte(buf, '\n') >= 0
}

func (s *Server) readFailed(log *slog.Logger, c *Conn, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF):
		_ = c.bw.Flush()
		log.Debug("connection closed by peer")
	case errors.Is(err, ErrLineTooLong):
		log.Warn("request line too long", "max_line_bytes", s.cfg.MaxLineBytes)
		if s.cfg.WriteTimeout > 0 {
			_ = c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		}
		_ = writeLine(c.bw, ReplyLineTooLong)
		_ = c.bw.Flush()
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Debug("connection idle timeout")
	case errors.Is(err, net.ErrClosed):
		log.Debug("connection closed")
	default:
		log.Debug("connection read error", "error", err)
	}
}
