// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"github.com/invowk/opsconsole/internal/render"
)

// Server serves console pages over SSH. A Server is single-use: once stopped
// or failed, create a new one.
type Server struct {
	cfg    Config
	source ConsoleSource
	logger *log.Logger

	state atomic.Int32

	stateMu  sync.Mutex
	srv      *ssh.Server
	listener net.Listener
	addr     string

	wg        sync.WaitGroup
	startedCh chan struct{}
	errCh     chan error
	lastErr   error
}

// New creates a server rendering the consoles returned by source. A nil
// logger discards output.
func New(cfg Config, source ConsoleSource, logger *log.Logger) (*Server, error) {
	defaults := DefaultConfig()
	if cfg.Host == "" {
		cfg.Host = defaults.Host
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = defaults.StartupTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		token, err := generateToken()
		if err != nil {
			return nil, err
		}
		cfg.Token = token
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		cfg:       cfg,
		source:    source,
		logger:    logger.WithPrefix("ssh"),
		startedCh: make(chan struct{}),
		errCh:     make(chan error, 1),
	}
	s.state.Store(int32(StateCreated))
	return s, nil
}

func generateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Token returns the password clients must present.
func (s *Server) Token() string { return s.cfg.Token }

// State returns the current server state.
func (s *Server) State() ServerState { return ServerState(s.state.Load()) }

// Address returns the bound address (host:port), or "" before Start succeeds.
func (s *Server) Address() string {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.addr
}

// Err returns a channel that receives fatal serve errors after Start.
func (s *Server) Err() <-chan error { return s.errCh }

// Start binds the listener and begins serving. It returns once the server
// accepts connections, or with the startup error.
func (s *Server) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", s.State())
	}

	startupCtx, cancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer cancel()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		return s.fail(fmt.Errorf("failed to listen on %s: %w", addr, err))
	}

	srv, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(s.cfg.HostKeyPath),
		wish.WithPasswordAuth(s.passwordHandler),
		wish.WithMiddleware(s.pageMiddleware()),
	)
	if err != nil {
		_ = listener.Close()
		return s.fail(fmt.Errorf("failed to create SSH server: %w", err))
	}

	s.stateMu.Lock()
	s.srv = srv
	s.listener = listener
	s.addr = listener.Addr().String()
	s.stateMu.Unlock()

	s.wg.Add(1)
	go s.serve(srv, listener)

	select {
	case <-s.startedCh:
		s.logger.Info("serving console pages", "address", s.Address())
		return nil
	case <-startupCtx.Done():
		_ = srv.Close()
		return s.fail(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
	}
}

func (s *Server) serve(srv *ssh.Server, listener net.Listener) {
	defer s.wg.Done()

	if s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(s.startedCh)
	}
	err := srv.Serve(listener)
	if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return
	}
	select {
	case s.errCh <- fmt.Errorf("serve error: %w", err):
	default:
		s.logger.Error("SSH server error", "error", err)
	}
}

// Stop shuts the server down gracefully. Safe to call more than once.
func (s *Server) Stop() error {
	for {
		current := s.State()
		switch current {
		case StateStopped, StateFailed:
			return nil
		case StateCreated:
			if s.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return nil
			}
		case StateStopping:
			s.wg.Wait()
			return nil
		case StateStarting, StateRunning:
			if s.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				return s.doStop()
			}
		}
	}
}

func (s *Server) doStop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.stateMu.Lock()
	srv := s.srv
	s.stateMu.Unlock()

	var err error
	if srv != nil {
		if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil && !errors.Is(shutdownErr, ssh.ErrServerClosed) {
			err = fmt.Errorf("shutdown: %w", shutdownErr)
		}
	}
	s.wg.Wait()
	s.state.Store(int32(StateStopped))
	s.logger.Info("SSH server stopped")
	return err
}

func (s *Server) fail(err error) error {
	s.lastErr = err
	s.state.Store(int32(StateFailed))
	return err
}

func (s *Server) passwordHandler(_ ssh.Context, password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Token)) == 1
}

// pageMiddleware renders the page named by the session command.
func (s *Server) pageMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			route := "/"
			if args := sess.Command(); len(args) > 0 {
				route = args[0]
			}
			out, err := s.renderPage(sess.Context(), route)
			if err != nil {
				s.logger.Warn("render failed", "user", sess.User(), "route", route, "error", err)
				wish.Errorln(sess, err)
				_ = sess.Exit(1)
				return
			}
			s.logger.Debug("rendered page", "user", sess.User(), "route", route)
			wish.Println(sess, out)
			_ = sess.Exit(0)
		}
	}
}

func (s *Server) renderPage(ctx context.Context, route string) (string, error) {
	c, err := s.source(ctx)
	if err != nil {
		return "", err
	}
	return render.New(c, render.Options{Concurrency: s.cfg.Concurrency, Logger: s.logger}).Page(ctx, route)
}
