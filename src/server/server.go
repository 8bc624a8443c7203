package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/quic-go/quic-go"

	"threadsched/src/config"
	"threadsched/src/server/httpapi"
	"threadsched/src/server/stream"
	"threadsched/src/server/stream_handler"
	"threadsched/src/server/task"
	"threadsched/src/transport"
)

// Serves simulation requests over QUIC and, when configured, HTTP. Both
// front ends share one task scheduler, so remote runs are admitted by the
// configured queue policy and executed one at a time.
type Server struct {
	cfg    config.ServerConfig
	logger *slog.Logger

	tasks         task.TaskScheduler
	streamHandler *stream_handler.StreamHandler
}

func NewServer(cfg config.ServerConfig, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tasks, err := task.NewTaskScheduler(task.QueuePolicy(cfg.QueuePolicy), cfg.QueueSize)
	if err != nil {
		return nil, err
	}

	logger = logger.With("component", "server")
	return &Server{
		cfg:           cfg,
		logger:        logger,
		tasks:         tasks,
		streamHandler: stream_handler.NewStreamHandler(tasks, logger),
	}, nil
}

func (s *Server) Listen() (*quic.Listener, error) {
	tlsConf, err := transport.ServerTLSConfig()
	if err != nil {
		return nil, err
	}
	return quic.ListenAddr(s.cfg.Addr, tlsConf, transport.ServerQUICConfig())
}

// Listens on the configured addresses and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := s.Listen()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 1)
	if s.cfg.HTTPAddr != "" {
		go func() {
			errs <- s.serveHTTP(ctx)
			cancel()
		}()
	} else {
		errs <- nil
	}

	err = s.Serve(ctx, listener)
	cancel()
	return errors.Join(err, <-errs)
}

// Accepts QUIC connections on listener until ctx is cancelled. The
// listener is closed on return.
func (s *Server) Serve(ctx context.Context, listener *quic.Listener) error {
	defer listener.Close()

	go s.tasks.Run()
	defer s.tasks.Stop()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.logger.Info("server listening", "addr", listener.Addr(), "queue", s.cfg.QueuePolicy)

	for {
		connection, err := listener.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("server stopped")
				return nil
			}
			return err
		}
		s.onConnectionAccepted(ctx, connection)
	}
}

func (s *Server) onConnectionAccepted(ctx context.Context, connection *quic.Conn) {
	s.logger.Debug("connection accepted", "remote", connection.RemoteAddr())

	// accept streams in background
	go func() {
		for {
			str, err := connection.AcceptStream(ctx)
			if err != nil {
				s.logger.Debug("connection closed", "remote", connection.RemoteAddr(), "error", err)
				return
			}
			go s.streamHandler.HandleStream(ctx, stream.New(str))
		}
	}()
}

func (s *Server) serveHTTP(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           httpapi.New(s.tasks, s.logger),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http listening", "addr", s.cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
