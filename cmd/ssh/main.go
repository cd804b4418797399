package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/shapecollide/internal/config"
	"github.com/tomz197/shapecollide/internal/console"
	"github.com/tomz197/shapecollide/internal/draw"
	"github.com/tomz197/shapecollide/internal/log"
	"github.com/tomz197/shapecollide/internal/service"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(log.ParseLevel(cfg.Log.Level))
	defer func() { _ = logger.Sync() }()

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", log.Err(workErr))
	}
	logger.Info("ssh config",
		log.String("host", cfg.SSH.Host),
		log.String("port", cfg.SSH.Port),
		log.String("host_key_path", cfg.SSH.HostKeyPath),
		log.String("working_dir", workingDir),
	)

	svc := service.New(logger, service.Options{
		Name:     cfg.Name,
		Workers:  cfg.Batch.Workers,
		MaxPairs: cfg.Batch.MaxPairs,
	})

	// Sessions are cancelled when the server shuts down.
	ctx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			consoleMiddleware(ctx, svc, logger),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	}
	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Error("failed to create server", log.Err(err))
		os.Exit(1)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", log.String("addr", s.Addr))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Error("server error", log.Err(err))
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down ssh server")
	cancelSessions()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", log.Err(err))
	}
}

// consoleMiddleware runs a collision console for every session with a PTY.
func consoleMiddleware(ctx context.Context, svc *service.Service, logger log.Log) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			logger.Debug("new console session",
				log.String("user", sess.User()),
				log.String("term", pty.Term),
				log.Int("width", pty.Window.Width),
				log.Int("height", pty.Window.Height),
			)

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			sessCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() {
				select {
				case <-sess.Context().Done():
					cancel()
				case <-sessCtx.Done():
				}
			}()

			c := console.New(svc, sess, sess, console.Options{
				TermSizeFunc: sizeTracker.getSize,
				Username:     sess.User(),
				Log:          logger,
			})
			if err := c.Run(sessCtx); err != nil {
				logger.Warn("console error", log.String("user", sess.User()), log.Err(err))
			}
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
