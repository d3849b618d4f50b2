package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/web"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server and HTTP leaderboard API",
	Long: `Start an SSH server that lets users connect and play Blockfall.

Each SSH connection gets its own session with the mode and difficulty menu.
All users share one leaderboard. With --http the leaderboard is also served
as JSON:

  GET  /scores?difficulty=<name>&limit=<n>
  GET  /scores/{id}
  POST /scores
  GET  /stats

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.blockfall/host_key

Examples:
  blockfall serve                           # Listen on :23234 with auto-generated key
  blockfall serve --ssh :2222               # Listen on port 2222
  blockfall serve --http :8080              # Also serve the leaderboard API
  blockfall serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP leaderboard API address (disabled if empty)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	store := openStore()
	defer closeStore(store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	sshCfg.TickRate = flagFPS
	sshCfg.Game = cfg
	sshCfg.Preset = flagDifficulty

	server, err := tui.NewSSHServer(sshCfg, store, logger.WithPrefix("ssh"))
	if err != nil {
		logger.Error("cannot create SSH server", "err", err)
		closeStore(store)
		os.Exit(1)
	}

	errCh := make(chan error, 2)
	running := 1
	if flagHTTPAddr != "" {
		if store == nil {
			logger.Warn("HTTP API disabled: no scores database")
		} else {
			running++
			go func() { errCh <- serveHTTP(ctx, flagHTTPAddr, web.NewServer(store, logger.WithPrefix("http"))) }()
		}
	}
	go func() { errCh <- server.ListenAndServe(ctx) }()

	logger.Info("ready", "ssh", sshCfg.Address, "http", flagHTTPAddr)

	// The first failure stops the other server too.
	var failed error
	for range running {
		if err := <-errCh; err != nil && failed == nil {
			failed = err
			stop()
		}
	}
	if failed != nil {
		logger.Error("server error", "err", failed)
		closeStore(store)
		os.Exit(1)
	}
}

// serveHTTP runs the API until ctx is canceled.
func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP API", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
