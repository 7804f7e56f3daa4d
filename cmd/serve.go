package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gotimesheet/internal/timeutil"
	"gotimesheet/web"
)

var (
	servePort   int
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local JSON API",
	Long: `Start a local HTTP server exposing the timesheet operations as JSON.

Routes:
  GET    /api/users
  GET    /api/projects
  GET    /api/entries?user=&date=&period=&ref=&project=&role=
  POST   /api/entries
  PATCH  /api/entries/{id}/notes
  POST   /api/entries/{id}/status
  DELETE /api/days/{date}?user=
  GET    /api/days/{date}/summary?user=
  GET    /api/report?period=&ref=&group=&top=
  GET    /api/members?period=&ref=

Validation failures answer 422 with {"error": code, "message": text}.`,
	Example: `
  # Start on the configured port (server.port, default 8080)
  gotimesheet serve

  # Custom port, no browser
  gotimesheet serve --port 9090 --no-open
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose = true
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		port := resolveServePort(servePort, a.cfg.Server.Port)
		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           web.NewServer(a.store, a.service, *a.cfg, a.logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		a.logger.Info("listening", "url", listenURL, "db", a.cfg.Storage.DBPath)
		if !serveNoOpen {
			target := serveLandingURL(listenURL, time.Now())
			if openErr := openURLInBrowser(target); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port for the local server (default: server.port)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func resolveServePort(flagPort, configPort int) int {
	if flagPort > 0 {
		return flagPort
	}
	return configPort
}

// serveLandingURL points the browser at today's day summary.
func serveLandingURL(base string, now time.Time) string {
	return base + "/api/days/" + timeutil.FormatDate(now) + "/summary"
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
