package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/wayfind/internal/api"
	"github.com/kalambet/wayfind/internal/config"
	"github.com/kalambet/wayfind/internal/guidance"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the wayfind server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running wayfind server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show wayfind system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func pidFilePath(dataDir string) string {
	if dataDir == "" {
		return filepath.Join(os.TempDir(), "wayfind.pid")
	}
	return filepath.Join(dataDir, "wayfind.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "wayfind version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	})))

	// Refuse a second instance. Check the health endpoint rather than just
	// the PID file, since a stale file survives crashes.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("wayfind is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("wayfind is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sys, err := guidance.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sys.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	if !sys.ModelEnabled {
		slog.Warn("no Groq API key configured; analysis and chat run in degraded mode")
	} else if !sys.SearchEnabled {
		slog.Warn("no SerpAPI key configured; analysis uses the language model without web search")
	}
	if cfg.Storage.DataDir == "" {
		slog.Info("no data directory configured; session state is in-memory only")
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(sys),
	}

	// MCP server on stdio.
	mcpSrv := api.NewMCPServer(sys)
	stdioSrv := server.NewStdioServer(mcpSrv)
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "wayfind listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("wayfind is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop wayfind (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to wayfind (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	var health struct {
		Status        string `json:"status"`
		SearchEnabled bool   `json:"search_enabled"`
		ModelEnabled  bool   `json:"model_enabled"`
	}
	resp, err := client.Get(serverURL + "/health")
	running := false
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		if resp.StatusCode == 200 {
			running = true
			decodeJSON(resp, &health)
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			resp.Body.Close()
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	if running {
		printStatus("Web search", "%s", enabledLabel(health.SearchEnabled))
		printStatus("Language model", "%s", enabledLabel(health.ModelEnabled))
	} else {
		printStatus("Web search", "%s", enabledLabel(cfg.Providers.SerpAPIKey != ""))
		printStatus("Language model", "%s", enabledLabel(cfg.Providers.GroqAPIKey != ""))
	}
	printStatus("Model", "%s", cfg.Providers.Model)

	if running {
		var list struct {
			Reports []struct {
				CareerName string `json:"career_name"`
			} `json:"reports"`
		}
		if reportsResp, err := client.Get(serverURL + "/reports"); err == nil {
			if decodeJSON(reportsResp, &list) == nil {
				printStatus("Reports", "%d", len(list.Reports))
			}
		}
	}

	if cfg.Storage.DataDir == "" {
		printStatus("Data dir", "(in-memory)")
	} else {
		printStatus("Data dir", "%s", cfg.Storage.DataDir)
	}
	return nil
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
