package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/energytrends/internal/api"
	"github.com/wonny/energytrends/internal/api/handlers"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "상태 API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                 - Health check
  GET  /api/snapshots/latest   - 최신 스냅샷 요약
  GET  /api/quality/latest     - 최신 품질 리포트
  POST /api/pipeline/run       - 파이프라인 실행
  POST /api/quality/check      - 품질 재검증

Example:
  go run ./cmd/energytrends serve
  go run ./cmd/energytrends serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API 서버 포트 (기본값 PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := newApp(context.Background())
	if err != nil {
		return err
	}
	defer a.close()

	if servePort != "" {
		a.cfg.Port = servePort
	}

	var dates handlers.EventDateReader
	if a.repo != nil {
		dates = a.repo
	}

	h := handlers.NewPipelineHandler(a.runner, a.cfg.Pipeline.OutputDir, dates, a.log)
	server := api.New(a.cfg, a.log, api.NewRouter(h, a.log))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	PrintHeader(out, "Energy Trends API")
	PrintField(out, "URL", fmt.Sprintf("http://localhost:%s", a.cfg.Port))
	PrintField(out, "Output", a.cfg.Pipeline.OutputDir)
	PrintSeparator(out)
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	// Wait for interrupt signal or a failed listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			a.log.WithError(err).Error("API server failed")
		}
		return err
	case <-quit:
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
