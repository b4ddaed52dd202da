package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/energytrends/internal/store"
	"github.com/wonny/energytrends/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "PostgreSQL 싱크 연결 테스트",
	Long: `DATABASE_URL이 설정된 경우 싱크 연결을 테스트합니다.

이 명령어는:
- 데이터베이스 연결 생성
- Health Check 실행 (Ping + 풀 통계)
- energy 스키마 생성 확인
- 저장된 최신 분기 표시

Example:
  go run ./cmd/energytrends test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	PrintHeader(out, "Database connection test")
	PrintField(out, "ENV", cfg.Env)
	PrintField(out, "Database", maskPassword(cfg.Database.URL))
	PrintSeparator(out)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if errors.Is(err, database.ErrDisabled) {
		PrintWarning(out, "DATABASE_URL not set: the Postgres sink is disabled")
		return nil
	}
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	PrintField(out, "Healthy", status.Healthy)
	PrintField(out, "Response", status.ResponseTime)
	PrintField(out, "Connections", fmt.Sprintf("%d total / %d idle", status.TotalConns, status.IdleConns))

	repo := store.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	latest, ok, err := repo.LatestEventDate(ctx)
	if err != nil {
		return err
	}
	if ok {
		PrintField(out, "Latest", latest.Format("2006-01-02"))
	} else {
		PrintField(out, "Latest", "(no events stored)")
	}

	PrintSuccess(out, "Database sink ready")
	return nil
}

// maskPassword hides the password in a database URL for display
func maskPassword(raw string) string {
	if raw == "" {
		return "(not set)"
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable)"
	}
	return u.Redacted()
}
