package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "최신 스냅샷 품질 재검증",
	Long: `OUTPUT_DIR에서 가장 최근 energy_supply_quarterly_*.csv를 찾아
전체 품질 검사(행 수, 필수 컬럼 5개, 결측치 예산)를 수행합니다.

통과 시 quality_report_<YYYYMMDD_HHMMSS>.txt를 새로 작성합니다.
실패 시 리포트는 작성하지 않습니다.

Example:
  go run ./cmd/energytrends check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	PrintHeader(out, "Quality check")
	PrintField(out, "Output", a.cfg.Pipeline.OutputDir)
	PrintField(out, "Min rows", a.cfg.Pipeline.MinRows)
	PrintField(out, "Max missing", a.cfg.Pipeline.MaxMissing)
	PrintSeparator(out)

	result, err := a.runner.CheckLatest(ctx)
	if err != nil {
		a.log.WithError(err).Error("Quality check failed")
		printRunError(cmd, err)
		return err
	}

	PrintField(out, "Snapshot", result.SnapshotPath)
	PrintField(out, "Rows", result.Rows)
	PrintField(out, "Report", result.Report.Path)
	PrintSuccess(out, "QUALITY CHECK: PASSED")

	return nil
}
