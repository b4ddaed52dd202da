package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/energytrends/internal/pipeline"
	"github.com/wonny/energytrends/internal/quality"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "파이프라인 1회 실행",
	Long: `최신 워크북을 내려받아 Quarter 시트를 변환하고 스냅샷 CSV를 저장합니다.

이 명령어는:
- GOV.UK 랜딩 페이지에서 첫 번째 .xlsx 링크 탐색
- 워크북을 OUTPUT_DIR에 저장
- wide → long 변환, 중복 제거
- 인라인 품질 검증 (실패 시 아무것도 저장하지 않음)
- energy_supply_quarterly_<YYYYMMDD>.csv 저장

Example:
  go run ./cmd/energytrends run
  go run ./cmd/energytrends run --file ./ET_3.1_DEC_24.xlsx`,
	RunE: runPipeline,
}

var runFile string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFile, "file", "", "로컬 워크북 경로 (다운로드 생략)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	PrintHeader(out, "Energy Trends pipeline")
	if runFile != "" {
		PrintField(out, "Workbook", runFile)
	} else {
		PrintField(out, "Source", a.cfg.Pipeline.SourceURL)
	}
	PrintField(out, "Output", a.cfg.Pipeline.OutputDir)
	PrintSeparator(out)

	start := time.Now()

	var result *pipeline.RunResult
	if runFile != "" {
		result, err = a.runner.RunFile(ctx, runFile)
	} else {
		result, err = a.runner.Run(ctx)
	}
	if err != nil {
		a.log.WithError(err).Error("Pipeline run failed")
		printRunError(cmd, err)
		return err
	}

	PrintField(out, "Records", result.Records)
	PrintField(out, "Null values", result.NullValues)
	PrintField(out, "Snapshot", result.SnapshotPath)
	if a.repo != nil {
		PrintField(out, "Persisted", result.Persisted)
	}
	PrintSuccess(out, fmt.Sprintf("Pipeline completed in %.2fs", time.Since(start).Seconds()))

	return nil
}

// printRunError explains quality failures, which are the expected way a run stops
func printRunError(cmd *cobra.Command, err error) {
	var failure *quality.Failure
	if errors.As(err, &failure) {
		PrintFailure(cmd.ErrOrStderr(), fmt.Sprintf("QUALITY FAILED (%s): %s", failure.Check, failure.Reason))
		return
	}
	PrintFailure(cmd.ErrOrStderr(), err.Error())
}
