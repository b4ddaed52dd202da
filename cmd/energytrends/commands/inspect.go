package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/energytrends/internal/reshape"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <workbook.xlsx>",
	Short: "워크북 레이아웃 확인 (저장 없음)",
	Long: `워크북의 Quarter 시트를 읽어 변환에 사용될 시리즈와 분기 컬럼을 출력합니다.
분기 라벨로 해석되지 않는 헤더도 함께 표시합니다. 파일은 저장하지 않습니다.

Example:
  go run ./cmd/energytrends inspect ./output/ET_3.1_DEC_24.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sheet, err := reshape.LoadSheet(args[0], cfg.Pipeline.SheetName, cfg.Pipeline.HeaderRows)
	if err != nil {
		return err
	}

	layout := reshape.Describe(sheet)

	PrintHeader(out, "Workbook layout")
	PrintField(out, "Workbook", args[0])
	PrintField(out, "Sheet", layout.Sheet)
	PrintField(out, "Data rows", layout.DataRows)
	PrintSeparator(out)
	PrintList(out, "Series", layout.Series)
	PrintList(out, "Quarter columns", layout.QuarterColumns)
	PrintList(out, "Skipped headers", layout.SkippedHeaders)
	PrintSeparator(out)
	PrintField(out, "Max records", len(layout.Series)*len(layout.QuarterColumns)) // before dedup

	return nil
}
