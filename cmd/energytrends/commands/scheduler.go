package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/energytrends/internal/scheduler"
	"github.com/wonny/energytrends/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행 (완료까지 대기)

Example:
  go run ./cmd/energytrends scheduler start
  go run ./cmd/energytrends scheduler list
  go run ./cmd/energytrends scheduler run energy_pipeline`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- energy_pipeline: PIPELINE_SCHEDULE (기본 매일 06:00)
- quality_check: QUALITY_CHECK_SCHEDULE (기본 매일 06:30)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, sched, err := initScheduler()
	if err != nil {
		return err
	}
	defer a.close()

	sched.Start()

	PrintHeader(out, "Energy Trends scheduler")
	PrintList(out, "Registered jobs", sched.GetAllJobs())
	PrintSeparator(out)
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)
	<-quit

	fmt.Fprintln(out, "\nShutting down scheduler...")
	sched.Stop()

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, sched, err := initScheduler()
	if err != nil {
		return err
	}
	defer a.close()

	stats := sched.GetJobStats()

	fmt.Fprintln(out, "Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Fprintf(out, "  - %-16s %s\n", jobName, stats[jobName].Schedule)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	jobName := args[0]

	a, sched, err := initScheduler()
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Fprintf(out, "Running job: %s\n", jobName)

	result, err := sched.RunJobSync(context.Background(), jobName)
	if err != nil {
		printRunError(cmd, err)
		return err
	}

	PrintSuccess(out, fmt.Sprintf("Job %s completed in %.2fs", jobName, result.Duration.Seconds()))
	return nil
}

// initScheduler wires the app and registers the pipeline and check jobs
func initScheduler() (*app, *scheduler.Scheduler, error) {
	a, err := newApp(context.Background())
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(a.log)

	pipelineJob := jobs.NewPipelineJob(a.runner, a.cfg.Pipeline.Schedule, a.log)
	if err := sched.AddJob(pipelineJob); err != nil {
		a.close()
		return nil, nil, fmt.Errorf("add pipeline job: %w", err)
	}

	checkJob := jobs.NewQualityCheckJob(a.runner, a.cfg.Pipeline.CheckSchedule, a.log)
	if err := sched.AddJob(checkJob); err != nil {
		a.close()
		return nil, nil, fmt.Errorf("add quality check job: %w", err)
	}

	return a, sched, nil
}
