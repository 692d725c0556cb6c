// Package schedule holds the scheduler root command's leaf commands.
package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vamsichris04/finals-scheduler/adapter/cli"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/commands"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/infrastructure/cache"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/infrastructure/loader"
	"github.com/spf13/cobra"
)

var (
	runAlgorithm    string
	runCompare      bool
	runScheduleType string
	runSeed         int64
	runMaxTime      time.Duration
	runExport       string
	runOutputDir    string
	runShowSchedule bool
	runRosterPath   string
	runWeekStart    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one or more solvers against the configured roster and catalog",
	Long: `run loads the worker roster, builds the operating-hour slot catalog for
the chosen week type, and dispatches it to the chosen solver (or, with
--compare, to all four solvers in turn).

Examples:
  scheduler run --algorithm CSP
  scheduler run --compare --schedule-type regular
  scheduler run --algorithm GA --seed 7 --export all --output-dir ./out`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("scheduler is not wired: no App configured")
		}

		roster, err := loadRoster(cmd, app)
		if err != nil {
			return fmt.Errorf("loading roster: %w", err)
		}
		if len(roster.Active()) == 0 {
			return fmt.Errorf("%w: every algorithm would report the same failure", domain.ErrEmptyActiveRoster)
		}

		weekType := domain.WeekType(runScheduleType)
		weekStart, err := parseWeekStart(runWeekStart)
		if err != nil {
			return err
		}

		catalog, err := domain.BuildHourlySlotCatalog(weekType, weekStart)
		if err != nil {
			return fmt.Errorf("building slot catalog: %w", err)
		}

		algorithms := []domain.Algorithm{domain.Algorithm(runAlgorithm)}
		if runCompare {
			algorithms = []domain.Algorithm{domain.Greedy, domain.GA, domain.SA, domain.CSP}
		}

		evalCfg := domain.DefaultEvaluatorConfig()

		var best *commands.RunSolverResult
		for _, algo := range algorithms {
			cmdData := commands.RunSolverCommand{
				Algorithm: algo,
				WeekType:  weekType,
				Roster:    roster,
				Catalog:   catalog,
				Config:    evalCfg,
				Seed:      runSeed,
				MaxTime:   runMaxTime,
			}

			result, err := runOne(cmd, app, cmdData)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", algo, err)
				continue
			}

			printSummary(algo, result)

			if best == nil || result.Result.Penalty < best.Result.Penalty {
				best = result
			}
		}

		if best == nil {
			return fmt.Errorf("no solver produced a usable result")
		}

		if runShowSchedule {
			printSchedule(services.NewEnvironment(roster, catalog, evalCfg), best.Result)
		}

		if runExport != "" {
			env := services.NewEnvironment(roster, catalog, evalCfg)
			if err := exportResult(env, best.Result, runSeed, runExport, runOutputDir); err != nil {
				return fmt.Errorf("exporting result: %w", err)
			}
		}

		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runAlgorithm, "algorithm", "a", string(domain.CSP), "solver to run: GA|SA|CSP|greedy")
	runCmd.Flags().BoolVar(&runCompare, "compare", false, "run all four solvers and report the best")
	runCmd.Flags().StringVar(&runScheduleType, "schedule-type", string(domain.FinalsWeek), "week type: finals|regular")
	runCmd.Flags().Int64Var(&runSeed, "seed", 1, "PRNG seed")
	runCmd.Flags().DurationVar(&runMaxTime, "max-time", 30*time.Second, "wall-clock budget per solver run")
	runCmd.Flags().StringVar(&runExport, "export", "", "export format: json|csv|shifts|all")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", ".", "directory to write exported files into")
	runCmd.Flags().BoolVar(&runShowSchedule, "show-schedule", false, "print the resulting schedule to stdout")
	runCmd.Flags().StringVar(&runRosterPath, "roster", "", "path to a roster JSON file, overriding the configured loader")
	runCmd.Flags().StringVar(&runWeekStart, "week-start", "", "Monday of the target week (YYYY-MM-DD, default: next Monday)")

	cli.AddCommand(runCmd)
}

func loadRoster(cmd *cobra.Command, app *cli.App) (*domain.Roster, error) {
	if runRosterPath != "" {
		return loader.NewFileLoader(runRosterPath).Load(cmd.Context())
	}
	if app.Loader == nil {
		return nil, fmt.Errorf("no roster source configured: pass --roster or set LOADER_URL")
	}
	return app.Loader.Load(cmd.Context())
}

func parseWeekStart(s string) (time.Time, error) {
	if s == "" {
		return nextMonday(time.Now()), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --week-start, use YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func nextMonday(from time.Time) time.Time {
	days := (int(time.Monday) - int(from.Weekday()) + 7) % 7
	return time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()).AddDate(0, 0, days)
}

func runOne(cmd *cobra.Command, app *cli.App, cmdData commands.RunSolverCommand) (*commands.RunSolverResult, error) {
	var cacheKey string
	if app.RunCache != nil {
		cacheKey = cache.Key(cmdData.Roster, cmdData.Catalog, cmdData.Algorithm, cmdData.Seed)
		env := services.NewEnvironment(cmdData.Roster, cmdData.Catalog, cmdData.Config)
		if cached, err := app.RunCache.Get(cmd.Context(), cacheKey, env); err == nil {
			return &commands.RunSolverResult{
				Result:    cached,
				Report:    services.QuickValidate(env, cached.State),
				Succeeded: true,
			}, nil
		}
	}

	result, err := app.RunSolverHandler.Handle(cmd.Context(), cmdData)
	if err != nil {
		return nil, err
	}

	if app.RunCache != nil && result.Succeeded {
		_ = app.RunCache.Set(cmd.Context(), cacheKey, cmdData.Catalog.Len(), result.Result)
	}

	return result, nil
}

func printSummary(algo domain.Algorithm, result *commands.RunSolverResult) {
	fmt.Printf("%-8s penalty=%-10.1f quality=%-14s converged=%-5t runtime=%s\n",
		algo, result.Result.Penalty, result.Report.Quality, result.Result.Converged, result.Result.Runtime)
	if len(result.Report.UncoveredSlots) > 0 {
		fmt.Printf("         %d uncovered slot(s)\n", len(result.Report.UncoveredSlots))
	}
}

func printSchedule(env *services.Environment, result services.Result) {
	export := services.BuildExport(env, result, runSeed)
	fmt.Println(strings.Repeat("=", 60))
	for _, block := range export.Schedule {
		fmt.Printf("%s %s-%s %-7s %s\n", block.Date, block.Start, block.End, block.Kind, strings.Join(block.Assignees, ", "))
	}
	fmt.Println(strings.Repeat("-", 60))
	for _, w := range export.WorkerSummary {
		fmt.Printf("%-20s %3d / %3d hours\n", w.Name, w.Hours, w.Desired)
	}
}

func exportResult(env *services.Environment, result services.Result, seed int64, format, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	export := services.BuildExport(env, result, seed)

	formats := []string{format}
	if format == "all" {
		formats = []string{"json", "csv", "shifts"}
	}

	for _, f := range formats {
		switch f {
		case "json":
			data, err := export.ToJSON()
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(outputDir, "schedule.json"), data, 0o644); err != nil {
				return err
			}
		case "csv":
			if err := os.WriteFile(filepath.Join(outputDir, "schedule.csv"), []byte(export.ToCSV()), 0o644); err != nil {
				return err
			}
		case "shifts":
			records := export.ToShiftRecords()
			data, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(outputDir, "shifts.json"), data, 0o644); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown export format %q", f)
		}
	}

	return nil
}
