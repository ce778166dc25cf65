package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/studyplan/internal/config"
	"github.com/example/studyplan/internal/excel"
	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/internal/plans"
	"github.com/example/studyplan/internal/recording"
	"github.com/example/studyplan/pkg/models"
)

const dateLayout = "2006-01-02"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "Study plan scheduling, review and progress engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		serveCommand(),
		planCommand(),
		tasksCommand(),
		recordCommand(),
		importCommand(),
		exportCommand(),
		rankingCommand(),
		statsCommand(),
		reviewsCommand(),
		friendCommand(),
		goalCommand(),
		pointsCommand(),
	)
	return root
}

// run loads configuration, wires the app and hands it to fn
func run(cmd *cobra.Command, withBot bool, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg, log, withBot)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer a.Close()

	return fn(ctx, a)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the weekly reset and reminder jobs until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, true, func(ctx context.Context, a *app) error {
				if !a.cfg.Scheduler.Enabled {
					a.log.Warn("scheduler is disabled, nothing to run")
					return nil
				}
				if a.notifier == nil {
					a.log.Warn("TELEGRAM_BOT_TOKEN is not set, reminders are disabled")
				}
				sched := a.newScheduler()
				if err := sched.Start(); err != nil {
					return err
				}
				defer sched.Stop()

				a.log.Info("studyplan started, press Ctrl+C to stop")
				<-ctx.Done()
				a.log.Info("shutting down")
				return nil
			})
		},
	}
}

func planCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "plan", Short: "Manage study plans"}

	var req plans.CreateRequest
	var deadline string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a study plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				d, err := parseDate(deadline, a.cfg.Location)
				if err != nil {
					return err
				}
				req.Deadline = d
				plan, err := a.plans.Create(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd, plan)
			})
		},
	}
	create.Flags().StringVar(&req.UserID, "user", "", "owner user id")
	create.Flags().StringVar(&req.Title, "title", "", "plan title")
	create.Flags().StringVar(&req.UnitLabel, "label", "", "unit label, e.g. page")
	create.Flags().IntVar(&req.TotalUnits, "units", 0, "number of units")
	create.Flags().IntVar(&req.StartUnit, "start", 0, "first unit number (default 1)")
	create.Flags().StringVar(&deadline, "deadline", "", "deadline YYYY-MM-DD")
	create.Flags().StringVar((*string)(&req.Difficulty), "difficulty", "normal", "easy, normal or hard")
	create.Flags().IntVar(&req.TargetRounds, "rounds", 1, "target rounds")
	create.Flags().IntSliceVar(&req.StudyDays, "days", nil, "ISO weekdays to study on (1 = Monday)")
	_ = create.MarkFlagRequired("user")
	_ = create.MarkFlagRequired("deadline")

	var userID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List plans with their progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				all, err := a.plans.List(ctx, userID)
				if err != nil {
					return err
				}
				type row struct {
					Plan          models.StudyPlan     `json:"plan"`
					Progress      models.Progress      `json:"progress"`
					Achievability models.Achievability `json:"achievability"`
				}
				out := make([]row, 0, len(all))
				for i := range all {
					sessions, err := a.sessionsRepo.GetByPlan(ctx, userID, all[i].ID)
					if err != nil {
						return err
					}
					out = append(out, row{
						Plan:          all[i],
						Progress:      a.evaluator.CalculateProgress(&all[i], sessions),
						Achievability: a.evaluator.EvaluateAchievability(&all[i], sessions),
					})
				}
				return printJSON(cmd, out)
			})
		},
	}
	list.Flags().StringVar(&userID, "user", "", "user id")
	_ = list.MarkFlagRequired("user")

	status := func(use, short string, apply func(*plans.Service, context.Context, string, string) (*models.StudyPlan, error)) *cobra.Command {
		var user string
		c := &cobra.Command{
			Use:   use + " <plan-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, false, func(ctx context.Context, a *app) error {
					plan, err := apply(a.plans, ctx, user, args[0])
					if err != nil {
						return err
					}
					return printJSON(cmd, plan)
				})
			},
		}
		c.Flags().StringVar(&user, "user", "", "user id")
		_ = c.MarkFlagRequired("user")
		return c
	}

	cmd.AddCommand(create, list,
		status("pause", "Pause a plan", (*plans.Service).Pause),
		status("resume", "Resume a paused plan", (*plans.Service).Resume),
		status("complete", "Mark a plan completed", (*plans.Service).Complete),
	)
	return cmd
}

func tasksCommand() *cobra.Command {
	var userID, date string
	var all bool
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List open study and review tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				var out []models.ActiveTask
				switch {
				case date != "":
					d, err := parseDate(date, a.cfg.Location)
					if err != nil {
						return err
					}
					out = a.aggregator.ForDate(ctx, userID, d)
				case all:
					out = a.aggregator.All(ctx, userID)
				default:
					out = a.aggregator.Today(ctx, userID)
				}
				return printJSON(cmd, out)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&date, "date", "", "list the tasks of this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&all, "all", false, "measure completion against the whole history")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func recordCommand() *cobra.Command {
	var req recording.RecordRequest
	var date string
	var review bool
	var items []string
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a study or review session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, true, func(ctx context.Context, a *app) error {
				req.Date = a.now()
				if date != "" {
					d, err := parseDate(date, a.cfg.Location)
					if err != nil {
						return err
					}
					req.Date = d
				}
				req.Mode = models.ModeQuantity
				if cmd.Flags().Changed("start") || cmd.Flags().Changed("end") {
					req.Mode = models.ModeRange
				}
				req.Intent = recording.LearningIntent{}
				if review {
					req.Intent = recording.ReviewIntent{ItemIDs: items}
				}

				outcome, err := a.orchestrator.Record(ctx, req)
				if err != nil {
					return err
				}
				for _, f := range outcome.SecondaryFailures {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", f.Error())
				}
				return printJSON(cmd, outcome)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.UserID, "user", "", "user id")
	f.StringVar(&req.PlanID, "plan", "", "plan id")
	f.StringVar(&date, "date", "", "session date YYYY-MM-DD (default today)")
	f.IntVar(&req.Units, "units", 0, "units studied, placed after earlier progress")
	f.IntVar(&req.StartUnit, "start", 0, "first unit of an explicit range")
	f.IntVar(&req.EndUnit, "end", 0, "last unit of an explicit range")
	f.IntVar(&req.DurationMinutes, "minutes", 0, "duration in minutes")
	f.Float64Var(&req.Concentration, "concentration", 1, "concentration 0..1")
	f.IntVar(&req.DifficultyRating, "difficulty", 3, "perceived difficulty 1..5")
	f.BoolVar(&review, "review", false, "the session reviewed earlier units")
	f.StringSliceVar(&items, "items", nil, "review item ids the session covers")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("minutes")

	cmd.AddCommand(editSessionCommand(), deleteSessionCommand())
	return cmd
}

// editSessionCommand starts from the stored session so only the given flags change
func editSessionCommand() *cobra.Command {
	var userID, date string
	var req recording.EditRequest
	cmd := &cobra.Command{
		Use:   "edit <session-id>",
		Short: "Edit a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, true, func(ctx context.Context, a *app) error {
				stored, err := a.sessionsRepo.GetByID(ctx, userID, args[0])
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				if !flags.Changed("units") {
					req.Units = stored.UnitsCompleted
				}
				if stored.HasRange() {
					if !flags.Changed("start") {
						req.StartUnit = *stored.StartUnit
					}
					if !flags.Changed("end") {
						req.EndUnit = *stored.EndUnit
					}
				}
				if !flags.Changed("minutes") {
					req.DurationMinutes = stored.DurationMinutes
				}
				if !flags.Changed("concentration") {
					req.Concentration = stored.Concentration
				}
				if !flags.Changed("difficulty") {
					req.DifficultyRating = stored.DifficultyRating
				}
				req.Date = stored.Date
				if date != "" {
					if req.Date, err = parseDate(date, a.cfg.Location); err != nil {
						return err
					}
				}

				outcome, err := a.orchestrator.Edit(ctx, userID, args[0], req)
				if err != nil {
					return err
				}
				for _, f := range outcome.SecondaryFailures {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", f.Error())
				}
				return printJSON(cmd, outcome)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&userID, "user", "", "user id")
	f.StringVar(&date, "date", "", "session date YYYY-MM-DD")
	f.IntVar(&req.Units, "units", 0, "units studied")
	f.IntVar(&req.StartUnit, "start", 0, "first unit of the range")
	f.IntVar(&req.EndUnit, "end", 0, "last unit of the range")
	f.IntVar(&req.DurationMinutes, "minutes", 0, "duration in minutes")
	f.Float64Var(&req.Concentration, "concentration", 0, "concentration 0..1")
	f.IntVar(&req.DifficultyRating, "difficulty", 0, "perceived difficulty 1..5")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func deleteSessionCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				if err := a.orchestrator.Delete(ctx, userID, args[0]); err != nil {
					return err
				}
				a.log.Info("session deleted", "user_id", userID, "session_id", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func importCommand() *cobra.Command {
	var userID string
	importCfg := excel.DefaultImportConfig()
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import study plans from an xlsx or csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				importCfg.FilePath = args[0]
				importCfg.Location = a.cfg.Location
				result, err := excel.ImportPlans(ctx, importCfg, userID, a.plans)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "owner user id")
	cmd.Flags().StringVar(&importCfg.SheetName, "sheet", importCfg.SheetName, "sheet to read from xlsx files")
	cmd.Flags().IntVar(&importCfg.StartRow, "start-row", importCfg.StartRow, "first data row (1-based)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func exportCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export session history to xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				sessions, err := a.sessionsRepo.GetAllByUserID(ctx, userID)
				if err != nil {
					return err
				}
				all, err := a.plans.List(ctx, userID)
				if err != nil {
					return err
				}
				byID := make(map[string]*models.StudyPlan, len(all))
				for i := range all {
					byID[all[i].ID] = &all[i]
				}

				file, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", args[0], err)
				}
				if err := excel.ExportSessions(file, sessions, byID); err != nil {
					file.Close()
					return err
				}
				if err := file.Close(); err != nil {
					return err
				}
				a.log.Info("sessions exported", "user_id", userID, "count", len(sessions), "file", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func rankingCommand() *cobra.Command {
	var users string
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Show the weekly leaderboard of the given users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				ids := strings.Split(users, ",")
				if users == "" {
					var err error
					if ids, err = a.plansRepo.UserIDs(ctx); err != nil {
						return err
					}
				}
				ranking, err := a.ledger.GetRanking(ctx, ids)
				if err != nil {
					return err
				}
				return printJSON(cmd, ranking)
			})
		},
	}
	cmd.Flags().StringVar(&users, "users", "", "comma separated user ids (default every plan owner); names come from the first user's friends")
	return cmd
}

func statsCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show points, study time and review statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				points, err := a.ledger.GetOrCreate(ctx, userID)
				if err != nil {
					return err
				}
				study, err := a.ledger.GetStats(ctx, userID)
				if err != nil {
					return err
				}
				reviews, err := a.scorer.Stats(ctx, userID)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]interface{}{
					"points":  points,
					"study":   study,
					"reviews": reviews,
				})
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func reviewsCommand() *cobra.Command {
	var userID string
	var limit int
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "List the review items due today in review order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				queue, err := a.scorer.DueQueue(ctx, userID, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd, queue)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many items (0 for all)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
