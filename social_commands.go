package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/studyplan/internal/gamification"
)

func friendCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "friend", Short: "Manage friends"}

	var userID string
	add := &cobra.Command{
		Use:   "add <friend-id>",
		Short: "Add a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				friend, err := a.ledger.AddFriend(ctx, userID, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, friend)
			})
		},
	}
	remove := &cobra.Command{
		Use:   "remove <friend-id>",
		Short: "Remove a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				return a.ledger.RemoveFriend(ctx, userID, args[0])
			})
		},
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List friends",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				friends, err := a.ledger.ListFriends(ctx, userID)
				if err != nil {
					return err
				}
				return printJSON(cmd, friends)
			})
		},
	}

	cmd.PersistentFlags().StringVar(&userID, "user", "", "user id")
	_ = cmd.MarkPersistentFlagRequired("user")
	cmd.AddCommand(add, remove, list)
	return cmd
}

func goalCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "goal", Short: "Manage cooperation goals"}

	var req gamification.CreateGoalRequest
	var participants, deadline string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a goal shared with other users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				if participants != "" {
					req.ParticipantIDs = strings.Split(participants, ",")
				}
				if deadline != "" {
					d, err := parseDate(deadline, a.cfg.Location)
					if err != nil {
						return err
					}
					req.Deadline = &d
				}
				goal, err := a.ledger.CreateCooperationGoal(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd, goal)
			})
		},
	}
	create.Flags().StringVar(&req.CreatorID, "user", "", "creator user id")
	create.Flags().StringVar(&req.Title, "title", "", "goal title")
	create.Flags().IntVar(&req.TargetProgress, "target", 0, "progress that completes the goal")
	create.Flags().StringVar(&participants, "with", "", "comma separated participant ids")
	create.Flags().StringVar(&deadline, "deadline", "", "deadline YYYY-MM-DD")
	_ = create.MarkFlagRequired("user")
	_ = create.MarkFlagRequired("title")
	_ = create.MarkFlagRequired("target")

	var progress int
	update := &cobra.Command{
		Use:   "progress <goal-id>",
		Short: "Set the progress of a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				goal, err := a.ledger.UpdateGoalProgress(ctx, args[0], progress)
				if err != nil {
					return err
				}
				return printJSON(cmd, goal)
			})
		},
	}
	update.Flags().IntVar(&progress, "value", 0, "new progress value")
	_ = update.MarkFlagRequired("value")

	var userID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the goals a user takes part in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				goals, err := a.ledger.ListGoals(ctx, userID)
				if err != nil {
					return err
				}
				return printJSON(cmd, goals)
			})
		},
	}
	list.Flags().StringVar(&userID, "user", "", "user id")
	_ = list.MarkFlagRequired("user")

	cmd.AddCommand(create, update, list)
	return cmd
}

func pointsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "points", Short: "Manage the points ledger"}

	var userID string
	reset := &cobra.Command{
		Use:   "reset-weekly",
		Short: "Zero weekly points of one user, or of everyone without --user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				if userID != "" {
					if err := a.ledger.ResetWeeklyPoints(ctx, userID); err != nil {
						return err
					}
					a.log.Info("weekly points reset", "user_id", userID)
					return nil
				}
				n, err := a.ledger.ResetAllWeeklyPoints(ctx)
				if err != nil {
					return err
				}
				a.log.Info("weekly points reset", "users", n)
				return nil
			})
		},
	}
	reset.Flags().StringVar(&userID, "user", "", "user id")

	cmd.AddCommand(reset)
	return cmd
}
