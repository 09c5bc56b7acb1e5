package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/habitual/internal/cli/formatter"
	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var timeLabel string

	cmd := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Create a new habit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			} else if app.interactive() {
				if err := addHabitForm(&name, &timeLabel).Run(); err != nil {
					return err
				}
			}

			h, err := app.Habits.Create(context.Background(), name, timeLabel)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(h.DisplayName()), formatter.Dim(h.DisplayID()))
			return nil
		},
	}

	cmd.Flags().StringVar(&timeLabel, "time", "", "Time of day label (e.g. \"7:00 AM\")")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits with their streaks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			habits, err := app.Habits.List(context.Background())
			if err != nil {
				return err
			}

			today := app.today()
			rows := make([]formatter.HabitRow, 0, len(habits))
			for _, h := range habits {
				rows = append(rows, formatter.HabitRow{
					Habit:  h,
					Streak: domain.Streak(h.TrackedDays, h.StartDate, today),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHabitList(rows, today))
			return nil
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show HABIT",
		Short: "Show a habit with its 90-day grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := resolveHabit(context.Background(), app, args[0])
			if err != nil {
				return err
			}
			now := app.now()
			streak := domain.Streak(h.TrackedDays, h.StartDate, domain.KeyOf(now))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHabitDetail(h, now, streak))
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history HABIT",
		Short: "Show the past year as a heat map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := resolveHabit(context.Background(), app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHabitHistory(h, app.today()))
			return nil
		},
	}
}

func newMarkCmd(app *App) *cobra.Command {
	date := newDateKeyFlag(app.now)
	var set statusFlag

	cmd := &cobra.Command{
		Use:   "mark HABIT",
		Short: "Cycle a day's status, or set it with --set",
		Long: `Cycle a day's status: pending, done, missed, then back to pending.
The day defaults to today. Use --set to jump straight to a status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h, err := resolveHabit(ctx, app, args[0])
			if err != nil {
				return err
			}

			day := date.orToday()
			status := set.status
			if cmd.Flags().Changed("set") {
				h, err = app.Habits.SetDay(ctx, h.ID, day, status)
			} else {
				h, status, err = app.Habits.CycleDay(ctx, h.ID, day)
			}
			if err != nil {
				return err
			}

			streak := domain.Streak(h.TrackedDays, h.StartDate, app.today())
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s  %s\n",
				formatter.Bold(h.DisplayName()),
				formatter.Dim(string(day)),
				formatter.StatusPill(status),
				formatter.StreakBadge(streak))
			return nil
		},
	}

	cmd.Flags().Var(date, "date", "Day to mark (YYYY-MM-DD, today or yesterday)")
	cmd.Flags().Var(&set, "set", "Set the status instead of cycling (done, missed or pending)")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var name, timeLabel string

	cmd := &cobra.Command{
		Use:   "edit HABIT",
		Short: "Rename a habit or change its time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.HabitPatch
			if cmd.Flags().Changed("name") {
				trimmed := strings.TrimSpace(name)
				patch.Name = &trimmed
			}
			if cmd.Flags().Changed("time") {
				trimmed := strings.TrimSpace(timeLabel)
				patch.Time = &trimmed
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to change (use --name or --time)")
			}

			ctx := context.Background()
			h, err := resolveHabit(ctx, app, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Habits.Update(ctx, h.ID, patch)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(updated.DisplayName()))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&timeLabel, "time", "", "New time label (empty clears it)")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove HABIT",
		Aliases: []string{"rm"},
		Short:   "Delete a habit and its history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			h, err := resolveHabit(ctx, app, args[0])
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				confirmed := false
				title := fmt.Sprintf("Delete %q and all of its history?", h.DisplayName())
				if err := confirmForm(title, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			deleted, err := app.Habits.Delete(ctx, h.ID)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("%w: %s", domain.ErrHabitNotFound, h.ID)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n",
				formatter.StyleRed.Render("✕"), formatter.Bold(h.DisplayName()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newStreakCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "streak [HABIT]",
		Short: "Show the current streak of one or every habit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			today := app.today()

			var habits []*domain.Habit
			if len(args) == 1 {
				h, err := resolveHabit(ctx, app, args[0])
				if err != nil {
					return err
				}
				habits = []*domain.Habit{h}
			} else {
				all, err := app.Habits.List(ctx)
				if err != nil {
					return err
				}
				habits = all
			}

			out := cmd.OutOrStdout()
			if len(habits) == 0 {
				fmt.Fprintln(out, formatter.Dim("No habits yet."))
				return nil
			}
			for _, h := range habits {
				fmt.Fprintln(out, formatter.FormatStreak(h, domain.Streak(h.TrackedDays, h.StartDate, today)))
			}
			return nil
		},
	}
}
