package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/alexanderramin/habitual/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Habits service.HabitService
	Backup service.BackupService

	// EditDelay is the quiet period before a board name/time edit commits.
	EditDelay time.Duration

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// Now overrides the clock for tests.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// today is the local calendar day commands act on.
func (a *App) today() domain.DateKey {
	return domain.KeyOf(a.now())
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "habitual" command and registers all
// subcommands against the provided App. Without a subcommand it opens the
// board on a terminal and prints help otherwise.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "habitual",
		Short:         "Daily habit tracker with streaks",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			return runBoard(context.Background(), app)
		},
	}

	root.AddCommand(
		newAddCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newHistoryCmd(app),
		newMarkCmd(app),
		newEditCmd(app),
		newRemoveCmd(app),
		newStreakCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newBoardCmd(app),
	)

	return root
}
