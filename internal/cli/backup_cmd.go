package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/habitual/internal/backup"
	"github.com/alexanderramin/habitual/internal/cli/formatter"
	"github.com/alexanderramin/habitual/internal/service"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every habit to a YAML backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := app.Backup.Export(context.Background())
			if err != nil {
				return err
			}

			if file == "" || file == "-" {
				return backup.Encode(cmd.OutOrStdout(), schema)
			}

			f, err := os.Create(file)
			if err != nil {
				return fmt.Errorf("creating backup file: %w", err)
			}
			if err := backup.Encode(f, schema); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing backup file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d habits to %s\n",
				formatter.StyleGreen.Render("✔"), len(schema.Habits), file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Output path (default stdout)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var file string
	var merge bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore habits from a YAML backup",
		Long: `Restore habits from a YAML backup.

By default every existing habit is replaced. With --merge existing habits
are kept, and a backup record with a matching ID overwrites the name and
time and overlays its tracked days.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := service.ImportReplace
			if merge {
				mode = service.ImportMerge
			}

			res, err := app.Backup.ImportFile(context.Background(), file, mode)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %s: %d created, %d updated, %d removed\n",
				formatter.StyleGreen.Render("✔"), file, res.Created, res.Updated, res.Removed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Backup file to read")
	cmd.Flags().BoolVar(&merge, "merge", false, "Keep existing habits instead of replacing them")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
