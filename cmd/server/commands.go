package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bassista/go_notes/internal/repository"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "notes-server",
		Short:         "Notes HTTP API backed by a JSON file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configDir != "" {
				return os.Setenv("NOTES_CONFIG_PATH", configDir)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(cmd, serve())
		},
	}
	root.PersistentFlags().StringVar(&configDir, "config", "", "directory containing config.yaml (default ./config)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(cmd, serve())
		},
	})
	root.AddCommand(newCheckCommand())
	return root
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the data file and exit",
		Long:  "Loads the configured data file and verifies it is a valid note collection. Exits non-zero when it is corrupt or unreadable.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return report(cmd, err)
			}
			return report(cmd, runCheck(cmd.Context(), afero.NewOsFs(), cfg.Data.FilePath, cmd.OutOrStdout()))
		},
	}
}

// runCheck loads path and prints a one-line verdict.
func runCheck(ctx context.Context, fsys afero.Fs, path string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := repository.NewJSONRepository(fsys, path)
	if err != nil {
		return err
	}
	notes, err := repo.Load(ctx)
	if errors.Is(err, repository.ErrCorruptStore) {
		fmt.Fprintf(out, "%s: corrupt\n", path)
		return err
	}
	if err != nil {
		fmt.Fprintf(out, "%s: unreadable\n", path)
		return err
	}
	fmt.Fprintf(out, "%s: ok, %d notes\n", path, len(notes))
	return nil
}

func report(cmd *cobra.Command, err error) error {
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}
	return err
}
