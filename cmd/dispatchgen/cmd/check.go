package cmd

import (
	"context"

	"github.com/grafana/dispatchgen/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that generated code on disk is up to date",
		Long: `Generate code in memory and compare it to the files on disk.

The command fails, printing a diff, when a generated file is missing or
differs. Use it in CI to make sure generated code has been committed.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			return check(cmd.Context(), cfg, log)
		},
	}
}

func check(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	fs, pkg, err := plan(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := fs.Verify(ctx, pkg.Dir); err != nil {
		return err
	}
	for _, f := range fs.AsFiles() {
		log.Info("up to date", zap.String("file", f.RelativePath))
	}
	return nil
}
