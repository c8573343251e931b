// Package cmd holds the cobra commands of dispatchgen.
package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/grafana/dispatchgen"
	"github.com/grafana/dispatchgen/internal/config"
	"github.com/grafana/dispatchgen/internal/load"
	"github.com/grafana/dispatchgen/internal/logger"
	"github.com/grafana/dispatchgen/model"
	"github.com/grafana/dispatchgen/synth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd returns the dispatchgen command. Run without a subcommand, it
// generates code and writes it next to the package it was read from.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dispatchgen",
		Short: "Generate a request/dispatch layer for the methods of a Go type",
		Long: `Generate a request/dispatch layer for the methods of a Go type.

For a type T, dispatchgen writes:
  - TRequest, a closed union with one variant per method
  - TService, the readiness check and call operation every dispatcher offers
  - TDispatcher, which serves a TRequest by calling the matching method of T
  - TClient, with one method per method of T that goes through a TService

Methods must return (V, error) or error. A leading context.Context
parameter carries the call context and does not become a request field.

Examples:
  dispatchgen -t Store                     # writes store_dispatch.go
  dispatchgen -t Store -t Cache -o gen.go  # both types in gen.go
  dispatchgen -t Store --inline --stdout   # standalone unit to stdout
  dispatchgen check -t Store               # fail if store_dispatch.go is stale`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			return generate(cmd.Context(), cfg, log, cmd.OutOrStdout())
		},
	}

	flags := root.PersistentFlags()
	flags.StringSliceP("type", "t", nil, "Type to generate for; repeat for several types of the same package")
	flags.StringP("dir", "d", ".", "Directory of the package to read")
	flags.StringP("output", "o", "", "Generated file, relative to --dir (default <type>_dispatch.go, or "+dispatchgen.PackageFile+" for several types)")
	flags.Bool("inline", false, "Emit the original declarations followed by the generated ones as a standalone unit")
	flags.Bool("stdout", false, "Write generated code to stdout instead of --dir")
	flags.String("config", "", "Config file (default ./"+config.FileName+".yaml if present)")
	flags.BoolP("verbose", "v", false, "Log debug output")
	flags.Bool("json-log", false, "Log JSON lines")

	root.AddCommand(newCheckCmd())
	return root
}

func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	v, err := config.New(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(v, path, ".", v.GetString("dir"))
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log := logger.New(logger.Options{
		JSON:    cfg.JSONLog,
		Verbose: cfg.Verbose,
		Out:     cmd.ErrOrStderr(),
	})
	if used := v.ConfigFileUsed(); used != "" {
		log.Debug("loaded config", zap.String("file", used))
	}
	return cfg, log, nil
}

// target is a type to generate for, along with the package it was read
// from, so failures name the type the way Go code refers to it.
type target struct {
	pkg   string
	iface *model.Interface
}

func (t target) typ() *model.Interface {
	return t.iface
}

// plan loads the package named by cfg and runs the generators over it. The
// returned FS holds paths relative to the package directory.
func plan(ctx context.Context, cfg *config.Config, log *zap.Logger) (*dispatchgen.FS, *load.Package, error) {
	pkg, err := load.Dir(ctx, cfg.Dir)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("loaded package", zap.String("package", pkg.Name), zap.String("dir", pkg.Dir), zap.Int("files", len(pkg.Files)))

	ifaces, err := pkg.Interfaces(cfg.Types...)
	if err != nil {
		for _, perr := range model.ParseErrors(err) {
			log.Debug("parse error", zap.Stringer("pos", perr.Pos), zap.String("msg", perr.Msg))
		}
		return nil, nil, err
	}
	for _, iface := range ifaces {
		log.Debug("parsed type",
			zap.String("type", iface.Name),
			zap.Stringer("kind", iface.Kind),
			zap.Int("methods", len(iface.Methods)),
			zap.Stringer("shape", synth.ShapeOf(iface)),
		)
	}

	output := cfg.Output
	if filepath.IsAbs(output) {
		if output, err = filepath.Rel(pkg.Dir, output); err != nil {
			return nil, nil, err
		}
	}

	opts := synth.Options{Inline: cfg.Inline}
	jl := dispatchgen.JennyListWithNamer(func(t target) string {
		return t.pkg + "." + t.iface.Name
	})
	if len(ifaces) == 1 {
		j := dispatchgen.DispatchJenny{Options: opts}
		if output != "" {
			j.Path = func(*model.Interface) string { return output }
		}
		jl.AppendOneToOne(dispatchgen.AdaptOneToOne[target, *model.Interface](j, target.typ))
	} else {
		pj := dispatchgen.PackageJenny{Options: opts, Path: output}
		jl.AppendManyToOne(dispatchgen.AdaptManyToOne[target, *model.Interface](pj, target.typ))
	}
	jl.AddPostprocessors(dispatchgen.GoFormat())

	targets := make([]target, len(ifaces))
	for i, iface := range ifaces {
		targets[i] = target{pkg: pkg.Name, iface: iface}
	}
	fs, err := jl.GenerateFS(targets...)
	if err != nil {
		return nil, nil, err
	}
	return fs, pkg, nil
}

func generate(ctx context.Context, cfg *config.Config, log *zap.Logger, stdout io.Writer) error {
	fs, pkg, err := plan(ctx, cfg, log)
	if err != nil {
		return err
	}

	if cfg.Stdout {
		for _, f := range fs.AsFiles() {
			if _, err := stdout.Write(f.Data); err != nil {
				return err
			}
		}
		return nil
	}

	if err := fs.Write(ctx, pkg.Dir); err != nil {
		return fmt.Errorf("writing generated code: %w", err)
	}
	for _, f := range fs.AsFiles() {
		log.Info("generated", zap.String("file", filepath.Join(pkg.Dir, f.RelativePath)), zap.Int("bytes", len(f.Data)))
	}
	return nil
}
