// Command modelgen generates typed Go wrappers for model and proxy types
// declared in a YAML schema.
//
// Usage:
//
//	modelgen generate -s schema.yaml -o people_gen.go
//	modelgen validate schema.yaml other.yaml
//
// Settings are read from modelgen.toml and MODELGEN_* environment variables.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/markwash/meta/internal/infrastructure/codegen"
	"github.com/markwash/meta/internal/infrastructure/config"
	"github.com/markwash/meta/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParallelLoads bounds concurrent schema loads in validate.
const maxParallelLoads = 8

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configDir string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:          "modelgen",
		Short:        "Generate typed wrappers for model and proxy types",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config", "", "directory containing modelgen.toml")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(newGenerateCmd(opts), newValidateCmd(opts))
	return root
}

// setup loads configuration and builds the logger.
func (o *globalOptions) setup() (*config.Config, *zap.Logger, error) {
	var paths []string
	if o.configDir != "" {
		paths = append(paths, o.configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.Log.LoggerConfig()
	if o.logLevel != "" {
		logCfg.Level = o.logLevel
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func newGenerateCmd(opts *globalOptions) *cobra.Command {
	var schemaPath, outPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate typed wrappers from a schema",
		Long: `Reads a YAML schema describing model and proxy types and writes Go
source with one typed wrapper per type. Without --out the file is written
next to the schema, named after it with the configured suffix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync(log)
			}()

			out := outPath
			if out == "" {
				out = defaultOutPath(schemaPath, cfg.Generate.Suffix)
			}

			g := codegen.NewGenerator(codegen.Options{
				Header: cfg.Generate.Header,
				Format: cfg.Generate.Format,
			}, log)
			if err := g.GenerateFile(schemaPath, out); err != nil {
				log.Error("generation failed", zap.String("schema", schemaPath), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema file (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [schema...]",
		Short: "Check schema files without generating code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync(log)
			}()

			errs := make([]error, len(args))
			var eg errgroup.Group
			eg.SetLimit(maxParallelLoads)
			for i, path := range args {
				eg.Go(func() error {
					_, errs[i] = codegen.LoadSchema(path)
					return nil
				})
			}
			_ = eg.Wait()

			failed := 0
			for i, path := range args {
				if errs[i] != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "ERROR in %s: %v\n", path, errs[i])
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OK: %s\n", path)
			}
			log.Debug("schemas validated", zap.Int("total", len(args)), zap.Int("failed", failed))

			if failed > 0 {
				return fmt.Errorf("%d of %d schema(s) invalid", failed, len(args))
			}
			return nil
		},
	}
}

// defaultOutPath places the output next to the schema: people.yaml becomes
// people_gen.go.
func defaultOutPath(schemaPath, suffix string) string {
	return strings.TrimSuffix(schemaPath, filepath.Ext(schemaPath)) + suffix
}
