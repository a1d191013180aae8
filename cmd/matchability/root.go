// cmd/matchability/root.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"matchability/internal/artifacts"
	"matchability/internal/common/config"
	"matchability/internal/common/logger"
	"matchability/internal/scoring"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app is shared by the subcommands once the root has loaded config.
type app struct {
	configPath string
	cfg        *config.Config
	log        logger.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "matchability",
		Short:         "Scores volunteer opportunities for matchability",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "",
		"config file (default is ./configs/config.yaml plus config.<APP_ENVIRONMENT>.yaml)")

	root.AddCommand(
		newServeCommand(a),
		newScoreCommand(a),
		newFeaturesCommand(a),
		newVersionCommand(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	a.cfg = cfg
	a.log = logger.NewStructured(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"env":     cfg.App.Environment,
	})
	return nil
}

// loadBundle reads the training artifacts. Any failure is fatal to the
// calling command.
func (a *app) loadBundle() (*artifacts.Bundle, error) {
	bundle, err := artifacts.Load(a.cfg.Artifacts, a.log)
	if err != nil {
		a.log.Error("failed to load artifacts", map[string]interface{}{"error": err})
		return nil, err
	}
	return bundle, nil
}

// offlineService scores without any external collaborators.
func (a *app) offlineService(bundle *artifacts.Bundle) *scoring.Service {
	return scoring.NewService(scoring.NewScorer(bundle), a.log, scoring.Options{})
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "matchability version %s\n", version)
		},
	}
}
