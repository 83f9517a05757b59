// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app carries what PersistentPreRunE prepares for the subcommands.
type app struct {
	v      *viper.Viper
	cfg    *Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: newViper(), logger: zap.NewNop()}
	var configPath string

	root := &cobra.Command{
		Use:   "kspace",
		Short: "kspace - non-abelian Fermi-surface and Fermi-sea responses",
		Long: `kspace integrates products of band matrices (spin, velocity, Berry
curvature, orbital moment) over degenerate band groups of a k-grid.

Settings come from an optional YAML file (--config), KSPACE_* environment
variables (KSPACE_COMPUTE_MODE=fermi-sea) and flags, in increasing precedence.

Examples:
  kspace quantities                               # list quantities and presets
  kspace compute --quantities curv,morb           # Tr(Ω^a·M^b) on the Fermi surface
  kspace compute --preset ahc --model dirac       # anomalous Hall conductivity
  kspace compute --config run.yaml -o out.yaml    # full run from a file`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(a.v, configPath)
			if err != nil {
				return err
			}
			l, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, l

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")
	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", pf.Lookup("log-format"))

	root.AddCommand(newComputeCmd(a), newQuantitiesCmd(), newVersionCmd())

	return root
}
