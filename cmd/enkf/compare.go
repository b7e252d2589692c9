package main

import (
	"fmt"

	"github.com/milosgajdos/go-enkf/internal/config"
	"github.com/milosgajdos/go-enkf/internal/logger"
	"github.com/milosgajdos/go-enkf/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func doCompare(cmd *cobra.Command, args []string) error {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}
	style, err := cmd.Flags().GetString("style")
	if err != nil {
		return err
	}

	log := logger.New(cmd.ErrOrStderr(), level)
	defer log.Sync() //nolint:errcheck

	c := config.DefaultComparison()
	if len(args) == 1 {
		if c, err = config.LoadComparison(args[0]); err != nil {
			return err
		}
	} else {
		log.Warn("no comparison file given, scoring built-in trajectories")
	}

	t := newTable(cmd.OutOrStdout(), style)
	for _, m := range c.Models {
		r, err := metrics.Evaluate(m.Values, c.Truth)
		if err != nil {
			return fmt.Errorf("failed to score model %q: %w", m.Name, err)
		}
		log.Debug("model scored", zap.String("model", m.Name), zap.Stringer("report", r))
		appendReport(t, m.Name, r)
	}
	t.Render()

	return nil
}
