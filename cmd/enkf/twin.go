package main

import (
	"fmt"

	"github.com/milosgajdos/go-enkf/internal/config"
	"github.com/milosgajdos/go-enkf/internal/logger"
	"github.com/milosgajdos/go-enkf/internal/twin"
	"github.com/milosgajdos/go-enkf/sim"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

func doTwin(cmd *cobra.Command, args []string) error {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}
	style, err := cmd.Flags().GetString("style")
	if err != nil {
		return err
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	plotPath, err := cmd.Flags().GetString("plot")
	if err != nil {
		return err
	}
	comp, err := cmd.Flags().GetInt("component")
	if err != nil {
		return err
	}

	log := logger.New(cmd.ErrOrStderr(), level)
	defer log.Sync() //nolint:errcheck

	cfg := config.Default()
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}

	r, err := twin.New(cfg, log)
	if err != nil {
		return err
	}

	res, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), style)
	t.SetTitle(fmt.Sprintf("%s EnKF, %d members, %d steps", cfg.Filter, cfg.Ensemble, cfg.Steps))
	appendReport(t, "Filter", res.FilterReport)
	appendReport(t, "Measurement", res.MeasureReport)
	t.Render()

	if plotPath == "" {
		return nil
	}

	p, err := sim.NewTrajectoryPlot(res.Truth, res.Measure, res.Filter, comp, cfg.Dt)
	if err != nil {
		return fmt.Errorf("failed to make plot: %w", err)
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, plotPath); err != nil {
		return fmt.Errorf("failed to save plot to %s: %w", plotPath, err)
	}
	log.Info("plot saved", zap.String("path", plotPath), zap.Int("component", comp))

	return nil
}
