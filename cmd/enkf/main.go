package main

import (
	"context"

	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(NewCmd().ExecuteContext(context.Background()))
}

// NewCmd creates enkf root command.
func NewCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "enkf [command] [flags] [args]",
		Short:         "enkf runs ensemble Kalman filter experiments",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "`<Level>` of logging: debug, info, warn or error")
	rootCmd.PersistentFlags().StringP("style", "s", "default", "`<Style>` of result tables: default, bold, double, light or round")

	twinCmd := &cobra.Command{
		Use:   "twin [flags]",
		Short: "Run Lorenz-63 twin experiment",
		RunE:  doTwin,
	}
	twinCmd.Args = cobra.NoArgs
	twinCmd.Flags().StringP("config", "c", "", "`<Path>` to experiment YAML config; defaults are used if empty")
	twinCmd.Flags().StringP("plot", "p", "", "`<Path>` to PNG file the trajectories are plotted to")
	twinCmd.Flags().IntP("component", "k", 0, "`<Component>` of the state to plot")

	compareCmd := &cobra.Command{
		Use:   "compare [flags] [path to comparison.yml]",
		Short: "Score model trajectories against the truth",
		RunE:  doCompare,
	}
	compareCmd.Args = cobra.MaximumNArgs(1)

	rootCmd.AddCommand(
		twinCmd,
		compareCmd,
	)
	return rootCmd
}
