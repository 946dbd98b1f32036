package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenPhotonLab/photonkit/pkg/layout"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "photonkit",
	Short: "photonkit - hierarchical layout connectivity and routing tools",
	Long: `photonkit works on hierarchical layout descriptions:
  - connectivity extraction into netlists
  - connectivity/port diagnostics
  - waveguide route synthesis along waypoint backbones

Examples:
  photonkit info chip.ldf                     # Show cells, ports, instances
  photonkit netlist chip.ldf --format json    # Extract connectivity
  photonkit check chip.ldf --top mux          # Run the connectivity checker
  photonkit route --radius 5 --points "0,0 10,0 10,10"`,
	Version: "0.3.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			layout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
