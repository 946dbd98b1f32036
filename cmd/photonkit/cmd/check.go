package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenPhotonLab/photonkit/pkg/check"
	"github.com/OpenPhotonLab/photonkit/pkg/layout"
	"github.com/OpenPhotonLab/photonkit/pkg/ldf"
)

var (
	checkTop       string
	checkPortTypes []string
	checkLayers    []string
	checkRecursive bool
	checkOverlaps  bool
	checkJSON      bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Run the connectivity checker on a layout description",
	Long: `Check a cell's connection topology: ports must sit on real shapes,
coinciding ports must be compatible, and overlapping instance regions are
flagged. Findings are grouped by category and cell.

Examples:
  photonkit check chip.ldf
  photonkit check chip.ldf --top mux --recursive
  photonkit check chip.ldf --layers 1/0 --overlaps --json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	lay, err := ldf.LoadFile(args[0])
	if err != nil {
		return err
	}
	top, err := resolveTop(lay, checkTop)
	if err != nil {
		return err
	}
	layers, err := parseLayers(checkLayers)
	if err != nil {
		return err
	}

	db, err := check.Check(top, check.Options{
		PortTypes:              checkPortTypes,
		Layers:                 layers,
		Recursive:              checkRecursive,
		CheckLayerConnectivity: checkOverlaps,
	})
	if err != nil {
		return err
	}
	if checkJSON {
		return db.ExportJSON(os.Stdout)
	}
	return db.WriteSummary(os.Stdout)
}

// parseLayers parses "layer/datatype" flags like "1/0".
func parseLayers(specs []string) ([]layout.LayerInfo, error) {
	var out []layout.LayerInfo
	for _, s := range specs {
		l, d, found := strings.Cut(s, "/")
		if !found {
			d = "0"
		}
		layer, err := strconv.Atoi(l)
		if err != nil {
			return nil, fmt.Errorf("bad layer spec %q: %w", s, err)
		}
		datatype, err := strconv.Atoi(d)
		if err != nil {
			return nil, fmt.Errorf("bad layer spec %q: %w", s, err)
		}
		out = append(out, layout.LayerInfo{Layer: layer, Datatype: datatype})
	}
	return out, nil
}

func init() {
	checkCmd.Flags().StringVar(&checkTop, "top", "", "top cell name")
	checkCmd.Flags().StringSliceVar(&checkPortTypes, "port-types", nil, "restrict to these port types")
	checkCmd.Flags().StringSliceVar(&checkLayers, "layers", nil, "restrict to these layers (layer/datatype)")
	checkCmd.Flags().BoolVar(&checkRecursive, "recursive", false, "also check instantiated cells")
	checkCmd.Flags().BoolVar(&checkOverlaps, "overlaps", false, "check instance/shape region overlaps")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit findings as JSON")
	rootCmd.AddCommand(checkCmd)
}
