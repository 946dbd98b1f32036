package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenPhotonLab/photonkit/pkg/layout"
	"github.com/OpenPhotonLab/photonkit/pkg/ldf"
	"github.com/OpenPhotonLab/photonkit/pkg/netlist"
)

var (
	netlistTop       string
	netlistFormat    string
	netlistPortTypes []string
)

var netlistCmd = &cobra.Command{
	Use:   "netlist <file>",
	Short: "Extract connectivity from a layout description",
	Long: `Extract the connectivity of a cell hierarchy: coinciding ports are
grouped into nets per cell, bottom-up, producing one circuit per cell.

Examples:
  photonkit netlist chip.ldf
  photonkit netlist chip.ldf --top mux --format json
  photonkit netlist chip.ldf --port-types optical --format kicad`,
	Args: cobra.ExactArgs(1),
	RunE: runNetlist,
}

func runNetlist(cmd *cobra.Command, args []string) error {
	lay, err := ldf.LoadFile(args[0])
	if err != nil {
		return err
	}
	top, err := resolveTop(lay, netlistTop)
	if err != nil {
		return err
	}

	nl, err := netlist.Build(top, netlist.Options{PortTypes: netlistPortTypes})
	if err != nil {
		return err
	}

	switch netlistFormat {
	case "json":
		return nl.ExportJSON(os.Stdout)
	case "kicad":
		return nl.ExportKiCad(os.Stdout)
	case "text":
		return nl.WriteText(os.Stdout)
	default:
		return fmt.Errorf("unknown format %q (want text, json or kicad)", netlistFormat)
	}
}

// resolveTop picks the top cell: the named one, or the single cell no other
// cell instantiates.
func resolveTop(lay *layout.Layout, name string) (*layout.Cell, error) {
	if name != "" {
		c, ok := lay.Cell(name)
		if !ok {
			return nil, fmt.Errorf("no cell named %q", name)
		}
		return c, nil
	}
	called := make(map[*layout.Cell]bool)
	for _, c := range lay.Cells() {
		for _, inst := range c.Instances() {
			called[inst.Cell()] = true
		}
	}
	var tops []*layout.Cell
	for _, c := range lay.Cells() {
		if !called[c] {
			tops = append(tops, c)
		}
	}
	if len(tops) != 1 {
		return nil, fmt.Errorf("layout has %d top cells, use --top to pick one", len(tops))
	}
	return tops[0], nil
}

func init() {
	netlistCmd.Flags().StringVar(&netlistTop, "top", "", "top cell name")
	netlistCmd.Flags().StringVar(&netlistFormat, "format", "text", "output format: text, json or kicad")
	netlistCmd.Flags().StringSliceVar(&netlistPortTypes, "port-types", nil, "restrict to these port types")
	rootCmd.AddCommand(netlistCmd)
}
