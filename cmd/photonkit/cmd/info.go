package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenPhotonLab/photonkit/pkg/ldf"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show cells, ports and instances of a layout description",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	lay, err := ldf.LoadFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("dbu: %g um\n", lay.DBU())
	fmt.Printf("layers: %d\n", len(lay.Layers()))
	for _, c := range lay.EachCellBottomUp() {
		fmt.Printf("cell %s: %d ports, %d instances\n",
			c.Name(), len(c.Ports()), len(c.Instances()))
		for _, p := range c.Ports() {
			fmt.Printf("  port %s %s layer %d/%d width %g at %s\n",
				p.Name, p.PortType, p.Layer().Layer, p.Layer().Datatype,
				p.DWidth(), p.DCplxTrans())
		}
		for _, inst := range c.Instances() {
			fmt.Printf("  inst %s\n", inst)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
