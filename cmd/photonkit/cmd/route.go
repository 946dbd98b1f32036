package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
	"github.com/OpenPhotonLab/photonkit/pkg/route"
)

var (
	routeWidth  float64
	routeRadius float64
	routePoints string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Synthesize a route along a waypoint backbone",
	Long: `Synthesize a waveguide route along a backbone of waypoints using an
ideal straight generator and a circular bend of the given radius, and print
the placed elements.

Waypoints are micrometer coordinates, "x,y" pairs separated by spaces.

Examples:
  photonkit route --width 1 --radius 5 --points "0,0 10,0 10,10"`,
	RunE: runRoute,
}

func runRoute(cmd *cobra.Command, args []string) error {
	backbone, err := parsePoints(routePoints)
	if err != nil {
		return err
	}
	if len(backbone) < 2 {
		return fmt.Errorf("need at least two waypoints")
	}
	start := geom.NewDCplxTrans(1, backbone[1].Sub(backbone[0]).Angle(), false,
		backbone[0].X, backbone[0].Y)

	path, err := route.Route(start, backbone, routeWidth, route.Config{
		Straight: route.IdealStraight,
		Bend:     route.CircularBend(routeRadius),
	})
	if err != nil {
		return err
	}

	for i, pl := range path.Placements {
		fmt.Printf("%2d  %-24s at %s\n", i, pl.Element.Name, pl.Trans)
	}
	fmt.Printf("end %s\n", path.End)
	return nil
}

func parsePoints(s string) ([]geom.DPoint, error) {
	var out []geom.DPoint
	for _, field := range strings.Fields(s) {
		x, y, found := strings.Cut(field, ",")
		if !found {
			return nil, fmt.Errorf("bad waypoint %q, want x,y", field)
		}
		px, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil, fmt.Errorf("bad waypoint %q: %w", field, err)
		}
		py, err := strconv.ParseFloat(y, 64)
		if err != nil {
			return nil, fmt.Errorf("bad waypoint %q: %w", field, err)
		}
		out = append(out, geom.DPoint{X: px, Y: py})
	}
	return out, nil
}

func init() {
	routeCmd.Flags().Float64Var(&routeWidth, "width", 1, "waveguide width in micrometers")
	routeCmd.Flags().Float64Var(&routeRadius, "radius", 5, "bend radius in micrometers")
	routeCmd.Flags().StringVar(&routePoints, "points", "", "backbone waypoints, \"x,y x,y ...\"")
	routeCmd.MarkFlagRequired("points")
	rootCmd.AddCommand(routeCmd)
}
