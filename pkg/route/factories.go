package route

import (
	"fmt"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
)

// IdealStraight generates a straight of exactly the requested length, port o1
// at the origin facing backwards, o2 at the far end facing forwards.
func IdealStraight(width, length float64) *Element {
	return &Element{
		Name:  fmt.Sprintf("straight_w%g_l%g", width, length),
		Width: width,
		Ports: []ElementPort{
			{Name: "o1", Trans: geom.NewDCplxTrans(1, 180, false, 0, 0)},
			{Name: "o2", Trans: geom.NewDCplxTrans(1, 0, false, length, 0)},
		},
	}
}

// CircularBend returns a bend factory producing circular arcs of the given
// centerline radius. The arc enters at the origin along +x and turns left by
// the requested angle; its effective radius works out to radius*tan(angle/2).
func CircularBend(radius float64) BendFactory {
	return func(width, angle float64) *Element {
		rot := geom.NewDCplxTrans(1, angle, false, 0, 0)
		v := rot.ApplyVector(geom.DVector{Y: -radius})
		return &Element{
			Name:  fmt.Sprintf("bend_w%g_r%g_a%g", width, radius, angle),
			Width: width,
			Ports: []ElementPort{
				{Name: "o1", Trans: geom.NewDCplxTrans(1, 180, false, 0, 0)},
				{Name: "o2", Trans: geom.NewDCplxTrans(1, angle, false, v.X, radius+v.Y)},
			},
		}
	}
}
