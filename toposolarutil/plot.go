/*
Copyright © 2026 the TopoSolar authors.
This file is part of TopoSolar.

TopoSolar is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

TopoSolar is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with TopoSolar.  If not, see <http://www.gnu.org/licenses/>.
*/

package toposolarutil

import (
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/toposolar"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// rasterGrid adapts a raster to the plotter.GridXYZ interface.
// Row 0 of the raster is the northernmost row, so rows are flipped to
// put it at the top of the plot.
type rasterGrid struct {
	data *sparse.DenseArray
}

func (g rasterGrid) Dims() (c, r int) { return g.data.Shape[1], g.data.Shape[0] }
func (g rasterGrid) X(c int) float64  { return float64(c) }
func (g rasterGrid) Y(r int) float64  { return float64(r) }
func (g rasterGrid) Z(c, r int) float64 {
	return g.data.Get(g.data.Shape[0]-1-r, c)
}

// Plot renders one variable of a result file as a PNG heat map.
func Plot(resultFile, varName, pngFile string) error {
	data, err := toposolar.ReadRasters(resultFile, varName)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = varName
	p.X.Label.Text = "x [grid cell]"
	p.Y.Label.Text = "y [grid cell]"
	p.Add(plotter.NewHeatMap(rasterGrid{data[varName]}, palette.Heat(64, 255)))

	logger.WithFields(logrus.Fields{
		"variable": varName,
		"file":     pngFile,
	}).Info("rendering heat map")
	return p.Save(6*vg.Inch, 6*vg.Inch, pngFile)
}
