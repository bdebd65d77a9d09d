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

package toposolar

import (
	"math"

	"github.com/ctessum/sparse"
)

// MaskForShade zeroes the illumination cosine for pixels whose horizon
// blocks the sun. horizonAngles holds the horizon angle toward the solar
// azimuth [radians] and cosZ is the cosine of the solar zenith angle for
// the time step. A pixel is shaded when the tangent of its horizon angle
// exceeds the tangent of the solar elevation. A new raster is returned;
// the inputs are not modified.
func MaskForShade(cosZ float64, horizonAngles, illuminationAngles *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := sameShape("horizon angles", horizonAngles,
		"illumination angles", illuminationAngles); err != nil {
		return nil, err
	}
	sunPosition := math.Tan(math.Pi/2 - math.Acos(cosZ))
	shaded := illuminationAngles.Copy()
	for i, h := range horizonAngles.Elements {
		if math.Tan(math.Abs(h)) > sunPosition {
			shaded.Elements[i] = 0
		}
	}
	return shaded, nil
}
