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

// Canopy corrections from Link and Marks (1999).

// CanopyBeam attenuates the beam irradiance under a vegetation canopy:
//
//	S_b = S_b,o * exp(-k h / cos(illumination angle))
//
// where h is the canopy height and k the per-pixel attenuation
// coefficient. Pixels where the sun is not visible (illumination cosine
// <= 0) pass through unchanged. A new raster is returned.
func CanopyBeam(direct, vegHeight, illuminationAngles, k *sparse.DenseArray) (*sparse.DenseArray, error) {
	for name, a := range map[string]*sparse.DenseArray{
		"vegetation height": vegHeight, "illumination angles": illuminationAngles,
		"attenuation coefficient": k,
	} {
		if err := sameShape("direct radiation", direct, name, a); err != nil {
			return nil, err
		}
	}
	out := direct.Copy()
	for i, illum := range illuminationAngles.Elements {
		if illum > 0 {
			out.Elements[i] = direct.Elements[i] *
				math.Exp(-k.Elements[i]*vegHeight.Elements[i]/illum)
		}
	}
	return out, nil
}

// CanopyDiffuse scales the diffuse irradiance by the optical
// transmissivity tau of the canopy. A new raster is returned.
func CanopyDiffuse(diffuse, tau *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := sameShape("diffuse radiation", diffuse, "transmissivity", tau); err != nil {
		return nil, err
	}
	out := sparse.ZerosDense(diffuse.Shape...)
	for i, d := range diffuse.Elements {
		out.Elements[i] = tau.Elements[i] * d
	}
	return out, nil
}
