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
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Snow albedo constants, adapted from the IPW albedo function.
const (
	maxVisAlbedo   = 1.0     // vis albedo when gsize = 0
	maxIRAlbedo    = 0.85447 // IR albedo when gsize = 0
	irDecayFactor  = -0.02123
	visDecayFactor = 500.0

	visZenithRangeFactor = 1.375e-3 // vis zenith increase range factor
	irZenithRangeFactor  = 2.0e-3   // IR zenith increase range factor
	irZenithRange        = 0.1      // IR zenith increase range, gsize = 0
)

// grainGrowth gives the grain size growth factor for t days since the
// last snowfall.
func grainGrowth(t float64) float64 {
	const a, b, c, d = 4.0, 3.0, 2.0, 1.0
	factor := (a+b*t+t*t)/(c+d*t+t*t) - 1
	return 1 - factor
}

// Albedo calculates snow albedo in the visible and infrared bands for
// one time step.
//
// stormDays holds the time since the last snowfall [decimal days] and
// cosIllum the cosine of the local solar illumination angle, both on the
// grid. gsize is the effective grain radius after the last storm [μm],
// maxgsz the maximum radius expected from grain growth [μm], and dirt
// the effective contamination factor for the visible band (usually
// between 1.5 and 3).
func Albedo(stormDays, cosIllum *sparse.DenseArray, gsize, maxgsz, dirt float64) (albVis, albIR *sparse.DenseArray, err error) {
	if gsize <= 0 || gsize > 500 {
		return nil, nil, fmt.Errorf("toposolar: unrealistic albedo input: gsize=%g", gsize)
	}
	if maxgsz <= gsize || maxgsz > 2000 {
		return nil, nil, fmt.Errorf("toposolar: unrealistic albedo input: maxgsz=%g", maxgsz)
	}
	if dirt < 1 || dirt > 10 {
		return nil, nil, fmt.Errorf("toposolar: unrealistic albedo input: dirt=%g", dirt)
	}
	if err := sameShape("storm days", stormDays, "illumination cosine", cosIllum); err != nil {
		return nil, nil, err
	}

	// Initial grain radii for the two bands; dirt only affects the
	// visible band.
	radiusIR := math.Sqrt(gsize)
	rangeIR := math.Sqrt(maxgsz) - radiusIR
	radiusVis := math.Sqrt(dirt * gsize)
	rangeVis := math.Sqrt(dirt*maxgsz) - radiusVis

	albVis = sparse.ZerosDense(stormDays.Shape...)
	albIR = sparse.ZerosDense(stormDays.Shape...)
	for i, telapsed := range stormDays.Elements {
		growthFactor := grainGrowth(telapsed + 1)

		// Effective grain sizes and the albedo at cos(z) = 1.
		gv := radiusVis + rangeVis*growthFactor
		gir := radiusIR + rangeIR*growthFactor
		av := maxVisAlbedo - gv/visDecayFactor
		air := maxIRAlbedo * math.Exp(irDecayFactor*gir)

		// Diurnal increase for low sun angles, only where the sun is up.
		if cosz := cosIllum.Elements[i]; cosz > 0 {
			av += gv * visZenithRangeFactor * (1 - cosz)
			air += (gir*irZenithRangeFactor + irZenithRange) * (1 - cosz)
		}
		albVis.Elements[i] = av
		albIR.Elements[i] = air
	}
	return albVis, albIR, nil
}

// DecayBurned applies exponential albedo decay as a function of time
// since the last snowfall, with separate decay rates for burned
// (burnMask = 1) and unburned pixels. New rasters are returned; the
// inputs are not modified.
func DecayBurned(albVis, albIR, stormDays, burnMask *sparse.DenseArray, kBurned, kUnburned float64) (albVisD, albIRD *sparse.DenseArray, err error) {
	for name, a := range map[string]*sparse.DenseArray{
		"infrared albedo": albIR, "storm days": stormDays, "burn mask": burnMask,
	} {
		if err := sameShape("visible albedo", albVis, name, a); err != nil {
			return nil, nil, err
		}
	}
	albVisD = sparse.ZerosDense(albVis.Shape...)
	albIRD = sparse.ZerosDense(albIR.Shape...)
	for i, lastSnow := range stormDays.Elements {
		k := kUnburned
		if burnMask.Elements[i] == 1 {
			k = kBurned
		}
		decay := math.Exp(-k * lastSnow)
		albVisD.Elements[i] = albVis.Elements[i] * decay
		albIRD.Elements[i] = albIR.Elements[i] * decay
	}
	return albVisD, albIRD, nil
}

// DecayPower lowers albedo for litter accumulation under vegetation
// with a power-law decay between the start and end of the decay period.
//
// vegType holds the vegetation classification for each pixel and
// maxDecay the maximum albedo decrease for specific classes;
// defaultDecay applies to classes not in the map. currentHours is the
// time since the start of the decay period and decayHours its total
// length; pwr is the decay exponent. No decay occurs before the period
// starts; after it ends the maximum decrease applies.
func DecayPower(albVis, albIR, vegType *sparse.DenseArray, maxDecay map[int]float64, defaultDecay, currentHours, decayHours, pwr float64) (albVisD, albIRD *sparse.DenseArray, err error) {
	for name, a := range map[string]*sparse.DenseArray{
		"infrared albedo": albIR, "vegetation type": vegType,
	} {
		if err := sameShape("visible albedo", albVis, name, a); err != nil {
			return nil, nil, err
		}
	}
	if currentHours <= 0 {
		return albVis.Copy(), albIR.Copy(), nil
	}

	decayFor := func(maxDec float64) float64 {
		if currentHours > decayHours {
			return maxDec
		}
		// tao = decayHours / maxDec^(1/pwr); decay = (t/tao)^pwr.
		tao := decayHours / math.Pow(maxDec, 1/pwr)
		return math.Pow(currentHours/tao, pwr)
	}

	albVisD = sparse.ZerosDense(albVis.Shape...)
	albIRD = sparse.ZerosDense(albIR.Shape...)
	for i := range albVis.Elements {
		maxDec := defaultDecay
		if v, ok := maxDecay[int(vegType.Elements[i])]; ok {
			maxDec = v
		}
		decay := decayFor(maxDec)
		albVisD.Elements[i] = albVis.Elements[i] - decay
		albIRD.Elements[i] = albIR.Elements[i] - decay
	}
	return albVisD, albIRD, nil
}

// sameShape returns an error if b does not have the same shape as a.
func sameShape(aName string, a *sparse.DenseArray, bName string, b *sparse.DenseArray) error {
	if a == nil {
		return fmt.Errorf("toposolar: %s raster is nil", aName)
	}
	if b == nil {
		return fmt.Errorf("toposolar: %s raster is nil", bName)
	}
	if len(a.Shape) != len(b.Shape) {
		return fmt.Errorf("toposolar: %s has shape %v but %s has shape %v",
			aName, a.Shape, bName, b.Shape)
	}
	for i, n := range a.Shape {
		if b.Shape[i] != n {
			return fmt.Errorf("toposolar: %s has shape %v but %s has shape %v",
				aName, a.Shape, bName, b.Shape)
		}
	}
	return nil
}
