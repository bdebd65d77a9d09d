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

// Package toposolar downscales gridded shortwave radiation to terrain.
// It decomposes a downwelling shortwave flux into direct and diffuse
// components, corrects them for local illumination angle and sky view
// factor, and computes the net flux absorbed after visible and infrared
// albedo:
//
//	solar = DNI * cos(illumination angle) + DHI * sky view factor
//
// The input fluxes are typically HRRR model output (DSWRF, VBDSF, VDDSF)
// interpolated to the topographic grid.
package toposolar

import (
	"fmt"
	"sync"

	"github.com/ctessum/sparse"
)

// Version gives the version number of this version of TopoSolar.
const Version = "0.1.0"

// Output variable names returned by Calculator.Calculate.
const (
	GHIVis   = "ghi_vis"   // global horizontal irradiance, visible [W/m2]
	K        = "k"         // diffuse fraction [-]
	DHI      = "dhi"       // diffuse horizontal irradiance [W/m2]
	DNI      = "dni"       // direct normal irradiance [W/m2]
	Solar    = "solar"     // terrain-corrected incoming solar [W/m2]
	NetSolar = "net_solar" // net solar after albedo [W/m2]
)

// OutputNames lists the variables in every result map, in a fixed order.
var OutputNames = []string{GHIVis, K, DHI, DNI, Solar, NetSolar}

// Broadband albedo is a weighted blend of the visible and infrared bands.
// The weights come from SBDART simulations with a 700 nm split under
// clear-sky conditions over the Western US.
const (
	visAlbedoWeight = 0.54
	irAlbedoWeight  = 0.46
)

// Calculator computes solar radiation components over a fixed grid.
// It is created once with the static sky view factor raster and may be
// used for any number of time steps; no state carries over between calls.
type Calculator struct {
	skyViewFactor *sparse.DenseArray

	// minValue is the threshold [W/m2] below which an input flux is
	// treated as an interpolation artifact and the pixel is zeroed.
	// It must be positive: lit pixels divide by GHI, and the threshold
	// is what keeps GHI bounded away from zero.
	minValue float64

	nprocs int

	ny, nx int
}

// Option configures a Calculator.
type Option func(*Calculator)

// MinValue sets the threshold below which dswrf, direct normal, or
// diffuse horizontal irradiance gates a pixel to zero. The default is
// 1 W/m2. Values <= 0 remove the guarantee that the diffuse fraction
// denominator is nonzero.
func MinValue(v float64) Option {
	return func(c *Calculator) { c.minValue = v }
}

// Processors sets the number of goroutines used to process grid rows.
// The default is 1. Values below 1 are treated as 1.
func Processors(n int) Option {
	return func(c *Calculator) { c.nprocs = n }
}

// NewCalculator creates a Calculator for the grid defined by the sky
// view factor raster, which must be two-dimensional. The raster contents
// are used as-is; no range checking is performed.
func NewCalculator(skyViewFactor *sparse.DenseArray, opts ...Option) (*Calculator, error) {
	if skyViewFactor == nil {
		return nil, fmt.Errorf("toposolar: sky view factor raster is nil")
	}
	if len(skyViewFactor.Shape) != 2 {
		return nil, fmt.Errorf("toposolar: sky view factor must be 2-d but has shape %v",
			skyViewFactor.Shape)
	}
	c := &Calculator{
		skyViewFactor: skyViewFactor,
		minValue:      1.0,
		nprocs:        1,
		ny:            skyViewFactor.Shape[0],
		nx:            skyViewFactor.Shape[1],
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.nprocs < 1 {
		c.nprocs = 1
	}
	return c, nil
}

// checkShape returns an error if the raster does not match the grid the
// Calculator was created with.
func (c *Calculator) checkShape(name string, a *sparse.DenseArray) error {
	if a == nil {
		return fmt.Errorf("toposolar: %s raster is nil", name)
	}
	if len(a.Shape) != 2 || a.Shape[0] != c.ny || a.Shape[1] != c.nx {
		return fmt.Errorf("toposolar: %s has shape %v but grid is [%d %d]",
			name, a.Shape, c.ny, c.nx)
	}
	return nil
}

// zeroResults returns six freshly allocated zero rasters.
func (c *Calculator) zeroResults() map[string]*sparse.DenseArray {
	out := make(map[string]*sparse.DenseArray, len(OutputNames))
	for _, name := range OutputNames {
		out[name] = sparse.ZerosDense(c.ny, c.nx)
	}
	return out
}

// Calculate computes the solar radiation components for one time step.
//
// dswrf is the downwelling shortwave flux, directNormal and
// diffuseHorizontal its beam and diffuse components, all [W/m2] on the
// grid. illuminationAngles holds the cosine of the local illumination
// angle (shaded pixels should already be masked to zero, e.g. with
// MaskForShade). albedoVis and albedoIR are surface reflectances [0-1].
// cosZ is the cosine of the solar zenith angle for the time step.
//
// The returned map holds the variables named by OutputNames, each a new
// (ny, nx) raster owned by the caller. When cosZ <= 0 all outputs are
// zero. A pixel where dswrf, directNormal, or diffuseHorizontal is at or
// below the minimum-value threshold has all six outputs zero; early and
// late hours produce zero or negative fluxes in some pixels through
// interpolation, and the gate keeps them out of the decomposition.
//
// NaN or infinite input values are not screened and propagate into the
// outputs.
func (c *Calculator) Calculate(
	dswrf, directNormal, diffuseHorizontal,
	illuminationAngles, albedoVis, albedoIR *sparse.DenseArray,
	cosZ float64,
) (map[string]*sparse.DenseArray, error) {
	inputs := []struct {
		name string
		data *sparse.DenseArray
	}{
		{"dswrf", dswrf},
		{"direct normal irradiance", directNormal},
		{"diffuse horizontal irradiance", diffuseHorizontal},
		{"illumination angles", illuminationAngles},
		{"visible albedo", albedoVis},
		{"infrared albedo", albedoIR},
	}
	for _, in := range inputs {
		if err := c.checkShape(in.name, in.data); err != nil {
			return nil, err
		}
	}

	out := c.zeroResults()

	// Sun is down; skip the per-pixel work entirely.
	if cosZ <= 0 {
		return out, nil
	}

	ghiVis := out[GHIVis]
	k := out[K]
	dhi := out[DHI]
	dni := out[DNI]
	solar := out[Solar]
	netSolar := out[NetSolar]
	svf := c.skyViewFactor

	// Each goroutine takes every nprocs-th row, so all writes to the
	// output rasters are disjoint.
	var wg sync.WaitGroup
	wg.Add(c.nprocs)
	for pp := 0; pp < c.nprocs; pp++ {
		go func(pp int) {
			for i := pp; i < c.ny; i += c.nprocs {
				rowStart := i * c.nx
				for ii := rowStart; ii < rowStart+c.nx; ii++ {
					f := dswrf.Elements[ii]
					b := directNormal.Elements[ii]
					d := diffuseHorizontal.Elements[ii]
					if f <= c.minValue || b <= c.minValue || d <= c.minValue {
						continue
					}

					// GHI on a flat surface from the visible components.
					g := b*cosZ + d
					// Diffuse fraction; g > minValue > 0 here.
					kk := d / g
					// Split the global flux with the diffuse fraction.
					dh := f * kk
					dn := f * (1 - kk) / cosZ
					// Terrain correction: beam scaled by the local
					// illumination cosine, diffuse by the sky view factor.
					s := dn*illuminationAngles.Elements[ii] + dh*svf.Elements[ii]

					ghiVis.Elements[ii] = g
					k.Elements[ii] = kk
					dhi.Elements[ii] = dh
					dni.Elements[ii] = dn
					solar.Elements[ii] = s
					netSolar.Elements[ii] = s * (1 -
						(visAlbedoWeight*albedoVis.Elements[ii] +
							irAlbedoWeight*albedoIR.Elements[ii]))
				}
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()

	return out, nil
}
