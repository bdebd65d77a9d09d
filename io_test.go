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
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

func sparseRandom(rng *rand.Rand, ny, nx int) *sparse.DenseArray {
	a := sparse.ZerosDense(ny, nx)
	for i := range a.Elements {
		a.Elements[i] = 1000 * rng.Float64()
	}
	return a
}

func TestWriteReadRasters(t *testing.T) {
	const ny, nx = 7, 9
	rng := rand.New(rand.NewSource(3))
	a := sparseRandom(rng, ny, nx)
	b := sparseRandom(rng, ny, nx)
	filename := filepath.Join(t.TempDir(), "rasters.nc")

	err := WriteRasters(filename, []RasterVariable{
		{Name: "DSWRF", Units: "watt/m2", Description: "downwelling shortwave flux", Data: a},
		{Name: "sky_view_factor", Data: b},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := ReadRasters(filename, "DSWRF", "sky_view_factor")
	if err != nil {
		t.Fatal(err)
	}
	for name, want := range map[string][]float64{
		"DSWRF": a.Elements, "sky_view_factor": b.Elements,
	} {
		g := got[name]
		if g.Shape[0] != ny || g.Shape[1] != nx {
			t.Fatalf("%s: shape %v", name, g.Shape)
		}
		if !floats.Equal(g.Elements, want) {
			t.Errorf("%s: round trip changed values", name)
		}
	}

	if _, err := ReadRasters(filename, "no_such_variable"); err == nil {
		t.Error("expected error for missing variable")
	}
}

func TestWriteComponents(t *testing.T) {
	svf := constGrid(3, 3, 1)
	c, err := NewCalculator(svf)
	if err != nil {
		t.Fatal(err)
	}
	in := constGrid(3, 3, 400)
	illum := constGrid(3, 3, 0.8)
	albedo := constGrid(3, 3, 0.5)
	results, err := c.Calculate(in, in, in, illum, albedo, albedo, 0.6)
	if err != nil {
		t.Fatal(err)
	}

	filename := filepath.Join(t.TempDir(), "solar.nc")
	if err := WriteComponents(filename, results); err != nil {
		t.Fatal(err)
	}

	got, err := ReadRasters(filename,
		"solar_ghi_vis", "solar_k", "solar_dhi", "solar_dni", "solar", "net_solar")
	if err != nil {
		t.Fatal(err)
	}
	for name, fileVar := range componentFileVariables {
		if !floats.Equal(got[fileVar.Name].Elements, results[name].Elements) {
			t.Errorf("%s: file values differ from calculated values", fileVar.Name)
		}
	}

	delete(results, DNI)
	if err := WriteComponents(filename, results); err == nil {
		t.Error("expected error for incomplete results")
	}
}

func TestWriteRastersBadInput(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "bad.nc")
	if err := WriteRasters(filename, nil); err == nil {
		t.Error("expected error for empty variable list")
	}
	err := WriteRasters(filename, []RasterVariable{
		{Name: "a", Data: constGrid(2, 2, 1)},
		{Name: "b", Data: constGrid(3, 2, 1)},
	})
	if err == nil {
		t.Error("expected error for mismatched shapes")
	}
}
