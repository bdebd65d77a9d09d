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
	"testing"

	"github.com/ctessum/sparse"
)

func TestAlbedoFreshSnow(t *testing.T) {
	const (
		gsize  = 100.
		maxgsz = 700.
		dirt   = 2.
	)
	// Fresh snow at high sun: no grain growth (the growth factor is
	// zero on the day of the storm) and no zenith correction.
	stormDays := constGrid(2, 2, 0)
	cosIllum := constGrid(2, 2, 1)

	albVis, albIR, err := Albedo(stormDays, cosIllum, gsize, maxgsz, dirt)
	if err != nil {
		t.Fatal(err)
	}
	wantVis := 1 - math.Sqrt(dirt*gsize)/500
	wantIR := 0.85447 * math.Exp(-0.02123*math.Sqrt(gsize))
	for i := range albVis.Elements {
		if absDifferent(albVis.Elements[i], wantVis, testTolerance) {
			t.Errorf("visible albedo = %g, want %g", albVis.Elements[i], wantVis)
		}
		if absDifferent(albIR.Elements[i], wantIR, testTolerance) {
			t.Errorf("IR albedo = %g, want %g", albIR.Elements[i], wantIR)
		}
	}
}

func TestAlbedoDecaysWithAge(t *testing.T) {
	cosIllum := constGrid(1, 1, 1)
	var prevVis, prevIR float64 = 2, 2
	for _, days := range []float64{0, 1, 5, 20, 100} {
		albVis, albIR, err := Albedo(constGrid(1, 1, days), cosIllum, 100, 700, 2)
		if err != nil {
			t.Fatal(err)
		}
		if albVis.Elements[0] >= prevVis {
			t.Errorf("day %g: visible albedo %g did not decrease from %g",
				days, albVis.Elements[0], prevVis)
		}
		if albIR.Elements[0] >= prevIR {
			t.Errorf("day %g: IR albedo %g did not decrease from %g",
				days, albIR.Elements[0], prevIR)
		}
		prevVis, prevIR = albVis.Elements[0], albIR.Elements[0]
	}
}

func TestAlbedoZenithCorrection(t *testing.T) {
	stormDays := constGrid(1, 2, 3)
	// Same snow age, one pixel at low sun. Albedo increases as the
	// illumination angle moves off vertical.
	cosIllum := gridFromRows([][]float64{{1, 0.3}})
	albVis, albIR, err := Albedo(stormDays, cosIllum, 100, 700, 2)
	if err != nil {
		t.Fatal(err)
	}
	if albVis.Get(0, 1) <= albVis.Get(0, 0) {
		t.Errorf("low sun visible albedo %g not above high sun %g",
			albVis.Get(0, 1), albVis.Get(0, 0))
	}
	if albIR.Get(0, 1) <= albIR.Get(0, 0) {
		t.Errorf("low sun IR albedo %g not above high sun %g",
			albIR.Get(0, 1), albIR.Get(0, 0))
	}

	// Night pixels get no correction.
	cosIllum = gridFromRows([][]float64{{0, -0.5}})
	nightVis, _, err := Albedo(stormDays, cosIllum, 100, 700, 2)
	if err != nil {
		t.Fatal(err)
	}
	if nightVis.Get(0, 0) != nightVis.Get(0, 1) {
		t.Error("zenith correction applied to pixels where the sun is down")
	}
}

func TestAlbedoBadInputs(t *testing.T) {
	ok := constGrid(1, 1, 0)
	cases := []struct {
		gsize, maxgsz, dirt float64
	}{
		{0, 700, 2},    // gsize too small
		{600, 700, 2},  // gsize too large
		{100, 90, 2},   // maxgsz below gsize
		{100, 2500, 2}, // maxgsz too large
		{100, 700, 0.5},
		{100, 700, 20},
	}
	for _, c := range cases {
		if _, _, err := Albedo(ok, ok, c.gsize, c.maxgsz, c.dirt); err == nil {
			t.Errorf("gsize=%g maxgsz=%g dirt=%g: expected error", c.gsize, c.maxgsz, c.dirt)
		}
	}
	if _, _, err := Albedo(ok, constGrid(2, 2, 0), 100, 700, 2); err == nil {
		t.Error("expected error for mismatched raster shapes")
	}
}

func TestDecayBurned(t *testing.T) {
	const (
		kBurned   = 0.2
		kUnburned = 0.05
	)
	albVis := constGrid(1, 2, 0.9)
	albIR := constGrid(1, 2, 0.7)
	stormDays := constGrid(1, 2, 10)
	burnMask := gridFromRows([][]float64{{1, 0}})

	visD, irD, err := DecayBurned(albVis, albIR, stormDays, burnMask, kBurned, kUnburned)
	if err != nil {
		t.Fatal(err)
	}
	wantBurned := 0.9 * math.Exp(-kBurned*10)
	wantUnburned := 0.9 * math.Exp(-kUnburned*10)
	if absDifferent(visD.Get(0, 0), wantBurned, testTolerance) {
		t.Errorf("burned visible albedo = %g, want %g", visD.Get(0, 0), wantBurned)
	}
	if absDifferent(visD.Get(0, 1), wantUnburned, testTolerance) {
		t.Errorf("unburned visible albedo = %g, want %g", visD.Get(0, 1), wantUnburned)
	}
	if irD.Get(0, 0) >= irD.Get(0, 1) {
		t.Error("burned pixel should decay faster than unburned")
	}
	if albVis.Get(0, 0) != 0.9 {
		t.Error("input raster was modified")
	}
}

func TestDecayPower(t *testing.T) {
	albVis := constGrid(1, 2, 0.9)
	albIR := constGrid(1, 2, 0.7)
	vegType := gridFromRows([][]float64{{41, 0}})
	maxDecay := map[int]float64{41: 0.36}
	const (
		defaultDecay = 0.25
		decayHours   = 200.
		pwr          = 2.
	)

	// Before the decay period starts nothing changes.
	visD, irD, err := DecayPower(albVis, albIR, vegType, maxDecay, defaultDecay, -5, decayHours, pwr)
	if err != nil {
		t.Fatal(err)
	}
	if visD.Get(0, 0) != 0.9 || irD.Get(0, 1) != 0.7 {
		t.Error("albedo changed before the decay period started")
	}

	// After the period ends the maximum decrease applies.
	visD, _, err = DecayPower(albVis, albIR, vegType, maxDecay, defaultDecay, 300, decayHours, pwr)
	if err != nil {
		t.Fatal(err)
	}
	if absDifferent(visD.Get(0, 0), 0.9-0.36, testTolerance) {
		t.Errorf("veg 41 decayed albedo = %g, want %g", visD.Get(0, 0), 0.9-0.36)
	}
	if absDifferent(visD.Get(0, 1), 0.9-0.25, testTolerance) {
		t.Errorf("default decayed albedo = %g, want %g", visD.Get(0, 1), 0.9-0.25)
	}

	// Halfway through, the power law gives maxDec * (t/T)^pwr.
	visD, _, err = DecayPower(albVis, albIR, vegType, maxDecay, defaultDecay, 100, decayHours, pwr)
	if err != nil {
		t.Fatal(err)
	}
	want := 0.9 - 0.36*math.Pow(100/decayHours, pwr)
	if absDifferent(visD.Get(0, 0), want, testTolerance) {
		t.Errorf("mid-period decayed albedo = %g, want %g", visD.Get(0, 0), want)
	}
}

func TestDecayShapeMismatch(t *testing.T) {
	a := constGrid(2, 2, 0.9)
	b := constGrid(3, 2, 0.9)
	if _, _, err := DecayBurned(a, a, a, b, 0.1, 0.1); err == nil {
		t.Error("expected error for mismatched burn mask shape")
	}
	if _, _, err := DecayPower(a, b, a, nil, 0.2, 10, 100, 2); err == nil {
		t.Error("expected error for mismatched albedo shapes")
	}
	var nilGrid *sparse.DenseArray
	if _, _, err := DecayBurned(a, a, nilGrid, a, 0.1, 0.1); err == nil {
		t.Error("expected error for nil storm days raster")
	}
}
