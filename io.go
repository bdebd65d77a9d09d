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
	"io"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// RasterVariable is one named 2-d variable in a NetCDF raster file.
type RasterVariable struct {
	Name        string
	Units       string
	Description string
	Data        *sparse.DenseArray
}

// componentFileVariables maps calculator output names to the variable
// names used in result files. The solar_ prefix namespaces the
// decomposition components so result files can sit alongside other
// distributed forcing variables.
var componentFileVariables = map[string]RasterVariable{
	GHIVis: {
		Name:        "solar_ghi_vis",
		Units:       "watt/m2",
		Description: "global horizontal irradiance in the visible wavelengths",
	},
	K: {
		Name:        "solar_k",
		Units:       "None",
		Description: "fraction of diffuse/global in the visible wavelengths",
	},
	DHI: {
		Name:        "solar_dhi",
		Units:       "watt/m2",
		Description: "diffuse horizontal irradiance",
	},
	DNI: {
		Name:        "solar_dni",
		Units:       "watt/m2",
		Description: "direct normal irradiance",
	},
	Solar: {
		Name:        "solar",
		Units:       "watt/m2",
		Description: "downwelling shortwave flux downscaled to topography",
	},
	NetSolar: {
		Name:        "net_solar",
		Units:       "watt/m2",
		Description: "net solar radiation",
	},
}

// ReadRasters reads the named 2-d variables from a NetCDF file. Both
// float32 and float64 variables are accepted; values are returned as
// float64 rasters.
func ReadRasters(filename string, names ...string) (map[string]*sparse.DenseArray, error) {
	ff, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("toposolar: opening raster file: %v", err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("toposolar: reading raster file %s: %v", filename, err)
	}

	out := make(map[string]*sparse.DenseArray, len(names))
	for _, name := range names {
		dims := f.Header.Lengths(name)
		if len(dims) == 0 {
			return nil, fmt.Errorf("toposolar: variable %s not in file %s", name, filename)
		}
		if len(dims) != 2 {
			return nil, fmt.Errorf("toposolar: variable %s in file %s has %d dimensions, expected 2",
				name, filename, len(dims))
		}
		r := f.Reader(name, nil, nil)
		buf := r.Zero(-1)
		if _, err := r.Read(buf); err != nil && err != io.EOF {
			return nil, fmt.Errorf("toposolar: reading variable %s from %s: %v", name, filename, err)
		}
		data := sparse.ZerosDense(dims...)
		switch vals := buf.(type) {
		case []float64:
			copy(data.Elements, vals)
		case []float32:
			for i, v := range vals {
				data.Elements[i] = float64(v)
			}
		default:
			return nil, fmt.Errorf("toposolar: variable %s in file %s is not a floating-point type",
				name, filename)
		}
		out[name] = data
	}
	return out, nil
}

// WriteRasters creates a NetCDF file holding the given variables, which
// must all share the same 2-d shape. Any existing file is replaced.
func WriteRasters(filename string, vars []RasterVariable) error {
	if len(vars) == 0 {
		return fmt.Errorf("toposolar: no variables to write to %s", filename)
	}
	first := vars[0]
	if first.Data == nil || len(first.Data.Shape) != 2 {
		return fmt.Errorf("toposolar: variable %s is not a 2-d raster", first.Name)
	}
	ny, nx := first.Data.Shape[0], first.Data.Shape[1]

	h := cdf.NewHeader([]string{"y", "x"}, []int{ny, nx})
	for _, v := range vars {
		if v.Data == nil || len(v.Data.Shape) != 2 ||
			v.Data.Shape[0] != ny || v.Data.Shape[1] != nx {
			return fmt.Errorf("toposolar: variable %s does not match raster shape [%d %d]",
				v.Name, ny, nx)
		}
		h.AddVariable(v.Name, []string{"y", "x"}, []float64{0.})
		if v.Description != "" {
			h.AddAttribute(v.Name, "description", v.Description)
		}
		if v.Units != "" {
			h.AddAttribute(v.Name, "units", v.Units)
		}
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("toposolar: creating netcdf header for %s: %v", filename, err)
	}

	ff, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("toposolar: creating raster file: %v", err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("toposolar: creating raster file %s: %v", filename, err)
	}
	for _, v := range vars {
		w := f.Writer(v.Name, nil, nil)
		if _, err := w.Write(v.Data.Elements); err != nil && err != io.EOF {
			return fmt.Errorf("toposolar: writing variable %s to %s: %v", v.Name, filename, err)
		}
	}
	return nil
}

// WriteComponents writes the six outputs of Calculator.Calculate to a
// NetCDF file. The variables are written in the order of OutputNames
// under their file names (solar_ghi_vis, solar_k, solar_dhi, solar_dni,
// solar, net_solar) with units and description attributes.
func WriteComponents(filename string, results map[string]*sparse.DenseArray) error {
	vars := make([]RasterVariable, 0, len(OutputNames))
	for _, name := range OutputNames {
		data, ok := results[name]
		if !ok {
			return fmt.Errorf("toposolar: results are missing variable %s", name)
		}
		v := componentFileVariables[name]
		v.Data = data
		vars = append(vars, v)
	}
	return WriteRasters(filename, vars)
}
