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
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/toposolar"
)

var logger = logrus.StandardLogger()

// InputVars names the input raster variables within the input file.
type InputVars struct {
	DSWRF              string
	DirectNormal       string
	DiffuseHorizontal  string
	IlluminationAngles string
	AlbedoVis          string
	AlbedoIR           string
}

// Run calculates the solar radiation components for one time step:
// it reads the sky view factor raster and the six input rasters from
// NetCDF files, runs the calculator, and writes the components to
// outputFile.
func Run(skyViewFactorFile, skyViewFactorVar, inputFile, outputFile string,
	vars InputVars, cosZ, minValue float64, nprocs int) error {

	if skyViewFactorFile == "" {
		return fmt.Errorf("toposolar: SkyViewFactorFile is not specified")
	}
	if inputFile == "" {
		return fmt.Errorf("toposolar: InputFile is not specified")
	}

	svfData, err := toposolar.ReadRasters(skyViewFactorFile, skyViewFactorVar)
	if err != nil {
		return err
	}
	svf := svfData[skyViewFactorVar]
	logger.WithFields(logrus.Fields{
		"file": skyViewFactorFile,
		"grid": svf.Shape,
	}).Info("read sky view factor")

	inputs, err := toposolar.ReadRasters(inputFile,
		vars.DSWRF, vars.DirectNormal, vars.DiffuseHorizontal,
		vars.IlluminationAngles, vars.AlbedoVis, vars.AlbedoIR)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"file": inputFile,
		"cosZ": cosZ,
	}).Info("read input rasters")

	calc, err := toposolar.NewCalculator(svf,
		toposolar.MinValue(minValue), toposolar.Processors(nprocs))
	if err != nil {
		return err
	}
	results, err := calc.Calculate(
		inputs[vars.DSWRF],
		inputs[vars.DirectNormal],
		inputs[vars.DiffuseHorizontal],
		inputs[vars.IlluminationAngles],
		inputs[vars.AlbedoVis],
		inputs[vars.AlbedoIR],
		cosZ)
	if err != nil {
		return err
	}

	if err := toposolar.WriteComponents(outputFile, results); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"file": outputFile,
	}).Info("wrote solar components")
	return nil
}
