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

// Package toposolarutil holds the configuration and command surface of
// the toposolar command-line tool.
package toposolarutil

import (
	"fmt"

	"github.com/spatialmodel/toposolar"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Cfg = viper.New()
	Cfg.SetEnvPrefix("TOPOSOLAR")
	Cfg.AutomaticEnv()

	// Options are the configuration options available to TopoSolar.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "SkyViewFactorFile",
			usage: `
              SkyViewFactorFile is the path to the NetCDF file holding the
              static sky view factor raster, which defines the grid for the
              calculation.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SkyViewFactorVar",
			usage: `
              SkyViewFactorVar is the name of the sky view factor variable
              within SkyViewFactorFile.`,
			defaultVal: "sky_view_factor",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to the NetCDF file holding the per-time-step
              input rasters (downwelling, beam, and diffuse shortwave flux,
              illumination angles, and the two albedo bands), interpolated to
              the topographic grid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the six solar radiation components
              are written.`,
			defaultVal: "toposolar_output.nc",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "CosZenith",
			usage: `
              CosZenith is the cosine of the solar zenith angle for the
              processed time step. Values <= 0 mean the sun is down and all
              outputs are zero.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MinValue",
			usage: `
              MinValue is the threshold [W/m2] below which an input flux is
              treated as an interpolation artifact and the pixel is zeroed.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumProcessors",
			usage: `
              NumProcessors is the number of goroutines used to process
              grid rows.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Vars.DSWRF",
			usage: `
              Vars.DSWRF is the name of the downwelling shortwave flux
              variable in InputFile.`,
			defaultVal: "DSWRF",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Vars.DirectNormal",
			usage: `
              Vars.DirectNormal is the name of the visible beam downward
              flux variable in InputFile.`,
			defaultVal: "VBDSF",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Vars.DiffuseHorizontal",
			usage: `
              Vars.DiffuseHorizontal is the name of the visible diffuse
              downward flux variable in InputFile.`,
			defaultVal: "VDDSF",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Vars.IlluminationAngles",
			usage: `
              Vars.IlluminationAngles is the name of the illumination angle
              cosine variable in InputFile.`,
			defaultVal: "illumination_angles",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Vars.AlbedoVis",
			usage: `
              Vars.AlbedoVis is the name of the visible albedo variable in
              InputFile.`,
			defaultVal: "albedo_vis",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Vars.AlbedoIR",
			usage: `
              Vars.AlbedoIR is the name of the infrared albedo variable in
              InputFile.`,
			defaultVal: "albedo_ir",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Plot.Variable",
			usage: `
              Plot.Variable is the name of the variable in OutputFile to
              render.`,
			defaultVal: "net_solar",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "Plot.File",
			usage: `
              Plot.File is the path of the PNG image to create.`,
			defaultVal: "net_solar.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	for _, option := range options {
		for _, set := range option.flagsets {
			switch v := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, v, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, v, option.usage)
				}
			case int:
				set.Int(option.name, v, option.usage)
			case float64:
				set.Float64(option.name, v, option.usage)
			case bool:
				set.Bool(option.name, v, option.usage)
			default:
				set.String(option.name, cast.ToString(v), option.usage)
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(plotCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("toposolar: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "toposolar",
	Short: "Topographic downscaling of shortwave radiation.",
	Long: `TopoSolar downscales gridded shortwave radiation forecasts to
topography. It splits the incoming flux into direct and diffuse components,
corrects them for local illumination angle and sky view factor, and computes
the net flux absorbed after albedo.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'TOPOSOLAR_var' where 'var'
is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of TopoSolar.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("TopoSolar v%s\n", toposolar.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd computes the solar components for one time step.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Calculate solar radiation components for one time step.",
	Long: `run reads the sky view factor and input rasters from NetCDF files,
calculates the six solar radiation components (GHI, diffuse fraction, DHI,
DNI, terrain-corrected solar, and net solar), and writes them to the output
file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(
			Cfg.GetString("SkyViewFactorFile"),
			Cfg.GetString("SkyViewFactorVar"),
			Cfg.GetString("InputFile"),
			Cfg.GetString("OutputFile"),
			InputVars{
				DSWRF:              Cfg.GetString("Vars.DSWRF"),
				DirectNormal:       Cfg.GetString("Vars.DirectNormal"),
				DiffuseHorizontal:  Cfg.GetString("Vars.DiffuseHorizontal"),
				IlluminationAngles: Cfg.GetString("Vars.IlluminationAngles"),
				AlbedoVis:          Cfg.GetString("Vars.AlbedoVis"),
				AlbedoIR:           Cfg.GetString("Vars.AlbedoIR"),
			},
			Cfg.GetFloat64("CosZenith"),
			Cfg.GetFloat64("MinValue"),
			Cfg.GetInt("NumProcessors"),
		)
	},
	DisableAutoGenTag: true,
}

// plotCmd renders one variable of a result file as a PNG heat map.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a result variable as a heat map.",
	Long: `plot reads a variable from a result file written by 'toposolar run'
and renders it as a PNG heat map.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Plot(
			Cfg.GetString("OutputFile"),
			Cfg.GetString("Plot.Variable"),
			Cfg.GetString("Plot.File"),
		)
	},
	DisableAutoGenTag: true,
}
