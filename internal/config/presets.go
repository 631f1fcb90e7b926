package config

import "sort"

func preset(label string, profiles []ProfileConfig, kinematics []KinematicsConfig) *Config {
	cfg := DefaultConfig()
	cfg.Label = label
	cfg.Profiles = profiles
	cfg.Kinematics = kinematics
	return cfg
}

var (
	youngStars = &FilterConfig{Kind: "age_lt", Value: 2}
	hotGas     = &FilterConfig{Kind: "temperature_gt", Value: 1e5}
)

var Presets = map[string]*Config{
	"demo": preset("demo",
		[]ProfileConfig{
			{Name: "dark_matter_density_profile", Species: "dark_matter", Kind: "density", RMin: 0.03, RMax: 3, Bins: DefaultBins, Log: true},
			{Name: "stellar_metallicity_profile", Species: "stars", Kind: "avg_metallicity", Filter: youngStars, RMin: 0, RMax: 5, Bins: DefaultBins},
			{Name: "hot_gas_carbon_profile", Species: "gas", Kind: "avg_carbon_frac", Filter: hotGas, RMin: 0, RMax: 5, Bins: DefaultBins},
		},
		[]KinematicsConfig{
			{Name: "hot_gas", Species: "gas", Filter: hotGas},
		},
	),
	"dark_matter": preset("dark_matter",
		[]ProfileConfig{
			{Name: "dark_matter_density", Species: "dark_matter", Kind: "density", RMin: 0.03, RMax: 3, Bins: DefaultBins, Log: true},
			{Name: "dark_matter_mass", Species: "dark_matter", Kind: "cumulative_mass", RMin: 0, RMax: 5, Bins: DefaultBins},
		},
		[]KinematicsConfig{
			{Name: "dark_matter", Species: "dark_matter"},
		},
	),
	"stars": preset("stars",
		[]ProfileConfig{
			{Name: "stellar_age", Species: "stars", Kind: "avg_age", RMin: 0, RMax: 5, Bins: DefaultBins},
			{Name: "stellar_metallicity", Species: "stars", Kind: "avg_metallicity", RMin: 0, RMax: 5, Bins: DefaultBins},
			{Name: "young_stellar_density", Species: "stars", Kind: "density", Filter: youngStars, RMin: 0.1, RMax: 5, Bins: DefaultBins, Log: true},
		},
		[]KinematicsConfig{
			{Name: "stars", Species: "stars"},
			{Name: "young_stars", Species: "stars", Filter: youngStars},
		},
	),
	"gas": preset("gas",
		[]ProfileConfig{
			{Name: "gas_density", Species: "gas", Kind: "density", RMin: 0.1, RMax: 5, Bins: DefaultBins, Log: true},
			{Name: "gas_carbon", Species: "gas", Kind: "avg_carbon_frac", RMin: 0, RMax: 5, Bins: DefaultBins},
			{Name: "hot_gas_mass", Species: "gas", Kind: "cumulative_mass", Filter: hotGas, RMin: 0, RMax: 5, Bins: DefaultBins},
		},
		[]KinematicsConfig{
			{Name: "gas", Species: "gas"},
			{Name: "hot_gas", Species: "gas", Filter: hotGas},
		},
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
