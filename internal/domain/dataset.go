package domain

import "fmt"

// Parameter identifies an observed quantity (or group of quantities for
// composite datasets such as the daily climate summary "kl").
type Parameter string

const (
	ParameterPrecipitation     Parameter = "precipitation"
	ParameterTemperatureAir    Parameter = "air_temperature"
	ParameterTemperatureExtrem Parameter = "extreme_temperature"
	ParameterWindExtreme       Parameter = "extreme_wind"
	ParameterSolar             Parameter = "solar"
	ParameterWind              Parameter = "wind"
	ParameterCloudType         Parameter = "cloud_type"
	ParameterCloudiness        Parameter = "cloudiness"
	ParameterDewPoint          Parameter = "dew_point"
	ParameterPressure          Parameter = "pressure"
	ParameterTemperatureSoil   Parameter = "soil_temperature"
	ParameterSunshineDuration  Parameter = "sun"
	ParameterVisibility        Parameter = "visibility"
	ParameterWindSynoptic      Parameter = "wind_synop"
	ParameterMoisture          Parameter = "moisture"
	ParameterSoil              Parameter = "soil"
	ParameterClimateSummary    Parameter = "kl"
	ParameterPrecipitationMore Parameter = "more_precip"
	ParameterWaterEquivalent   Parameter = "water_equiv"
	ParameterWeatherPhenomena  Parameter = "weather_phenomena"
)

// Resolution is the measurement interval of a dataset.
type Resolution string

const (
	ResolutionMinute1   Resolution = "1_minute"
	ResolutionMinutes10 Resolution = "10_minutes"
	ResolutionHourly    Resolution = "hourly"
	ResolutionSubdaily  Resolution = "subdaily"
	ResolutionDaily     Resolution = "daily"
	ResolutionMonthly   Resolution = "monthly"
	ResolutionAnnual    Resolution = "annual"
)

// Period distinguishes the archive's data-period directories. Historical files
// are closed date ranges, recent covers roughly the last 500 days, and now
// holds the current day's not-yet-quality-checked values.
type Period string

const (
	PeriodHistorical Period = "historical"
	PeriodRecent     Period = "recent"
	PeriodNow        Period = "now"
)

// Combination is a (parameter, resolution, period) triple identifying one
// logical dataset in the archive. Not every triple exists; the registry
// package is the single source of truth for validity.
type Combination struct {
	Parameter  Parameter  `json:"parameter"`
	Resolution Resolution `json:"resolution"`
	Period     Period     `json:"period"`
}

func (c Combination) String() string {
	return fmt.Sprintf("%s/%s/%s", c.Resolution, c.Parameter, c.Period)
}

// ParseParameter validates a raw string against the known parameter set.
func ParseParameter(s string) (Parameter, error) {
	for _, p := range Parameters() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown parameter %q", s)
}

// ParseResolution validates a raw string against the known resolution set.
func ParseResolution(s string) (Resolution, error) {
	for _, r := range Resolutions() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resolution %q", s)
}

// ParsePeriod validates a raw string against the known period set.
func ParsePeriod(s string) (Period, error) {
	for _, p := range Periods() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Parameters returns all known parameters in declaration order.
func Parameters() []Parameter {
	return []Parameter{
		ParameterPrecipitation, ParameterTemperatureAir, ParameterTemperatureExtrem,
		ParameterWindExtreme, ParameterSolar, ParameterWind, ParameterCloudType,
		ParameterCloudiness, ParameterDewPoint, ParameterPressure,
		ParameterTemperatureSoil, ParameterSunshineDuration, ParameterVisibility,
		ParameterWindSynoptic, ParameterMoisture, ParameterSoil,
		ParameterClimateSummary, ParameterPrecipitationMore,
		ParameterWaterEquivalent, ParameterWeatherPhenomena,
	}
}

// Resolutions returns all known resolutions from finest to coarsest.
func Resolutions() []Resolution {
	return []Resolution{
		ResolutionMinute1, ResolutionMinutes10, ResolutionHourly,
		ResolutionSubdaily, ResolutionDaily, ResolutionMonthly, ResolutionAnnual,
	}
}

// Periods returns all known periods.
func Periods() []Period {
	return []Period{PeriodHistorical, PeriodRecent, PeriodNow}
}
