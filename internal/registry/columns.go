package registry

import (
	"strings"

	"github.com/jgrothe/dwd-archive/internal/domain"
)

// Column maps a raw product-file header to its canonical name. Canonical
// names are stable across resolutions so one quantity keeps one name
// everywhere (e.g. RSK, R1, RS and RWS_10 all become precipitation_height
// variants of the same unit, millimeters).
type Column struct {
	Raw       string
	Canonical string
}

type datasetKey struct {
	Resolution domain.Resolution
	Parameter  domain.Parameter
}

// columnLayouts describes the value columns of each dataset's product file in
// file order, excluding the STATIONS_ID, MESS_DATUM and eor bookkeeping
// columns. Quality levels (QN_*) are kept as regular numeric columns.
var columnLayouts = map[datasetKey][]Column{
	{domain.ResolutionMinute1, domain.ParameterPrecipitation}: {
		{"QN", "qn"},
		{"RS_01", "precipitation_height"},
		{"RTH_01", "precipitation_height_droplet"},
		{"RWH_01", "precipitation_height_rocker"},
		{"RS_IND_01", "precipitation_indicator"},
	},
	{domain.ResolutionMinutes10, domain.ParameterPrecipitation}: {
		{"QN", "qn"},
		{"RWS_DAU_10", "precipitation_duration"},
		{"RWS_10", "precipitation_height"},
		{"RWS_IND_10", "precipitation_indicator"},
	},
	{domain.ResolutionMinutes10, domain.ParameterTemperatureAir}: {
		{"QN", "qn"},
		{"PP_10", "pressure_air_site"},
		{"TT_10", "temperature_air_200"},
		{"TM5_10", "temperature_air_005"},
		{"RF_10", "humidity"},
		{"TD_10", "temperature_dew_point_200"},
	},
	{domain.ResolutionMinutes10, domain.ParameterTemperatureExtrem}: {
		{"QN", "qn"},
		{"TX_10", "temperature_air_max_200"},
		{"TX5_10", "temperature_air_max_005"},
		{"TN_10", "temperature_air_min_200"},
		{"TN5_10", "temperature_air_min_005"},
	},
	{domain.ResolutionMinutes10, domain.ParameterWindExtreme}: {
		{"QN", "qn"},
		{"FX_10", "wind_gust_max"},
		{"FNX_10", "wind_speed_min"},
		{"FMX_10", "wind_speed_rolling_mean_max"},
		{"DX_10", "wind_direction_gust_max"},
	},
	{domain.ResolutionMinutes10, domain.ParameterSolar}: {
		{"QN", "qn"},
		{"DS_10", "radiation_sky_diffuse"},
		{"GS_10", "radiation_global"},
		{"SD_10", "sunshine_duration"},
		{"LS_10", "radiation_sky_long_wave"},
	},
	{domain.ResolutionMinutes10, domain.ParameterWind}: {
		{"QN", "qn"},
		{"FF_10", "wind_speed"},
		{"DD_10", "wind_direction"},
	},
	{domain.ResolutionHourly, domain.ParameterTemperatureAir}: {
		{"QN_9", "qn_9"},
		{"TT_TU", "temperature_air_200"},
		{"RF_TU", "humidity"},
	},
	{domain.ResolutionHourly, domain.ParameterCloudType}: {
		{"QN_8", "qn_8"},
		{"V_N", "cloud_cover_total"},
		{"V_N_I", "cloud_cover_total_indicator"},
		{"V_S1_CS", "cloud_type_layer1"},
		{"V_S1_HHS", "cloud_height_layer1"},
		{"V_S1_NS", "cloud_cover_layer1"},
		{"V_S2_CS", "cloud_type_layer2"},
		{"V_S2_HHS", "cloud_height_layer2"},
		{"V_S2_NS", "cloud_cover_layer2"},
	},
	{domain.ResolutionHourly, domain.ParameterCloudiness}: {
		{"QN_8", "qn_8"},
		{"V_N_I", "cloud_cover_total_indicator"},
		{"V_N", "cloud_cover_total"},
	},
	{domain.ResolutionHourly, domain.ParameterDewPoint}: {
		{"QN_8", "qn_8"},
		{"TT", "temperature_air_200"},
		{"TD", "temperature_dew_point_200"},
	},
	{domain.ResolutionHourly, domain.ParameterPrecipitation}: {
		{"QN_8", "qn_8"},
		{"R1", "precipitation_height"},
		{"RS_IND", "precipitation_indicator"},
		{"WRTR", "precipitation_form"},
	},
	{domain.ResolutionHourly, domain.ParameterPressure}: {
		{"QN_8", "qn_8"},
		{"P", "pressure_air_sea_level"},
		{"P0", "pressure_air_site"},
	},
	{domain.ResolutionHourly, domain.ParameterTemperatureSoil}: {
		{"QN_2", "qn_2"},
		{"V_TE002", "temperature_soil_002"},
		{"V_TE005", "temperature_soil_005"},
		{"V_TE010", "temperature_soil_010"},
		{"V_TE020", "temperature_soil_020"},
		{"V_TE050", "temperature_soil_050"},
		{"V_TE100", "temperature_soil_100"},
	},
	{domain.ResolutionHourly, domain.ParameterSolar}: {
		{"QN_592", "qn_592"},
		{"ATMO_LBERG", "radiation_sky_long_wave"},
		{"FD_LBERG", "radiation_sky_diffuse"},
		{"FG_LBERG", "radiation_global"},
		{"SD_LBERG", "sunshine_duration"},
		{"ZENIT", "sun_zenith"},
	},
	{domain.ResolutionHourly, domain.ParameterSunshineDuration}: {
		{"QN_7", "qn_7"},
		{"SD_SO", "sunshine_duration"},
	},
	{domain.ResolutionHourly, domain.ParameterVisibility}: {
		{"QN_8", "qn_8"},
		{"V_VV_I", "visibility_indicator"},
		{"V_VV", "visibility"},
	},
	{domain.ResolutionHourly, domain.ParameterWind}: {
		{"QN_3", "qn_3"},
		{"F", "wind_speed"},
		{"D", "wind_direction"},
	},
	{domain.ResolutionHourly, domain.ParameterWindSynoptic}: {
		{"QN_8", "qn_8"},
		{"FF", "wind_speed"},
		{"DD", "wind_direction"},
	},
	{domain.ResolutionSubdaily, domain.ParameterTemperatureAir}: {
		{"QN_4", "qn_4"},
		{"TT_TER", "temperature_air_200"},
		{"RF_TER", "humidity"},
	},
	{domain.ResolutionSubdaily, domain.ParameterCloudiness}: {
		{"QN_4", "qn_4"},
		{"N_TER", "cloud_cover_total"},
		{"CD_TER", "cloud_density"},
	},
	{domain.ResolutionSubdaily, domain.ParameterMoisture}: {
		{"QN_4", "qn_4"},
		{"VP_TER", "pressure_vapor"},
		{"E_TF_TER", "humidity_absolute"},
		{"TF_TER", "temperature_wet_200"},
	},
	{domain.ResolutionSubdaily, domain.ParameterPressure}: {
		{"QN_4", "qn_4"},
		{"PP_TER", "pressure_air_site"},
	},
	{domain.ResolutionSubdaily, domain.ParameterSoil}: {
		{"QN_4", "qn_4"},
		{"EK_TER", "ground_state"},
	},
	{domain.ResolutionSubdaily, domain.ParameterVisibility}: {
		{"QN_4", "qn_4"},
		{"VK_TER", "visibility"},
	},
	{domain.ResolutionSubdaily, domain.ParameterWind}: {
		{"QN_4", "qn_4"},
		{"DK_TER", "wind_direction"},
		{"FK_TER", "wind_force_beaufort"},
	},
	{domain.ResolutionDaily, domain.ParameterClimateSummary}: {
		{"QN_3", "qn_3"},
		{"FX", "wind_gust_max"},
		{"FM", "wind_speed"},
		{"QN_4", "qn_4"},
		{"RSK", "precipitation_height"},
		{"RSKF", "precipitation_form"},
		{"SDK", "sunshine_duration"},
		{"SHK_TAG", "snow_depth"},
		{"NM", "cloud_cover_total"},
		{"VPM", "pressure_vapor"},
		{"PM", "pressure_air_site"},
		{"TMK", "temperature_air_200"},
		{"UPM", "humidity"},
		{"TXK", "temperature_air_max_200"},
		{"TNK", "temperature_air_min_200"},
		{"TGK", "temperature_air_min_005"},
	},
	{domain.ResolutionDaily, domain.ParameterPrecipitationMore}: {
		{"QN_6", "qn_6"},
		{"RS", "precipitation_height"},
		{"RSF", "precipitation_form"},
		{"SH_TAG", "snow_depth"},
		{"NSH_TAG", "snow_depth_new"},
	},
	{domain.ResolutionDaily, domain.ParameterTemperatureSoil}: {
		{"QN_2", "qn_2"},
		{"V_TE002M", "temperature_soil_002"},
		{"V_TE005M", "temperature_soil_005"},
		{"V_TE010M", "temperature_soil_010"},
		{"V_TE020M", "temperature_soil_020"},
		{"V_TE050M", "temperature_soil_050"},
		{"V_TE100M", "temperature_soil_100"},
	},
	{domain.ResolutionDaily, domain.ParameterSolar}: {
		{"QN_592", "qn_592"},
		{"ATMO_STRAHL", "radiation_sky_long_wave"},
		{"FD_STRAHL", "radiation_sky_diffuse"},
		{"FG_STRAHL", "radiation_global"},
		{"SD_STRAHL", "sunshine_duration"},
	},
	{domain.ResolutionDaily, domain.ParameterWaterEquivalent}: {
		{"QN_6", "qn_6"},
		{"ASH_6", "snow_depth_sampled"},
		{"SH_TAG", "snow_depth"},
		{"WASH_6", "water_equivalent_total_snow_depth"},
		{"WAAS_6", "water_equivalent_snow"},
	},
	{domain.ResolutionDaily, domain.ParameterWeatherPhenomena}: {
		{"QN_4", "qn_4"},
		{"NEBEL", "count_fog"},
		{"GEWITTER", "count_thunder"},
		{"STURM_6", "count_storm_strong_wind"},
		{"STURM_8", "count_storm_stormier_wind"},
		{"TAU", "count_dew"},
		{"GLATTEIS", "count_glaze"},
		{"REIF", "count_frost"},
		{"GRAUPEL", "count_sleet"},
		{"HAGEL", "count_hail"},
	},
	{domain.ResolutionMonthly, domain.ParameterClimateSummary}: {
		{"QN_4", "qn_4"},
		{"MO_N", "cloud_cover_total"},
		{"MO_TT", "temperature_air_200"},
		{"MO_TX", "temperature_air_max_200_mean"},
		{"MO_TN", "temperature_air_min_200_mean"},
		{"MO_FK", "wind_force_beaufort"},
		{"MX_TX", "temperature_air_max_200"},
		{"MX_FX", "wind_gust_max"},
		{"MX_TN", "temperature_air_min_200"},
		{"MO_SD_S", "sunshine_duration"},
		{"QN_6", "qn_6"},
		{"MO_RR", "precipitation_height"},
		{"MX_RS", "precipitation_height_max"},
	},
	{domain.ResolutionMonthly, domain.ParameterPrecipitationMore}: {
		{"QN_6", "qn_6"},
		{"MO_NSH", "snow_depth_new"},
		{"MO_RR", "precipitation_height"},
		{"MO_SH_S", "snow_depth"},
		{"MX_MS", "precipitation_height_max"},
	},
	{domain.ResolutionMonthly, domain.ParameterWeatherPhenomena}: {
		{"QN_4", "qn_4"},
		{"MO_STURM_6", "count_storm_strong_wind"},
		{"MO_STURM_8", "count_storm_stormier_wind"},
		{"MO_GEWITTER", "count_thunder"},
		{"MO_GLATTEIS", "count_glaze"},
		{"MO_GRAUPEL", "count_sleet"},
		{"MO_HAGEL", "count_hail"},
		{"MO_NEBEL", "count_fog"},
		{"MO_TAU", "count_dew"},
	},
	{domain.ResolutionAnnual, domain.ParameterClimateSummary}: {
		{"QN_4", "qn_4"},
		{"JA_N", "cloud_cover_total"},
		{"JA_TT", "temperature_air_200"},
		{"JA_TX", "temperature_air_max_200_mean"},
		{"JA_TN", "temperature_air_min_200_mean"},
		{"JA_FK", "wind_force_beaufort"},
		{"JA_SD_S", "sunshine_duration"},
		{"JA_MX_FX", "wind_gust_max"},
		{"JA_MX_TX", "temperature_air_max_200"},
		{"JA_MX_TN", "temperature_air_min_200"},
		{"QN_6", "qn_6"},
		{"JA_RR", "precipitation_height"},
		{"JA_MX_RS", "precipitation_height_max"},
	},
	{domain.ResolutionAnnual, domain.ParameterPrecipitationMore}: {
		{"QN_6", "qn_6"},
		{"JA_NSH", "snow_depth_new"},
		{"JA_RR", "precipitation_height"},
		{"JA_SH_S", "snow_depth"},
		{"JA_MX_MS", "precipitation_height_max"},
	},
	{domain.ResolutionAnnual, domain.ParameterWeatherPhenomena}: {
		{"QN_4", "qn_4"},
		{"JA_STURM_6", "count_storm_strong_wind"},
		{"JA_STURM_8", "count_storm_stormier_wind"},
		{"JA_GEWITTER", "count_thunder"},
		{"JA_GLATTEIS", "count_glaze"},
		{"JA_GRAUPEL", "count_sleet"},
		{"JA_HAGEL", "count_hail"},
		{"JA_NEBEL", "count_fog"},
		{"JA_TAU", "count_dew"},
	},
}

// Columns returns the value-column layout of a dataset's product file. The
// layout depends only on resolution and parameter; all periods of a dataset
// share it.
func Columns(c domain.Combination) ([]Column, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	layout, ok := columnLayouts[datasetKey{c.Resolution, c.Parameter}]
	if !ok {
		// Every valid combination has a layout; missing entries are a
		// programming error caught by the registry tests.
		return nil, &domain.InvalidCombinationError{Combination: c}
	}
	return layout, nil
}

// Canonical returns the canonical name for a raw column header, falling back
// to the lower-cased raw name for headers the layout does not list. Unknown
// columns are preserved rather than dropped.
func Canonical(c domain.Combination, raw string) string {
	layout, err := Columns(c)
	if err == nil {
		for _, col := range layout {
			if col.Raw == raw {
				return col.Canonical
			}
		}
	}
	return strings.ToLower(raw)
}
