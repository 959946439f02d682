// Package registry bakes in the stable structure of the DWD climate archive:
// which (parameter, resolution, period) combinations exist, the directory and
// file naming conventions for each, and the column layout of the product data
// files. Validity checks are pure lookups over fixed tables; nothing here
// performs I/O, so invalid requests fail before any network access.
package registry

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jgrothe/dwd-archive/internal/domain"
)

// ProductMemberPrefix marks the single data member inside a station zip.
// The remaining members are auxiliary metadata files.
const ProductMemberPrefix = "produkt_"

// MissingSentinel is the archive's numeric code for a missing observation.
const MissingSentinel = -999

// combinations is the valid dataset matrix: resolution -> parameter -> periods.
// Mirrors the archive's directory tree; periods listed in archive order.
var combinations = map[domain.Resolution]map[domain.Parameter][]domain.Period{
	domain.ResolutionMinute1: {
		domain.ParameterPrecipitation: {domain.PeriodHistorical, domain.PeriodRecent, domain.PeriodNow},
	},
	domain.ResolutionMinutes10: {
		domain.ParameterPrecipitation:     {domain.PeriodHistorical, domain.PeriodRecent, domain.PeriodNow},
		domain.ParameterTemperatureAir:    {domain.PeriodHistorical, domain.PeriodRecent, domain.PeriodNow},
		domain.ParameterTemperatureExtrem: {domain.PeriodHistorical, domain.PeriodRecent, domain.PeriodNow},
		domain.ParameterWindExtreme:       {domain.PeriodHistorical, domain.PeriodRecent, domain.PeriodNow},
		domain.ParameterSolar:             {domain.PeriodHistorical, domain.PeriodRecent, domain.PeriodNow},
		domain.ParameterWind:              {domain.PeriodHistorical, domain.PeriodRecent, domain.PeriodNow},
	},
	domain.ResolutionHourly: {
		domain.ParameterTemperatureAir:   {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterCloudType:        {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterCloudiness:       {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterDewPoint:         {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterPrecipitation:    {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterPressure:         {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterTemperatureSoil:  {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterSolar:            {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterSunshineDuration: {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterVisibility:       {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterWind:             {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterWindSynoptic:     {domain.PeriodHistorical, domain.PeriodRecent},
	},
	domain.ResolutionSubdaily: {
		domain.ParameterTemperatureAir: {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterCloudiness:     {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterMoisture:       {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterPressure:       {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterSoil:           {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterVisibility:     {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterWind:           {domain.PeriodHistorical, domain.PeriodRecent},
	},
	domain.ResolutionDaily: {
		domain.ParameterClimateSummary:    {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterPrecipitationMore: {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterTemperatureSoil:   {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterSolar:             {domain.PeriodRecent},
		domain.ParameterWaterEquivalent:   {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterWeatherPhenomena:  {domain.PeriodHistorical, domain.PeriodRecent},
	},
	domain.ResolutionMonthly: {
		domain.ParameterClimateSummary:    {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterPrecipitationMore: {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterWeatherPhenomena:  {domain.PeriodHistorical, domain.PeriodRecent},
	},
	domain.ResolutionAnnual: {
		domain.ParameterClimateSummary:    {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterPrecipitationMore: {domain.PeriodHistorical, domain.PeriodRecent},
		domain.ParameterWeatherPhenomena:  {domain.PeriodHistorical, domain.PeriodRecent},
	},
}

// datasetCode maps each valid (resolution, parameter) pair to the short code
// used in filenames, e.g. daily climate summary files are tageswerte_KL_*.
var datasetCode = map[domain.Resolution]map[domain.Parameter]string{
	domain.ResolutionMinute1: {
		domain.ParameterPrecipitation: "nieder",
	},
	domain.ResolutionMinutes10: {
		domain.ParameterPrecipitation:     "nieder",
		domain.ParameterTemperatureAir:    "TU",
		domain.ParameterTemperatureExtrem: "extrema_temp",
		domain.ParameterWindExtreme:       "extrema_wind",
		domain.ParameterSolar:             "SOLAR",
		domain.ParameterWind:              "wind",
	},
	domain.ResolutionHourly: {
		domain.ParameterTemperatureAir:   "TU",
		domain.ParameterCloudType:        "CS",
		domain.ParameterCloudiness:       "N",
		domain.ParameterDewPoint:         "TD",
		domain.ParameterPrecipitation:    "RR",
		domain.ParameterPressure:         "P0",
		domain.ParameterTemperatureSoil:  "EB",
		domain.ParameterSolar:            "ST",
		domain.ParameterSunshineDuration: "SD",
		domain.ParameterVisibility:       "VV",
		domain.ParameterWind:             "FF",
		domain.ParameterWindSynoptic:     "F",
	},
	domain.ResolutionSubdaily: {
		domain.ParameterTemperatureAir: "TU",
		domain.ParameterCloudiness:     "N",
		domain.ParameterMoisture:       "TF",
		domain.ParameterPressure:       "PP",
		domain.ParameterSoil:           "EK",
		domain.ParameterVisibility:     "VK",
		domain.ParameterWind:           "FK",
	},
	domain.ResolutionDaily: {
		domain.ParameterClimateSummary:    "KL",
		domain.ParameterPrecipitationMore: "RR",
		domain.ParameterTemperatureSoil:   "EB",
		domain.ParameterSolar:             "ST",
		domain.ParameterWaterEquivalent:   "Wa",
		domain.ParameterWeatherPhenomena:  "WW",
	},
	domain.ResolutionMonthly: {
		domain.ParameterClimateSummary:    "KL",
		domain.ParameterPrecipitationMore: "RR",
		domain.ParameterWeatherPhenomena:  "WW",
	},
	domain.ResolutionAnnual: {
		domain.ParameterClimateSummary:    "KL",
		domain.ParameterPrecipitationMore: "RR",
		domain.ParameterWeatherPhenomena:  "WW",
	},
}

// resolutionPrefix is the filename prefix per resolution.
var resolutionPrefix = map[domain.Resolution]string{
	domain.ResolutionMinute1:   "1minutenwerte",
	domain.ResolutionMinutes10: "10minutenwerte",
	domain.ResolutionHourly:    "stundenwerte",
	domain.ResolutionSubdaily:  "terminwerte",
	domain.ResolutionDaily:     "tageswerte",
	domain.ResolutionMonthly:   "monatswerte",
	domain.ResolutionAnnual:    "jahreswerte",
}

// descriptionWord is the resolution word used in station description
// filenames, e.g. KL_Tageswerte_Beschreibung_Stationen.txt.
var descriptionWord = map[domain.Resolution]string{
	domain.ResolutionMinute1:   "Ein_Minuten",
	domain.ResolutionMinutes10: "Zehn_Minuten",
	domain.ResolutionHourly:    "Stundenwerte",
	domain.ResolutionSubdaily:  "Terminwerte",
	domain.ResolutionDaily:     "Tageswerte",
	domain.ResolutionMonthly:   "Monatswerte",
	domain.ResolutionAnnual:    "Jahreswerte",
}

// IsValid reports whether the combination exists in the archive.
func IsValid(c domain.Combination) bool {
	periods, ok := combinations[c.Resolution][c.Parameter]
	if !ok {
		return false
	}
	for _, p := range periods {
		if p == c.Period {
			return true
		}
	}
	return false
}

// Validate returns *domain.InvalidCombinationError for unknown combinations.
// Every operation that takes a combination calls this before touching the
// network.
func Validate(c domain.Combination) error {
	if !IsValid(c) {
		return &domain.InvalidCombinationError{Combination: c}
	}
	return nil
}

// All returns every valid combination in deterministic order: resolutions
// finest to coarsest, parameters in declaration order, periods in archive
// order.
func All() []domain.Combination {
	var all []domain.Combination
	for _, res := range domain.Resolutions() {
		params, ok := combinations[res]
		if !ok {
			continue
		}
		for _, param := range domain.Parameters() {
			for _, period := range params[param] {
				all = append(all, domain.Combination{
					Parameter:  param,
					Resolution: res,
					Period:     period,
				})
			}
		}
	}
	return all
}

// Path returns the dataset's directory path relative to the archive's climate
// observations root, with a trailing slash.
func Path(c domain.Combination) (string, error) {
	if err := Validate(c); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s/", c.Resolution, c.Parameter, c.Period), nil
}

// stem returns the filename stem shared by all of a dataset's station files,
// e.g. "tageswerte_KL".
func stem(c domain.Combination) string {
	return resolutionPrefix[c.Resolution] + "_" + datasetCode[c.Resolution][c.Parameter]
}

// DescriptionFilename returns the name of the dataset's station description
// file.
func DescriptionFilename(c domain.Combination) (string, error) {
	if err := Validate(c); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_Beschreibung_Stationen.txt",
		datasetCode[c.Resolution][c.Parameter], descriptionWord[c.Resolution]), nil
}

// FilePattern matches and rebuilds a dataset's station data filenames.
// Match and Filename are inverses: Filename(Match(name)) == name for any
// name the pattern accepts.
type FilePattern struct {
	stem   string
	period domain.Period
	re     *regexp.Regexp
}

const filenameDateLayout = "20060102"

// Pattern returns the filename matcher for a valid combination.
func Pattern(c domain.Combination) (FilePattern, error) {
	if err := Validate(c); err != nil {
		return FilePattern{}, err
	}
	s := stem(c)
	var re *regexp.Regexp
	switch c.Period {
	case domain.PeriodHistorical:
		re = regexp.MustCompile(`^` + regexp.QuoteMeta(s) + `_(\d{5})_(\d{8})_(\d{8})_hist\.zip$`)
	case domain.PeriodRecent:
		re = regexp.MustCompile(`^` + regexp.QuoteMeta(s) + `_(\d{5})_akt\.zip$`)
	case domain.PeriodNow:
		re = regexp.MustCompile(`^` + regexp.QuoteMeta(s) + `_(\d{5})_now\.zip$`)
	}
	return FilePattern{stem: s, period: c.Period, re: re}, nil
}

// Dated reports whether matched filenames carry an explicit date range.
func (p FilePattern) Dated() bool { return p.period == domain.PeriodHistorical }

// Match extracts the station id and, for historical files, the covered date
// range from a filename. ok is false for names that do not follow the
// dataset's convention; directories contain auxiliary files, so a non-match
// is not an error.
func (p FilePattern) Match(filename string) (stationID int, from, to time.Time, ok bool) {
	m := p.re.FindStringSubmatch(filename)
	if m == nil {
		return 0, time.Time{}, time.Time{}, false
	}
	// \d{5} cannot fail to parse.
	stationID, _ = strconv.Atoi(m[1])
	if p.Dated() {
		var err error
		from, err = time.Parse(filenameDateLayout, m[2])
		if err != nil {
			return 0, time.Time{}, time.Time{}, false
		}
		to, err = time.Parse(filenameDateLayout, m[3])
		if err != nil {
			return 0, time.Time{}, time.Time{}, false
		}
	}
	return stationID, from, to, true
}

// Filename rebuilds the archive filename for a station and, for historical
// datasets, its date range.
func (p FilePattern) Filename(stationID int, from, to time.Time) string {
	switch p.period {
	case domain.PeriodHistorical:
		return fmt.Sprintf("%s_%05d_%s_%s_hist.zip",
			p.stem, stationID, from.Format(filenameDateLayout), to.Format(filenameDateLayout))
	case domain.PeriodNow:
		return fmt.Sprintf("%s_%05d_now.zip", p.stem, stationID)
	default:
		return fmt.Sprintf("%s_%05d_akt.zip", p.stem, stationID)
	}
}

// TimestampLayout returns the MESS_DATUM layout for a resolution. Minute
// datasets carry yyyymmddHHMM, hourly and subdaily yyyymmddHH, the rest
// yyyymmdd.
func TimestampLayout(r domain.Resolution) string {
	switch r {
	case domain.ResolutionMinute1, domain.ResolutionMinutes10:
		return "200601021504"
	case domain.ResolutionHourly, domain.ResolutionSubdaily:
		return "2006010215"
	default:
		return "20060102"
	}
}
