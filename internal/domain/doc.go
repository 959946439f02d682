// Package domain models the DWD (Deutscher Wetterdienst) open-data climate
// archive: datasets, stations, remote files, and observation records.
//
// # Archive layout
//
// Climate observations live under
// https://opendata.dwd.de/climate_environment/CDC/observations_germany/climate/,
// organized as <resolution>/<parameter>/<period>/. A dataset is identified by
// that (parameter, resolution, period) triple, called a Combination here. The
// set of valid triples is fixed and part of the archive's stable structure;
// the registry package bakes it in at build time.
//
// # File naming
//
// Each dataset directory contains one zip per station (historical datasets:
// one zip per station per closed date range):
//
//	tageswerte_KL_00001_19370101_19860630_hist.zip   (historical, dated)
//	tageswerte_KL_00044_akt.zip                      (recent)
//	10minutenwerte_TU_00044_now.zip                  (now)
//
// The five-digit field is the zero-padded station id. Historical names carry
// the covered date range as yyyymmdd pairs. Every field of a RemoteFileRef is
// recoverable from the filename and vice versa.
//
// # Station description files
//
// Each dataset directory also carries a fixed-width station description table
// (e.g. KL_Tageswerte_Beschreibung_Stationen.txt): a German column header
// line, a dashed separator line, then one row per station with id, coverage
// dates, elevation, coordinates, name, and federal state. Files are encoded
// in ISO 8859-1, not UTF-8; station and state names contain umlauts.
//
// # Product data files
//
// The zips contain one semicolon-delimited product member
// (produkt_<...>.txt) plus auxiliary metadata members. Product rows carry
// STATIONS_ID, a MESS_DATUM timestamp whose precision follows the dataset
// resolution, quality-level columns (QN_*), and the measurement columns. The
// value -999 is the archive's sentinel for a missing observation; after
// parsing it becomes a nil value, never a numeric zero.
package domain
