package pipeline

import (
	"archive/zip"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/registry"
)

var zipMagic = []byte("PK\x03\x04")

// parseFile turns one downloaded payload into observation records. Zipped
// payloads are unpacked first; now-period files are sometimes served plain.
func parseFile(c domain.Combination, ref domain.RemoteFileRef, payload []byte) ([]domain.Record, error) {
	text := payload
	if bytes.HasPrefix(payload, zipMagic) {
		member, err := extractProduct(ref.Filename, payload)
		if err != nil {
			return nil, err
		}
		text = member
	}
	return parseProduct(c, ref.Filename, text)
}

// extractProduct pulls the single produkt_* member out of a station zip.
// Station zips also carry Metadaten_* members, which are ignored; zero or
// multiple product members violate the archive convention.
func extractProduct(filename string, payload []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", filename, err)
	}

	var product *zip.File
	members := 0
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasPrefix(path.Base(f.Name), registry.ProductMemberPrefix) {
			members++
			product = f
		}
	}
	if members != 1 {
		return nil, &domain.ArchiveFormatError{Filename: filename, Members: members}
	}

	rc, err := product.Open()
	if err != nil {
		return nil, fmt.Errorf("open member %s in %s: %w", product.Name, filename, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read member %s in %s: %w", product.Name, filename, err)
	}
	return data, nil
}

// parseProduct parses a semicolon-delimited product file. The header row
// names the columns; raw names are mapped to their canonical equivalents,
// sentinel values become explicit missing markers, and the bookkeeping
// STATIONS_ID, MESS_DATUM and eor columns are folded into the record fields.
func parseProduct(c domain.Combination, filename string, text []byte) ([]domain.Record, error) {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(text)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}

	fail := func(lineNo int, line, reason string) error {
		return &domain.ObservationParseError{Filename: filename, LineNo: lineNo, Line: line, Reason: reason}
	}

	layout := registry.TimestampLayout(c.Resolution)

	// columns holds the canonical name per field index, "" for the
	// bookkeeping columns.
	var columns []string
	var records []domain.Record
	idIdx, dateIdx := -1, -1
	lineNo := 0

	scanner := bufio.NewScanner(bytes.NewReader(decoded))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")

		if columns == nil {
			columns = make([]string, len(fields))
			for i, raw := range fields {
				raw = strings.TrimSpace(raw)
				switch strings.ToUpper(raw) {
				case "STATIONS_ID":
					idIdx = i
				case "MESS_DATUM":
					dateIdx = i
				case "EOR":
					// trailing end-of-record marker
				default:
					columns[i] = registry.Canonical(c, raw)
				}
			}
			if idIdx < 0 || dateIdx < 0 {
				return nil, fail(lineNo, line, "header lacks STATIONS_ID or MESS_DATUM")
			}
			continue
		}

		if len(fields) != len(columns) {
			return nil, fail(lineNo, line, fmt.Sprintf("expected %d fields, got %d", len(columns), len(fields)))
		}

		stationID, err := strconv.Atoi(strings.TrimSpace(fields[idIdx]))
		if err != nil {
			return nil, fail(lineNo, line, "station id is not numeric")
		}
		timestamp, err := time.Parse(layout, strings.TrimSpace(fields[dateIdx]))
		if err != nil {
			return nil, fail(lineNo, line, "malformed timestamp")
		}

		values := make(map[string]*float64, len(columns))
		for i, name := range columns {
			if name == "" {
				continue
			}
			v, err := parseValue(fields[i])
			if err != nil {
				return nil, fail(lineNo, line, fmt.Sprintf("column %s: %v", name, err))
			}
			values[name] = v
		}
		records = append(records, domain.Record{
			StationID: stationID,
			Timestamp: timestamp.UTC(),
			Values:    values,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if columns == nil {
		return nil, fail(0, "", "empty product file")
	}
	return records, nil
}

// parseValue maps the -999 sentinel and empty fields to nil, never to zero.
func parseValue(field string) (*float64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil, fmt.Errorf("not numeric: %q", field)
	}
	if v == registry.MissingSentinel {
		return nil, nil
	}
	return &v, nil
}
