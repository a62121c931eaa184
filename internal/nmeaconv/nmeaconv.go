// Package nmeaconv converts NMEA 0183 log files into the measurement CSV
// schema. It is an offline batch converter for recorded logs; live receiver
// streams are out of scope.
package nmeaconv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"gnss-classifier/internal/dataset"

	"github.com/adrianmo/go-nmea"
)

// Stats summarizes a conversion run
type Stats struct {
	Lines        int // Lines scanned
	Sentences    int // Valid NMEA sentences
	ParseErrors  int // Lines that failed to parse
	Measurements int // Measurement rows written
}

// Convert reads an NMEA log and writes one measurement row per satellite
// per GSV sentence. GSV supplies PRN, elevation, azimuth and SNR; RMC and
// GGA supply the epoch. Satellites without an SNR reading are skipped, as
// are GSV sentences seen before the first timestamped sentence.
func Convert(inPath, outPath string) (*Stats, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open NMEA log: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	defer writer.Flush()

	writer.Write([]string{
		dataset.ColTimestamp, dataset.ColPRN, dataset.ColCN0,
		dataset.ColElevation, dataset.ColAzimuth,
	})

	stats := &Stats{}
	var epoch time.Time

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		stats.Lines++

		// Only process lines that look like NMEA sentences
		if len(line) == 0 || line[0] != '$' || !printableASCII(line) {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			stats.ParseErrors++
			continue
		}
		stats.Sentences++

		switch s := sentence.(type) {
		case nmea.RMC:
			if s.Time.Valid && s.Date.Valid {
				epoch = time.Date(
					2000+int(s.Date.YY), time.Month(s.Date.MM), int(s.Date.DD),
					s.Time.Hour, s.Time.Minute, s.Time.Second,
					int(s.Time.Millisecond)*1000000,
					time.UTC,
				)
			}
		case nmea.GGA:
			if s.Time.Valid && !epoch.IsZero() {
				// GGA has no date; keep the RMC date and update the time of day
				epoch = time.Date(
					epoch.Year(), epoch.Month(), epoch.Day(),
					s.Time.Hour, s.Time.Minute, s.Time.Second,
					int(s.Time.Millisecond)*1000000,
					time.UTC,
				)
			}
		case nmea.GSV:
			if epoch.IsZero() {
				continue
			}
			for _, sv := range s.Info {
				if sv.SNR <= 0 {
					continue // satellite in view but not tracked
				}
				if err := writer.Write([]string{
					epoch.Format(time.RFC3339),
					fmt.Sprintf("G%02d", sv.SVPRNNumber),
					fmt.Sprintf("%d", sv.SNR),
					fmt.Sprintf("%d", sv.Elevation),
					fmt.Sprintf("%d", sv.Azimuth),
				}); err != nil {
					return nil, fmt.Errorf("failed to write measurement row: %w", err)
				}
				stats.Measurements++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read NMEA log: %w", err)
	}

	if stats.Measurements == 0 {
		return nil, &dataset.DataError{Path: inPath, Msg: "no usable GSV measurements found"}
	}
	return stats, nil
}

// printableASCII filters out binary noise interleaved with NMEA output
func printableASCII(line string) bool {
	for _, r := range line {
		if r < 32 || r > 126 {
			return false
		}
	}
	return true
}
