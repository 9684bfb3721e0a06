package channel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// CSV column names, matched case-insensitively against the header row.
const (
	ColumnChannel   = "channel"
	ColumnID        = "commit"
	ColumnTimestamp = "timestamp"
)

var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseCSV reads a flat event table with channel, commit and timestamp
// columns. Other columns are ignored. Channels appear in the order their
// first row does; events keep row order. Timestamps are unix seconds or one
// of the common date layouts, interpreted as UTC.
func ParseCSV(r io.Reader) ([]Channel, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	columnMap := make(map[string]int)
	for i, col := range header {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	var cols [3]int
	for i, name := range []string{ColumnChannel, ColumnID, ColumnTimestamp} {
		col, ok := columnMap[name]
		if !ok {
			return nil, fmt.Errorf("column '%s' not found in CSV. Available columns: %v", name, header)
		}
		cols[i] = col
	}

	var channels []Channel
	index := make(map[string]int)
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		name := strings.TrimSpace(record[cols[0]])
		ts, err := parseCSVTimestamp(record[cols[2]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		i, ok := index[name]
		if !ok {
			i = len(channels)
			index[name] = i
			channels = append(channels, Channel{Name: name})
		}
		channels[i].History = append(channels[i].History, Event{
			ID:   strings.TrimSpace(record[cols[1]]),
			Time: ts,
		})
	}
	return channels, nil
}

func parseCSVTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := parseTime(s); err == nil {
		return t, nil
	}
	var err error
	for _, format := range timestampFormats {
		var t time.Time
		if t, err = time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp '%s': %w", s, err)
}
