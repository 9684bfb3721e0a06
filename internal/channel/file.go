package channel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// record is the on-disk shape of a channel in JSON and YAML datasets:
//
//	[{"name": "nixos-unstable", "history": [["abc123", "2020-01-01T00:00:00Z"], ["def456", 1590969600]]}]
type record struct {
	Name    string     `json:"name" yaml:"name"`
	History [][]string `json:"-" yaml:"history"`
	Raw     [][]any    `json:"history" yaml:"-"`
}

// Load reads a dataset from path. A directory is read as channel monitor
// output; .json and .yaml/.yml files are read as a list of channel records
// and .csv files as an event table.
func Load(path string) ([]Channel, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}
	if info.IsDir() {
		return LoadHistoryDir(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".csv":
		return ParseCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", ext)
	}
}

// ParseJSON decodes a JSON channel list. Event times are RFC 3339 strings or
// unix seconds.
func ParseJSON(data []byte) ([]Channel, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error parsing dataset: %w", err)
	}
	for i := range records {
		pairs := make([][]string, len(records[i].Raw))
		for j, raw := range records[i].Raw {
			pairs[j] = make([]string, len(raw))
			for k, v := range raw {
				switch v := v.(type) {
				case string:
					pairs[j][k] = v
				case float64:
					pairs[j][k] = strconv.FormatFloat(v, 'f', -1, 64)
				default:
					return nil, fmt.Errorf("channel %q event %d: unexpected value %v", records[i].Name, j, v)
				}
			}
		}
		records[i].History = pairs
	}
	return toChannels(records)
}

// ParseYAML decodes a YAML channel list with the same shape as ParseJSON.
func ParseYAML(data []byte) ([]Channel, error) {
	var records []record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error parsing dataset: %w", err)
	}
	return toChannels(records)
}

func toChannels(records []record) ([]Channel, error) {
	channels := make([]Channel, 0, len(records))
	for _, r := range records {
		c := Channel{Name: r.Name, History: make([]Event, 0, len(r.History))}
		for i, pair := range r.History {
			if len(pair) != 2 {
				return nil, fmt.Errorf("channel %q event %d: expected [id, time] pair", r.Name, i)
			}
			ts, err := parseTime(pair[1])
			if err != nil {
				return nil, fmt.Errorf("channel %q event %d: %w", r.Name, i, err)
			}
			c.History = append(c.History, Event{ID: pair[0], Time: ts})
		}
		channels = append(channels, c)
	}
	return channels, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp %q", s)
}
