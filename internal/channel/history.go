package channel

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// HistoryFilename is the per-channel file the channel monitor appends a
// "<commit-hash> <unix-seconds>" line to each time the channel advances.
const HistoryFilename = "history"

// HistoryV2Filename additionally records when the advancement was detected:
// "<commit-hash> <commit-unix-seconds> <advance-unix-seconds>".
const HistoryV2Filename = "history-v2"

// LoadHistoryDir reads a channel monitor output directory, where each
// subdirectory is a channel holding a history file. Channels are ordered by
// directory name. A channel without a history file has an empty history.
func LoadHistoryDir(root string) ([]Channel, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("error reading history directory: %w", err)
	}

	var channels []Channel
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		events, err := loadChannelHistory(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		channels = append(channels, Channel{Name: entry.Name(), History: events})
	}

	sort.SliceStable(channels, func(i, j int) bool {
		return channels[i].Name < channels[j].Name
	})
	return channels, nil
}

// loadChannelHistory prefers the plain history file and falls back to history-v2.
func loadChannelHistory(dir string) ([]Event, error) {
	for _, name := range []string{HistoryFilename, HistoryV2Filename} {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error opening history file: %w", err)
		}
		events, err := ParseHistory(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return events, nil
	}
	return nil, nil
}

// ParseHistory parses history lines. Only the first two fields of each line
// are used, so both history and history-v2 content is accepted.
func ParseHistory(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected \"<commit> <unix-seconds>\", got %q", line, scanner.Text())
		}
		secs, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid timestamp %q: %w", line, fields[1], err)
		}
		events = append(events, Event{ID: fields[0], Time: time.Unix(secs, 0).UTC()})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading history: %w", err)
	}
	return events, nil
}
