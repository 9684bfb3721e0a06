package channel

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	input := `Timestamp,Channel,Commit,Note
2020-01-01,nixos-unstable,abc123,first
1590969600,nixos-unstable,def456,
01/15/2020 10:30,nixos-19.09,fff000,backport
`
	channels, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, channels, 2)

	assert.Equal(t, "nixos-unstable", channels[0].Name)
	require.Len(t, channels[0].History, 2)
	assert.Equal(t, "abc123", channels[0].History[0].ID)
	assert.True(t, channels[0].History[1].Time.Equal(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, "nixos-19.09", channels[1].Name)
	assert.True(t, channels[1].History[0].Time.Equal(time.Date(2020, 1, 15, 10, 30, 0, 0, time.UTC)))
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.ErrorContains(t, err, "error reading CSV header")

	_, err = ParseCSV(strings.NewReader("channel,timestamp\nx,2020-01-01\n"))
	assert.ErrorContains(t, err, "column 'commit' not found")

	_, err = ParseCSV(strings.NewReader("channel,commit,timestamp\nx,abc,someday\n"))
	assert.ErrorContains(t, err, "row 2")
}

func TestLoad_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	writeFile(t, path, "channel,commit,timestamp\nnixos-unstable,abc123,1577836800\n")

	channels, err := Load(path)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "abc123", channels[0].History[0].ID)
}
