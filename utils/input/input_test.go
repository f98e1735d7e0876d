package input_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/hemic-racer/utils/input"
)

const ovalYAML = `
name: oval
segments:
  - type: straight
    length: 200
    width: 15
  - type: left
    radius: 50
    arc: 180
    width: 15
  - type: straight
    length: 200
    width: 15
  - type: left
    radius: 50
    arc: 180
    start_width: 15
    end_width: 12
`

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "track.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	track, err := input.LoadFile(writeFile(t, ovalYAML))
	require.NoError(t, err)
	assert.Equal(t, "oval", track.Name)
	require.Len(t, track.Segments, 4)
	assert.Equal(t, "left", track.Segments[1].Type)
	assert.Equal(t, 180., track.Segments[1].Arc)
	assert.Equal(t, 12., track.Segments[3].EndWidth)
}

func TestLoadFileRejectsBadData(t *testing.T) {
	_, err := input.LoadFile(writeFile(t, "name: empty\nsegments: []\n"))
	assert.Error(t, err)

	_, err = input.LoadFile(writeFile(t, "name: x\nsegments:\n  - type: spiral\n    length: 3\n"))
	assert.ErrorContains(t, err, "unknown type")

	_, err = input.LoadFile(writeFile(t, "name: x\nsegments:\n  - type: left\n    radius: 10\n"))
	assert.ErrorContains(t, err, "bad arc")

	_, err = input.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateAllowsZeroWidth(t *testing.T) {
	track := &input.Track{
		Name:     "degenerate",
		Segments: []input.SegmentData{{Type: "straight", Length: 10}},
	}
	assert.NoError(t, track.Validate())
}
