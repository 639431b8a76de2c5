package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	ctx := context.Background()

	rec, err := ReadFile(ctx, writeTemp(t, "network.yaml", sampleNetwork), FormatYAML)
	require.NoError(t, err)
	assert.Len(t, rec.Stops, 3)

	rec, err = ReadFile(ctx, writeTemp(t, "extract.osm", sampleOSM), FormatXML)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Buses)
}

func TestReadFileErrors(t *testing.T) {
	ctx := context.Background()
	path := writeTemp(t, "network.yaml", sampleNetwork)

	_, err := ReadFile(ctx, path, Format("shapefile"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ReadFile(ctx, filepath.Join(t.TempDir(), "missing.yaml"), FormatYAML)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ReadFile(ctx, filepath.Join(t.TempDir(), "missing.zip"), FormatGTFS)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClip(t *testing.T) {
	rec := &Records{
		Stops: []StopRecord{
			{Name: "in1", Lat: 1.30, Lng: 103.80},
			{Name: "in2", Lat: 1.31, Lng: 103.81},
			{Name: "out", Lat: 3.10, Lng: 101.60},
		},
		Buses: []BusRecord{
			{Name: "local", Stops: []string{"in1", "in2"}},
			{Name: "express", Stops: []string{"in1", "out"}},
		},
		Distances: []DistanceRecord{
			{From: "in1", To: "in2", Meters: 1500},
			{From: "in1", To: "out", Meters: 300000},
		},
	}
	box := BBox{MinLat: 1.15, MaxLat: 1.48, MinLng: 103.6, MaxLng: 104.1}

	got := Clip(rec, box)
	assert.Len(t, got.Stops, 2)
	require.Len(t, got.Buses, 1)
	assert.Equal(t, "local", got.Buses[0].Name)
	assert.Equal(t, []DistanceRecord{{From: "in1", To: "in2", Meters: 1500}}, got.Distances)

	_, err := Load(got)
	assert.NoError(t, err)

	assert.Same(t, rec, Clip(rec, BBox{}))
}
