package raster

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/planetgeo/go-sfs/pkg/core"
	"github.com/planetgeo/go-sfs/pkg/geo"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadASC(t *testing.T) {
	path := writeTemp(t, "dem.asc", `ncols 3
nrows 2
xllcorner 10.0
yllcorner 45.0
cellsize 0.5
NODATA_value -9999
1 2 3
4 -9999 6
`)

	grid, geoRef, err := ReadASC(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if grid.Cols != 3 || grid.Rows != 2 {
		t.Fatalf("Expected 3x2 grid, got %dx%d", grid.Cols, grid.Rows)
	}
	if grid.At(2, 0) != 3 || grid.At(0, 1) != 4 {
		t.Errorf("Row-major ordering broken: got %v, %v", grid.At(2, 0), grid.At(0, 1))
	}
	if !grid.IsNoData(1, 1) {
		t.Error("Expected (1,1) to be no-data")
	}

	// Pixel (0,0) is the center of the upper-left cell
	lon, lat := geoRef.PixelToLonLat(0, 0)
	if math.Abs(lon-10.25) > 1e-12 || math.Abs(lat-45.75) > 1e-12 {
		t.Errorf("Expected origin (10.25, 45.75), got (%v, %v)", lon, lat)
	}
	if geoRef.LonPerCol != 0.5 || geoRef.LatPerRow != -0.5 {
		t.Errorf("Expected steps (0.5, -0.5), got (%v, %v)", geoRef.LonPerCol, geoRef.LatPerRow)
	}
}

func TestReadASCDefaultsNoData(t *testing.T) {
	path := writeTemp(t, "dem.asc", `ncols 2
nrows 2
xllcorner 0
yllcorner 0
cellsize 1
1 2 3 4
`)

	grid, _, err := ReadASC(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if grid.NoData != core.DefaultNoData {
		t.Errorf("Expected default no-data %v, got %v", float64(core.DefaultNoData), grid.NoData)
	}
}

func TestReadASCErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing cellsize", "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\n1 2 3 4\n"},
		{"truncated data", "ncols 3\nnrows 3\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3\n"},
		{"non-numeric height", "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 abc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "bad.asc", tt.content)
			if _, _, err := ReadASC(path); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestWriteASCRoundTrip(t *testing.T) {
	grid := core.NewGrid(3, 3, -9999)
	for i := range grid.Heights {
		grid.Heights[i] = 1000 + 0.25*float64(i)
	}
	grid.Set(1, 2, -9999)
	geoRef := &geo.AffineGeoRef{OriginLon: 20.05, OriginLat: -3.05, LonPerCol: 0.1, LatPerRow: -0.1}

	path := filepath.Join(t.TempDir(), "out.asc")
	if err := WriteASC(path, grid, geoRef, grid.NoData); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, gotRef, err := ReadASC(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if diff := cmp.Diff(grid, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("Grid round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geoRef, gotRef, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Georeference round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteASCRejectsNonSquareCells(t *testing.T) {
	grid := core.NewGrid(3, 3, -9999)
	geoRef := &geo.AffineGeoRef{OriginLon: 0, OriginLat: 0, LonPerCol: 0.1, LatPerRow: -0.2}

	path := filepath.Join(t.TempDir(), "out.asc")
	if err := WriteASC(path, grid, geoRef, grid.NoData); err == nil {
		t.Error("Expected an error for non-square cells")
	}
}

func TestReadPositions(t *testing.T) {
	path := writeTemp(t, "sun.txt", `
image1.png 1000 2000 3000
image2.png -1.5e6 0 2.5e6

`)

	records, err := ReadPositions(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if v := records["image1.png"]; v.X != 1000 || v.Y != 2000 || v.Z != 3000 {
		t.Errorf("Unexpected record for image1.png: %+v", v)
	}
	if v := records["image2.png"]; v.X != -1.5e6 || v.Z != 2.5e6 {
		t.Errorf("Unexpected record for image2.png: %+v", v)
	}
}

func TestReadPositionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing coordinate", "image1.png 1 2\n"},
		{"non-numeric coordinate", "image1.png 1 2 x\n"},
		{"duplicate key", "a.png 1 2 3\na.png 4 5 6\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "bad.txt", tt.content)
			if _, err := ReadPositions(path); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestWriteGridPNGAndReadBack(t *testing.T) {
	grid := core.NewGrid(4, 3, -9999)
	for i := range grid.Heights {
		grid.Heights[i] = float64(i)
	}

	path := filepath.Join(t.TempDir(), "grid.png")
	if err := WriteGridPNG(path, grid); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	img, err := ReadIntensityImage(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if img.Width != 4 || img.Height != 3 {
		t.Fatalf("Expected 4x3 image, got %dx%d", img.Width, img.Height)
	}

	// Min-max normalization maps the smallest cell to 0 and the largest to 1
	if v := img.At(0, 0); math.Abs(v) > 1e-3 {
		t.Errorf("Expected darkest pixel ~0, got %v", v)
	}
	if v := img.At(3, 2); math.Abs(v-1) > 1e-3 {
		t.Errorf("Expected brightest pixel ~1, got %v", v)
	}
}
