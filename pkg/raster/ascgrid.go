package raster

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/planetgeo/go-sfs/pkg/core"
	"github.com/planetgeo/go-sfs/pkg/geo"
)

// ReadASC reads an ESRI ASCII grid: a DEM plus its georeference and
// no-data value. Row 0 of the returned grid is the first (northernmost)
// data row of the file.
func ReadASC(path string) (*core.Grid, *geo.AffineGeoRef, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open raster: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	next := func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("unexpected end of raster %s", path)
		}
		return scanner.Text(), nil
	}

	var (
		cols, rows         int
		xll, yll, cellsize float64
		noData             = float64(core.DefaultNoData)
		haveCellsize       bool
	)

	// Header: keyword/value pairs until the first bare number
	var pending string
	for {
		tok, err := next()
		if err != nil {
			return nil, nil, err
		}
		key := strings.ToLower(tok)
		switch key {
		case "ncols", "nrows":
			v, err := next()
			if err != nil {
				return nil, nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, nil, fmt.Errorf("bad %s in %s: %w", key, path, err)
			}
			if key == "ncols" {
				cols = n
			} else {
				rows = n
			}
		case "xllcorner", "yllcorner", "cellsize", "nodata_value":
			v, err := next()
			if err != nil {
				return nil, nil, err
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad %s in %s: %w", key, path, err)
			}
			switch key {
			case "xllcorner":
				xll = f
			case "yllcorner":
				yll = f
			case "cellsize":
				cellsize = f
				haveCellsize = true
			case "nodata_value":
				noData = f
			}
		default:
			// First data value
			pending = tok
		}
		if pending != "" {
			break
		}
	}

	if cols <= 0 || rows <= 0 || !haveCellsize {
		return nil, nil, fmt.Errorf("raster %s is missing ncols, nrows or cellsize", path)
	}

	grid := core.NewGrid(cols, rows, noData)
	for i := 0; i < cols*rows; i++ {
		tok := pending
		if i > 0 || tok == "" {
			var err error
			tok, err = next()
			if err != nil {
				return nil, nil, err
			}
		}
		pending = ""
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("bad height value %q in %s: %w", tok, path, err)
		}
		grid.Heights[i] = v
	}

	geoRef := &geo.AffineGeoRef{
		OriginLon: xll + 0.5*cellsize,
		OriginLat: yll + (float64(rows)-0.5)*cellsize,
		LonPerCol: cellsize,
		LatPerRow: -cellsize,
	}
	return grid, geoRef, nil
}

// WriteASC writes a grid as an ESRI ASCII grid sharing the input DEM's
// georeference. The georeference must be square-celled and north-up.
func WriteASC(path string, grid *core.Grid, geoRef *geo.AffineGeoRef, noData float64) error {
	if math.Abs(geoRef.LonPerCol+geoRef.LatPerRow) > 1e-12*math.Abs(geoRef.LonPerCol) {
		return fmt.Errorf("cannot write non-square or south-up georeference (%g, %g)", geoRef.LonPerCol, geoRef.LatPerRow)
	}
	cellsize := geoRef.LonPerCol

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create raster: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "ncols %d\n", grid.Cols)
	fmt.Fprintf(w, "nrows %d\n", grid.Rows)
	fmt.Fprintf(w, "xllcorner %.12g\n", geoRef.OriginLon-0.5*cellsize)
	fmt.Fprintf(w, "yllcorner %.12g\n", geoRef.OriginLat-(float64(grid.Rows)-0.5)*cellsize)
	fmt.Fprintf(w, "cellsize %.12g\n", cellsize)
	fmt.Fprintf(w, "NODATA_value %.12g\n", noData)

	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			if col > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%.8g", grid.At(col, row))
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
