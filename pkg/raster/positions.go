package raster

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ReadPositions reads a sun or spacecraft position file: one record per
// line, "key x y z" with coordinates in a planet-centered Cartesian
// frame in meters. Keys are image identifiers. Blank lines are skipped;
// malformed lines and duplicate keys are errors.
func ReadPositions(path string) (map[string]r3.Vec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open position file: %w", err)
	}
	defer file.Close()

	records := make(map[string]r3.Vec)
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var key string
		var v r3.Vec
		if _, err := fmt.Sscan(line, &key, &v.X, &v.Y, &v.Z); err != nil {
			return nil, fmt.Errorf("%s:%d: unable to parse position record %q: %w", path, lineNo, line, err)
		}
		if _, ok := records[key]; ok {
			return nil, fmt.Errorf("%s:%d: duplicate key %q", path, lineNo, key)
		}
		records[key] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read position file: %w", err)
	}
	return records, nil
}
