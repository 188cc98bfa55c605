package core

import "testing"

func TestGridIndexing(t *testing.T) {
	g := NewGrid(4, 3, DefaultNoData)
	g.Set(2, 1, 42.5)

	if g.At(2, 1) != 42.5 {
		t.Errorf("Expected 42.5 at (2,1), got %v", g.At(2, 1))
	}
	if g.Index(2, 1) != 1*4+2 {
		t.Errorf("Expected flat index 6, got %d", g.Index(2, 1))
	}
	if g.At(1, 2) != 0 {
		t.Errorf("Expected untouched cell to stay zero, got %v", g.At(1, 2))
	}
}

func TestGridNoData(t *testing.T) {
	g := NewUniformGrid(3, 3, 100, -9999)
	g.Set(1, 1, -9999)

	if !g.IsNoData(1, 1) {
		t.Error("Expected (1,1) to be no-data")
	}
	if g.IsNoData(0, 0) {
		t.Error("Expected (0,0) to hold data")
	}
}

func TestGridClone(t *testing.T) {
	g := NewUniformGrid(3, 3, 5, DefaultNoData)
	c := g.Clone()
	c.Set(1, 1, 77)

	if g.At(1, 1) != 5 {
		t.Errorf("Clone mutation leaked into the original: got %v", g.At(1, 1))
	}
	if c.NoData != g.NoData || c.Cols != g.Cols || c.Rows != g.Rows {
		t.Error("Clone did not preserve grid metadata")
	}
}

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name    string
		grid    *Grid
		wantErr bool
	}{
		{"minimal valid grid", NewGrid(3, 3, DefaultNoData), false},
		{"too few columns", NewGrid(2, 5, DefaultNoData), true},
		{"too few rows", NewGrid(5, 2, DefaultNoData), true},
		{"mismatched storage", &Grid{Cols: 3, Rows: 3, Heights: make([]float64, 5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseModelKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ModelKind
		wantErr bool
	}{
		{"none", "none", ModelNone, false},
		{"lambert", "lambert", ModelLambertian, false},
		{"lunar-lambert", "lunar-lambert", ModelLunarLambertian, false},
		{"unknown model", "hapke", 0, true},
		{"empty string", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModelKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModelKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseModelKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if err == nil && got.String() != tt.input {
				t.Errorf("String() round trip: got %q, want %q", got.String(), tt.input)
			}
		})
	}
}

type countingLogger struct {
	lines int
}

func (l *countingLogger) Printf(format string, args ...interface{}) {
	l.lines++
}

func TestDiagnosticsLogsOnce(t *testing.T) {
	logger := &countingLogger{}
	d := NewDiagnostics(logger)

	for i := 0; i < 5; i++ {
		d.ReportNoData()
	}

	if d.NoDataCount() != 5 {
		t.Errorf("Expected 5 counted occurrences, got %d", d.NoDataCount())
	}
	if logger.lines != 1 {
		t.Errorf("Expected exactly one log line, got %d", logger.lines)
	}
}
