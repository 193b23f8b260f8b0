package query

import (
	"fmt"
	"strconv"
	"strings"
)

// BBox is a bounding box given in longitude/latitude order, the way it is
// passed on the command line.
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// NewBBox expects exactly four values: min lon, min lat, max lon, max lat.
func NewBBox(values []float64) (*BBox, error) {
	if len(values) != 4 {
		return nil, fmt.Errorf("bounding box needs 4 values (MIN_LON MIN_LAT MAX_LON MAX_LAT), got %d", len(values))
	}
	return &BBox{MinLon: values[0], MinLat: values[1], MaxLon: values[2], MaxLat: values[3]}, nil
}

// String renders the box the way OverpassQL expects it: south, west, north, east.
func (b *BBox) String() string {
	return strings.Join([]string{
		formatCoordinate(b.MinLat),
		formatCoordinate(b.MinLon),
		formatCoordinate(b.MaxLat),
		formatCoordinate(b.MaxLon),
	}, ",")
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Settings are the global query settings prepended to a query.
type Settings struct {
	BBox   *BBox
	Format Format
	Date   string
	Diff   []string
	Adiff  []string
}

// Statements returns the settings as [key:value] statements in a fixed order.
func (s Settings) Statements() []string {
	var statements []string

	add := func(key, value string) {
		statements = append(statements, fmt.Sprintf("[%s:%s]", key, value))
	}

	if s.BBox != nil {
		add("bbox", s.BBox.String())
	}
	if s.Format != "" {
		add("out", s.Format.String())
	}
	if s.Date != "" {
		add("date", s.Date)
	}
	if len(s.Diff) > 0 {
		add("diff", strings.Join(s.Diff, ","))
	}
	if len(s.Adiff) > 0 {
		add("adiff", strings.Join(s.Adiff, ","))
	}

	return statements
}

func (s Settings) IsEmpty() bool {
	return len(s.Statements()) == 0
}
