package stats

import (
	"time"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
)

// YearWindow is the slice of a zone table falling in one water year.
type YearWindow struct {
	Year  int
	Table domain.ZoneTable
}

// Partitioner splits a zone table into water-year windows between the
// analysis start date and end year.
type Partitioner struct {
	Start   time.Time
	EndYear int
}

// Years lists the water years covered, newest first: EndYear down to the year
// after Start's calendar year.
func (p Partitioner) Years() []int {
	first := p.Start.Year() + 1
	if p.EndYear < first {
		return nil
	}
	years := make([]int, 0, p.EndYear-first+1)
	for y := p.EndYear; y >= first; y-- {
		years = append(years, y)
	}
	return years
}

// Windows returns the non-empty water-year windows of table, newest first.
// The table must already be validated.
func (p Partitioner) Windows(table domain.ZoneTable) []YearWindow {
	var windows []YearWindow
	for _, y := range p.Years() {
		w := table.Between(domain.WaterYearStart(y), domain.WaterYearEnd(y))
		if len(w.Rows) < 1 {
			continue
		}
		windows = append(windows, YearWindow{Year: y, Table: w})
	}
	return windows
}
