package organize

import (
	"time"

	"chronotune/src/music"
)

// RunStats holds the counters for one organize run. Counters only ever
// increase during a run; a fresh RunStats is created per run.
type RunStats struct {
	Total      int                  `json:"total"`
	Processed  int                  `json:"processed"`
	ByYear     map[int]int          `json:"by_year"`
	BySource   map[music.Source]int `json:"by_source"`
	OtherYears int                  `json:"other_years"`
	Unknown    int                  `json:"unknown"`
	Errors     int                  `json:"errors"`
	Moved      int                  `json:"moved"`
	BackedUp   int                  `json:"backed_up"`
}

// NewRunStats creates zeroed statistics for the given target years.
func NewRunStats(targetYears []int) *RunStats {
	byYear := make(map[int]int, len(targetYears))
	for _, year := range targetYears {
		byYear[year] = 0
	}
	return &RunStats{
		ByYear:   byYear,
		BySource: make(map[music.Source]int),
	}
}

// Identified returns the number of files that resolved to any year.
func (s *RunStats) Identified() int {
	identified := s.OtherYears
	for _, count := range s.ByYear {
		identified += count
	}
	return identified
}

// IdentificationRate returns the fraction of scanned files that resolved
// to a year, in [0,1].
func (s *RunStats) IdentificationRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Identified()) / float64(s.Total)
}

// clone deep-copies the stats so snapshots are safe to hand out.
func (s *RunStats) clone() *RunStats {
	cp := *s
	cp.ByYear = make(map[int]int, len(s.ByYear))
	for year, count := range s.ByYear {
		cp.ByYear[year] = count
	}
	cp.BySource = make(map[music.Source]int, len(s.BySource))
	for source, count := range s.BySource {
		cp.BySource[source] = count
	}
	return &cp
}

// RunRecord is the persisted summary of one organize run.
type RunRecord struct {
	ID       string
	Root     string
	Years    []int
	Started  time.Time
	Finished time.Time
	Stats    RunStats
}
