package race

import "time"

// Grade is the prestige classification the listing attaches to a race via
// its badge icon. Entries with no recognized badge are GradeGeneral.
type Grade string

const (
	GradeG1      Grade = "G1"
	GradeG2      Grade = "G2"
	GradeG3      Grade = "G3"
	GradeListed  Grade = "Listed"
	GradeGeneral Grade = "General"
)

// Heavy reports whether the grade is one of the graded stakes (G1-G3) that
// qualify for the pre-warning rules.
func (g Grade) Heavy() bool {
	return g == GradeG1 || g == GradeG2 || g == GradeG3
}

// Race is a single scheduled race. Immutable once parsed; a refresh always
// replaces the whole slice rather than mutating entries in place.
type Race struct {
	ID        string    `json:"id"`
	Location  string    `json:"location"`
	Number    int       `json:"raceNumber"`
	Name      string    `json:"raceName"`
	Grade     Grade     `json:"grade"`
	StartTime time.Time `json:"startTime"`
	URL       string    `json:"url,omitempty"` // relative or absolute; resolved only when rendered
}

// Provenance values for FetchResult.Source.
const (
	SourceLive = "live"
	SourceMock = "mock"
)

// FetchResult is the wholesale outcome of one listing refresh. An empty
// Races with Source == SourceMock means "no data available right now", not
// "no races run today".
type FetchResult struct {
	Races     []Race    `json:"races"`
	FetchedAt time.Time `json:"fetchedAt"`
	Source    string    `json:"source"`
}
