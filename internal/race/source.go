package race

import (
	"context"
	"fmt"
	"time"
)

// Source provides the current day's race listing. Fetch never returns an
// error: transport and parse failures degrade to an empty result tagged
// SourceMock so callers can distinguish "nothing fetched" from "no races".
type Source interface {
	Fetch(ctx context.Context) FetchResult
}

// StaticSource serves a fixed set of races with mock provenance. Used by
// tests and by the offline sample listing.
type StaticSource struct {
	Races []Race
}

func (s *StaticSource) Fetch(context.Context) FetchResult {
	return FetchResult{
		Races:     append([]Race(nil), s.Races...),
		FetchedAt: time.Now(),
		Source:    SourceMock,
	}
}

// NewSampleSource returns a small fixed card anchored to today, so the
// alert flow can be exercised without network access.
func NewSampleSource(loc *time.Location) *StaticSource {
	now := time.Now().In(loc)
	at := func(hour, min int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, loc)
	}

	races := []Race{
		{Location: "中山", Number: 1, Name: "3歳未勝利", Grade: GradeGeneral, StartTime: at(9, 50)},
		{Location: "京都", Number: 1, Name: "3歳新馬", Grade: GradeGeneral, StartTime: at(10, 10)},
		{Location: "中山", Number: 9, Name: "ジュニアカップ", Grade: GradeListed, StartTime: at(14, 25)},
		{Location: "中山", Number: 11, Name: "中山金杯", Grade: GradeG3, StartTime: at(15, 30)},
		{Location: "京都", Number: 11, Name: "京都金杯", Grade: GradeG3, StartTime: at(15, 45)},
	}
	for i := range races {
		races[i].ID = fmt.Sprintf("sample-%s-%dR", races[i].Location, races[i].Number)
	}
	return &StaticSource{Races: races}
}
