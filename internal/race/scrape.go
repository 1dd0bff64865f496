package race

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Scraper fetches and normalizes the netkeiba race listing. The site has no
// JSON API, so extraction walks the page's conventional class markers; any
// entry missing a parsable number or start time is skipped, because partial
// listings are expected and tolerated.
type Scraper struct {
	Client      *http.Client
	DateListURL string
	RaceListURL string
	UserAgent   string
	Location    *time.Location

	// Now is the anchor for start times (source gives time-of-day only).
	// Overridable in tests.
	Now func() time.Time
}

func NewScraper(dateListURL, raceListURL string) *Scraper {
	return &Scraper{
		Client:      &http.Client{Timeout: 15 * time.Second},
		DateListURL: dateListURL,
		RaceListURL: raceListURL,
		UserAgent:   defaultUserAgent,
		Location:    time.Local,
		Now:         time.Now,
	}
}

// Fetch implements Source. It never returns an error: any transport or
// parse failure yields an empty result tagged SourceMock.
func (s *Scraper) Fetch(ctx context.Context) FetchResult {
	fetchedAt := s.Now()
	races, err := s.fetchRaces(ctx)
	if err != nil {
		return FetchResult{FetchedAt: fetchedAt, Source: SourceMock}
	}
	return FetchResult{Races: races, FetchedAt: fetchedAt, Source: SourceLive}
}

func (s *Scraper) fetchRaces(ctx context.Context) ([]Race, error) {
	listURL := s.RaceListURL
	if date := s.activeDate(ctx); date != "" {
		if u, err := url.Parse(listURL); err == nil {
			q := u.Query()
			q.Set("kaisai_date", date)
			u.RawQuery = q.Encode()
			listURL = u.String()
		}
	}

	body, err := s.get(ctx, listURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse race list: %w", err)
	}
	return s.parseRaceList(doc), nil
}

// activeDate looks up which day's listing the source is currently serving
// (its "selected tab"). This stage fails open: on any error the empty
// string is returned and the caller falls back to the undated default list.
func (s *Scraper) activeDate(ctx context.Context) string {
	body, err := s.get(ctx, s.DateListURL)
	if err != nil {
		return ""
	}
	defer body.Close()

	date, err := parseActiveDate(body)
	if err != nil {
		return ""
	}
	return date
}

func (s *Scraper) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.UserAgent)
	// Every refresh must observe current state; defeat intermediate caches.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %s", rawURL, resp.Status)
	}
	return resp.Body, nil
}

func parseActiveDate(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	date, _ := doc.Find("#date_list_sub .Active").First().Attr("date")
	return date, nil
}

// parseRaceList walks the two-level grouping: venue groups, each holding an
// ordered list of race entries. The result is re-sorted by start time across
// venues because document order is per-venue only. The sort is stable, so
// races off at the same minute keep their document order.
func (s *Scraper) parseRaceList(doc *goquery.Document) []Race {
	day := s.Now().In(s.Location)
	var races []Race

	doc.Find(".RaceList_DataList").Each(func(_ int, venue *goquery.Selection) {
		venueName := venueLabel(venue.Find(".RaceList_DataTitle").First().Text())

		venue.Find(".RaceList_Data .RaceList_DataItem").Each(func(_ int, item *goquery.Selection) {
			num, ok := parseRaceNumber(item.Find(".Race_Num").First().Text())
			if !ok {
				return
			}
			start, ok := parseStartTime(item.Find(".RaceList_Itemtime").First().Text(), day)
			if !ok {
				return
			}
			href, _ := item.Find("a").First().Attr("href")

			races = append(races, Race{
				ID:        fmt.Sprintf("netkeiba-%s-%dR", venueName, num),
				Location:  venueName,
				Number:    num,
				Name:      strings.TrimSpace(item.Find(".ItemTitle").First().Text()),
				Grade:     parseGrade(item),
				StartTime: start,
				URL:       href,
			})
		})
	})

	sort.SliceStable(races, func(i, j int) bool {
		return races[i].StartTime.Before(races[j].StartTime)
	})
	return races
}

// venueLabel extracts the venue from a group header like "1回 中山 1日目":
// the second whitespace-delimited token.
func venueLabel(header string) string {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return "Unknown"
	}
	return fields[1]
}

func parseRaceNumber(text string) (int, bool) {
	text = strings.TrimSuffix(strings.TrimSpace(text), "R")
	n, err := strconv.Atoi(text)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func parseStartTime(text string, day time.Time) (time.Time, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), true
}

// Badge classes are mutually exclusive on the source page.
var gradeIcons = []struct {
	class string
	grade Grade
}{
	{"Icon_GradeType1", GradeG1},
	{"Icon_GradeType2", GradeG2},
	{"Icon_GradeType3", GradeG3},
	{"Icon_GradeType15", GradeListed},
}

func parseGrade(item *goquery.Selection) Grade {
	icon := item.Find(".Icon_GradeType").First()
	if icon.Length() == 0 {
		return GradeGeneral
	}
	for _, gi := range gradeIcons {
		if icon.HasClass(gi.class) {
			return gi.grade
		}
	}
	return GradeGeneral
}
