package ui

import (
	"path/filepath"
	"testing"
	"time"

	"racebell/internal/alert"
	"racebell/internal/config"
	"racebell/internal/notify"
	"racebell/internal/race"

	tea "github.com/charmbracelet/bubbletea"
)

func testModel(t *testing.T) (*Model, *notify.Recorder) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.SettingsFile = filepath.Join(t.TempDir(), "settings.json")
	cfg.Timezone = "UTC" // host-independent jump anchoring

	rec := &notify.Recorder{}
	clock := alert.NewSimClock(cfg.Location())

	m := &Model{
		config:     cfg,
		source:     &race.StaticSource{},
		clock:      clock,
		sched:      alert.NewScheduler(),
		sink:       rec,
		settings:   config.DefaultSettings(),
		races:      []race.Race{},
		provenance: race.SourceMock,
		now:        clock.Now(),
		settingsCh: make(chan config.Settings, 1),
		styles:     DefaultStyles(),
	}
	return m, rec
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTickRoutesDueAlerts(t *testing.T) {
	m, rec := testModel(t)
	m.settings.AudioEnabled = true
	m.settings.NotificationsEnabled = true

	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	m.races = []race.Race{{
		ID: "r1", Location: "中山", Number: 11, Name: "中山金杯",
		Grade: race.GradeG3, StartTime: start,
	}}

	// Jump the virtual clock onto the deadline trigger and tick.
	m.clock.JumpTo(start.Add(-2 * time.Minute))
	m.tick()

	if len(rec.Played) != 1 || rec.Played[0] != alert.Deadline {
		t.Fatalf("Audio routing mismatch: %+v", rec.Played)
	}
	if len(rec.Titles) != 1 || rec.Titles[0] != "Betting closes soon" {
		t.Fatalf("Notification routing mismatch: %+v", rec.Titles)
	}
	if m.message == "" {
		t.Error("Fired alert should surface in the status message")
	}

	// Same instant again: the fired guard keeps it quiet.
	m.tick()
	if len(rec.Played) != 1 {
		t.Errorf("Alert re-fired on repeat tick: %d plays", len(rec.Played))
	}
}

func TestTickRespectsChannelToggles(t *testing.T) {
	m, rec := testModel(t)
	m.settings.AudioEnabled = false
	m.settings.NotificationsEnabled = true

	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	m.races = []race.Race{{
		ID: "r1", Location: "中山", Number: 11, Name: "中山金杯",
		Grade: race.GradeG3, StartTime: start,
	}}

	m.clock.JumpTo(start.Add(-2 * time.Minute))
	m.tick()

	if len(rec.Played) != 0 {
		t.Errorf("Audio fired while disabled: %+v", rec.Played)
	}
	if len(rec.Titles) != 1 {
		t.Errorf("Notification missing: %+v", rec.Titles)
	}
}

func TestTickTracksPendingAlert(t *testing.T) {
	m, _ := testModel(t)

	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	m.races = []race.Race{{
		ID: "r1", Location: "中山", Number: 11, Name: "中山金杯",
		Grade: race.GradeG3, StartTime: start,
	}}

	m.clock.JumpTo(start.Add(-30 * time.Minute))
	m.tick()

	if m.nextAlert == nil {
		t.Fatal("Expected a pending alert")
	}
	if !m.nextAlert.FiresAt.Equal(start.Add(-2 * time.Minute)) {
		t.Errorf("Pending trigger mismatch: got %v", m.nextAlert.FiresAt)
	}
}

func TestToggleKeysPersist(t *testing.T) {
	m, _ := testModel(t)

	if _, _ = m.handleKeyPress(key("a")); m.settings.AudioEnabled {
		t.Error("Audio toggle did not flip off")
	}
	if _, _ = m.handleKeyPress(key("h")); !m.settings.HeavyAlertEnabled {
		t.Error("Heavy pre-warning toggle did not flip on")
	}
	if _, _ = m.handleKeyPress(key("f")); !m.settings.NotifyOnlyHeavy {
		t.Error("Graded-only toggle did not flip on")
	}
	if _, _ = m.handleKeyPress(key("p")); m.settings.LinkProvider != config.LinkJRA {
		t.Errorf("Link provider did not cycle: %q", m.settings.LinkProvider)
	}

	// Every toggle writes through to disk.
	saved := config.LoadSettings(m.config.SettingsFile)
	if saved != m.settings {
		t.Errorf("Persisted settings diverge:\ndisk   %+v\nmemory %+v", saved, m.settings)
	}
}

func TestDebugJump(t *testing.T) {
	m, _ := testModel(t)

	m.handleKeyPress(key("d"))
	if !m.debugOpen {
		t.Fatal("Debug panel did not open")
	}

	// Every digit must reach the jump field, including ones that double as
	// preset keys elsewhere.
	for _, r := range "15:28" {
		m.handleDebugKeys(key(string(r)))
	}
	if m.jumpInput != "15:28" {
		t.Fatalf("Jump input mismatch: %q", m.jumpInput)
	}

	m.handleDebugKeys(tea.KeyMsg{Type: tea.KeyEnter})

	now := m.clock.Now().In(m.config.Location())
	if now.Hour() != 15 || now.Minute() != 28 {
		t.Errorf("Jump landed at %v", now.Format("15:04"))
	}

	// A malformed target is rejected and the offset kept.
	before := m.clock.Offset()
	m.jumpInput = "99:99"
	m.handleDebugKeys(tea.KeyMsg{Type: tea.KeyEnter})
	if m.clock.Offset() != before {
		t.Error("Rejected jump changed the offset")
	}

	m.handleDebugKeys(key("r"))
	if m.clock.Offset() != 0 {
		t.Error("Reset did not return to real time")
	}

	m.handleDebugKeys(tea.KeyMsg{Type: tea.KeyEscape})
	if m.debugOpen {
		t.Error("Esc did not close the debug panel")
	}
}

func TestDebugJumpDigitsNotShadowedByPresets(t *testing.T) {
	m, _ := testModel(t)
	m.handleKeyPress(key("d"))

	// A time built entirely from former preset digits.
	for _, r := range "10:23" {
		m.handleDebugKeys(key(string(r)))
	}
	if m.jumpInput != "10:23" {
		t.Fatalf("Digits swallowed by presets: %q", m.jumpInput)
	}
	if m.clock.Offset() != 0 {
		t.Fatal("Typing digits moved the clock")
	}

	m.handleDebugKeys(tea.KeyMsg{Type: tea.KeyEnter})
	now := m.clock.Now().In(m.config.Location())
	if now.Hour() != 10 || now.Minute() != 23 {
		t.Errorf("Jump landed at %v", now.Format("15:04"))
	}
}

func TestDebugPresets(t *testing.T) {
	m, _ := testModel(t)
	m.handleKeyPress(key("d"))

	m.handleDebugKeys(key("!"))
	now := m.clock.Now().In(m.config.Location())
	if now.Hour() != 9 || now.Minute() != 50 {
		t.Errorf("Preset landed at %v, want 09:50", now.Format("15:04"))
	}

	m.handleDebugKeys(key("@"))
	now = m.clock.Now().In(m.config.Location())
	if now.Hour() != 15 || now.Minute() != 25 {
		t.Errorf("Preset landed at %v, want 15:25", now.Format("15:04"))
	}

	m.handleDebugKeys(key("r"))
	if m.clock.Offset() != 0 {
		t.Error("Reset did not return to real time")
	}
}

func TestRacesMsgReplacesWholesale(t *testing.T) {
	m, _ := testModel(t)
	m.races = []race.Race{{ID: "old"}}

	res := race.FetchResult{
		Races:     []race.Race{{ID: "new1"}, {ID: "new2"}},
		FetchedAt: time.Now(),
		Source:    race.SourceLive,
	}
	m.Update(racesMsg(res))

	if len(m.races) != 2 || m.races[0].ID != "new1" {
		t.Errorf("Snapshot not replaced: %+v", m.races)
	}
	if m.provenance != race.SourceLive {
		t.Errorf("Provenance mismatch: %q", m.provenance)
	}
}

func TestSettingsMsgApplies(t *testing.T) {
	m, _ := testModel(t)

	s := config.DefaultSettings()
	s.NotifyOnlyHeavy = true
	m.Update(settingsMsg(s))

	if !m.settings.NotifyOnlyHeavy {
		t.Error("External settings change not applied")
	}
}
