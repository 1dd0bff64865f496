package ui

import (
	"context"
	"fmt"
	"time"

	"racebell/internal/alert"
	"racebell/internal/config"
	"racebell/internal/notify"
	"racebell/internal/race"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Model struct {
	// Core components
	config  *config.Config
	source  race.Source
	clock   *alert.SimClock
	sched   *alert.Scheduler
	sink    notify.Sink
	watcher *config.SettingsWatcher

	// Listing state
	settings   config.Settings
	races      []race.Race
	fetchedAt  time.Time
	provenance string
	refreshing bool

	// Tick state
	now       time.Time
	nextAlert *alert.Pending

	// Debug panel state
	debugOpen bool
	jumpInput string

	// UI state
	width        int
	height       int
	message      string
	messageUntil time.Time

	settingsCh chan config.Settings

	// Styles
	styles Styles
}

type Styles struct {
	Normal    lipgloss.Style
	Header    lipgloss.Style
	Clock     lipgloss.Style
	Offset    lipgloss.Style
	Countdown lipgloss.Style
	Done      lipgloss.Style
	Imminent  lipgloss.Style
	G1        lipgloss.Style
	G2        lipgloss.Style
	G3        lipgloss.Style
	Listed    lipgloss.Style
	Help      lipgloss.Style
	Message   lipgloss.Style
	On        lipgloss.Style
	Off       lipgloss.Style
	Border    lipgloss.Style
}

func NewModel(cfg *config.Config, source race.Source, clock *alert.SimClock, sink notify.Sink) *Model {
	m := &Model{
		config:     cfg,
		source:     source,
		clock:      clock,
		sched:      alert.NewScheduler(),
		sink:       sink,
		settings:   config.LoadSettings(cfg.SettingsFile),
		races:      []race.Race{},
		provenance: race.SourceMock,
		now:        clock.Now(),
		settingsCh: make(chan config.Settings, 1),
		styles:     DefaultStyles(),
	}

	// Pick up edits made by hand or by another process
	watcher, err := config.WatchSettings(cfg.SettingsFile, func(s config.Settings) {
		select {
		case m.settingsCh <- s:
		default:
		}
	})
	if err == nil {
		m.watcher = watcher
	}

	return m
}

func DefaultStyles() Styles {
	return Styles{
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true),
		Clock: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true),
		Offset: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("208")).
			Padding(0, 1).
			Bold(true),
		Countdown: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true),
		Done: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Imminent: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		G1: lipgloss.NewStyle().
			Foreground(lipgloss.Color("27")).
			Bold(true),
		G2: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		G3: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true),
		Listed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		On: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")),
		Off: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshCmd(),
		m.tickCmd(),
		m.refreshTickCmd(),
		m.waitSettings(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tickMsg:
		m.tick()
		return m, m.tickCmd()

	case refreshTickMsg:
		return m, tea.Batch(m.refreshCmd(), m.refreshTickCmd())

	case racesMsg:
		// The snapshot is replaced wholesale; stale races simply vanish.
		m.races = msg.Races
		m.fetchedAt = msg.FetchedAt
		m.provenance = msg.Source
		m.refreshing = false
		if msg.Source == race.SourceMock && len(msg.Races) == 0 {
			m.showMessage("Listing unavailable - no race data")
		}
		return m, nil

	case settingsMsg:
		m.settings = config.Settings(msg)
		m.showMessage("Settings reloaded")
		return m, m.waitSettings()
	}

	return m, nil
}

// tick advances the virtual clock one step and routes anything due.
func (m *Model) tick() {
	m.now = m.clock.Now()

	pending, due := m.sched.Tick(m.now, m.races, m.settings)
	m.nextAlert = pending

	for _, a := range due {
		if m.settings.AudioEnabled {
			m.sink.PlayAlert(a.Kind, m.settings.VoiceAlert)
		}
		if m.settings.NotificationsEnabled {
			m.sink.Notify(a.Title, a.Body)
		}
		m.showMessage(a.Body)
	}

	if m.message != "" && m.now.After(m.messageUntil) {
		m.message = ""
	}
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.debugOpen {
		return m.handleDebugKeys(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.watcher != nil {
			m.watcher.Close()
		}
		return m, tea.Quit

	case "r":
		if !m.refreshing {
			m.refreshing = true
			m.showMessage("Refreshing...")
			return m, m.refreshCmd()
		}

	case "a":
		m.settings.AudioEnabled = !m.settings.AudioEnabled
		m.saveSettings("Audio", m.settings.AudioEnabled)

	case "n":
		m.settings.NotificationsEnabled = !m.settings.NotificationsEnabled
		m.saveSettings("Notifications", m.settings.NotificationsEnabled)

	case "h":
		m.settings.HeavyAlertEnabled = !m.settings.HeavyAlertEnabled
		m.saveSettings("Graded-race pre-warning", m.settings.HeavyAlertEnabled)

	case "g":
		m.settings.G1OnlyAlertEnabled = !m.settings.G1OnlyAlertEnabled
		m.saveSettings("G1 pre-warning", m.settings.G1OnlyAlertEnabled)

	case "f":
		m.settings.NotifyOnlyHeavy = !m.settings.NotifyOnlyHeavy
		m.saveSettings("Graded races only", m.settings.NotifyOnlyHeavy)

	case "v":
		m.settings.VoiceAlert = !m.settings.VoiceAlert
		m.saveSettings("Voice alert", m.settings.VoiceAlert)

	case "p":
		if m.settings.LinkProvider == config.LinkNetkeiba {
			m.settings.LinkProvider = config.LinkJRA
		} else {
			m.settings.LinkProvider = config.LinkNetkeiba
		}
		m.persistSettings()
		m.showMessage("Links: " + m.settings.LinkProvider)

	case "o":
		if r, ok := m.nextRace(); ok {
			m.showMessage(raceLink(r, m.config, m.settings))
		} else {
			m.showMessage("No upcoming race")
		}

	case "d":
		m.debugOpen = true
		m.jumpInput = ""
	}

	return m, nil
}

func (m *Model) handleDebugKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "d":
		m.debugOpen = false
		return m, nil

	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		if m.jumpInput != "" {
			if err := m.clock.JumpToWallClock(m.jumpInput); err != nil {
				m.showMessage(fmt.Sprintf("Bad time %q - offset unchanged", m.jumpInput))
			} else {
				m.showMessage("Jumped to " + m.jumpInput)
			}
			m.jumpInput = ""
		}
		return m, nil

	case "backspace":
		if len(m.jumpInput) > 0 {
			m.jumpInput = m.jumpInput[:len(m.jumpInput)-1]
		}
		return m, nil

	// Presets live on non-digit keys so every digit stays free for the
	// HH:MM field.
	case "!":
		m.jumpPreset("09:50")
	case "@":
		m.jumpPreset("15:25")
	case "#":
		m.jumpPreset("15:40")

	case "r":
		m.clock.Reset()
		m.jumpInput = ""
		m.showMessage("Back to real time")

	case "x":
		m.sched.Reset()
		m.showMessage("Fired alerts cleared")

	default:
		// Build up an HH:MM target
		if msg.Type == tea.KeyRunes && len(m.jumpInput) < 5 {
			for _, r := range msg.Runes {
				if (r >= '0' && r <= '9') || r == ':' {
					m.jumpInput += string(r)
				}
			}
		}
	}

	return m, nil
}

func (m *Model) jumpPreset(hhmm string) {
	if err := m.clock.JumpToWallClock(hhmm); err == nil {
		m.showMessage("Jumped to " + hhmm)
	}
}

// nextRace returns the first race that has not gone off yet. The listing is
// already sorted by start time.
func (m *Model) nextRace() (race.Race, bool) {
	for _, r := range m.races {
		if r.StartTime.After(m.now) {
			return r, true
		}
	}
	return race.Race{}, false
}

func (m *Model) saveSettings(label string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	m.persistSettings()
	m.showMessage(fmt.Sprintf("%s %s", label, state))
}

func (m *Model) persistSettings() {
	if err := config.SaveSettings(m.config.SettingsFile, m.settings); err != nil {
		m.showMessage(fmt.Sprintf("Error saving settings: %v", err))
	}
}

func (m *Model) showMessage(msg string) {
	m.message = msg
	m.messageUntil = m.now.Add(5 * time.Second)
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) refreshTickCmd() tea.Cmd {
	return tea.Tick(m.config.RefreshRate, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m *Model) refreshCmd() tea.Cmd {
	source, timeout := m.source, m.config.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return racesMsg(source.Fetch(ctx))
	}
}

func (m *Model) waitSettings() tea.Cmd {
	ch := m.settingsCh
	return func() tea.Msg {
		return settingsMsg(<-ch)
	}
}

// Message types
type tickMsg time.Time
type refreshTickMsg struct{}
type racesMsg race.FetchResult
type settingsMsg config.Settings
