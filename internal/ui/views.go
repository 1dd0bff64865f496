package ui

import (
	"fmt"
	"strings"
	"time"

	"racebell/internal/race"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	sections := []string{
		m.renderHeader(),
		m.renderCountdown(),
		m.renderRaces(),
		m.renderSettings(),
	}

	if m.debugOpen {
		sections = append(sections, m.renderDebug())
	}

	sections = append(sections, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	title := m.styles.Header.Render("racebell")
	clock := m.styles.Clock.Render(m.now.In(m.config.Location()).Format("15:04:05"))

	line := title + "  " + clock
	if offset := m.clock.Offset(); offset != 0 {
		line += "  " + m.styles.Offset.Render("SIM "+formatOffset(offset))
	}
	return line
}

func (m *Model) renderCountdown() string {
	if m.nextAlert == nil {
		return m.styles.Border.Render(m.styles.Done.Render("No more alerts today"))
	}

	remaining := m.nextAlert.FiresAt.Sub(m.now)
	body := m.nextAlert.Message + "\n" +
		m.styles.Countdown.Render(formatCountdown(remaining)) +
		m.styles.Help.Render("  ("+m.nextAlert.FiresAt.In(m.config.Location()).Format(m.config.TimeFormat)+")")

	width := m.width - 4
	if width > 20 {
		body = wordwrap.String(body, width)
	}
	return m.styles.Border.Render(body)
}

func (m *Model) renderRaces() string {
	if len(m.races) == 0 {
		return m.styles.Help.Render("  No races - press r to refresh")
	}

	loc := m.config.Location()
	var lines []string
	for _, r := range m.races {
		start := r.StartTime.In(loc)
		until := r.StartTime.Sub(m.now)

		prefix := fmt.Sprintf("  %s  %s %2dR  %-14s ",
			start.Format(m.config.TimeFormat), r.Location, r.Number, r.Name)

		if until < 0 {
			// Finished races are greyed out wholesale
			lines = append(lines, m.styles.Done.Render(prefix+plainBadge(r.Grade)+"  done"))
			continue
		}

		var status string
		switch {
		case until < time.Minute:
			status = m.styles.Imminent.Render("off!")
		case until <= 10*time.Minute:
			status = m.styles.Imminent.Render(fmt.Sprintf("in %dm", int(until.Minutes())))
		default:
			status = m.styles.Normal.Render("in " + formatUntil(until))
		}

		lines = append(lines, prefix+m.gradeBadge(r.Grade)+"  "+status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) gradeBadge(g race.Grade) string {
	switch g {
	case race.GradeG1:
		return m.styles.G1.Render("[G1]")
	case race.GradeG2:
		return m.styles.G2.Render("[G2]")
	case race.GradeG3:
		return m.styles.G3.Render("[G3]")
	case race.GradeListed:
		return m.styles.Listed.Render("[L] ")
	default:
		return "    "
	}
}

func (m *Model) renderSettings() string {
	toggle := func(key, label string, on bool) string {
		style := m.styles.Off
		if on {
			style = m.styles.On
		}
		return style.Render(fmt.Sprintf("[%s] %s", key, label))
	}

	parts := []string{
		toggle("a", "audio", m.settings.AudioEnabled),
		toggle("n", "notify", m.settings.NotificationsEnabled),
		toggle("h", "graded 10min", m.settings.HeavyAlertEnabled),
		toggle("g", "G1 10min", m.settings.G1OnlyAlertEnabled),
		toggle("f", "graded only", m.settings.NotifyOnlyHeavy),
		toggle("v", "voice", m.settings.VoiceAlert),
		m.styles.Help.Render("[p] links: " + m.settings.LinkProvider),
	}

	return "  " + strings.Join(parts, "  ")
}

func (m *Model) renderDebug() string {
	lines := []string{
		m.styles.Header.Render("Clock control"),
		m.styles.Help.Render("  Type HH:MM then Enter to jump"),
		m.styles.Help.Render("  !: 09:50  @: 15:25  #: 15:40  r: real time  x: re-arm alerts  Esc: close"),
		"",
		m.styles.Normal.Render("  Jump to: ") + m.styles.Clock.Render(m.jumpInput+"█"),
	}
	return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf(" %d races | source: %s", len(m.races), m.provenance)
	if !m.fetchedAt.IsZero() {
		left += " | fetched " + m.fetchedAt.In(m.config.Location()).Format("15:04:05")
	}
	if m.refreshing {
		left += " | refreshing..."
	}

	right := "d clock | r refresh | q quit"
	if m.message != "" {
		right = m.styles.Message.Render(m.message)
	}

	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}

	middle := strings.Repeat(" ", width)

	return m.styles.Help.Render(left + middle + right)
}
