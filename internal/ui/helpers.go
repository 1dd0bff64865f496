package ui

import (
	"fmt"
	"net/url"
	"time"

	"racebell/internal/config"
	"racebell/internal/race"
)

const jraPortal = "https://www.jra.go.jp/"

// formatCountdown renders a remaining duration as MM:SS, or H:MM:SS once it
// exceeds an hour. Negative durations clamp to zero.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// formatUntil gives a coarse "time until" label for the race list.
func formatUntil(d time.Duration) string {
	if d >= time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

// formatOffset renders the simulated-clock offset as a signed badge label.
func formatOffset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	d = d.Round(time.Second)

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%s%dh%02dm", sign, h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%s%dm%02ds", sign, m, s)
	}
	return fmt.Sprintf("%s%ds", sign, s)
}

func plainBadge(g race.Grade) string {
	switch g {
	case race.GradeG1, race.GradeG2, race.GradeG3:
		return "[" + string(g) + "]"
	case race.GradeListed:
		return "[L] "
	default:
		return "    "
	}
}

// raceLink resolves a race's detail link for the configured provider. The
// scraped URL may be relative; it is resolved against the listing base. The
// official-site provider always points at the JRA portal since there is no
// per-race deep link.
func raceLink(r race.Race, cfg *config.Config, settings config.Settings) string {
	if settings.LinkProvider == config.LinkJRA {
		return jraPortal
	}
	if r.URL == "" {
		return cfg.LinkBase
	}

	base, err := url.Parse(cfg.LinkBase)
	if err != nil {
		return r.URL
	}
	ref, err := url.Parse(r.URL)
	if err != nil {
		return cfg.LinkBase
	}
	return base.ResolveReference(ref).String()
}
