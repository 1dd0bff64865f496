package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Link providers for race detail links. Rendering concern only.
const (
	LinkNetkeiba = "netkeiba"
	LinkJRA      = "jra"
)

// Settings are the user's alert preferences, persisted as a flat JSON file
// and written back on every change. Any combination is valid, including
// everything off (the tool is then silent by design).
type Settings struct {
	// HeavyAlertEnabled turns on the 10-minute pre-warning for G1-G3 races.
	HeavyAlertEnabled bool `json:"heavyAlertEnabled"`
	// G1OnlyAlertEnabled turns on the 10-minute pre-warning for G1 races
	// regardless of HeavyAlertEnabled.
	G1OnlyAlertEnabled bool `json:"g1OnlyAlertEnabled"`
	// AudioEnabled and NotificationsEnabled gate the two sink channels
	// independently.
	AudioEnabled         bool `json:"audioEnabled"`
	NotificationsEnabled bool `json:"notificationsEnabled"`
	// NotifyOnlyHeavy silences every alert for races below G3.
	NotifyOnlyHeavy bool `json:"notifyOnlyHeavy"`
	// VoiceAlert selects the longer spoken-style alert pattern.
	VoiceAlert bool `json:"useVoiceAlert"`
	// LinkProvider selects where race detail links point.
	LinkProvider string `json:"linkProvider"`
}

func DefaultSettings() Settings {
	return Settings{
		AudioEnabled: true,
		LinkProvider: LinkNetkeiba,
	}
}

// LoadSettings reads the settings file. A missing, unreadable, or malformed
// file yields the defaults: starting silent is safer than refusing to start.
func LoadSettings(path string) Settings {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSettings()
	}

	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings()
	}
	if s.LinkProvider != LinkNetkeiba && s.LinkProvider != LinkJRA {
		s.LinkProvider = LinkNetkeiba
	}
	return s
}

// SaveSettings writes the settings atomically (temp file + rename, 0600) so
// a concurrent reader never sees a half-written file.
func SaveSettings(path string, s Settings) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".racebell-settings-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
