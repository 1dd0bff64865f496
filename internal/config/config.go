package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Listing source
	DateListURL  string
	RaceListURL  string
	LinkBase     string
	UserAgent    string
	FetchTimeout time.Duration
	Timezone     string

	// Behavior
	RefreshRate time.Duration // listing re-fetch cadence in the TUI

	// Serve mode
	Listen      string
	RefreshCron string

	// Display
	TimeFormat string

	// Preferences persistence
	SettingsFile string
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DateListURL:  "https://race.netkeiba.com/top/race_list_get_date_list.html",
		RaceListURL:  "https://race.netkeiba.com/top/race_list_sub.html",
		LinkBase:     "https://race.netkeiba.com/top/",
		UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		FetchTimeout: 15 * time.Second,
		Timezone:     "Asia/Tokyo",

		RefreshRate: time.Minute,

		Listen:      "127.0.0.1:8090",
		RefreshCron: "@every 1m",

		TimeFormat: "15:04",

		SettingsFile: filepath.Join(home, ".config", "racebell", "settings.json"),
	}
}

func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	// Try multiple config file locations
	configPaths := []string{
		os.Getenv("RACEBELL_CONFIG"),
		filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "racebell", "racebellrc"),
		filepath.Join(os.Getenv("HOME"), ".config", "racebell", "racebellrc"),
		filepath.Join(os.Getenv("HOME"), ".racebellrc"),
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); err == nil {
			if err := config.loadFromFile(path); err != nil {
				return nil, fmt.Errorf("error loading config from %s: %w", path, err)
			}
			break
		}
	}

	return config, nil
}

// Location resolves the configured IANA timezone, falling back to the
// process-local zone if the name is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) loadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := c.parseLine(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return scanner.Err()
}

var setRe = regexp.MustCompile(`^set\s+(\w+)\s+(.+)$`)

func (c *Config) parseLine(line string) error {
	if matches := setRe.FindStringSubmatch(line); matches != nil {
		return c.setVariable(matches[1], matches[2])
	}
	return fmt.Errorf("unknown config line: %s", line)
}

func (c *Config) setVariable(name, value string) error {
	// Remove quotes if present
	value = strings.Trim(value, `"'`)

	switch name {
	case "date_list_url":
		c.DateListURL = value

	case "race_list_url":
		c.RaceListURL = value

	case "link_base":
		c.LinkBase = value

	case "user_agent":
		c.UserAgent = value

	case "fetch_timeout":
		d, err := parseDurationOrSeconds(value)
		if err != nil {
			return fmt.Errorf("invalid fetch_timeout: %s", value)
		}
		c.FetchTimeout = d

	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone: %s", value)
		}
		c.Timezone = value

	case "refresh_rate":
		d, err := parseDurationOrSeconds(value)
		if err != nil {
			return fmt.Errorf("invalid refresh_rate: %s", value)
		}
		c.RefreshRate = d

	case "listen":
		c.Listen = value

	case "refresh_cron":
		c.RefreshCron = value

	case "time_format":
		c.TimeFormat = value

	case "settings_file":
		c.SettingsFile = expandHome(value)

	default:
		return fmt.Errorf("unknown config variable: %s", name)
	}

	return nil
}

func parseDurationOrSeconds(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err == nil {
		return d, nil
	}
	// Bare numbers are taken as seconds
	if seconds, err2 := strconv.Atoi(value); err2 == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return 0, err
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
