package cmd

import (
	"fmt"
	"os"

	"racebell/internal/alert"
	"racebell/internal/config"
	"racebell/internal/notify"
	"racebell/internal/race"
	"racebell/internal/ui"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	useMock bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "racebell",
	Short: "A terminal deadline alarm for the JRA race card",
	Long: `Racebell watches the day's race card and alerts you before betting
closes: two minutes ahead for every race, ten minutes ahead for graded
races you care about.`,
	RunE: runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "Use a built-in sample card instead of the live listing")
}

func initConfig() {
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
}

// newSource builds the race listing source the command should run against.
func newSource() race.Source {
	if useMock {
		return race.NewSampleSource(cfg.Location())
	}

	scraper := race.NewScraper(cfg.DateListURL, cfg.RaceListURL)
	scraper.Client.Timeout = cfg.FetchTimeout
	scraper.UserAgent = cfg.UserAgent
	scraper.Location = cfg.Location()
	return scraper
}

func runTUI(cmd *cobra.Command, args []string) error {
	model := ui.NewModel(cfg, newSource(), alert.NewSimClock(cfg.Location()), notify.NewBeeep())
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
