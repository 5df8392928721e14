package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/thesavant42/auditfilter/internal/config"
	"github.com/thesavant42/auditfilter/internal/db"
	"github.com/thesavant42/auditfilter/internal/dom"
	"github.com/thesavant42/auditfilter/internal/models"
	"github.com/thesavant42/auditfilter/internal/ui"
)

var (
	configPath string
	dbPath     string
	verbose    bool
)

// app carries what every command needs once flags and config are resolved
type app struct {
	cfg    config.Config
	logger *log.Logger
}

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "auditfilter",
		Short:         "Filter accessibility audit pages by category, status and text",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default auditfilter.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "snapshot database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(countCmd())
	rootCmd.AddCommand(badgesCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(snapshotsCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(screensCmd())

	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// newApp loads config and builds the logger writing to w
func newApp(w io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	level := cfg.Level()
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "auditfilter",
		Level:           level,
	})
	if cfg.Source != "" {
		logger.Debug("config loaded", "path", cfg.Source)
	}

	return &app{cfg: cfg, logger: logger}, nil
}

// openLogFile returns a log file next to the snapshot database.
// The TUI owns the terminal, so interactive sessions log there instead of stderr.
func openLogFile(dbPath string) (*os.File, error) {
	logFile := filepath.Join(filepath.Dir(dbPath), "auditfilter.log")
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// logToFile points the logger at the log file for the length of a TUI session.
// When the file cannot be opened the warning goes out before the TUI starts
// and later output is discarded.
func (a *app) logToFile() (closeLog func()) {
	f, err := openLogFile(a.cfg.DBPath)
	if err != nil {
		a.logger.Warn("logging disabled for this session", "error", err)
		a.logger.SetOutput(io.Discard)
		return func() {}
	}
	a.logger.SetOutput(f)
	return func() { f.Close() }
}

func (a *app) openDB() (*db.DB, error) {
	database, err := db.New(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, nil
}

// loadPage reads source (file or URL) with the named screen profile.
// URL fetches show a spinner when interactive is set.
func (a *app) loadPage(ctx context.Context, source, screenName string, interactive bool) (*dom.Page, error) {
	screen, err := a.cfg.Screen(screenName)
	if err != nil {
		return nil, err
	}

	if !dom.IsURL(source) {
		return dom.Open(source, screen, a.logger)
	}

	fetcher, err := dom.NewFetcher(a.cfg.HTTPTimeout(), a.cfg.UserAgent, a.cfg.SessionCookie, a.logger)
	if err != nil {
		return nil, err
	}

	if !interactive {
		return dom.Load(ctx, fetcher, source, screen, a.logger)
	}

	var page *dom.Page
	err = ui.RunWithSpinner("Fetching "+source+"...", func() (err error) {
		page, err = dom.Load(ctx, fetcher, source, screen, a.logger)
		return err
	})
	return page, err
}

func (a *app) screenOptions() []ui.ScreenOption {
	var options []ui.ScreenOption
	for _, name := range a.cfg.ScreenNames() {
		screen, err := a.cfg.Screen(name)
		if err != nil {
			a.logger.Warn("skipping screen", "screen", name, "error", err)
			continue
		}
		options = append(options, ui.ScreenOption{Name: name, Title: screen.Title})
	}
	return options
}

// criteriaFlags are the per-axis overrides shared by count, apply and browse
type criteriaFlags struct {
	category string
	status   string
	text     string
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "category criterion (overrides the page's selection)")
	cmd.Flags().StringVar(&f.status, "status", "", "status criterion (overrides the page's selection)")
	cmd.Flags().StringVar(&f.text, "text", "", "text criterion (overrides the page's search field)")
}

// resolve starts from the page's checked controls and applies explicitly set flags
func (f *criteriaFlags) resolve(cmd *cobra.Command, page *dom.Page) models.Criteria {
	var c models.Criteria
	if page != nil {
		c = page.Criteria()
	}
	if cmd.Flags().Changed("category") {
		c.Category = models.Category(f.category)
	}
	if cmd.Flags().Changed("status") {
		c.Status = models.Status(f.status)
	}
	if cmd.Flags().Changed("text") {
		c.Text = f.text
	}
	return c
}
