package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/auditfilter/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath  = "auditfilter.yaml"
	defaultDBPath      = "auditfilter.db"
	defaultHTTPTimeout = 30 * time.Second
	defaultUserAgent   = "auditfilter/1.0"
)

// ErrUnknownScreen is returned when a screen name has no profile
var ErrUnknownScreen = errors.New("unknown screen")

// Config holds application settings. YAML values are loaded first,
// environment variables override them, defaults fill the rest.
type Config struct {
	LogLevel           string `yaml:"log_level"`
	DBPath             string `yaml:"db_path"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
	UserAgent          string `yaml:"user_agent"`
	SessionCookie      string `yaml:"session_cookie"` // "name=value" sent with page fetches

	Screens map[string]models.Screen `yaml:"screens"`

	// Path the config was read from, empty when no file was found
	Source string `yaml:"-"`
}

// Load reads the config file at path (or AUDITFILTER_CONFIG, or the default
// location). A missing file is not an error.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("AUDITFILTER_CONFIG")
	}
	if path == "" {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cfg.Source = path
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	envOverride(&cfg.LogLevel, "LOG_LEVEL")
	envOverride(&cfg.DBPath, "AUDITFILTER_DB")
	envOverride(&cfg.UserAgent, "AUDITFILTER_USER_AGENT")
	envOverride(&cfg.SessionCookie, "AUDITFILTER_SESSION")
	if err := envOverrideInt(&cfg.HTTPTimeoutSeconds, "AUDITFILTER_HTTP_TIMEOUT"); err != nil {
		return Config{}, err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		cfg.HTTPTimeoutSeconds = int(defaultHTTPTimeout / time.Second)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return cfg, nil
}

// HTTPTimeout returns the page fetch timeout
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Level parses LogLevel, falling back to info
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Screen returns the named profile: the built-in one with any YAML overrides
// applied, or a screen defined only in YAML.
func (c Config) Screen(name string) (models.Screen, error) {
	builtin, hasBuiltin := DefaultScreens()[name]
	custom, hasCustom := c.Screens[name]

	switch {
	case hasBuiltin && hasCustom:
		return mergeScreen(builtin, custom), nil
	case hasBuiltin:
		return builtin, nil
	case hasCustom:
		if custom.Name == "" {
			custom.Name = name
		}
		if custom.RecordSelector == "" {
			return models.Screen{}, fmt.Errorf("screen %q has no record_selector", name)
		}
		return custom, nil
	}
	return models.Screen{}, fmt.Errorf("%w: %s", ErrUnknownScreen, name)
}

// ScreenNames lists every available screen, sorted
func (c Config) ScreenNames() []string {
	seen := make(map[string]bool)
	for name := range DefaultScreens() {
		seen[name] = true
	}
	for name := range c.Screens {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// mergeScreen overlays the non-zero fields of o onto base
func mergeScreen(base, o models.Screen) models.Screen {
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	str(&base.Title, o.Title)
	str(&base.RecordSelector, o.RecordSelector)
	str(&base.CategoryAttr, o.CategoryAttr)
	str(&base.StatusSelector, o.StatusSelector)
	str(&base.SearchAttr, o.SearchAttr)
	str(&base.TargetAttr, o.TargetAttr)
	str(&base.TargetLabel, o.TargetLabel)
	str(&base.TargetPageName, o.TargetPageName)
	str(&base.TextInput, o.TextInput)
	str(&base.CategoryInput, o.CategoryInput)
	str(&base.StatusInput, o.StatusInput)
	str(&base.SummaryID, o.SummaryID)
	str(&base.SummaryFormat, o.SummaryFormat)
	str(&base.Noun, o.Noun)
	str(&base.NounPlural, o.NounPlural)
	str(&base.NoneValue, o.NoneValue)
	if o.ResultsPanel {
		base.ResultsPanel = true
	}
	if o.WildcardCategory != "" {
		base.WildcardCategory = o.WildcardCategory
	}
	if o.BadgeStatus != "" {
		base.BadgeStatus = o.BadgeStatus
	}
	if len(o.Categories) > 0 {
		base.Categories = o.Categories
	}
	if len(o.Statuses) > 0 {
		base.Statuses = o.Statuses
	}
	if len(o.StatusInputs) > 0 {
		base.StatusInputs = o.StatusInputs
	}
	if len(o.Badges) > 0 {
		base.Badges = o.Badges
	}
	return base
}

func envOverride(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}
