package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"gotimesheet/calendar"
	"gotimesheet/timeline"
)

const (
	KeyStorageDBPath          = "storage.db_path"
	KeyCalendarHolidays       = "calendar.holidays"
	KeyCalendarHolidayFile    = "calendar.holiday_file"
	KeyTimelineGapThreshold   = "timeline.gap_threshold_minutes"
	KeyReportTopN             = "report.top_n"
	KeyReportOverdueAfterDays = "report.overdue_after_days"
	KeyReportTrendDays        = "report.trend_days"
	KeyNotifyDesktop          = "notify.desktop"
	KeyServerPort             = "server.port"
)

type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Timeline TimelineConfig `mapstructure:"timeline"`
	Report   ReportConfig   `mapstructure:"report"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Server   ServerConfig   `mapstructure:"server"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path" validate:"required"`
}

type CalendarConfig struct {
	// Holidays maps a calendar year to its YYYY-MM-DD dates.
	Holidays    map[string][]string `mapstructure:"holidays"`
	HolidayFile string              `mapstructure:"holiday_file"`
}

type TimelineConfig struct {
	GapThresholdMinutes int `mapstructure:"gap_threshold_minutes" validate:"gte=1,lte=1440"`
}

type ReportConfig struct {
	TopN             int `mapstructure:"top_n" validate:"gte=1"`
	OverdueAfterDays int `mapstructure:"overdue_after_days" validate:"gte=0"`
	TrendDays        int `mapstructure:"trend_days" validate:"gte=1,lte=366"`
}

type NotifyConfig struct {
	Desktop bool `mapstructure:"desktop"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# gotimesheet configuration
storage:
  db_path: "./gotimesheet.db"

calendar:
  # Locked days besides weekends, per calendar year. Quote the dates.
  holidays:
    "2025": ["2025-01-01", "2025-01-22", "2025-12-25"]
  # Optional TOML file with [years.<year>] dates = [...] tables.
  holiday_file: ""

timeline:
  gap_threshold_minutes: 30

report:
  top_n: 5
  overdue_after_days: 2
  trend_days: 7

notify:
  desktop: false

server:
  port: 8080
`
}

// HolidaySets returns the configured holidays keyed by year. Without a
// calendar.holidays key the built-in list applies.
func (c Config) HolidaySets() (map[int][]string, error) {
	if c.Calendar.Holidays == nil {
		return calendar.DefaultHolidays(), nil
	}
	out := make(map[int][]string, len(c.Calendar.Holidays))
	for rawYear, dates := range c.Calendar.Holidays {
		year, err := strconv.Atoi(strings.TrimSpace(rawYear))
		if err != nil {
			return nil, fmt.Errorf("calendar.holidays: invalid year %q", rawYear)
		}
		out[year] = append(out[year], dates...)
	}
	return out, nil
}

// Policy builds the day-locking policy from the configured holidays and the
// optional holiday file.
func (c Config) Policy() (calendar.Policy, error) {
	sets, err := c.HolidaySets()
	if err != nil {
		return calendar.Policy{}, err
	}
	if path := strings.TrimSpace(c.Calendar.HolidayFile); path != "" {
		fromFile, err := calendar.LoadHolidayFile(path)
		if err != nil {
			return calendar.Policy{}, err
		}
		sets = calendar.Merge(sets, fromFile)
	}
	return calendar.NewPolicy(sets)
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateHolidays(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorageDBPath, "./gotimesheet.db")
	v.SetDefault(KeyCalendarHolidayFile, "")
	v.SetDefault(KeyTimelineGapThreshold, timeline.DefaultGapThresholdMinutes)
	v.SetDefault(KeyReportTopN, 5)
	v.SetDefault(KeyReportOverdueAfterDays, 2)
	v.SetDefault(KeyReportTrendDays, 7)
	v.SetDefault(KeyNotifyDesktop, false)
	v.SetDefault(KeyServerPort, 8080)
}

func validateHolidays(cfg Config) error {
	sets, err := cfg.HolidaySets()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if _, err := calendar.NewPolicy(sets); err != nil {
		return fmt.Errorf("validation failed: calendar.holidays: %w", err)
	}
	return nil
}
