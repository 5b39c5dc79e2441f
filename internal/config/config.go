package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Output   OutputConfig   `mapstructure:"output"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type SnapshotConfig struct {
	Timezone         string `mapstructure:"timezone"`
	DueOffsetMinutes int    `mapstructure:"due_offset_minutes"`
}

type FetchConfig struct {
	PageSize             int64    `mapstructure:"page_size"`
	CourseWorkOrder      string   `mapstructure:"course_work_order"`
	AnnouncementKeywords []string `mapstructure:"announcement_keywords"`
}

var defaultConfig = Config{
	Output: OutputConfig{
		Dir: "public/data",
	},
	Snapshot: SnapshotConfig{
		Timezone:         "Asia/Seoul",
		DueOffsetMinutes: 540,
	},
	Fetch: FetchConfig{
		PageSize:             30,
		CourseWorkOrder:      "updateTime desc",
		AnnouncementKeywords: []string{},
	},
}

// courseWorkOrders lists the order hints the coursework listing accepts.
var courseWorkOrders = []string{"updateTime desc", "dueDate desc"}

func Load(configPath string) (*Config, error) {
	// Set up viper
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigName("config")

	// Set default configuration path
	if configPath == "" {
		configDir, err := getDefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		configPath = configDir
	}

	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// If config file doesn't exist, create it with defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createDefaultConfig(configPath); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
			// Try to read again after creating
			if err := v.ReadInConfig(); err != nil {
				// If it still fails, just use defaults
				return &defaultConfig, nil
			}
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// validate rejects values the pipeline cannot work with before any network
// call is made.
func (c *Config) validate() error {
	if c.Output.Dir == "" {
		return NewConfigError("output.dir", "", "output directory cannot be empty")
	}

	if _, err := time.LoadLocation(c.Snapshot.Timezone); err != nil {
		return NewConfigError("snapshot.timezone", c.Snapshot.Timezone, "unknown timezone").WithCause(err)
	}

	if c.Fetch.PageSize <= 0 {
		return NewConfigError("fetch.page_size", fmt.Sprintf("%d", c.Fetch.PageSize), "must be positive")
	}

	if !contains(courseWorkOrders, c.Fetch.CourseWorkOrder) {
		return NewConfigError("fetch.course_work_order", c.Fetch.CourseWorkOrder,
			"must be \"updateTime desc\" or \"dueDate desc\"")
	}

	return nil
}

// Location resolves the configured snapshot timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Snapshot.Timezone)
	if err != nil {
		return nil, NewConfigError("snapshot.timezone", c.Snapshot.Timezone, "unknown timezone").WithCause(err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	// Output
	v.SetDefault("output.dir", defaultConfig.Output.Dir)

	// Snapshot
	v.SetDefault("snapshot.timezone", defaultConfig.Snapshot.Timezone)
	v.SetDefault("snapshot.due_offset_minutes", defaultConfig.Snapshot.DueOffsetMinutes)

	// Fetch
	v.SetDefault("fetch.page_size", defaultConfig.Fetch.PageSize)
	v.SetDefault("fetch.course_work_order", defaultConfig.Fetch.CourseWorkOrder)
	v.SetDefault("fetch.announcement_keywords", defaultConfig.Fetch.AnnouncementKeywords)
}

func createDefaultConfig(configPath string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.toml")

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil {
		return nil // Already exists
	}

	// Create default config content
	configContent := `# classroom-poller configuration

[output]
dir = "public/data"

[snapshot]
timezone = "Asia/Seoul"
due_offset_minutes = 540  # zone applied to due dates, minutes east of UTC

[fetch]
page_size = 30
course_work_order = "updateTime desc"  # or "dueDate desc"
announcement_keywords = []             # empty keeps every announcement
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func getDefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "classroom-poller"), nil
}

func GetDefaultConfigDir() (string, error) {
	return getDefaultConfigDir()
}

// contains checks if a slice contains a specific string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
