package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/srihari-humbarwadi/imgfetch/internal/download"
)

// ErrNoInputSource is returned by Validate when neither a text file nor
// a CSV file was configured. The run must not start without one.
var ErrNoInputSource = errors.New("config: no input text file or csv file given")

// Settings holds all configuration options.
type Settings struct {
	// Input settings
	InputTextFile string `json:"input_text_file" yaml:"input_text_file"`
	InputCSVFile  string `json:"input_csv_file" yaml:"input_csv_file"`
	ColumnName    string `json:"column_name" yaml:"column_name"`
	MaxImages     int    `json:"max_images" yaml:"max_images"`
	ShuffleURLs   bool   `json:"shuffle_urls" yaml:"shuffle_urls"`

	// Download settings
	OutputFolder    string  `json:"output_folder" yaml:"output_folder"`
	MaxWorkers      int     `json:"max_workers" yaml:"max_workers"`
	MaxAttempts     int     `json:"max_attempts" yaml:"max_attempts"`
	SleepTime       float64 `json:"sleep_time" yaml:"sleep_time"`
	MinSleepTime    float64 `json:"min_sleep_time" yaml:"min_sleep_time"`
	MaxSleepTime    float64 `json:"max_sleep_time" yaml:"max_sleep_time"`
	RandomSleepTime bool    `json:"random_sleep_time" yaml:"random_sleep_time"`

	// Image settings
	MaxDimension int `json:"max_dimension" yaml:"max_dimension"`

	// Report settings
	FailedURLsPath string `json:"failed_urls_path" yaml:"failed_urls_path"`

	// Logging
	Debug bool `json:"debug" yaml:"debug"`
}

// DefaultSettings returns settings with default values. Sleep times are
// in seconds; the default of one worker means sequential downloads.
func DefaultSettings() *Settings {
	return &Settings{
		ColumnName: "image_url",

		OutputFolder: "images",
		MaxWorkers:   1,
		MaxAttempts:  5,
		SleepTime:    1,
		MinSleepTime: 0,
		MaxSleepTime: 5,

		FailedURLsPath: "failed_urls.txt",
	}
}

// Load reads settings from a JSON or YAML file, chosen by extension.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, settings)
	default:
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from IMGFETCH_* environment variables,
// loading a .env file first if one is present in the working directory.
func (s *Settings) ApplyEnv() {
	// Missing .env is not an error; the process environment still applies.
	_ = godotenv.Load()

	envString("IMGFETCH_INPUT_TEXT_FILE", &s.InputTextFile)
	envString("IMGFETCH_INPUT_CSV_FILE", &s.InputCSVFile)
	envString("IMGFETCH_COLUMN_NAME", &s.ColumnName)
	envString("IMGFETCH_OUTPUT_FOLDER", &s.OutputFolder)
	envString("IMGFETCH_FAILED_URLS_PATH", &s.FailedURLsPath)

	envInt("IMGFETCH_MAX_IMAGES", &s.MaxImages)
	envInt("IMGFETCH_MAX_WORKERS", &s.MaxWorkers)
	envInt("IMGFETCH_MAX_ATTEMPTS", &s.MaxAttempts)
	envInt("IMGFETCH_MAX_DIMENSION", &s.MaxDimension)

	envFloat("IMGFETCH_SLEEP_TIME", &s.SleepTime)
	envFloat("IMGFETCH_MIN_SLEEP_TIME", &s.MinSleepTime)
	envFloat("IMGFETCH_MAX_SLEEP_TIME", &s.MaxSleepTime)

	envBool("IMGFETCH_SHUFFLE_URLS", &s.ShuffleURLs)
	envBool("IMGFETCH_RANDOM_SLEEP_TIME", &s.RandomSleepTime)
	envBool("IMGFETCH_DEBUG", &s.Debug)
}

// Validate checks that the settings describe a runnable configuration.
// A validation failure is fatal: the run must not start.
func (s *Settings) Validate() error {
	if s.InputTextFile == "" && s.InputCSVFile == "" {
		return ErrNoInputSource
	}
	if s.MaxWorkers < 1 {
		return fmt.Errorf("config: max_workers must be >= 1, got %d", s.MaxWorkers)
	}
	if s.MaxAttempts < 0 {
		return fmt.Errorf("config: max_attempts must be >= 0, got %d", s.MaxAttempts)
	}
	if s.SleepTime < 0 || s.MinSleepTime < 0 || s.MaxSleepTime < 0 {
		return errors.New("config: sleep times must not be negative")
	}
	if s.RandomSleepTime && s.MaxSleepTime < s.MinSleepTime {
		return fmt.Errorf("config: max_sleep_time (%v) must be >= min_sleep_time (%v)", s.MaxSleepTime, s.MinSleepTime)
	}
	if s.OutputFolder == "" {
		return errors.New("config: output_folder must not be empty")
	}
	return nil
}

// ToRetryPolicy converts the sleep and attempt settings into the retry
// policy consumed by the dispatcher.
func (s *Settings) ToRetryPolicy() download.RetryPolicy {
	return download.RetryPolicy{
		MaxAttempts:     s.MaxAttempts,
		SleepTime:       seconds(s.SleepTime),
		MinSleepTime:    seconds(s.MinSleepTime),
		MaxSleepTime:    seconds(s.MaxSleepTime),
		RandomSleepTime: s.RandomSleepTime,
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
