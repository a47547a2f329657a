package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.MaxWorkers != 1 {
		t.Errorf("MaxWorkers = %d, want 1 (sequential by default)", s.MaxWorkers)
	}
	if s.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", s.MaxAttempts)
	}
	if s.OutputFolder != "images" {
		t.Errorf("OutputFolder = %q, want %q", s.OutputFolder, "images")
	}
	if s.ColumnName != "image_url" {
		t.Errorf("ColumnName = %q, want %q", s.ColumnName, "image_url")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.MaxWorkers != DefaultSettings().MaxWorkers {
		t.Error("missing file should yield defaults")
	}
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"max_workers": 8, "output_folder": "/data/images", "random_sleep_time": true}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.MaxWorkers != 8 {
		t.Errorf("MaxWorkers = %d, want 8", s.MaxWorkers)
	}
	if s.OutputFolder != "/data/images" {
		t.Errorf("OutputFolder = %q, want /data/images", s.OutputFolder)
	}
	if !s.RandomSleepTime {
		t.Error("RandomSleepTime = false, want true")
	}
	// Unset keys keep their defaults.
	if s.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want default 5", s.MaxAttempts)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "max_workers: 4\nsleep_time: 0.5\ninput_text_file: urls.txt\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", s.MaxWorkers)
	}
	if s.SleepTime != 0.5 {
		t.Errorf("SleepTime = %v, want 0.5", s.SleepTime)
	}
	if s.InputTextFile != "urls.txt" {
		t.Errorf("InputTextFile = %q, want urls.txt", s.InputTextFile)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("IMGFETCH_MAX_WORKERS", "16")
	t.Setenv("IMGFETCH_OUTPUT_FOLDER", "/env/images")
	t.Setenv("IMGFETCH_RANDOM_SLEEP_TIME", "true")
	t.Setenv("IMGFETCH_SLEEP_TIME", "2.5")

	s := DefaultSettings()
	s.ApplyEnv()

	if s.MaxWorkers != 16 {
		t.Errorf("MaxWorkers = %d, want 16", s.MaxWorkers)
	}
	if s.OutputFolder != "/env/images" {
		t.Errorf("OutputFolder = %q, want /env/images", s.OutputFolder)
	}
	if !s.RandomSleepTime {
		t.Error("RandomSleepTime = false, want true")
	}
	if s.SleepTime != 2.5 {
		t.Errorf("SleepTime = %v, want 2.5", s.SleepTime)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Settings {
		s := DefaultSettings()
		s.InputTextFile = "urls.txt"
		return s
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"valid", func(*Settings) {}, false},
		{"no input source", func(s *Settings) { s.InputTextFile = "" }, true},
		{"csv source is enough", func(s *Settings) { s.InputTextFile = ""; s.InputCSVFile = "d.csv" }, false},
		{"zero workers", func(s *Settings) { s.MaxWorkers = 0 }, true},
		{"negative attempts", func(s *Settings) { s.MaxAttempts = -1 }, true},
		{"zero attempts allowed", func(s *Settings) { s.MaxAttempts = 0 }, false},
		{"negative sleep", func(s *Settings) { s.SleepTime = -1 }, true},
		{"inverted random range", func(s *Settings) {
			s.RandomSleepTime = true
			s.MinSleepTime = 5
			s.MaxSleepTime = 1
		}, true},
		{"empty output folder", func(s *Settings) { s.OutputFolder = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestToRetryPolicy(t *testing.T) {
	s := DefaultSettings()
	s.MaxAttempts = 3
	s.SleepTime = 1.5
	s.MinSleepTime = 0.5
	s.MaxSleepTime = 4
	s.RandomSleepTime = true

	p := s.ToRetryPolicy()

	if p.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", p.MaxAttempts)
	}
	if p.SleepTime != 1500*time.Millisecond {
		t.Errorf("SleepTime = %v, want 1.5s", p.SleepTime)
	}
	if p.MinSleepTime != 500*time.Millisecond {
		t.Errorf("MinSleepTime = %v, want 0.5s", p.MinSleepTime)
	}
	if p.MaxSleepTime != 4*time.Second {
		t.Errorf("MaxSleepTime = %v, want 4s", p.MaxSleepTime)
	}
	if !p.RandomSleepTime {
		t.Error("RandomSleepTime = false, want true")
	}
	if p.Timeout() != 12*time.Second {
		t.Errorf("Timeout() = %v, want 12s", p.Timeout())
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	s := DefaultSettings()
	s.MaxWorkers = 7
	s.InputCSVFile = "data.csv"
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.MaxWorkers != 7 || loaded.InputCSVFile != "data.csv" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}
