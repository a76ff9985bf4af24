package gauge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const barProfile = `{
	// Reference bar gauge
	separation_deg: 3.0,
	min_angle_deg: 105,
	max_angle_deg: 270,
	min_value: 111,
	max_value: 264,
	units: "bar",
	unit_weight: 2,
	zero_deviation_ticks: 16,
	max_deviation_ticks: 8,
}`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(barProfile))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg != barGauge() {
		t.Errorf("ParseConfig = %+v, want %+v", cfg, barGauge())
	}
}

func TestParseConfig_MissingField(t *testing.T) {
	_, err := ParseConfig([]byte(`{separation_deg: 3, units: "bar"}`))

	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want ConfigError", err)
	}
	if cerr.Field != "min_angle_deg" {
		t.Errorf("Field = %q, want min_angle_deg", cerr.Field)
	}
}

func TestParseConfig_Malformed(t *testing.T) {
	if _, err := ParseConfig([]byte(`{separation_deg: `)); !IsConfig(err) {
		t.Errorf("err = %v, want ConfigError", err)
	}
}

func TestParseConfig_Inputs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
		ok    bool
	}{
		{"plain json", `{"separation_deg": 3, "min_angle_deg": 105, "max_angle_deg": 270, "min_value": 111, "max_value": 264, "units": "bar", "unit_weight": 2, "zero_deviation_ticks": 16, "max_deviation_ticks": 8}`, "", true},
		{"unknown keys ignored", `{separation_deg: 3, min_angle_deg: 105, max_angle_deg: 270, min_value: 111, max_value: 264, units: "bar", unit_weight: 2, zero_deviation_ticks: 16, max_deviation_ticks: 8, model: "MX-4"}`, "", true},
		{"null value", `{separation_deg: 3, min_angle_deg: 105, max_angle_deg: 270, min_value: 111, max_value: 264, units: null, unit_weight: 2, zero_deviation_ticks: 16, max_deviation_ticks: 8}`, "units", false},
		{"last key missing", `{separation_deg: 3, min_angle_deg: 105, max_angle_deg: 270, min_value: 111, max_value: 264, units: "bar", unit_weight: 2, zero_deviation_ticks: 16}`, "max_deviation_ticks", false},
		{"wrong type", `{separation_deg: 3, min_angle_deg: 105, max_angle_deg: 270, min_value: 111, max_value: 264, units: 7, unit_weight: 2, zero_deviation_ticks: 16, max_deviation_ticks: 8}`, "", false},
		{"fractional ticks", `{separation_deg: 3, min_angle_deg: 105, max_angle_deg: 270, min_value: 111, max_value: 264, units: "bar", unit_weight: 2, zero_deviation_ticks: 16.5, max_deviation_ticks: 8}`, "", false},
		{"not an object", `[1, 2]`, "", false},
		{"empty", ``, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.input))
			if tt.ok {
				if err != nil {
					t.Fatalf("ParseConfig failed: %v", err)
				}
				if cfg != barGauge() {
					t.Errorf("ParseConfig = %+v, want %+v", cfg, barGauge())
				}
				return
			}

			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("err = %v, want ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar.json5")
	if err := os.WriteFile(path, []byte(barProfile), 0o644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Units != "bar" || cfg.SeparationDeg != 3 {
		t.Errorf("LoadConfig = %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json5")); err == nil {
		t.Error("LoadConfig should fail for a missing file")
	}
}

func TestLoadConfig_ShippedProfile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "bar-gauge.json5"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg != barGauge() {
		t.Errorf("shipped profile = %+v, want %+v", cfg, barGauge())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CalibrationConfig)
		field  string
	}{
		{"zero separation", func(c *CalibrationConfig) { c.SeparationDeg = 0 }, "separation_deg"},
		{"negative separation", func(c *CalibrationConfig) { c.SeparationDeg = -3 }, "separation_deg"},
		{"coarse separation", func(c *CalibrationConfig) { c.SeparationDeg = 91 }, "separation_deg"},
		{"zero unit weight", func(c *CalibrationConfig) { c.UnitWeight = 0 }, "unit_weight"},
		{"inverted angles", func(c *CalibrationConfig) { c.MinAngleDeg = 300 }, "max_angle_deg"},
		{"inverted values", func(c *CalibrationConfig) { c.MaxValue = 100 }, "max_value"},
		{"no units", func(c *CalibrationConfig) { c.Units = "" }, "units"},
		{"zero tick past end", func(c *CalibrationConfig) { c.ZeroDeviationTicks = 95 }, "zero_deviation_ticks"},
		{"end before start", func(c *CalibrationConfig) { c.MaxDeviationTicks = -60 }, "max_deviation_ticks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := barGauge()
			tt.mutate(&cfg)

			var cerr *ConfigError
			if err := cfg.Validate(); !errors.As(err, &cerr) {
				t.Fatalf("Validate = %v, want ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}

	if err := barGauge().Validate(); err != nil {
		t.Errorf("bar gauge should be valid: %v", err)
	}
}

func TestSweep(t *testing.T) {
	s, err := barGauge().Sweep()
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if s != (Sweep{Interval: 120, Start: 46, End: 98}) {
		t.Errorf("Sweep = %+v, want {120 46 98}", s)
	}

	cfg := barGauge()
	cfg.SeparationDeg = 7 // 51.43 ticks, floored
	if s, _ := cfg.Sweep(); s.Interval != 51 {
		t.Errorf("Interval = %d, want 51", s.Interval)
	}
}
