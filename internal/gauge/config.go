package gauge

import (
	"fmt"
	"math"
	"os"

	json "github.com/KevinWang15/go-json5"
	pkgerrors "github.com/pkg/errors"
)

// CalibrationConfig describes one gauge model: the angular spacing of the
// calibration ticks, the usable sweep and the value scale.
type CalibrationConfig struct {
	SeparationDeg      float64 `json:"separation_deg"`
	MinAngleDeg        float64 `json:"min_angle_deg"`
	MaxAngleDeg        float64 `json:"max_angle_deg"`
	MinValue           float64 `json:"min_value"`
	MaxValue           float64 `json:"max_value"`
	Units              string  `json:"units"`
	UnitWeight         float64 `json:"unit_weight"`
	ZeroDeviationTicks int     `json:"zero_deviation_ticks"`
	MaxDeviationTicks  int     `json:"max_deviation_ticks"`
}

// profileKeys are the keys every calibration profile must set, in the
// order missing ones are reported.
var profileKeys = []string{
	"separation_deg",
	"min_angle_deg",
	"max_angle_deg",
	"min_value",
	"max_value",
	"units",
	"unit_weight",
	"zero_deviation_ticks",
	"max_deviation_ticks",
}

// LoadConfig reads and validates a JSON5 calibration profile.
func LoadConfig(path string) (CalibrationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CalibrationConfig{}, pkgerrors.Wrapf(err, "failed to read calibration profile %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return CalibrationConfig{}, pkgerrors.Wrapf(err, "calibration profile %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes a JSON5 calibration profile. Comments and trailing
// commas are allowed. All keys are required; unknown keys are ignored.
func ParseConfig(data []byte) (CalibrationConfig, error) {
	var present map[string]interface{}
	if err := json.Unmarshal(data, &present); err != nil {
		return CalibrationConfig{}, &ConfigError{Msg: "malformed profile: " + err.Error()}
	}
	for _, key := range profileKeys {
		if v, ok := present[key]; !ok || v == nil {
			return CalibrationConfig{}, &ConfigError{Field: key, Msg: "missing"}
		}
	}

	var cfg CalibrationConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return CalibrationConfig{}, &ConfigError{Msg: "malformed profile: " + err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return CalibrationConfig{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field as a *ConfigError.
func (c CalibrationConfig) Validate() error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	if !finite(c.SeparationDeg) || c.SeparationDeg <= 0 {
		return &ConfigError{Field: "separation_deg", Msg: "must be a positive number"}
	}
	if !finite(c.UnitWeight) || c.UnitWeight <= 0 {
		return &ConfigError{Field: "unit_weight", Msg: "must be a positive number"}
	}
	if !finite(c.MinAngleDeg) || !finite(c.MaxAngleDeg) || c.MinAngleDeg >= c.MaxAngleDeg {
		return &ConfigError{Field: "max_angle_deg", Msg: "must be greater than min_angle_deg"}
	}
	if !finite(c.MinValue) || !finite(c.MaxValue) || c.MinValue >= c.MaxValue {
		return &ConfigError{Field: "max_value", Msg: "must be greater than min_value"}
	}
	if c.Units == "" {
		return &ConfigError{Field: "units", Msg: "must not be empty"}
	}
	_, err := c.Sweep()
	return err
}

// Sweep is the tick layout implied by a config.
type Sweep struct {
	// Interval is the number of ticks in a full revolution.
	Interval int
	Start    int
	End      int
}

// Sweep computes the tick interval and the start/end tick indices of the
// usable arc. The zero tick sits a quarter turn plus ZeroDeviationTicks
// from +x, the end tick three quarters plus MaxDeviationTicks.
func (c CalibrationConfig) Sweep() (Sweep, error) {
	if !(c.SeparationDeg > 0) || math.IsInf(c.SeparationDeg, 0) {
		return Sweep{}, &ConfigError{Field: "separation_deg", Msg: "must be a positive number"}
	}

	interval := int(math.Floor(360 / c.SeparationDeg))
	if interval < 4 {
		return Sweep{}, &ConfigError{
			Field: "separation_deg",
			Msg:   fmt.Sprintf("%g gives %d ticks per revolution, need at least 4", c.SeparationDeg, interval),
		}
	}

	start := int(float64(interval)/4 + float64(c.ZeroDeviationTicks))
	end := int(3*float64(interval)/4 + float64(c.MaxDeviationTicks))
	if start < 0 || start >= interval {
		return Sweep{}, &ConfigError{
			Field: "zero_deviation_ticks",
			Msg:   fmt.Sprintf("start tick %d outside [0, %d)", start, interval),
		}
	}
	if end <= start {
		return Sweep{}, &ConfigError{
			Field: "max_deviation_ticks",
			Msg:   fmt.Sprintf("end tick %d not after start tick %d", end, start),
		}
	}
	return Sweep{Interval: interval, Start: start, End: end}, nil
}
