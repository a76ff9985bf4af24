package gauge

import (
	"math"
	"reflect"
	"testing"

	"github.com/ironsheep/gauge-reader/internal/geometry"
)

func TestCalibrate_BarGauge(t *testing.T) {
	g := CircleGeometry{CenterX: 400, CenterY: 400, Radius: 300}

	frame, err := Calibrate(g, barGauge())
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}

	if len(frame.Ticks) != 120 {
		t.Errorf("ticks = %d, want 120", len(frame.Ticks))
	}
	if frame.SweepStart != 46 || frame.SweepEnd != 98 {
		t.Errorf("sweep = [%d, %d], want [46, 98]", frame.SweepStart, frame.SweepEnd)
	}
	if frame.ZeroPoint != (geometry.Point{X: 199, Y: 580}) {
		t.Errorf("zero point = %+v, want (199, 580)", frame.ZeroPoint)
	}
	if frame.Units != "bar" || frame.MinValue != 111 || frame.MaxValue != 264 {
		t.Errorf("pass-through fields not copied: %+v", frame)
	}
	if frame.MinAngleDeg != 105 || frame.MaxAngleDeg != 270 {
		t.Errorf("angle limits = [%v, %v], want [105, 270]", frame.MinAngleDeg, frame.MaxAngleDeg)
	}
}

func TestCalibrate_TickPositions(t *testing.T) {
	g := CircleGeometry{CenterX: 100, CenterY: 100, Radius: 50}

	frame, err := Calibrate(g, barGauge())
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}

	// Tick 30 is at 90°, straight down in image coordinates
	tick := frame.Ticks[30]
	if tick.AngleDeg != 90 {
		t.Errorf("tick 30 angle = %v, want 90", tick.AngleDeg)
	}
	if math.Abs(tick.Inner.X-100) > 1e-9 || math.Abs(tick.Inner.Y-145) > 1e-9 {
		t.Errorf("tick 30 inner = %+v, want (100, 145)", tick.Inner)
	}
	if math.Abs(tick.Outer.X-100) > 1e-9 || math.Abs(tick.Outer.Y-150) > 1e-9 {
		t.Errorf("tick 30 outer = %+v, want (100, 150)", tick.Outer)
	}
}

func TestCalibrate_SweepIndices(t *testing.T) {
	tests := []struct {
		zero, max          int
		wantStart, wantEnd int
	}{
		{0, 0, 30, 90},
		{16, 8, 46, 98},
		{-10, 20, 20, 110},
	}

	for _, tt := range tests {
		cfg := barGauge()
		cfg.ZeroDeviationTicks = tt.zero
		cfg.MaxDeviationTicks = tt.max

		frame, err := Calibrate(CircleGeometry{CenterX: 50, CenterY: 50, Radius: 40}, cfg)
		if err != nil {
			t.Fatalf("Calibrate(z=%d, m=%d) failed: %v", tt.zero, tt.max, err)
		}
		if frame.SweepStart != tt.wantStart || frame.SweepEnd != tt.wantEnd {
			t.Errorf("z=%d m=%d: sweep = [%d, %d], want [%d, %d]",
				tt.zero, tt.max, frame.SweepStart, frame.SweepEnd, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestCalibrate_Pure(t *testing.T) {
	g := CircleGeometry{CenterX: 321, CenterY: 287, Radius: 275}
	cfg := barGauge()

	first, err := Calibrate(g, cfg)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Calibrate(g, cfg)
		if err != nil {
			t.Fatalf("Calibrate failed: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("repeated Calibrate produced a different frame")
		}
	}
}

func TestCalibrate_Errors(t *testing.T) {
	good := CircleGeometry{CenterX: 100, CenterY: 100, Radius: 50}

	t.Run("zero radius", func(t *testing.T) {
		_, err := Calibrate(CircleGeometry{CenterX: 1, CenterY: 1}, barGauge())
		if !IsGeometry(err) {
			t.Errorf("err = %v, want GeometryError", err)
		}
	})

	t.Run("too few ticks", func(t *testing.T) {
		cfg := barGauge()
		cfg.SeparationDeg = 100
		_, err := Calibrate(good, cfg)
		if !IsConfig(err) {
			t.Errorf("err = %v, want ConfigError", err)
		}
	})

	t.Run("start past revolution", func(t *testing.T) {
		cfg := barGauge()
		cfg.ZeroDeviationTicks = 100
		cfg.MaxDeviationTicks = 200
		_, err := Calibrate(good, cfg)
		if !IsConfig(err) {
			t.Errorf("err = %v, want ConfigError", err)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		cfg := barGauge()
		cfg.MaxDeviationTicks = -70
		_, err := Calibrate(good, cfg)
		if !IsConfig(err) {
			t.Errorf("err = %v, want ConfigError", err)
		}
	})
}
