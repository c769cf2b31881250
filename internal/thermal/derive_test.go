package thermal

import (
	"math"
	"testing"

	"aetheris/internal/models"
)

func ptr(v float64) *float64 { return &v }

func TestDerive_IdleBuilding(t *testing.T) {
	st := Derive(models.ThermalInputs{}, 0)

	if st.FoundationTempC != 18.5 {
		t.Fatalf("temp = %.3f, want 18.5", st.FoundationTempC)
	}
	if st.ThermalCapacityUsedPct != 0 || st.SmartGlassOpacityPct != 0 || st.IsSaturated {
		t.Fatalf("unexpected idle state: %+v", st)
	}
	if class, _ := Classify(st); class != models.ClassNominalPassive {
		t.Fatalf("class = %s, want NOMINAL_PASSIVE", class)
	}
}

func TestDerive_InjectedHeatSaturates(t *testing.T) {
	clk := newFakeClock()
	store := NewDecayStore(clk.Now)
	store.Inject(80, 45)

	st := Derive(models.ThermalInputs{}, store.Current())
	if math.Abs(st.ServerHeatOutputW-80) > 1e-9 {
		t.Fatalf("heat = %.3f, want 80", st.ServerHeatOutputW)
	}
	if math.Abs(st.FoundationTempC-24.9) > 1e-9 {
		t.Fatalf("temp = %.4f, want 24.9", st.FoundationTempC)
	}
	if !st.IsSaturated || st.SmartGlassOpacityPct != 100 || st.ThermalCapacityUsedPct != 100 {
		t.Fatalf("expected saturated state, got %+v", st)
	}
	if class, _ := Classify(st); class != models.ClassCritical {
		t.Fatalf("class = %s, want CRITICAL", class)
	}
}

func TestSmartGlassOpacity_Boundaries(t *testing.T) {
	cases := []struct {
		temp float64
		want int
	}{
		{18.5, 0},
		{22.0, 0},
		{22.5, 25},
		{23.0, 50},
		{23.5, 75},
		{24.0, 100},
		{30.0, 100},
	}
	for _, tc := range cases {
		if got := SmartGlassOpacity(tc.temp); got != tc.want {
			t.Fatalf("opacity(%.2f) = %d, want %d", tc.temp, got, tc.want)
		}
	}
}

func TestDerive_CapacityClampAndSaturationInvariant(t *testing.T) {
	loads := []float64{0, 0.25, 0.5, 0.75, 1}
	injected := []float64{0, 10, 30, 43.75, 50, 68.75, 80, 500}

	for _, l := range loads {
		for _, w := range injected {
			st := Derive(models.ThermalInputs{LoadFraction: l}, w)
			if st.ThermalCapacityUsedPct < 0 || st.ThermalCapacityUsedPct > 100 {
				t.Fatalf("load=%v inj=%v: capacity %.3f out of range", l, w, st.ThermalCapacityUsedPct)
			}
			if st.FoundationTempC > SaturationTempC && st.ThermalCapacityUsedPct != 100 {
				t.Fatalf("load=%v inj=%v: capacity %.3f, want exactly 100", l, w, st.ThermalCapacityUsedPct)
			}
			if st.IsSaturated != (st.FoundationTempC >= SaturationTempC) {
				t.Fatalf("load=%v inj=%v: saturation flag disagrees with temp %.3f", l, w, st.FoundationTempC)
			}
			if st.SmartGlassOpacityPct < 0 || st.SmartGlassOpacityPct > 100 {
				t.Fatalf("opacity out of range: %d", st.SmartGlassOpacityPct)
			}
		}
	}
}

func TestDerive_CapacityIsMonotonicInTemperature(t *testing.T) {
	prev := -1.0
	for w := 0.0; w <= 120; w += 0.5 {
		st := Derive(models.ThermalInputs{}, w)
		if st.ThermalCapacityUsedPct < prev {
			t.Fatalf("capacity decreased at %.1f W", w)
		}
		prev = st.ThermalCapacityUsedPct
	}
}

func TestDerive_SolarGainNeedsOutdoorSignal(t *testing.T) {
	st := Derive(models.ThermalInputs{CloudFraction: 0.25}, 0)
	if st.SolarGainW != 0 {
		t.Fatalf("solar gain without outdoor signal = %.1f", st.SolarGainW)
	}

	st = Derive(models.ThermalInputs{OutdoorTempF: ptr(57), CloudFraction: 0.25}, 0)
	if st.SolarGainW != 750 {
		t.Fatalf("solar gain = %.1f, want 750", st.SolarGainW)
	}

	st = Derive(models.ThermalInputs{OutdoorTempF: ptr(57), CloudFraction: 1.7}, 0)
	if st.SolarGainW != 0 {
		t.Fatalf("cloud fraction not clamped: %.1f", st.SolarGainW)
	}
}

func TestDerive_ClampsInputs(t *testing.T) {
	st := Derive(models.ThermalInputs{LoadFraction: 3}, -40)
	if st.ServerHeatOutputW != ServerTDPWatts {
		t.Fatalf("heat = %.2f, want %.2f", st.ServerHeatOutputW, ServerTDPWatts)
	}

	st = Derive(models.ThermalInputs{LoadFraction: math.NaN()}, math.Inf(1))
	if st.ServerHeatOutputW != 0 {
		t.Fatalf("non-finite inputs not zeroed: %+v", st)
	}
}

func TestDerive_IsIdempotent(t *testing.T) {
	in := models.ThermalInputs{LoadFraction: 0.6, OutdoorTempF: ptr(48), CloudFraction: 0.4}
	a := Derive(in, 12.5)
	b := Derive(in, 12.5)
	if a != b {
		t.Fatalf("derive not deterministic: %+v vs %+v", a, b)
	}
}
