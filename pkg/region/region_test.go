package region

import (
	"math"
	"testing"

	"fish-morphology/pkg/mask"
)

func rect(m *mask.Mask, r0, c0, r1, c1 int) {
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			m.Set(r, c, true)
		}
	}
}

func TestCleanEmpty(t *testing.T) {
	if reg := Clean(mask.New(10, 10), DefaultCutoff); reg != nil {
		t.Fatalf("empty mask gave region %+v", reg)
	}
}

func TestCleanRectangle(t *testing.T) {
	m := mask.New(100, 60)
	rect(m, 10, 20, 50, 80)
	reg := Clean(m, DefaultCutoff)
	if reg == nil {
		t.Fatal("rectangle rejected")
	}
	if want := (BBox{10, 20, 50, 80}); reg.BBox != want {
		t.Errorf("bbox = %+v, want %+v", reg.BBox, want)
	}
	if reg.Area != 41*61 {
		t.Errorf("area = %d, want %d", reg.Area, 41*61)
	}
	if reg.Centroid.Row != 30 || reg.Centroid.Col != 50 {
		t.Errorf("centroid = %+v", reg.Centroid)
	}
	if reg.BBox.Width() != 60 {
		t.Errorf("width = %d", reg.BBox.Width())
	}
	// Column variance (61^2-1)/12 = 310, row variance (41^2-1)/12 = 140.
	if math.Abs(reg.MajorAxisLength-4*math.Sqrt(310)) > 1e-9 || math.Abs(reg.MinorAxisLength-4*math.Sqrt(140)) > 1e-9 {
		t.Errorf("axes major=%v minor=%v", reg.MajorAxisLength, reg.MinorAxisLength)
	}
	if math.Abs(reg.EquivalentDiameter-math.Sqrt(4*41*61/math.Pi)) > 1e-9 {
		t.Errorf("equivalent diameter = %v", reg.EquivalentDiameter)
	}
	if got := reg.Mask().Count(); got != reg.Area {
		t.Errorf("rebuilt mask has %d pixels, want %d", got, reg.Area)
	}
}

func TestCleanFillsHoles(t *testing.T) {
	m := mask.New(20, 20)
	rect(m, 2, 2, 12, 12)
	for r := 5; r <= 8; r++ {
		for c := 5; c <= 8; c++ {
			m.Set(r, c, false)
		}
	}
	before := m.Count()
	reg := Clean(m, DefaultCutoff)
	if reg == nil {
		t.Fatal("region rejected")
	}
	if reg.Area != 121 || reg.Area < before {
		t.Errorf("area = %d (before fill %d), want 121", reg.Area, before)
	}
}

func TestCleanCutoff(t *testing.T) {
	cases := []struct {
		name   string
		second int // width of the second blob; first is 6 wide
		cutoff float64
		want   bool
	}{
		{"even split rejected", 6, 0.6, false},
		{"even split accepted at half", 6, 0.5, true},
		{"exactly at cutoff", 4, 0.6, true},
		{"just under cutoff", 5, 0.6, false},
		{"single blob", 0, 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := mask.New(30, 3)
			rect(m, 1, 0, 1, 5)
			if tc.second > 0 {
				rect(m, 1, 10, 1, 10+tc.second-1)
			}
			reg := Clean(m, tc.cutoff)
			if (reg != nil) != tc.want {
				t.Fatalf("accepted = %v, want %v", reg != nil, tc.want)
			}
			if reg != nil && reg.BBox.MinCol != 0 {
				t.Errorf("picked blob at col %d, want first blob", reg.BBox.MinCol)
			}
		})
	}
}

func TestCleanDeterministic(t *testing.T) {
	m := mask.New(40, 40)
	rect(m, 1, 1, 5, 5)
	rect(m, 20, 20, 24, 24)
	rect(m, 30, 2, 31, 3)
	a := Clean(m, 0.4)
	b := Clean(m, 0.4)
	if a == nil || b == nil {
		t.Fatal("rejected")
	}
	if a.BBox != b.BBox || a.Area != b.Area {
		t.Errorf("runs differ: %+v vs %+v", a.BBox, b.BBox)
	}
	if a.BBox.MinRow != 1 {
		t.Errorf("tie not broken by scan order: %+v", a.BBox)
	}
}

func TestDominantFraction(t *testing.T) {
	m := mask.New(30, 3)
	rect(m, 1, 0, 1, 5)
	rect(m, 1, 10, 1, 15)
	reg, frac := Dominant(m)
	if reg == nil || frac != 0.5 {
		t.Fatalf("fraction = %v", frac)
	}
}

func TestValidateCutoff(t *testing.T) {
	for _, c := range []float64{0, -0.1, 1.01, math.NaN()} {
		if ValidateCutoff(c) == nil {
			t.Errorf("cutoff %v accepted", c)
		}
	}
	for _, c := range []float64{0.5, 0.6, 1} {
		if err := ValidateCutoff(c); err != nil {
			t.Errorf("cutoff %v: %v", c, err)
		}
	}
}

// band draws a thick line from (r0,c0) with the given slope.
func band(m *mask.Mask, r0, c0, length int, slope float64) {
	for i := 0; i < length; i++ {
		off := int(math.Round(slope * float64(i)))
		for d := -3; d <= 3; d++ {
			r := r0 + off + d
			if r >= 0 && r < m.Height() && c0+i < m.Width() {
				m.Set(r, c0+i, true)
			}
		}
	}
}

func TestFishAngleHorizontal(t *testing.T) {
	m := mask.New(100, 40)
	rect(m, 15, 10, 25, 90)
	a, ok := FishAngle(m, DefaultCutoff)
	if !ok {
		t.Fatal("no angle")
	}
	if a != 0 || math.Signbit(a) {
		t.Errorf("angle = %v, want +0", a)
	}
}

func TestFishAngleTranslationAndMirror(t *testing.T) {
	m := mask.New(120, 80)
	band(m, 10, 10, 80, 0.3)
	shifted := mask.New(120, 80)
	band(shifted, 20, 25, 80, 0.3)
	mirrored := mask.New(120, 80)
	for r := 0; r < m.Height(); r++ {
		for c := 0; c < m.Width(); c++ {
			if m.Get(r, c) {
				mirrored.Set(r, m.Width()-1-c, true)
			}
		}
	}

	a, ok := FishAngle(m, DefaultCutoff)
	if !ok {
		t.Fatal("no angle")
	}
	if a <= 10 || a >= 25 {
		t.Errorf("angle = %v, want about 16.7", a)
	}
	b, _ := FishAngle(shifted, DefaultCutoff)
	if b != a {
		t.Errorf("translated angle = %v, want %v", b, a)
	}
	c, _ := FishAngle(mirrored, DefaultCutoff)
	if c != -a {
		t.Errorf("mirrored angle = %v, want %v", c, -a)
	}
}

func TestFishAngleSquare(t *testing.T) {
	m := mask.New(40, 40)
	rect(m, 10, 10, 29, 29)
	reg := Clean(m, DefaultCutoff)
	if reg == nil {
		t.Fatal("square rejected")
	}
	if reg.Orientation != 0 {
		t.Errorf("orientation = %v, want 0", reg.Orientation)
	}
	a, ok := FishAngle(m, DefaultCutoff)
	if !ok || a != 0 || math.Signbit(a) {
		t.Errorf("fish angle = %v, %v, want 0", a, ok)
	}
}

func TestFishAngleEmpty(t *testing.T) {
	if _, ok := FishAngle(mask.New(5, 5), DefaultCutoff); ok {
		t.Error("empty mask produced an angle")
	}
}

func TestDegrees(t *testing.T) {
	cases := []struct {
		rad  float64
		want float64
	}{
		{math.Pi / 2, 0},
		{-math.Pi / 2 * 0.99999, 0},
		{math.Pi / 4, 45},
		{-math.Pi / 3, -30},
		{0, 0},
	}
	for _, tc := range cases {
		got := Degrees(tc.rad)
		if got != tc.want || (tc.want == 0 && math.Signbit(got)) {
			t.Errorf("Degrees(%v) = %v, want %v", tc.rad, got, tc.want)
		}
	}
}
