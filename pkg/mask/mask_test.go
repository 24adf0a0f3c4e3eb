package mask

import "testing"

func TestFillHoles(t *testing.T) {
	cases := []struct {
		name string
		in   [][]int
		want int
	}{
		{
			name: "ring encloses one pixel",
			in: [][]int{
				{0, 0, 0, 0, 0},
				{0, 1, 1, 1, 0},
				{0, 1, 0, 1, 0},
				{0, 1, 1, 1, 0},
				{0, 0, 0, 0, 0},
			},
			want: 9,
		},
		{
			name: "diagonal gap lets background in",
			in: [][]int{
				{0, 0, 0, 0, 0},
				{0, 1, 1, 0, 0},
				{0, 1, 0, 1, 0},
				{0, 1, 1, 1, 0},
				{0, 0, 0, 0, 0},
			},
			want: 7,
		},
		{
			name: "border background is kept",
			in: [][]int{
				{1, 1, 1},
				{1, 0, 1},
				{1, 1, 0},
			},
			want: 7,
		},
		{
			name: "empty",
			in: [][]int{
				{0, 0},
				{0, 0},
			},
			want: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := FromRows(tc.in)
			before := in.Count()
			got := FillHoles(in)
			if got.Count() != tc.want {
				t.Errorf("filled count = %d, want %d", got.Count(), tc.want)
			}
			if got.Count() < before {
				t.Errorf("fill removed pixels: %d -> %d", before, got.Count())
			}
			if in.Count() != before {
				t.Errorf("input mutated")
			}
		})
	}
}

func TestLabel(t *testing.T) {
	m := FromRows([][]int{
		{1, 1, 0, 0, 1},
		{0, 1, 0, 0, 1},
		{0, 0, 1, 0, 0},
		{0, 0, 0, 0, 0},
		{1, 0, 0, 1, 1},
	})
	comps := Label(m)
	if len(comps) != 4 {
		t.Fatalf("got %d components, want 4", len(comps))
	}
	wantAreas := []int{4, 2, 1, 2}
	for i, c := range comps {
		if c.Label != i+1 {
			t.Errorf("component %d has label %d", i, c.Label)
		}
		if c.Area() != wantAreas[i] {
			t.Errorf("component %d area = %d, want %d", i, c.Area(), wantAreas[i])
		}
	}
	if first := comps[0].Pixels[0]; first != (Point{0, 0}) {
		t.Errorf("first pixel = %v, want (0,0)", first)
	}
}

func TestLargestPrefersFirstOnTie(t *testing.T) {
	m := FromRows([][]int{
		{1, 1, 0, 1, 1},
	})
	comps := Label(m)
	if got := Largest(comps); got != 0 {
		t.Errorf("Largest = %d, want 0", got)
	}
	if got := Largest(nil); got != -1 {
		t.Errorf("Largest(nil) = %d, want -1", got)
	}
}

func TestOrSizeMismatch(t *testing.T) {
	if _, err := New(2, 2).Or(New(3, 2)); err == nil {
		t.Fatal("expected size mismatch error")
	}
	a := FromRows([][]int{{1, 0}, {0, 0}})
	b := FromRows([][]int{{0, 0}, {0, 1}})
	u, err := a.Or(b)
	if err != nil {
		t.Fatal(err)
	}
	if u.Count() != 2 || a.Count() != 1 {
		t.Errorf("union count = %d, a count = %d", u.Count(), a.Count())
	}
}
