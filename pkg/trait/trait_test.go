package trait

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fish-morphology/pkg/raster"

	"gopkg.in/yaml.v3"
)

func TestDefaultTable(t *testing.T) {
	tab := DefaultTable()
	traits := tab.Traits()
	if len(traits) != 11 {
		t.Fatalf("got %d traits, want 11", len(traits))
	}
	if traits[0] != DorsalFin || traits[len(traits)-1] != Trunk {
		t.Errorf("order = %v", traits)
	}
	c, err := tab.Color(Eye)
	if err != nil || c != (raster.RGB{R: 0, G: 254, B: 102}) {
		t.Errorf("eye color = %v, %v", c, err)
	}
	if _, err := tab.Color("gill"); !errors.Is(err, ErrUnknownTrait) {
		t.Errorf("unknown trait err = %v", err)
	}
}

func TestNewTableRejects(t *testing.T) {
	red := raster.RGB{R: 254}
	cases := []struct {
		name    string
		entries []Entry
		want    error
	}{
		{"empty", nil, ErrEmptyTable},
		{"duplicate color", []Entry{{Head, red}, {Eye, red}}, ErrDuplicateColor},
		{"duplicate trait", []Entry{{Head, red}, {Head, raster.RGB{G: 1}}}, ErrDuplicateTrait},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTable(tc.entries); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseTableRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(DefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "traits.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	tab, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v\n%s", err, data)
	}
	want := DefaultTable().Entries()
	got := tab.Entries()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseTableJSON(t *testing.T) {
	tab, err := ParseTable([]byte(`{"traits": [{"name": "background", "color": [0, 0, 0]}, {"name": "head", "color": [10, 20, 30]}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if c, _ := tab.Color(Head); c != (raster.RGB{R: 10, G: 20, B: 30}) {
		t.Errorf("head = %v", c)
	}
}

func TestParseTableBadColor(t *testing.T) {
	for _, doc := range []string{
		"traits: [{name: head, color: [1, 2]}]",
		"traits: [{name: head, color: [1, 2, 300]}]",
	} {
		if _, err := ParseTable([]byte(doc)); !errors.Is(err, ErrBadColor) {
			t.Errorf("%q: err = %v", doc, err)
		}
	}
}

func TestDecode(t *testing.T) {
	tab := DefaultTable()
	head, _ := tab.Color(Head)
	eye, _ := tab.Color(Eye)
	img, err := raster.Filled(10, 6, raster.RGB{})
	if err != nil {
		t.Fatal(err)
	}
	img = img.Paint(1, 1, 4, 6, head).Paint(2, 2, 2, 3, eye).Paint(5, 9, 5, 9, raster.RGB{R: 9, G: 9, B: 9})

	masks := Decode(img, tab)
	if len(masks) != 11 {
		t.Fatalf("got %d masks", len(masks))
	}
	if n := masks.Get(Head).Count(); n != 4*6-2 {
		t.Errorf("head count = %d", n)
	}
	if n := masks.Get(Eye).Count(); n != 2 {
		t.Errorf("eye count = %d", n)
	}
	if !masks.Get(Trunk).Empty() {
		t.Error("trunk should be empty")
	}
	if masks.Get(Background) != nil {
		t.Error("background must not be decoded")
	}

	if n := WholeFish(img, tab).Count(); n != 4*6+1 {
		t.Errorf("whole fish count = %d", n)
	}

	if _, ok := masks.Combine(Head, Trunk); ok {
		t.Error("combine with empty trunk should be absent")
	}
	both, ok := masks.Combine(Head, Eye)
	if !ok || both.Count() != 24 {
		t.Errorf("head+eye = %v, %v", both, ok)
	}
}
