package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const testCatalog = `brands:
  - title: Kingdom Climbing
    image: Kingdom Climbing Logo
    groups: [Avalanches, Jugs]
counts:
  Avalanches: 3
entries:
  Jugs: [Big Jug, Small Jug]
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(testCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	brand, ok := c.Brand("Kingdom Climbing")
	if !ok {
		t.Fatal("brand missing")
	}
	if brand.ID != NewBrand("Kingdom Climbing", "").ID {
		t.Error("brand id is not derived from the title")
	}

	holds, err := c.Holds(brand)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Avalanches 1", "Avalanches 2", "Avalanches 3", "Big Jug", "Small Jug"}
	if len(holds) != len(want) {
		t.Fatalf("got %d holds, want %d", len(holds), len(want))
	}
	for i := range want {
		if holds[i].Name != want[i] {
			t.Errorf("holds[%d] = %q, want %q", i, holds[i].Name, want[i])
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "brands: [a, b"},
		{"missing title", "brands:\n  - image: x\n"},
		{"duplicate entries", "entries:\n  A: [x, x]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMarshal_RoundTripsDefault(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(c.Brands) != len(Default().Brands) {
		t.Errorf("brand count changed: %d", len(c.Brands))
	}
	if c.Counts["Avalanches"] != 24 {
		t.Errorf("Avalanches count = %d, want 24", c.Counts["Avalanches"])
	}
}
