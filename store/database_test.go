package store

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"slices"
	"testing"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestImageSlot(t *testing.T) {
	db := newTestDatabase(t)

	img, err := db.GetImage(WallImageKey)
	if err != nil || img != nil {
		t.Fatalf("empty slot = (%v, %v), want (nil, nil)", img, err)
	}

	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	src.SetRGBA(2, 1, color.RGBA{200, 100, 50, 255})
	if err := db.SetImage(WallImageKey, src); err != nil {
		t.Fatal(err)
	}

	img, err = db.GetImage(WallImageKey)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != src.Bounds().Size() {
		t.Errorf("size = %v, want %v", img.Bounds().Size(), src.Bounds().Size())
	}
	r, g, b, _ := img.At(2, 1).RGBA()
	if r>>8 != 200 || g>>8 != 100 || b>>8 != 50 {
		t.Errorf("pixel = %d %d %d, want 200 100 50", r>>8, g>>8, b>>8)
	}

	// overwrite
	if err := db.SetImage(WallImageKey, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	img, _ = db.GetImage(WallImageKey)
	if img.Bounds().Dx() != 8 {
		t.Errorf("width after overwrite = %d, want 8", img.Bounds().Dx())
	}

	if err := db.DeleteKey(WallImageKey); err != nil {
		t.Fatal(err)
	}
	if img, _ := db.GetImage(WallImageKey); img != nil {
		t.Error("slot not cleared")
	}
	if err := db.DeleteKey(WallImageKey); err != nil {
		t.Errorf("deleting absent key: %v", err)
	}
}

func TestHolds(t *testing.T) {
	db := newTestDatabase(t)

	for _, name := range []string{"Mega 2", "Mega 1", "Mega 3"} {
		order, err := db.GetMaxOrder("Mega")
		if err != nil {
			t.Fatal(err)
		}
		if err := db.InsertHold(name, "Mega", order); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.InsertHold("Jug", "Other", 0); err != nil {
		t.Fatal(err)
	}

	names, err := db.GroupHoldNames("Mega")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Mega 2", "Mega 1", "Mega 3"}; !slices.Equal(names, want) {
		t.Errorf("GroupHoldNames() = %v, want %v", names, want)
	}

	if err := db.InsertHold("Mega 1", "Mega", 9); err == nil {
		t.Error("duplicate insert succeeded")
	}

	count, err := db.GetHoldCount("Mega")
	if err != nil || count != 3 {
		t.Errorf("GetHoldCount() = %d, %v, want 3", count, err)
	}

	page, err := db.GetHolds("Mega", 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].HoldName != "Mega 1" || page[1].Order != 2 {
		t.Errorf("GetHolds() = %+v", page)
	}

	all, err := db.ListHolds()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 || all[0].GroupName != "Mega" || all[3].GroupName != "Other" {
		t.Errorf("ListHolds() = %+v", all)
	}

	if exists, _ := db.HoldExists("Jug", "Other"); !exists {
		t.Error("HoldExists(Jug) = false")
	}
	if err := db.DeleteHold("Jug", "Other"); err != nil {
		t.Fatal(err)
	}
	if exists, _ := db.HoldExists("Jug", "Other"); exists {
		t.Error("HoldExists after delete = true")
	}
	if err := db.DeleteHold("Jug", "Other"); !errors.Is(err, ErrHoldNotFound) {
		t.Errorf("second delete err = %v, want ErrHoldNotFound", err)
	}

	names, err = db.GroupHoldNames("Missing")
	if err != nil || len(names) != 0 {
		t.Errorf("GroupHoldNames(Missing) = %v, %v", names, err)
	}
}

func TestAppSettings(t *testing.T) {
	db := newTestDatabase(t)

	s, err := db.GetAppSettings()
	if err != nil {
		t.Fatal(err)
	}
	if *s != DefaultAppSettings {
		t.Errorf("bootstrap settings = %+v, want %+v", *s, DefaultAppSettings)
	}

	if err := db.UpsertAppSettings(&AppSettings{MaxScale: 3, TargetMaxDim: 1024}); err != nil {
		t.Fatal(err)
	}
	s, err = db.GetAppSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.MaxScale != 3 || s.TargetMaxDim != 1024 {
		t.Errorf("settings = %+v, want 3/1024", *s)
	}
}

func TestSeedAppSettings(t *testing.T) {
	db := newTestDatabase(t)

	if err := db.SeedAppSettings(AppSettings{MaxScale: 2, TargetMaxDim: 512}); err != nil {
		t.Fatal(err)
	}
	if err := db.SeedAppSettings(AppSettings{MaxScale: 9, TargetMaxDim: 9}); err != nil {
		t.Fatal(err)
	}

	s, err := db.GetAppSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.MaxScale != 2 || s.TargetMaxDim != 512 {
		t.Errorf("settings = %+v, want first seed", *s)
	}
}
