// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/shopsearch/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.ProfileConfig{
		DBPath: filepath.Join(t.TempDir(), "profiles.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	in := DemoProfile("user123")
	in.SearchHistory = []types.SearchRecord{
		{Query: "wireless headphones", Timestamp: time.Now().UTC(), ClickedProducts: []string{"phone_1"}},
	}
	if err := store.Put(ctx, in); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "user123")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Preferences.FavoriteCategories) != 2 {
		t.Errorf("FavoriteCategories = %v, want 2 entries", got.Preferences.FavoriteCategories)
	}
	if got.Preferences.PriceRange.Max != 1000 {
		t.Errorf("PriceRange.Max = %f, want 1000", got.Preferences.PriceRange.Max)
	}
	if got.Preferences.SizePreferences["clothing"] != "M" {
		t.Errorf("size preference = %q, want M", got.Preferences.SizePreferences["clothing"])
	}
	if len(got.SearchHistory) != 1 || got.SearchHistory[0].Query != "wireless headphones" {
		t.Errorf("SearchHistory = %+v, want the stored record", got.SearchHistory)
	}
	if got.LastUpdated.IsZero() {
		t.Error("LastUpdated not stamped on Put")
	}
}

func TestGetMissing(t *testing.T) {
	store := testStore(t)
	_, err := store.Get(context.Background(), "nobody")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestPutRequiresUserID(t *testing.T) {
	store := testStore(t)
	if err := store.Put(context.Background(), types.UserProfile{}); err == nil {
		t.Error("Put accepted a profile without a user id")
	}
}

func TestRecordSearch(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, DemoProfile("u1")); err != nil {
		t.Fatal(err)
	}
	rec := types.SearchRecord{Query: "gaming laptop", Timestamp: time.Now().UTC()}
	if err := store.RecordSearch(ctx, "u1", rec); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.SearchHistory) != 1 || got.SearchHistory[0].Query != "gaming laptop" {
		t.Errorf("SearchHistory = %+v, want one gaming laptop record", got.SearchHistory)
	}

	if err := store.RecordSearch(ctx, "ghost", rec); err == nil {
		t.Error("RecordSearch succeeded for a missing profile")
	}
}

func TestImportYAML(t *testing.T) {
	store := testStore(t)
	path := filepath.Join(t.TempDir(), "profile.yaml")
	yaml := `user_id: importer
preferences:
  favorite_categories: [clothing]
  price_range: {min: 10, max: 200}
  brands: [basicwear]
  color_preferences: [red]
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := store.ImportYAML(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if p.UserID != "importer" {
		t.Fatalf("UserID = %q, want importer", p.UserID)
	}

	got, err := store.Get(context.Background(), "importer")
	if err != nil {
		t.Fatal(err)
	}
	if got.Preferences.PriceRange.Min != 10 || got.Preferences.PriceRange.Max != 200 {
		t.Errorf("PriceRange = %+v, want {10 200}", got.Preferences.PriceRange)
	}
}
