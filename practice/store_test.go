package practice

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jetctf/jetctf-web/game"
)

func openTestStore(t *testing.T) *RouteStore {
	t.Helper()
	store, err := OpenRouteStore(filepath.Join(t.TempDir(), "routes.db"))
	if err != nil {
		t.Fatalf("OpenRouteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenRouteStoreRejectsEmptyPath(t *testing.T) {
	if _, err := OpenRouteStore(""); err == nil {
		t.Error("empty path should fail")
	}
}

func TestRouteStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	in := playbackTrail()
	in.GrabTime = 3.5
	if err := store.SaveTrail(ctx, in); err != nil {
		t.Fatalf("SaveTrail: %v", err)
	}

	out, err := store.Trail(ctx, in.Name, in.Team)
	if err != nil {
		t.Fatalf("Trail: %v", err)
	}
	if out.Name != in.Name || out.Team != in.Team {
		t.Errorf("identity = %q/%d", out.Name, out.Team)
	}
	if out.GrabTime != 3.5 || out.MarkerInterval != 0.5 || out.Modulus != 1 {
		t.Errorf("metadata = %+v", out)
	}
	if len(out.Markers) != len(in.Markers) {
		t.Fatalf("markers = %d, want %d", len(out.Markers), len(in.Markers))
	}
	if out.Markers[7].Location.X != 7000 || out.Markers[7].Time != 3.5 {
		t.Errorf("marker 7 = %+v", out.Markers[7])
	}
}

func TestRouteStoreRejectsUnnamedTrail(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveTrail(context.Background(), game.RouteTrail{}); err == nil {
		t.Error("nameless trail should fail")
	}
}

func TestRouteStoreMissingTrail(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Trail(context.Background(), "nope", game.TeamRed)
	if !errors.Is(err, ErrRouteNotFound) {
		t.Errorf("err = %v, want ErrRouteNotFound", err)
	}
}

func TestRouteStoreSaveReplaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rt := playbackTrail()
	if err := store.SaveTrail(ctx, rt); err != nil {
		t.Fatal(err)
	}
	rt.GrabTime = 9
	rt.Markers = rt.Markers[:4]
	if err := store.SaveTrail(ctx, rt); err != nil {
		t.Fatal(err)
	}

	out, err := store.Trail(ctx, rt.Name, rt.Team)
	if err != nil {
		t.Fatal(err)
	}
	if out.GrabTime != 9 || len(out.Markers) != 4 {
		t.Errorf("replacement not applied: grab=%v markers=%d", out.GrabTime, len(out.Markers))
	}

	trails, err := store.Trails(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(trails) != 1 {
		t.Errorf("trails = %d, want 1 after replace", len(trails))
	}
}

func TestRouteStoreKeysByNameAndTeam(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	red := playbackTrail()
	blue := playbackTrail()
	blue.Team = game.TeamBlue
	blue.GrabTime = 2
	if err := store.SaveTrail(ctx, red); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveTrail(ctx, blue); err != nil {
		t.Fatal(err)
	}

	got, err := store.Trail(ctx, blue.Name, game.TeamBlue)
	if err != nil {
		t.Fatal(err)
	}
	if got.GrabTime != 2 {
		t.Errorf("blue trail grab = %v", got.GrabTime)
	}

	trails, err := store.Trails(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(trails) != 2 {
		t.Fatalf("trails = %d, want 2", len(trails))
	}
	// Listing orders by name then team; red sorts before blue.
	if trails[0].Team != game.TeamRed || trails[1].Team != game.TeamBlue {
		t.Errorf("ordering = %d, %d", trails[0].Team, trails[1].Team)
	}
}

func TestRouteStoreListsByName(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zig", "alpha", "mid"} {
		rt := playbackTrail()
		rt.Name = name
		if err := store.SaveTrail(ctx, rt); err != nil {
			t.Fatal(err)
		}
	}

	trails, err := store.Trails(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mid", "zig"}
	if len(trails) != len(want) {
		t.Fatalf("trails = %d", len(trails))
	}
	for i, name := range want {
		if trails[i].Name != name {
			t.Errorf("trails[%d] = %q, want %q", i, trails[i].Name, name)
		}
	}
}

func TestRouteStoreDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rt := playbackTrail()
	if err := store.SaveTrail(ctx, rt); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteTrail(ctx, rt.Name, rt.Team); err != nil {
		t.Fatalf("DeleteTrail: %v", err)
	}
	if _, err := store.Trail(ctx, rt.Name, rt.Team); !errors.Is(err, ErrRouteNotFound) {
		t.Errorf("after delete err = %v", err)
	}
	if err := store.DeleteTrail(ctx, rt.Name, rt.Team); !errors.Is(err, ErrRouteNotFound) {
		t.Errorf("double delete err = %v", err)
	}
}
