// AngelaMos | 2026
// cache_test.go

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type widget struct {
	ID    string `json:"id"`
	Views int    `json:"views"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	return New(rdb), mr
}

func TestCacheGetSetDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get missing: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if val != "v" {
		t.Errorf("Get = %q, want v", val)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("key survived Delete")
	}
}

func TestStoreGetOneMiss(t *testing.T) {
	c, _ := newTestCache(t)
	store := NewStore[widget](c)

	v, hit, err := store.GetOne(context.Background(), "widget:1")
	if err != nil {
		t.Fatalf("GetOne: %v", err)
	}
	if hit || v != nil {
		t.Errorf("miss returned hit=%v v=%v", hit, v)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	store := NewStore[widget](c)
	ctx := context.Background()

	want := &widget{ID: "1", Views: 7}
	if err := store.SetOne(ctx, "widget:1", want); err != nil {
		t.Fatalf("SetOne: %v", err)
	}

	got, hit, err := store.GetOne(ctx, "widget:1")
	if err != nil || !hit {
		t.Fatalf("GetOne: hit=%v err=%v", hit, err)
	}
	if got.ID != want.ID || got.Views != want.Views {
		t.Errorf("GetOne = %+v, want %+v", got, want)
	}
}

func TestStoreCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	store := NewStore[widget](c)

	mr.Set("widget:1", "{not json")

	_, hit, err := store.GetOne(context.Background(), "widget:1")
	if err != nil {
		t.Fatalf("GetOne: %v", err)
	}
	if hit {
		t.Error("corrupt entry should read as a miss")
	}
}

func TestStoreGetOrLoadPopulates(t *testing.T) {
	c, _ := newTestCache(t)
	store := NewStore[widget](c)
	ctx := context.Background()

	loads := 0
	load := func(ctx context.Context) (*widget, error) {
		loads++
		return &widget{ID: "1", Views: 3}, nil
	}

	for range 2 {
		v, err := store.GetOrLoad(ctx, "widget:1", load)
		if err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
		if v.ID != "1" {
			t.Errorf("GetOrLoad = %+v", v)
		}
	}

	if loads != 1 {
		t.Errorf("loader ran %d times, want 1", loads)
	}
}

func TestStoreGetOrLoadErrorPassthrough(t *testing.T) {
	c, _ := newTestCache(t)
	store := NewStore[widget](c)

	wantErr := errors.New("db down")
	_, err := store.GetOrLoad(
		context.Background(),
		"widget:1",
		func(ctx context.Context) (*widget, error) {
			return nil, wantErr
		},
	)
	if !errors.Is(err, wantErr) {
		t.Errorf("GetOrLoad err = %v, want %v", err, wantErr)
	}
}

func TestStoreAdmissionGatesReadThrough(t *testing.T) {
	c, _ := newTestCache(t)
	store := NewStore(c, WithAdmission[widget](func(w *widget) bool {
		return w.Views > 50
	}))
	ctx := context.Background()

	cold := &widget{ID: "cold", Views: 10}
	if _, err := store.GetOrLoad(ctx, "widget:cold", func(ctx context.Context) (*widget, error) {
		return cold, nil
	}); err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	if _, hit, _ := store.GetOne(ctx, "widget:cold"); hit {
		t.Error("value below admission threshold was cached")
	}

	hot := &widget{ID: "hot", Views: 99}
	if _, err := store.GetOrLoad(ctx, "widget:hot", func(ctx context.Context) (*widget, error) {
		return hot, nil
	}); err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	if _, hit, _ := store.GetOne(ctx, "widget:hot"); !hit {
		t.Error("value above admission threshold was not cached")
	}

	// Write-through bypasses admission.
	store.WriteThrough(ctx, "widget:cold", cold)
	if _, hit, _ := store.GetOne(ctx, "widget:cold"); !hit {
		t.Error("WriteThrough should populate regardless of admission")
	}
}

func TestStoreTTL(t *testing.T) {
	c, mr := newTestCache(t)
	store := NewStore(c, WithTTL[widget](time.Minute))
	ctx := context.Background()

	if err := store.SetOne(ctx, "widget:1", &widget{ID: "1"}); err != nil {
		t.Fatalf("SetOne: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, hit, _ := store.GetOne(ctx, "widget:1"); hit {
		t.Error("entry survived its TTL")
	}
}

func TestStoreInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	store := NewStore[widget](c)
	ctx := context.Background()

	if err := store.SetOne(ctx, "widget:1", &widget{ID: "1"}); err != nil {
		t.Fatalf("SetOne: %v", err)
	}

	store.Invalidate(ctx, "widget:1")

	if _, hit, _ := store.GetOne(ctx, "widget:1"); hit {
		t.Error("key survived Invalidate")
	}
}
