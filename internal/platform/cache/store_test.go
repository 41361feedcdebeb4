package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "standings", nil
	}

	const readers = 24
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(readers)
	errCh := make(chan error, readers)

	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			<-release
			v, err := store.GetOrLoad(context.Background(), "standings:comp-1", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "standings" {
				errCh <- fmt.Errorf("unexpected value %v", v)
			}
		}()
	}

	close(release)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ServesCachedValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return "cached", nil
	}

	for i := 0; i < 3; i++ {
		if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
			t.Fatalf("GetOrLoad %d: %v", i, err)
		}
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "competition:c1", 1)
	store.Set(ctx, "competition:c1:standings", 2)
	store.Set(ctx, "competition:c2", 3)

	store.DeletePrefix(ctx, "competition:c1")

	if _, ok := store.Get(ctx, "competition:c1"); ok {
		t.Fatal("expected competition:c1 to be evicted")
	}
	if _, ok := store.Get(ctx, "competition:c1:standings"); ok {
		t.Fatal("expected competition:c1:standings to be evicted")
	}
	if _, ok := store.Get(ctx, "competition:c2"); !ok {
		t.Fatal("expected competition:c2 to survive")
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	ctx := context.Background()
	store.Set(ctx, "k", "v")

	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatal("expected fresh entry to be present")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}
}
