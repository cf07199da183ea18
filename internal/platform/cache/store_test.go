package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetHonorsTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)
	current := time.Unix(1_700_000_000, 0)
	store.now = func() time.Time { return current }

	store.Set(context.Background(), "k", "v")

	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatal("fresh entry reported as miss")
	}

	current = current.Add(2 * time.Hour)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("expired entry reported as hit")
	}
}

func TestStore_GetOrLoad_LoadsOncePerKey(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return "loaded", nil
	}

	const workers = 24
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			value, err := store.GetOrLoad(context.Background(), "same", loader)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if got, _ := value.(string); got != "loaded" {
				t.Errorf("unexpected value: %v", value)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}
