package client

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCacheFetchCachesWithinTTL(t *testing.T) {
	current := time.Unix(1000, 0)
	cache := NewCache(func() time.Time { return current })

	calls := 0
	fn := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	v, err := cache.Fetch(Key{"study-plans"}, 30*time.Second, fn)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v.(int) != 1 {
		t.Errorf("Expected first fetch value 1, got %v", v)
	}

	current = current.Add(10 * time.Second)
	v, _ = cache.Fetch(Key{"study-plans"}, 30*time.Second, fn)
	if v.(int) != 1 || calls != 1 {
		t.Errorf("Expected cached value within TTL, got value %v after %d calls", v, calls)
	}

	current = current.Add(30 * time.Second)
	v, _ = cache.Fetch(Key{"study-plans"}, 30*time.Second, fn)
	if v.(int) != 2 || calls != 2 {
		t.Errorf("Expected re-fetch after TTL, got value %v after %d calls", v, calls)
	}
}

func TestCacheInvalidateForcesRefetch(t *testing.T) {
	cache := NewCache(nil)

	calls := 0
	fn := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	cache.Fetch(Key{"study-plan-tasks", "p1"}, time.Minute, fn)
	cache.Invalidate(Key{"study-plan-tasks", "p1"})
	v, _ := cache.Fetch(Key{"study-plan-tasks", "p1"}, time.Minute, fn)
	if v.(int) != 2 {
		t.Errorf("Expected fresh value after invalidation, got %v", v)
	}
}

func TestCacheKeysAreIndependent(t *testing.T) {
	cache := NewCache(nil)

	cache.Fetch(Key{"study-plan-tasks", "p1"}, time.Minute, func() (interface{}, error) { return "a", nil })
	cache.Fetch(Key{"study-plan-tasks", "p2"}, time.Minute, func() (interface{}, error) { return "b", nil })

	cache.Invalidate(Key{"study-plan-tasks", "p1"})
	if cache.Size() != 1 {
		t.Errorf("Expected one surviving entry, got %d", cache.Size())
	}

	v, _ := cache.Fetch(Key{"study-plan-tasks", "p2"}, time.Minute, func() (interface{}, error) { return "refetched", nil })
	if v.(string) != "b" {
		t.Errorf("Invalidation bled into a sibling key, got %v", v)
	}
}

func TestCacheErrorsAreNotCached(t *testing.T) {
	cache := NewCache(nil)

	calls := 0
	_, err := cache.Fetch(Key{"study-plans"}, time.Minute, func() (interface{}, error) {
		calls++
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("Expected fetch error")
	}

	v, err := cache.Fetch(Key{"study-plans"}, time.Minute, func() (interface{}, error) {
		calls++
		return "recovered", nil
	})
	if err != nil || v.(string) != "recovered" {
		t.Errorf("Expected retry after error, got %v (err %v)", v, err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
}

func TestCacheDeduplicatesConcurrentFetches(t *testing.T) {
	cache := NewCache(nil)

	var calls int
	var mu sync.Mutex
	release := make(chan struct{})

	fn := func() (interface{}, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]interface{}, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _ := cache.Fetch(Key{"study-plans"}, time.Minute, fn)
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("Expected a single underlying fetch, got %d", calls)
	}
	for i, v := range results {
		if v != "shared" {
			t.Errorf("Caller %d got %v, expected shared result", i, v)
		}
	}
}
