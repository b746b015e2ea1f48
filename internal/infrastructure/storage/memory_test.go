package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	domainErrors "github.com/yuzvak/storefront-client/internal/domain/errors"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "access_token", "tok-1"); err != nil {
		t.Fatal(err)
	}

	value, err := store.Get(ctx, "access_token")
	if err != nil {
		t.Fatal(err)
	}
	if value != "tok-1" {
		t.Errorf("expected tok-1, got %q", value)
	}
}

func TestMemoryStore_GetMissingKey(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.Get(context.Background(), "absent"); !errors.Is(err, domainErrors.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestMemoryStore_DeleteMultiple(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "access_token", "tok-1")
	store.Set(ctx, "refresh_token", "ref-1")
	store.Set(ctx, "cart_id", "c1")

	if err := store.Delete(ctx, "access_token", "refresh_token"); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Get(ctx, "access_token"); !errors.Is(err, domainErrors.ErrKeyNotFound) {
		t.Error("access_token must be gone")
	}
	if _, err := store.Get(ctx, "refresh_token"); !errors.Is(err, domainErrors.ErrKeyNotFound) {
		t.Error("refresh_token must be gone")
	}
	if value, err := store.Get(ctx, "cart_id"); err != nil || value != "c1" {
		t.Errorf("cart_id must survive, got %q, %v", value, err)
	}
}

func TestMemoryStore_DeleteMissingIsNoop(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Delete(context.Background(), "absent"); err != nil {
		t.Errorf("deleting a missing key must not fail, got %v", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Set(ctx, "key", "value")
			store.Get(ctx, "key")
			store.Delete(ctx, "key")
		}()
	}
	wg.Wait()
}
