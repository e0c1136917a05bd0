package redis

import (
	"context"
	"testing"

	"github.com/wonny/optionlab/backend/pkg/config"
)

func disabledCache(t *testing.T) *Cache {
	t.Helper()
	client, err := New(&config.Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return NewCache(client, "optionlab")
}

func TestCache_Disabled(t *testing.T) {
	cache := disabledCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", map[string]int{"a": 1}, TTLShort); err != nil {
		t.Errorf("Set: %v", err)
	}

	var dest map[string]int
	found, err := cache.Get(ctx, "k", &dest)
	if err != nil {
		t.Errorf("Get: %v", err)
	}
	if found {
		t.Error("disabled cache reported a hit")
	}

	if err := cache.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestClient_DisabledClose(t *testing.T) {
	client, err := New(&config.Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.Enabled() {
		t.Error("Enabled() = true, want false")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
