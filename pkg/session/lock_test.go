package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/matcher"
)

func TestManager_LockLifecycle(t *testing.T) {
	table, err := matcher.New(matcher.Route{Path: "/"})
	if err != nil {
		t.Fatal(err)
	}
	mgr := NewManager(table, memory.NewStore())
	ctx := context.Background()
	count := 1000

	// 1. Create and Delete many sessions
	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _ = mgr.Navigate(ctx, sid, "/")
		_ = mgr.Delete(ctx, sid)
	}

	// 2. Every lock and router must be released
	if n := len(mgr.locks); n != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", n)
	}
	if n := len(mgr.routers); n != 0 {
		t.Errorf("Memory Leak Detected: %d routers remaining in memory after Delete", n)
	}
}
