package scheduling

import (
	"fmt"
	"sync"
	"testing"
)

func TestSlotLocksStableMapping(t *testing.T) {
	locks := newSlotLocks()
	key := slotKey("prov-1", "10_9_2026", "10:30 AM")

	if locks.get(key) != locks.get(key) {
		t.Error("same key mapped to different mutexes")
	}
}

func TestSlotLocksBounded(t *testing.T) {
	locks := newSlotLocks()

	// Handing out locks for arbitrarily many distinct slots must only ever
	// touch the fixed stripe set.
	seen := make(map[*sync.Mutex]bool)
	for i := 0; i < slotLockStripes*4; i++ {
		key := slotKey("prov-1", "10_9_2026", fmt.Sprintf("tick-%d", i))
		seen[locks.get(key)] = true
	}
	if len(seen) > slotLockStripes {
		t.Errorf("distinct mutexes = %d, want at most %d", len(seen), slotLockStripes)
	}
}
