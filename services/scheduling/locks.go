package scheduling

import (
	"hash/fnv"
	"sync"
)

const slotLockStripes = 512

// slotLocks hands out a mutex per (provider, date, tick) key so the
// check-then-mutate region of a reservation is exclusive per slot. Keys are
// hashed onto a fixed stripe set, so memory stays bounded no matter how many
// distinct slots are ever reserved; two slots sharing a stripe serialize
// against each other, which is harmless. Locks are held only across the
// arbitration critical section, never across request I/O outside it.
type slotLocks struct {
	stripes [slotLockStripes]sync.Mutex
}

func newSlotLocks() *slotLocks {
	return &slotLocks{}
}

func (s *slotLocks) get(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &s.stripes[h.Sum32()%slotLockStripes]
}

func slotKey(providerID, date, tick string) string {
	return providerID + "|" + date + "|" + tick
}
