package persistence

import "sync"

// KeyedMutex serializes writes per workflow id without blocking writes for
// other ids. Locks are created on first use and kept for the lifetime of the
// store; the key space is bounded by the number of workflows.
type KeyedMutex struct {
	locks sync.Map
}

func (km *KeyedMutex) Lock(key string) {
	mu, _ := km.locks.LoadOrStore(key, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

func (km *KeyedMutex) Unlock(key string) {
	mu, ok := km.locks.Load(key)
	if ok {
		mu.(*sync.Mutex).Unlock()
	}
}
