package bookmarks

import "sync/atomic"

// RefreshLock is a non-blocking lock guarding manual refreshes.
type RefreshLock struct {
	state atomic.Int32 // 0 = free, 1 = refreshing
}

// TryAcquire takes the lock if it is free and reports whether it did.
func (l *RefreshLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release frees the lock. Only the holder may call it.
func (l *RefreshLock) Release() {
	l.state.Store(0)
}

// Held reports whether a refresh is running.
func (l *RefreshLock) Held() bool {
	return l.state.Load() == 1
}
