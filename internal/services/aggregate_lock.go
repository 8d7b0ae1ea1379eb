// internal/services/aggregate_lock.go
package services

import (
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// aggregateLocks serializes lifecycle work on a single RFP aggregate (the
// RFP row plus all its responses). Every mutating operation acquires the
// lock for its rfp_id before evaluating guards, so a transition's
// precondition check and its effect never interleave with another
// transition on the same RFP. Operations on different RFPs run in
// parallel.
type aggregateLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newAggregateLocks() *aggregateLocks {
	return &aggregateLocks{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Acquire locks the aggregate identified by id and returns the release
// function.
func (a *aggregateLocks) Acquire(id uuid.UUID) func() {
	a.mu.Lock()
	lock, ok := a.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[id] = lock
	}
	a.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Forget drops the lock entry for an aggregate that no longer exists.
func (a *aggregateLocks) Forget(id uuid.UUID) {
	a.mu.Lock()
	delete(a.locks, id)
	a.mu.Unlock()
}

// NewLifecycleServices builds the RFP and response services on a shared
// lock table so both sides of the lifecycle serialize against the same
// aggregate.
func NewLifecycleServices(db *gorm.DB, storage *StorageService, notifications *NotificationService) (*RFPService, *ResponseService) {
	locks := newAggregateLocks()
	return NewRFPService(db, locks, storage), NewResponseService(db, locks, notifications)
}
