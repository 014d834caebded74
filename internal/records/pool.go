package records

import (
	"context"
	"database/sql"
)

// connPool bounds concurrent access to the database to a fixed number of
// permits. An acquirer blocks until one is available and returns it on
// release — the condition-variable discipline of a classic connection
// pool, expressed as a buffered-channel semaphore over database/sql's own
// pooling rather than hand-managed connections.
type connPool struct {
	db      *sql.DB
	permits chan struct{}
}

func newConnPool(db *sql.DB, size int) *connPool {
	p := &connPool{db: db, permits: make(chan struct{}, size)}
	for i := 0; i < size; i++ {
		p.permits <- struct{}{}
	}
	return p
}

// acquire blocks until a permit is available or ctx is done.
func (p *connPool) acquire(ctx context.Context) error {
	select {
	case <-p.permits:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *connPool) release() {
	p.permits <- struct{}{}
}
