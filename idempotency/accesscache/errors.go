package accesscache

import (
	"errors"
	"fmt"
	"time"
)

// ErrDistributedLockNotAcquired matches every *DistributedLockNotAcquiredError
// with errors.Is.
var ErrDistributedLockNotAcquired = errors.New("distributed lock not acquired")

// DistributedLockNotAcquiredError is returned when the per-key lock could not
// be obtained within the lock timeout. Err holds the underlying cause when
// the lock backend failed rather than simply timing out.
type DistributedLockNotAcquiredError struct {
	Key     string
	Timeout time.Duration
	Err     error
}

func (e *DistributedLockNotAcquiredError) Error() string {
	msg := fmt.Sprintf("distributed lock for %q not acquired within %s", e.Key, e.Timeout)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DistributedLockNotAcquiredError) Unwrap() error {
	return e.Err
}

func (e *DistributedLockNotAcquiredError) Is(target error) bool {
	return target == ErrDistributedLockNotAcquired
}
