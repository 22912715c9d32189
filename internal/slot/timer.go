package slot

import (
	"sync"
	"time"
)

var timerPool sync.Pool

// getTimer returns a pooled timer firing after d. Since Go 1.23 Reset and
// Stop leave no stale tick in the channel, so a reused timer needs no drain.
func getTimer(d time.Duration) *time.Timer {
	if t, ok := timerPool.Get().(*time.Timer); ok {
		t.Reset(d)
		return t
	}
	return time.NewTimer(d)
}

func putTimer(t *time.Timer) {
	t.Stop()
	timerPool.Put(t)
}
