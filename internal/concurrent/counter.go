package concurrent

import (
	"sync"
	"sync/atomic"
)

// Counter is a synchronous counter for tracking the outcome of parallel tasks.
type Counter struct {
	ok     uint64
	failed uint64
	mutex  *sync.Mutex
	errs   map[string]int
}

// NewCounter creates a new counter.
func NewCounter() *Counter {
	return &Counter{
		mutex: new(sync.Mutex),
		errs:  make(map[string]int),
	}
}

// Track increments the counter by one and groups the error, if any, under the given reason.
func (c *Counter) Track(reason string, err error) {
	if err == nil {
		atomic.AddUint64(&c.ok, 1)
		return
	}
	atomic.AddUint64(&c.failed, 1)
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.errs[reason]++
}

// Get returns the current count of successful tasks.
func (c *Counter) Get() int {
	return int(atomic.LoadUint64(&c.ok))
}

// Failed returns the current count of failed tasks.
func (c *Counter) Failed() int {
	return int(atomic.LoadUint64(&c.failed))
}

// Reasons returns the failures per reason.
func (c *Counter) Reasons() map[string]int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	rr := make(map[string]int, len(c.errs))
	for k, v := range c.errs {
		rr[k] = v
	}
	return rr
}
