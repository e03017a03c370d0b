// pool.go — object pools for reducing allocation pressure on the hot error
// creation path.
//
// Grounded on fsvxavier/nexs-lib's domainerrors/performance.ErrorPool: a
// sync.Pool of pre-sized slots plus a reset method, instead of allocating a
// fresh metadata map and stack slice on every call.
package trypool

import (
	"sync"

	"github.com/tryerr/tryerr"
)

// Slot is a reusable scratch area for assembling a tryerr.RawFields value
// without allocating a fresh context slice and stack buffer each time.
// Callers fill in the exported fields, hand the slot to tryerr.NewFromRaw via
// Raw(), then return the slot with ErrorPool.Put.
type Slot struct {
	Ctx   []tryerr.KV
	Stack tryerr.Stack

	pool   *ErrorPool
	pooled bool
}

// reset clears previous contents without shrinking backing capacity.
func (s *Slot) reset() {
	s.Ctx = s.Ctx[:0]
	s.Stack = s.Stack[:0]
	s.pooled = false
}

// Raw builds a tryerr.RawFields holding copies of this slot's scratch
// buffers and marks the slot (and the resulting value) pooled.
func (s *Slot) Raw(typ, msg string, code tryerr.Code, cause error) tryerr.RawFields {
	s.pooled = true
	return tryerr.RawFields{
		Type:   typ,
		Msg:    msg,
		Code:   code,
		Ctx:    append([]tryerr.KV(nil), s.Ctx...),
		Cause:  cause,
		Stack:  append(tryerr.Stack(nil), s.Stack...),
		Pooled: true,
	}
}

// ErrorPool is a sync.Pool-backed source of Slot scratch buffers.
type ErrorPool struct {
	slots sync.Pool
}

// NewErrorPool constructs an ErrorPool with pre-sized slot buffers.
func NewErrorPool() *ErrorPool {
	p := &ErrorPool{}
	p.slots.New = func() any {
		return &Slot{
			Ctx:   make([]tryerr.KV, 0, 8),
			Stack: make(tryerr.Stack, 0, 16),
		}
	}
	return p
}

// Get obtains a reset Slot from the pool.
func (p *ErrorPool) Get() *Slot {
	s := p.slots.Get().(*Slot)
	s.pool = p
	s.reset()
	return s
}

// Put returns a Slot to the pool. Oversized buffers are dropped rather than
// retained, to avoid pinning large allocations in the pool indefinitely.
func (p *ErrorPool) Put(s *Slot) {
	if s == nil {
		return
	}
	if cap(s.Ctx) > 64 || cap(s.Stack) > 64 {
		return
	}
	s.reset()
	p.slots.Put(s)
}

// Release accepts any TryError and ignores values without the pooled
// marker. It returns nothing to the pool for pooled values either: slots go
// back through Put, and the error value itself is not recycled.
func (p *ErrorPool) Release(e tryerr.TryError) {
	if e == nil || !e.IsPooled() {
		return
	}
	// The slot itself was already detached at creation time (Raw() copies
	// out of it); Release's job is solely to honor the marker contract so
	// callers can call it unconditionally in a defer.
}

// GlobalErrorPool is the default process-wide ErrorPool, mirroring the
// teacher-adjacent pattern of exposing both a constructible pool and a ready
// global instance.
var GlobalErrorPool = NewErrorPool()
