// Package trymw provides a middleware pipeline over tryresult.Result
// values, grounded on dmitrymomot-foundation/core/event's middleware
// chain-of-responsibility shape (Middleware func(Handler) Handler,
// chainMiddleware), adapted here from wrapping an event Handler to
// wrapping a Result[any] continuation.
package trymw

import (
	"github.com/tryerr/tryerr/tryresult"
)

// Middleware observes or transforms the current result, choosing to
// short-circuit by returning a value directly or to delegate by calling
// next.
type Middleware func(cur tryresult.Result[any], next func() tryresult.Result[any]) tryresult.Result[any]

// Pipeline holds an ordered list of middlewares applied around a final
// continuation.
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline constructs a Pipeline from middlewares in the order they
// should run (first registered runs outermost).
func NewPipeline(middlewares ...Middleware) *Pipeline {
	return &Pipeline{middlewares: append([]Middleware(nil), middlewares...)}
}

// Use appends a middleware to the pipeline.
func (p *Pipeline) Use(mw Middleware) *Pipeline {
	p.middlewares = append(p.middlewares, mw)
	return p
}

// Execute walks the pipeline in insertion order around initial, terminating
// at final once every middleware has either short-circuited or delegated.
// An empty pipeline returns final() when final is non-nil, else initial
// unchanged.
func (p *Pipeline) Execute(initial tryresult.Result[any], final func() tryresult.Result[any]) tryresult.Result[any] {
	if len(p.middlewares) == 0 {
		if final != nil {
			return final()
		}
		return initial
	}

	var run func(i int) tryresult.Result[any]
	run = func(i int) tryresult.Result[any] {
		if i >= len(p.middlewares) {
			if final != nil {
				return final()
			}
			return initial
		}
		mw := p.middlewares[i]
		return mw(initial, func() tryresult.Result[any] { return run(i + 1) })
	}
	return run(0)
}
