package core

import (
	"fmt"
)

// Scope wraps one whole composition run, typically to open and settle a
// transaction around it. It must invoke next exactly once; a scope that
// never calls next silently drops the run.
type Scope func(next func())

type registration struct {
	unit  *Unit
	guard Guard
}

// composer holds the registration, wrapping-scope and failure-callback
// machinery shared by Batch and Chain.
type composer struct {
	regs      []registration
	scope     Scope
	onFailure func(Outcome)
}

func (c *composer) setScope(s Scope) error {
	if c.scope != nil {
		return ErrScopeAlreadySet
	}
	c.scope = s
	return nil
}

func (c *composer) run(fn func()) {
	if c.scope == nil {
		fn()
		return
	}
	c.scope(fn)
}

func (c *composer) reportFailure(o Outcome) {
	if c.onFailure != nil {
		c.onFailure(o)
	}
}

// Batch runs registered units independently against one shared input. Every
// registration is visited in order regardless of earlier failures; results
// come back as one Outcome per registration.
type Batch struct {
	composer
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Register appends a unit with an optional guard. A missing guard means the
// unit always runs. Registration order is invocation order.
func (b *Batch) Register(u *Unit, guard ...Guard) *Batch {
	var g Guard
	if len(guard) > 0 {
		g = guard[0]
	}
	b.regs = append(b.regs, registration{unit: u, guard: g})
	return b
}

// Around sets the wrapping scope. It may be set at most once.
func (b *Batch) Around(scope Scope) error {
	return b.setScope(scope)
}

// OnFailure sets a callback invoked during Call, once per unsuccessful
// outcome, with that unit's Outcome. Panics inside the callback propagate
// unmodified through the wrapping scope.
func (b *Batch) OnFailure(cb func(Outcome)) *Batch {
	b.onFailure = cb
	return b
}

// Call invokes every registration in order against inputs and returns one
// Outcome per registration in the same order. A guard evaluating false
// records a synthetic skipped outcome. Failures never stop the iteration.
func (b *Batch) Call(inputs Outcome) []Outcome {
	var results []Outcome
	b.run(func() {
		results = make([]Outcome, 0, len(b.regs))
		for _, reg := range b.regs {
			if b.skipRegistration(reg, inputs) {
				results = append(results, SkippedOutcome())
				continue
			}
			out := reg.unit.Call(inputs)
			if !out.Successful() {
				b.reportFailure(out)
			}
			results = append(results, out)
		}
	})
	return results
}

// MustCall is the strict counterpart of Call: each unit is invoked through
// its strict entry point, so the first failure panics and halts the
// remaining registrations. The failure callback is not consulted.
func (b *Batch) MustCall(inputs Outcome) []Outcome {
	var results []Outcome
	b.run(func() {
		results = make([]Outcome, 0, len(b.regs))
		for _, reg := range b.regs {
			if b.skipRegistration(reg, inputs) {
				results = append(results, SkippedOutcome())
				continue
			}
			results = append(results, reg.unit.MustCall(inputs))
		}
	})
	return results
}

func (b *Batch) skipRegistration(reg registration, inputs Outcome) bool {
	if reg.guard == nil || reg.guard(inputs) {
		return false
	}
	logInfo(fmt.Sprintf("unit=%s skipped (registration guard=false)", reg.unit.Name()))
	return true
}
