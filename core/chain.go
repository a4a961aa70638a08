package core

import (
	"fmt"
	"sort"
)

// Chain runs registered units in sequence over one threaded accumulator.
// Each unit sees the accumulator as its bound inputs and its outcome is
// merged back in; the first unsuccessful merge stops the iteration.
type Chain struct {
	composer
}

// NewChain creates an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// Register appends units in invocation order. Chains carry no
// per-registration guards; skipping is a unit-contract concern.
func (c *Chain) Register(units ...*Unit) *Chain {
	for _, u := range units {
		c.regs = append(c.regs, registration{unit: u})
	}
	return c
}

// Around sets the wrapping scope. It may be set at most once.
func (c *Chain) Around(scope Scope) error {
	return c.setScope(scope)
}

// OnFailure sets a callback invoked with the raw Outcome of the unit whose
// failure short-circuited the chain.
func (c *Chain) OnFailure(cb func(Outcome)) *Chain {
	c.onFailure = cb
	return c
}

// Call validates inputs and registration order, then runs the chain. The
// returned error covers only configuration problems (reserved input keys,
// an unsatisfiable registration order, an undeclared unit); domain failure
// is reported through the returned accumulator's success flag.
//
// Both validation passes complete before any unit executes.
func (c *Chain) Call(inputs Outcome) (Outcome, error) {
	if inputs == nil {
		inputs = Outcome{}
	}
	for _, key := range []string{KeySuccessful, KeyMessages} {
		if _, ok := inputs[key]; ok {
			return nil, fmt.Errorf("chain input key %q: %w", key, ErrReservedKey)
		}
	}
	if err := c.checkFeasible(inputs); err != nil {
		return nil, err
	}

	acc := NewOutcome()
	for k, v := range inputs {
		acc[k] = v
	}
	c.run(func() {
		for _, reg := range c.regs {
			out := reg.unit.Call(acc)
			acc.merge(out)
			if !acc.Successful() {
				c.reportFailure(out)
				break
			}
		}
	})
	return acc, nil
}

// MustCall is the strict counterpart of Call: configuration errors and
// domain failures both panic, the latter as a FailureError carrying the
// joined messages.
func (c *Chain) MustCall(inputs Outcome) Outcome {
	acc, err := c.Call(inputs)
	if err != nil {
		panic(err)
	}
	if !acc.Successful() {
		panic(&FailureError{Unit: "chain", Outcome: acc})
	}
	return acc
}

// checkFeasible walks the registrations in order, growing the set of
// available keys from the initial inputs through each unit's declared
// outputs, and reports the first unit whose required inputs cannot be
// satisfied.
func (c *Chain) checkFeasible(inputs Outcome) error {
	available := make(map[string]bool, len(inputs))
	availList := make([]string, 0, len(inputs))
	for key := range inputs {
		available[key] = true
		availList = append(availList, key)
	}
	sort.Strings(availList)

	for _, reg := range c.regs {
		ct := &reg.unit.ct
		if !ct.declared {
			return fmt.Errorf("unit %q: %w", reg.unit.name, ErrUndeclared)
		}
		var missing []string
		for _, in := range ct.inputs {
			if in.required && !available[in.key] {
				missing = append(missing, in.key)
			}
		}
		if len(missing) > 0 {
			return &UnproducedError{
				Unit:      reg.unit.name,
				Available: append([]string(nil), availList...),
				Missing:   missing,
			}
		}
		for _, out := range ct.outputs {
			if !available[out] {
				available[out] = true
				availList = append(availList, out)
			}
		}
	}
	return nil
}
