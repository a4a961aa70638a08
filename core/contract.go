package core

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration errors. These mark programmer mistakes in how units and
// chains were assembled; they are never represented as failed Outcomes.
var (
	// ErrUndeclared reports an invocation of a unit whose contract was
	// never declared, not even as an explicit empty contract.
	ErrUndeclared = errors.New("unit contract was never declared")

	// ErrSealed reports a contract declaration call after the unit's
	// first invocation.
	ErrSealed = errors.New("unit contract is sealed after first invocation")

	// ErrReservedKey reports chain input containing a reserved key.
	ErrReservedKey = errors.New("reserved key in chain input")

	// ErrScopeAlreadySet reports a second Around call on the same composer.
	ErrScopeAlreadySet = errors.New("wrapping scope may only be set once")
)

// Precondition gates a unit's body for one invocation. It is evaluated
// against the bound inputs through the execution instance and may append
// messages; returning false skips the body without marking failure.
type Precondition func(e *Exec) bool

// Guard gates a Batch registration. It sees only the shared call inputs.
type Guard func(inputs Outcome) bool

type inputSpec struct {
	key      string
	required bool
}

// contract is a unit's declared input/output key set. Declaration is
// additive until the unit first runs, after which the contract is sealed
// and read-only.
type contract struct {
	declared bool
	sealed   bool
	inputs   []inputSpec
	outputs  []string
	pre      Precondition
}

func (c *contract) mustBeOpen() {
	if c.sealed {
		panic(ErrSealed)
	}
}

func (c *contract) addInputs(required bool, keys ...string) {
	c.mustBeOpen()
	c.declared = true
	for _, key := range keys {
		if c.hasInput(key) {
			continue
		}
		c.inputs = append(c.inputs, inputSpec{key: key, required: required})
	}
}

func (c *contract) addOutputs(keys ...string) {
	c.mustBeOpen()
	c.declared = true
	for _, key := range keys {
		if c.hasOutput(key) {
			continue
		}
		c.outputs = append(c.outputs, key)
	}
}

func (c *contract) setPre(p Precondition) {
	c.mustBeOpen()
	c.declared = true
	c.pre = p
}

func (c *contract) hasInput(key string) bool {
	for _, in := range c.inputs {
		if in.key == key {
			return true
		}
	}
	return false
}

func (c *contract) hasOutput(key string) bool {
	for _, out := range c.outputs {
		if out == key {
			return true
		}
	}
	return false
}

// UnproducedError reports a chain whose registration order cannot satisfy a
// unit's required inputs from the initial inputs plus prior units' outputs.
type UnproducedError struct {
	Unit      string   // offending unit
	Available []string // keys available when the unit would run
	Missing   []string // required keys not available, in contract order
}

func (e *UnproducedError) Error() string {
	return fmt.Sprintf("chain cannot produce required inputs for unit %q: missing %v, available %v",
		e.Unit, e.Missing, e.Available)
}

// FailureError carries a failed Outcome out of a strict entry point.
type FailureError struct {
	Unit    string
	Outcome Outcome
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("unit %q failed: %s", e.Unit, strings.Join(e.Outcome.Messages(), "; "))
}
