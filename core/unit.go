package core

import (
	"errors"
	"fmt"
	"sort"
)

// inputPreviewLimit bounds the textual input preview on diagnostic lines.
const inputPreviewLimit = 120

// Body performs a unit's work against its execution instance. Returning nil
// is a normal exit and triggers output validation. Returning the value of
// e.Abort (or any other non-nil error) records failure and skips output
// validation; the error never crosses the invocation boundary.
type Body func(e *Exec) error

// errAborted is the private unwind signal returned by Exec.Abort. It is
// consumed inside Call and is externally indistinguishable from a normal
// failing Outcome.
var errAborted = errors.New("unit aborted")

// Unit is an atomic, contract-declared piece of work. Its contract must be
// declared before the first invocation, possibly across several additive
// calls, after which it is sealed.
type Unit struct {
	name string
	ct   contract
	body Body
}

// NewUnit creates a unit with the given name and body. The unit is not yet
// declared; call Declare, In, Opt, Out or Pre before invoking it.
func NewUnit(name string, body Body) *Unit {
	return &Unit{name: name, body: body}
}

// Name returns the unit's name as used in diagnostics and registries.
func (u *Unit) Name() string { return u.name }

// Declare marks an explicit empty contract: no inputs, no outputs.
func (u *Unit) Declare() *Unit {
	u.ct.mustBeOpen()
	u.ct.declared = true
	return u
}

// In declares required input keys.
func (u *Unit) In(keys ...string) *Unit {
	u.ct.addInputs(true, keys...)
	return u
}

// Opt declares optional input keys.
func (u *Unit) Opt(keys ...string) *Unit {
	u.ct.addInputs(false, keys...)
	return u
}

// Out declares output keys the body must set on a successful exit.
func (u *Unit) Out(keys ...string) *Unit {
	u.ct.addOutputs(keys...)
	return u
}

// Pre declares the unit's precondition gate.
func (u *Unit) Pre(p Precondition) *Unit {
	u.ct.setPre(p)
	return u
}

// Exec is the ephemeral execution instance for a single unit invocation. It
// holds the bound inputs and the mutable output accumulator and is discarded
// when the invocation returns.
type Exec struct {
	unit   *Unit
	inputs Outcome
	out    Outcome
}

// Input returns the bound input under key.
func (e *Exec) Input(key string) (any, bool) {
	v, ok := e.inputs[key]
	return v, ok
}

// String returns the bound input under key if it is a string, else "".
func (e *Exec) String(key string) string { return e.inputs.String(key) }

// Int returns the bound input under key if it is an int, else 0.
func (e *Exec) Int(key string) int { return e.inputs.Int(key) }

// Set records an output value in the accumulator. Keys outside the declared
// output contract are flagged during output validation.
func (e *Exec) Set(key string, v any) { e.out[key] = v }

// AddMessage appends messages to the accumulator without touching the
// success flag.
func (e *Exec) AddMessage(msgs ...string) { e.out.appendMessages(msgs...) }

// Abort marks the invocation failed, appends the given messages and returns
// the unwind signal the body must propagate with an immediate return.
func (e *Exec) Abort(msgs ...string) error {
	e.out.fail(msgs...)
	return errAborted
}

// Call invokes the unit against the bound inputs and returns its Outcome.
// Domain failures are reported only through the outcome's success flag;
// Call panics solely for the configuration error of an undeclared contract.
func (u *Unit) Call(inputs Outcome) Outcome {
	if !u.ct.declared {
		panic(fmt.Errorf("unit %q: %w", u.name, ErrUndeclared))
	}
	u.ct.sealed = true
	if inputs == nil {
		inputs = Outcome{}
	}
	e := &Exec{unit: u, inputs: inputs, out: NewOutcome()}

	// Required-input validation strictly precedes precondition evaluation.
	missing := false
	for _, in := range u.ct.inputs {
		if !in.required {
			continue
		}
		if _, ok := inputs[in.key]; !ok {
			e.out.fail(fmt.Sprintf("required input %q is missing", in.key))
			missing = true
		}
	}
	if missing {
		u.logInvocation(inputs, "aborted (missing required inputs)")
		return e.out
	}

	switch {
	case u.ct.pre == nil:
		u.logInvocation(inputs, "executing (no guard)")
	case u.ct.pre(e):
		u.logInvocation(inputs, "executing (guard=true)")
	default:
		u.logInvocation(inputs, "skipped (guard=false)")
		e.out[KeySkipped] = true
		return e.out
	}

	u.runBody(e)
	return e.out
}

// MustCall invokes the unit and panics with a FailureError carrying the
// joined messages when the outcome is unsuccessful.
func (u *Unit) MustCall(inputs Outcome) Outcome {
	out := u.Call(inputs)
	if !out.Successful() {
		panic(&FailureError{Unit: u.name, Outcome: out})
	}
	return out
}

func (u *Unit) runBody(e *Exec) {
	if u.body != nil {
		if err := u.body(e); err != nil {
			if !errors.Is(err, errAborted) {
				e.out.fail(err.Error())
			}
			return
		}
	}
	if !e.out.Successful() {
		return
	}
	u.validateOutputs(e)
}

// validateOutputs mirrors the required-input policy for outputs: violations
// append messages and flip the success flag without raising.
func (u *Unit) validateOutputs(e *Exec) {
	for _, key := range u.ct.outputs {
		if _, ok := e.out[key]; !ok {
			e.out.fail(fmt.Sprintf("declared output %q was not set", key))
		}
	}

	allowed := map[string]bool{KeySuccessful: true, KeyMessages: true}
	for _, key := range u.ct.outputs {
		allowed[key] = true
	}
	var stray []string
	for key := range e.out {
		if !allowed[key] {
			stray = append(stray, key)
		}
	}
	sort.Strings(stray)
	for _, key := range stray {
		e.out.fail(fmt.Sprintf("undeclared output key %q was set", key))
	}
}

func (u *Unit) logInvocation(inputs Outcome, disposition string) {
	logInfo(fmt.Sprintf("unit=%s inputs=%s %s", u.name, inputs.preview(inputPreviewLimit), disposition))
}
