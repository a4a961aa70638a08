// Package define is the declarative shorthand layer over the core contract
// APIs. A fluent builder replaces signature introspection: required inputs,
// optional inputs, outputs and the precondition are named explicitly, and a
// struct type can stand in for the key list through field tags. Units built
// here are indistinguishable from units declared through core directly.
package define

import (
	"errors"
	"fmt"

	"github.com/alt-coder/stepchain-go/core"
)

// Configuration errors reported by Build.
var (
	// ErrMixedDeclaration reports a builder combining explicit contract
	// keys with struct-derived keys.
	ErrMixedDeclaration = errors.New("explicit contract keys cannot be combined with struct-derived keys")

	// ErrOrphanPrecondition reports a precondition declared before any
	// contract keys were declared.
	ErrOrphanPrecondition = errors.New("precondition declared before any contract keys")
)

// Builder accumulates a unit declaration. The zero value is not usable; use
// Unit or FromStruct.
type Builder struct {
	name     string
	ins      []string
	opts     []string
	outs     []string
	pre      core.Precondition
	body     core.Body
	explicit bool
	derived  bool
	err      error
}

// Unit starts a builder for a unit with the given name.
func Unit(name string) *Builder {
	return &Builder{name: name}
}

// In declares required input keys.
func (b *Builder) In(keys ...string) *Builder {
	if b.markExplicit() {
		b.ins = append(b.ins, keys...)
	}
	return b
}

// Opt declares optional input keys.
func (b *Builder) Opt(keys ...string) *Builder {
	if b.markExplicit() {
		b.opts = append(b.opts, keys...)
	}
	return b
}

// Out declares output keys.
func (b *Builder) Out(keys ...string) *Builder {
	if b.markExplicit() {
		b.outs = append(b.outs, keys...)
	}
	return b
}

// Pre declares the precondition. Contract keys must be declared first; a
// precondition with no contract to gate is a configuration error.
func (b *Builder) Pre(p core.Precondition) *Builder {
	if !b.explicit && !b.derived {
		return b.fail(ErrOrphanPrecondition)
	}
	b.pre = p
	return b
}

// Body sets the unit's work function.
func (b *Builder) Body(fn core.Body) *Builder {
	b.body = fn
	return b
}

// Build assembles the unit, reporting the first configuration error
// recorded while declaring.
func (b *Builder) Build() (*core.Unit, error) {
	if b.err != nil {
		return nil, fmt.Errorf("define unit %q: %w", b.name, b.err)
	}
	u := core.NewUnit(b.name, b.body).Declare()
	if len(b.ins) > 0 {
		u.In(b.ins...)
	}
	if len(b.opts) > 0 {
		u.Opt(b.opts...)
	}
	if len(b.outs) > 0 {
		u.Out(b.outs...)
	}
	if b.pre != nil {
		u.Pre(b.pre)
	}
	return u, nil
}

// MustBuild is Build panicking on configuration errors, for package-level
// unit variables.
func (b *Builder) MustBuild() *core.Unit {
	u, err := b.Build()
	if err != nil {
		panic(err)
	}
	return u
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) markExplicit() bool {
	if b.derived {
		b.fail(ErrMixedDeclaration)
		return false
	}
	b.explicit = true
	return true
}
