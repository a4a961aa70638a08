package define

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alt-coder/stepchain-go/core"
)

func TestBuilder_MatchesExplicitDeclaration(t *testing.T) {
	body := func(e *core.Exec) error {
		e.Set("sum", e.Int("a")+e.Int("b"))
		return nil
	}

	built, err := Unit("adder").
		In("a", "b").
		Opt("note").
		Out("sum").
		Body(body).
		Build()
	require.NoError(t, err)

	explicit := core.NewUnit("adder", body).In("a", "b").Opt("note").Out("sum")

	inputs := core.Outcome{"a": 2, "b": 3}
	var builtOut, explicitOut core.Outcome
	core.Silenced(func() {
		builtOut = built.Call(inputs)
		explicitOut = explicit.Call(inputs)
	})
	assert.Equal(t, explicitOut, builtOut)
	assert.True(t, builtOut.Successful())
	assert.Equal(t, 5, builtOut.Int("sum"))
}

func TestBuilder_MissingRequiredInputStillValidated(t *testing.T) {
	built, err := Unit("strict").In("needed").Build()
	require.NoError(t, err)

	var out core.Outcome
	core.Silenced(func() {
		out = built.Call(core.Outcome{})
	})
	assert.False(t, out.Successful())
	assert.Contains(t, out.Messages()[0], `"needed"`)
}

func TestBuilder_PreconditionGatesBody(t *testing.T) {
	bodyRan := false
	built, err := Unit("gated").
		In("amount").
		Pre(func(e *core.Exec) bool { return e.Int("amount") > 0 }).
		Body(func(e *core.Exec) error {
			bodyRan = true
			return nil
		}).
		Build()
	require.NoError(t, err)

	var out core.Outcome
	core.Silenced(func() {
		out = built.Call(core.Outcome{"amount": 0})
	})
	assert.True(t, out.Successful())
	assert.True(t, out.Skipped())
	assert.False(t, bodyRan)
}

func TestBuilder_OrphanPrecondition(t *testing.T) {
	_, err := Unit("orphan").
		Pre(func(e *core.Exec) bool { return true }).
		In("late").
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOrphanPrecondition)
}

type transferParams struct {
	From    string `step:"from,in"`
	To      string `step:"to,in"`
	Amount  int    `step:"amount,in"`
	Memo    string `step:"memo,in,optional"`
	Receipt string `step:"receipt,out"`

	internal string // unexported, ignored
	Untagged string // no step tag, ignored
}

func TestFromStruct_DerivesContract(t *testing.T) {
	built, err := FromStruct[transferParams]("transfer").
		Body(func(e *core.Exec) error {
			e.Set("receipt", "r-1")
			return nil
		}).
		Build()
	require.NoError(t, err)

	// Required keys enforced.
	var out core.Outcome
	core.Silenced(func() {
		out = built.Call(core.Outcome{"from": "a", "to": "b"})
	})
	assert.False(t, out.Successful())
	assert.Len(t, out.Messages(), 1)
	assert.Contains(t, out.Messages()[0], `"amount"`)

	// Optional key may be omitted; output contract enforced.
	core.Silenced(func() {
		out = built.Call(core.Outcome{"from": "a", "to": "b", "amount": 10})
	})
	assert.True(t, out.Successful())
	assert.Equal(t, "r-1", out.String("receipt"))
}

func TestFromStruct_FallsBackToFieldName(t *testing.T) {
	type params struct {
		Account string `step:",in"`
	}
	built, err := FromStruct[params]("lookup").Build()
	require.NoError(t, err)

	var out core.Outcome
	core.Silenced(func() {
		out = built.Call(core.Outcome{})
	})
	assert.Contains(t, out.Messages()[0], `"account"`)
}

func TestFromStruct_RejectsMixedDeclaration(t *testing.T) {
	_, err := FromStruct[transferParams]("mixed").
		In("extra").
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMixedDeclaration)
}

func TestFromStruct_RejectsUnknownTagOption(t *testing.T) {
	type params struct {
		Field string `step:"field,inout"`
	}
	_, err := FromStruct[params]("bad_tag").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inout")
}

func TestFromStruct_RejectsOptionalOutput(t *testing.T) {
	type params struct {
		Field string `step:"field,out,optional"`
	}
	_, err := FromStruct[params]("bad_out").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outputs cannot be optional")
}

func TestFromStruct_RejectsNonStruct(t *testing.T) {
	_, err := FromStruct[int]("not_struct").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a struct type")
}

func TestMustBuild_PanicsOnConfigError(t *testing.T) {
	assert.Panics(t, func() {
		FromStruct[transferParams]("mixed").Out("extra").MustBuild()
	})
	assert.NotPanics(t, func() {
		Unit("fine").In("a").MustBuild()
	})
}
