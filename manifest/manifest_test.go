package manifest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alt-coder/stepchain-go/core"
)

const settlementManifest = `
name: settle-invoice
units:
  - load_invoice
  - apply_payment
`

func TestLoad_ParsesManifest(t *testing.T) {
	m, err := Load([]byte(settlementManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Manifest{
		Name:  "settle-invoice",
		Units: []string{"load_invoice", "apply_payment"},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		fragment string
	}{
		{
			name:     "invalid yaml",
			doc:      "name: [unterminated",
			fragment: "manifest:",
		},
		{
			name:     "missing name",
			doc:      "units:\n  - a\n",
			fragment: "name is required",
		},
		{
			name:     "no units",
			doc:      "name: empty\n",
			fragment: "at least one unit",
		},
		{
			name:     "duplicate unit",
			doc:      "name: dup\nunits:\n  - a\n  - a\n",
			fragment: `unit "a" listed twice`,
		},
		{
			name:     "empty unit name",
			doc:      "name: blank\nunits:\n  - \"\"\n",
			fragment: "empty unit name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.fragment) {
				t.Errorf("expected error containing %q, got %q", tt.fragment, err)
			}
		})
	}
}

func TestRegistry_Add(t *testing.T) {
	reg := NewRegistry()
	unit := core.NewUnit("load_invoice", nil).Declare()
	if err := reg.Add(unit); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := reg.Add(core.NewUnit("load_invoice", nil).Declare()); err == nil {
		t.Error("expected duplicate-name error")
	}
	if err := reg.Add(nil); err == nil {
		t.Error("expected nil-unit error")
	}
	if err := reg.Add(core.NewUnit("", nil).Declare()); err == nil {
		t.Error("expected unnamed-unit error")
	}

	got, ok := reg.Get("load_invoice")
	if !ok || got != unit {
		t.Error("Get must return the registered unit")
	}
}

func TestManifest_Build_UnknownUnit(t *testing.T) {
	m, err := Load([]byte(settlementManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	reg := NewRegistry()
	if err := reg.Add(core.NewUnit("load_invoice", nil).Declare()); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err = m.Build(reg)
	if err == nil || !strings.Contains(err.Error(), `unknown unit "apply_payment"`) {
		t.Errorf("expected unknown-unit error, got %v", err)
	}
}

func TestManifest_Build_RunsResolvedChain(t *testing.T) {
	reg := NewRegistry()
	err := reg.Add(
		core.NewUnit("load_invoice", func(e *core.Exec) error {
			e.Set("invoice", "inv-"+e.String("invoice_id"))
			return nil
		}).In("invoice_id").Out("invoice"),
		core.NewUnit("apply_payment", func(e *core.Exec) error {
			e.Set("settled", true)
			return nil
		}).In("invoice").Out("settled"),
	)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	m, err := Load([]byte(settlementManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	chain, err := m.Build(reg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var acc core.Outcome
	core.Silenced(func() {
		acc, err = chain.Call(core.Outcome{"invoice_id": "42"})
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}

	want := core.Outcome{
		core.KeySuccessful: true,
		core.KeyMessages:   []string{},
		"invoice_id":       "42",
		"invoice":          "inv-42",
		"settled":          true,
	}
	if diff := cmp.Diff(want, acc); diff != "" {
		t.Errorf("accumulator mismatch (-want +got):\n%s", diff)
	}
}
