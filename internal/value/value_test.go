package value

import (
	"testing"

	"github.com/kr/pretty"
)

func TestTypeMaskUnion(t *testing.T) {
	tests := []struct {
		name  string
		kinds []Kind
	}{
		{"single", []Kind{KindMachineInteger}},
		{"pair", []Kind{KindMachineInteger, KindString}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m TypeMask
			for _, k := range tt.kinds {
				m |= MaskOf(k)
			}
			for _, k := range tt.kinds {
				if !m.Has(MaskOf(k)) {
					t.Errorf("union of %v missing constituent %v", tt.kinds, k)
				}
			}
		})
	}
}

func TestTypeMaskOverlaps(t *testing.T) {
	a := MaskOf(KindMachineInteger) | MaskOf(KindBigInteger)
	b := MaskOf(KindString)
	if a.Overlaps(b) {
		t.Errorf("disjoint masks reported as overlapping: %v vs %v", a, b)
	}
	c := MaskOf(KindBigInteger)
	if !a.Overlaps(c) {
		t.Errorf("expected %v to overlap %v", a, c)
	}
}

func TestEqualityByValue(t *testing.T) {
	f := NewSymbol("f", 0)
	a := NewExpression(f, []Expression{MachineInteger(1), MachineInteger(2)})
	b := NewExpression(f, []Expression{MachineInteger(1), MachineInteger(2)})
	if !a.Equal(b) {
		t.Errorf("structurally identical expressions compared unequal:\n%s", pretty.Sprint(a))
	}

	c := NewExpression(f, []Expression{MachineInteger(1), MachineInteger(3)})
	if a.Equal(c) {
		t.Errorf("structurally different expressions compared equal")
	}
}

func TestHashStability(t *testing.T) {
	f := NewSymbol("f", 0)
	a := NewExpression(f, []Expression{MachineInteger(7), String("x")})
	b := NewExpression(f, []Expression{MachineInteger(7), String("x")})
	if a.Hash() != b.Hash() {
		t.Errorf("equal expressions hashed differently: %d vs %d", a.Hash(), b.Hash())
	}
	if a.Hash() != a.Hash() {
		t.Errorf("hash is not stable across repeated calls")
	}
}

func TestApplyNoOpWhenUnchanged(t *testing.T) {
	orig := NewExpression(NewSymbol("f", 0), []Expression{MachineInteger(1), MachineInteger(2)})
	result := Apply(orig, orig.Head(), 0, orig.Leaves().Size(), func(e Expression) (Expression, bool) {
		return nil, false
	}, AnyMask)
	if result != Unchanged {
		t.Errorf("Apply returned %#v when every leaf declined; want the Unchanged sentinel", result)
	}
}

func TestApplyPrefixSharing(t *testing.T) {
	orig := NewExpression(NewSymbol("f", 0), []Expression{
		MachineInteger(1), MachineInteger(2), MachineInteger(3),
	})
	result := Apply(orig, orig.Head(), 0, orig.Leaves().Size(), func(e Expression) (Expression, bool) {
		if mi, ok := e.(MachineInteger); ok && mi == 2 {
			return MachineInteger(20), true
		}
		return nil, false
	}, AnyMask)

	out, ok := result.(*Expr)
	if !ok {
		t.Fatalf("expected *Expr result, got %T (%s)", result, pretty.Sprint(result))
	}
	if out.Leaves().At(0) != orig.Leaves().At(0) {
		t.Errorf("prefix leaf before the change should be shared, not copied")
	}
	if !out.Leaves().At(1).Equal(MachineInteger(20)) {
		t.Errorf("expected leaf 1 to become 20, got %v", out.Leaves().At(1))
	}
}

func TestFullFormRoundTripText(t *testing.T) {
	e := NewExpression(NewSymbol("f", 0), []Expression{MachineInteger(1), String("a")})
	got := FullForm(e)
	want := `f[1, "a"]`
	if got != want {
		t.Errorf("FullForm mismatch: got %q want %q", got, want)
	}
}
