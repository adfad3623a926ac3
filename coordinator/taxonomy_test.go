package coordinator

import "testing"

func TestVerifierSelector(t *testing.T) {
	cases := []struct {
		kind ProverKind
		want string
		ok   bool
	}{
		{ProverExec, "", false},
		{ProverRisc0, "R0VERIFIER()", true},
		{ProverSP1, "SP1VERIFIER()", true},
		{ProverPico, "PICOVERIFIER()", true},
	}
	for _, c := range cases {
		got, ok := c.kind.VerifierSelector()
		if got != c.want || ok != c.ok {
			t.Errorf("%s: got (%q, %v), want (%q, %v)", c.kind, got, ok, c.want, c.ok)
		}
	}
}

func TestEmptyCalldataShapes(t *testing.T) {
	values, types, ok := ProverExec.EmptyCalldata()
	if ok || values != nil || types != nil {
		t.Fatalf("exec: expected (nil, nil, false), got (%v, %v, %v)", values, types, ok)
	}

	for _, kind := range []ProverKind{ProverRisc0, ProverSP1, ProverPico} {
		values, types, ok := kind.EmptyCalldata()
		if !ok {
			t.Fatalf("%s: expected ok", kind)
		}
		if len(values) != 2 || len(types) != 2 {
			t.Fatalf("%s: expected 2 positional values/types, got %d/%d", kind, len(values), len(types))
		}
	}

}
