package constant

import "testing"

func TestZeroValueIsNotAConstant(t *testing.T) {
	var v Value
	if v.IsConstant() || v.Kind() != NotAConstant {
		t.Fatalf("zero Value should be NotAConstant, got %s", v.Kind())
	}
	if !v.Equal(Unknown) {
		t.Error("zero Value should equal Unknown")
	}
}

func TestEnumOrdinalEncoding(t *testing.T) {
	tests := []struct {
		ordinal int
		key     int64
	}{
		{0, 1},
		{3, 4},
	}
	for _, tt := range tests {
		v := MakeEnumOrdinal(tt.ordinal)
		if v.Kind() != EnumOrdinal {
			t.Fatalf("expected EnumOrdinal, got %s", v.Kind())
		}
		if v.Int64() != tt.key {
			t.Errorf("ordinal %d: expected key %d, got %d", tt.ordinal, tt.key, v.Int64())
		}
		if v.Ordinal() != tt.ordinal {
			t.Errorf("ordinal %d decoded as %d", tt.ordinal, v.Ordinal())
		}
	}
	if MakeInt(1).Ordinal() != -1 {
		t.Error("Ordinal of an Int should be -1")
	}
}

func TestEqualDistinguishesKinds(t *testing.T) {
	if MakeInt(1).Equal(MakeEnumOrdinal(0)) {
		t.Error("Int(1) must not equal EnumOrdinal(0) even though both carry 1")
	}
	if MakeInt(1).Equal(MakeBool(true)) {
		t.Error("Int(1) must not equal Bool(true)")
	}
	if !MakeString("a").Equal(MakeString("a")) {
		t.Error("equal strings should compare equal")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{MakeInt(-5), "-5"},
		{MakeBool(true), "true"},
		{MakeString("x"), `"x"`},
		{MakeEnumOrdinal(2), "ordinal#3"},
		{Unknown, "<not a constant>"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}
