package block

import "testing"

func TestIsSolid(t *testing.T) {
	tests := []struct {
		t     Type
		solid bool
	}{
		{Air, false},
		{Water, false},
		{Stone, true},
		{Sand, true},
		{Dirt, true},
		{Grass, true},
		{Wood, true},
		{Tree, true},
		{Leaves, true},
		{GameCube, true},
	}
	for _, tt := range tests {
		if got := IsSolid(tt.t); got != tt.solid {
			t.Errorf("IsSolid(%v) = %v, want %v", tt.t, got, tt.solid)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, k := range All() {
		got, err := Parse(k.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", k.String(), err)
		}
		if got != k {
			t.Errorf("Parse(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if _, err := Parse("bedrock"); err == nil {
		t.Error("expected error for unknown block name")
	}
}

func TestValid(t *testing.T) {
	if !Valid(GameCube) {
		t.Error("GameCube should be valid")
	}
	if Valid(Type(200)) {
		t.Error("Type(200) should not be valid")
	}
	if s := Type(200).String(); s != "block(200)" {
		t.Errorf("String() = %q", s)
	}
}
