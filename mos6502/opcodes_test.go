package mos6502

import "testing"

// TestDocumentedOpcodeCount checks the table covers exactly the 151
// documented legal opcodes and nothing else.
func TestDocumentedOpcodeCount(t *testing.T) {
	if got := len(opcodes); got != 151 {
		t.Errorf("len(opcodes) = %d, want 151", got)
	}
}

func TestRWGroupClassification(t *testing.T) {
	cases := []struct {
		mn   Mnemonic
		want opGroup
	}{
		{STA, groupWrite},
		{STX, groupWrite},
		{STY, groupWrite},
		{ASL, groupRMW},
		{LSR, groupRMW},
		{ROL, groupRMW},
		{ROR, groupRMW},
		{INC, groupRMW},
		{DEC, groupRMW},
		{LDA, groupRead},
		{ADC, groupRead},
		{NOP, groupRead},
	}
	for _, c := range cases {
		if got := rwGroup(c.mn); got != c.want {
			t.Errorf("rwGroup(%s) = %v, want %v", c.mn, got, c.want)
		}
	}
}

func TestAddressingModeString(t *testing.T) {
	if got := Immediate.String(); got == "" {
		t.Error("Immediate.String() is empty")
	}
	if got := IndirectY.String(); got == "" {
		t.Error("IndirectY.String() is empty")
	}
}
