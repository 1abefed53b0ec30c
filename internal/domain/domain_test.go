package domain

import (
	"encoding/json"
	"testing"
)

func TestValidCNPJ(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"11.222.333/0001-81", true},
		{"11222333000181", true},
		{"11.444.777/0001-61", true},
		{"11222333000182", false},
		{"11111111111111", false},
		{"1122233300018", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidCNPJ(tt.in); got != tt.want {
			t.Fatalf("ValidCNPJ(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOnlyDigits(t *testing.T) {
	if got := OnlyDigits("12.345-6/7a"); got != "1234567" {
		t.Fatalf("OnlyDigits = %q", got)
	}
}

func TestPecaMargem(t *testing.T) {
	p := Peca{ValorCusto: 50, ValorVenda: 75}
	if got := p.Margem(); got != 0.5 {
		t.Fatalf("Margem() = %v, want 0.5", got)
	}
	if got := (&Peca{ValorVenda: 10}).Margem(); got != 0 {
		t.Fatalf("Margem() with zero cost = %v, want 0", got)
	}
}

func TestPecaJSONIncludesMargem(t *testing.T) {
	b, err := json.Marshal(&Peca{ID: 3, NomePeca: "Polia", ValorCusto: 40, ValorVenda: 50})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["margem"] != 0.25 || got["nome_peca"] != "Polia" || got["id"] != float64(3) {
		t.Fatalf("json = %s", b)
	}

	var back Peca
	if err := json.Unmarshal(b, &back); err != nil || back.ValorVenda != 50 {
		t.Fatalf("round trip = %+v, %v", back, err)
	}
}
