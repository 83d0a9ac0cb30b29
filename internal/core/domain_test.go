package core

import "testing"

func TestGradeFromScore(t *testing.T) {
	cases := []struct {
		score float64
		want  Grade
	}{
		{0.95, GradeExport},
		{0.9, GradeExport},
		{0.89, GradeLocal},
		{0.8, GradeLocal},
		{0.79, GradeReject},
		{0.0, GradeReject},
	}
	for _, tc := range cases {
		if got := GradeFromScore(tc.score); got != tc.want {
			t.Errorf("GradeFromScore(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestOrderValidate(t *testing.T) {
	valid := Order{
		Date:     NewDate(2025, 6, 1),
		Amount:   Money{Centavos: 10000},
		Status:   StatusDelivered,
		SellerID: "s1",
		FishType: "Danggit",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Order)
		want   error
	}{
		{"zero amount", func(o *Order) { o.Amount.Centavos = 0 }, ErrInvalidAmount},
		{"bad status", func(o *Order) { o.Status = "archived" }, ErrInvalidStatus},
		{"no seller", func(o *Order) { o.SellerID = "  " }, ErrEmptySeller},
		{"no fish type", func(o *Order) { o.FishType = "" }, ErrEmptyFishType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			if err := o.Validate(); err != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestScanValidate(t *testing.T) {
	sc := Scan{Date: NewDate(2025, 6, 1), FishType: "Pusit", Score: 0.85}
	if err := sc.Validate(); err != nil {
		t.Fatalf("valid scan rejected: %v", err)
	}
	sc.Score = 1.5
	if err := sc.Validate(); err != ErrInvalidScore {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
}

func TestDateValidate(t *testing.T) {
	if err := (Date{}).Validate(); err == nil {
		t.Fatal("zero date should be invalid")
	}
	if err := NewDate(2024, 2, 29).Validate(); err != nil {
		t.Fatalf("leap day should be valid: %v", err)
	}
}
