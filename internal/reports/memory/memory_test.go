package memory

import (
	"context"
	"testing"

	ports "gradeview/internal/reports"
)

func TestMemoryStoreAppendPayouts(t *testing.T) {
	s := New()

	rows := []ports.PayoutRow{
		{SellerID: "seller_1", SellerName: "Aling Nena", Orders: 3, TotalCentavos: 45000},
		{SellerID: "seller_2", SellerName: "Mang Ben", Orders: 1, TotalCentavos: 12000},
	}

	ref, err := s.AppendPayouts(context.Background(), 2025, 6, rows)
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	exports := s.Exports()
	if len(exports) != 1 {
		t.Fatalf("Exports() len = %d, want 1", len(exports))
	}
	if exports[0].Year != 2025 || exports[0].Month != 6 {
		t.Errorf("export period = %d-%d, want 2025-6", exports[0].Year, exports[0].Month)
	}
	if len(exports[0].Rows) != 2 {
		t.Errorf("export rows = %d, want 2", len(exports[0].Rows))
	}
}

func TestMemoryStoreRejectsInvalidMonth(t *testing.T) {
	s := New()

	if _, err := s.AppendPayouts(context.Background(), 2025, 13, nil); err == nil {
		t.Error("AppendPayouts should reject month 13")
	}
	if _, err := s.AppendPayouts(context.Background(), 2025, 0, nil); err == nil {
		t.Error("AppendPayouts should reject month 0")
	}
}
