package dates_test

import (
	"testing"

	"github.com/finradar/bankcrawl/internal/dates"
)

func TestLooksLikeDate_RecognizedShapes(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"27 октября 2025",
		"27 ОКТЯБРЯ 2025",
		"27.10.2025",
		"27/10/2025",
		"2025-10-27",
		"27 октября",
		"2 часа назад",
		"5 дней назад",
		"1 неделю назад",
		"3 hours ago",
		"2 days ago",
	}
	for _, s := range inputs {
		if !dates.LooksLikeDate(s) {
			t.Fatalf("expected %q to look like a date", s)
		}
	}
}

func TestLooksLikeDate_RejectsProse(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"Подпишитесь на рассылку",
		"читайте также",
		"назад",
		"октября",
		"Breaking news from the banking sector",
	}
	for _, s := range inputs {
		if dates.LooksLikeDate(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}
