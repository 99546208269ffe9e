package cli

import (
	"fmt"
	"time"

	"github.com/danmarmu/trading-journal-app/model"
)

// plural formats n with the singular or plural noun.
func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// checkDate rejects values that are not calendar dates in model.DateLayout.
// Ledger dates compare as text, so any other format would sort wrongly.
func checkDate(flag, v string) error {
	if _, err := time.Parse(model.DateLayout, v); err != nil {
		return fmt.Errorf("--%s must be a date like 2024-01-31, got %q", flag, v)
	}
	return nil
}
