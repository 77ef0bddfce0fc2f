package carteira

import (
	"math"
	"testing"

	"github.com/etnz/carteira/date"
)

// D is a helper for tests to create a date from a literal.
func D(s string) date.Date { return date.MustParse(s) }

// near fails the test when got is farther than tol from want.
func near(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, tol)
	}
}
