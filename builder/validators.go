// Package builder provides validation helpers to enforce parameter
// contracts in Constructor factories.
package builder

// validateMin ensures that the provided integer 'got' is ≥ 'min'.
// Returns "<Method>: parameter must be ≥ <min>, got <got>: ErrTooFewCells".
// Complexity: O(1) time and space.
func validateMin(method string, got, min int) error {
	if got < min {
		return builderErrorf(method, ErrTooFewCells, "parameter must be ≥ %d, got %d", min, got)
	}
	return nil
}

// validateFraction enforces 0 ≤ f < max.
func validateFraction(method string, f, max float64) error {
	if f < 0 || f >= max {
		return builderErrorf(method, ErrFraction, "fraction must be in [0,%g), got %g", max, f)
	}
	return nil
}
