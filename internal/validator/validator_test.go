package validator

import "testing"

func TestValidator(t *testing.T) {
	t.Run("a new validator is valid", func(t *testing.T) {
		v := New()
		if !v.Valid() {
			t.Error("expected a new validator to be valid")
		}
	})

	t.Run("a failed check records one error per key", func(t *testing.T) {
		v := New()
		v.Check(false, "score", "must be at least one")
		v.Check(false, "score", "must not be greater than five")
		if v.Valid() {
			t.Error("expected validator to be invalid")
		}
		if v.Errors["score"] != "must be at least one" {
			t.Errorf("expected the first error to be kept; got %q", v.Errors["score"])
		}
	})

	t.Run("a passing check records nothing", func(t *testing.T) {
		v := New()
		v.Check(true, "score", "must be at least one")
		if !v.Valid() {
			t.Errorf("expected validator to be valid; got %v", v.Errors)
		}
	})
}

func TestPermittedValue(t *testing.T) {
	if !PermittedValue("approved", "pending", "approved", "rejected") {
		t.Error("expected approved to be permitted")
	}
	if PermittedValue("hidden", "pending", "approved", "rejected") {
		t.Error("expected hidden not to be permitted")
	}
}

func TestMatches(t *testing.T) {
	if !Matches("traveler@example.com", EmailRX) {
		t.Error("expected address to match")
	}
	if Matches("not-an-email", EmailRX) {
		t.Error("expected address not to match")
	}
}
