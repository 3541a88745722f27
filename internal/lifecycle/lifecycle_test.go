package lifecycle

import "testing"

func TestInitial(t *testing.T) {
	if Initial() != StatusUnderReview {
		t.Fatalf("expected initial status %q, got %q", StatusUnderReview, Initial())
	}
}

func TestIsValid(t *testing.T) {
	for _, s := range All {
		if !IsValid(s) {
			t.Fatalf("expected %q to be a valid status", s)
		}
	}
	if IsValid("concluded") {
		t.Fatal("unexpected status accepted")
	}
	if IsValid("") {
		t.Fatal("empty status accepted")
	}
	if IsValid("em análise") {
		t.Fatal("statuses are case sensitive; lowercased variant accepted")
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusUnderReview, StatusInProgress) {
		t.Fatal("expected Em Análise -> Em Andamento to be allowed")
	}
	if !CanTransition(StatusResolved, StatusReopened) {
		t.Fatal("expected Resolvido -> Reaberto to be allowed")
	}
	if !CanTransition(StatusCanceled, StatusUnderReview) {
		t.Fatal("expected Cancelado -> Em Análise to be allowed")
	}
	if CanTransition(StatusUnderReview, "archived") {
		t.Fatal("transition to unknown status allowed")
	}
	if CanTransition("archived", StatusUnderReview) {
		t.Fatal("transition from unknown status allowed")
	}
}
