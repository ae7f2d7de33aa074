package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsMatchTheirKind(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{Validationf("bad input %d", 7), ErrValidation},
		{NotFoundf("missing"), ErrNotFound},
		{Conflictf("duplicate"), ErrConflict},
		{Accessf("wrong subscription"), ErrAccess},
		{Capacityf("too many"), ErrCapacity},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("%v must match kind %v", tc.err, tc.kind)
		}
		for _, other := range cases {
			if other.kind == tc.kind {
				continue
			}
			if errors.Is(tc.err, other.kind) {
				t.Fatalf("%v must not match kind %v", tc.err, other.kind)
			}
		}
	}
}

func TestErrorMessageKeepsFormatting(t *testing.T) {
	err := Validationf("invalid stock level %q", "PLENTY")
	if err.Error() != `invalid stock level "PLENTY"` {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("outer context: %w", NotFoundf("item not found"))
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("kind must survive fmt.Errorf wrapping")
	}
}
