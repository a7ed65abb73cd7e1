package model

import "testing"

func TestHumanoidErrorIDsAreNonEmptyAndUnique(t *testing.T) {
	if ErrIDMandatoryRoleMissing != "21001" {
		t.Fatalf("mandatory role id mismatch: got=%s want=%s", ErrIDMandatoryRoleMissing, "21001")
	}

	errorIDs := []string{
		ErrIDMandatoryRoleMissing,
		ErrIDNotSkeleton,
		ErrIDWrongMode,
		ErrIDBoneNotFound,
		ErrIDInvalidHeight,
		ErrIDInvalidScaleFactor,
		ErrIDDriverExpression,
		ErrIDDependencyCycle,
		ErrIDParseFailed,
		ErrIDFormatNotSupported,
	}

	seen := map[string]struct{}{}
	for _, errorID := range errorIDs {
		if errorID == "" {
			t.Fatalf("error id should not be empty")
		}
		if len(errorID) != 5 {
			t.Fatalf("error id should have five digits: %s", errorID)
		}
		if _, exists := seen[errorID]; exists {
			t.Fatalf("error id should be unique: %s", errorID)
		}
		seen[errorID] = struct{}{}
	}
}
