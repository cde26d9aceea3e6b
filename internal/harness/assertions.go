package harness

import (
	"fmt"
	"slices"
)

// check compares an outcome against its expectations and returns one
// message per mismatch.
func check(want Expect, got Outcome) []string {
	var mismatches []string

	status := want.Status
	if status == "" && want.ErrorCode != "" {
		status = StatusRejected
	}
	if status != "" && got.Status != status {
		msg := fmt.Sprintf("status = %q, want %q", got.Status, status)
		if got.Error != "" {
			msg += fmt.Sprintf(" (%s)", got.Error)
		}
		mismatches = append(mismatches, msg)
	}
	if want.ErrorCode != "" && got.ErrorCode != want.ErrorCode {
		mismatches = append(mismatches, fmt.Sprintf("error_code = %q, want %q", got.ErrorCode, want.ErrorCode))
	}
	if want.ConstraintCount != nil && got.ConstraintCount != *want.ConstraintCount {
		mismatches = append(mismatches, fmt.Sprintf("constraint_count = %d, want %d", got.ConstraintCount, *want.ConstraintCount))
	}
	if want.IISTypes != nil && !sameMultiset(got.IISTypes, want.IISTypes) {
		mismatches = append(mismatches, fmt.Sprintf("iis_types = %v, want %v", got.IISTypes, want.IISTypes))
	}
	if want.MinimalityInIIS != nil && got.MinimalityInIIS != *want.MinimalityInIIS {
		mismatches = append(mismatches, fmt.Sprintf("minimality_in_iis = %t, want %t", got.MinimalityInIIS, *want.MinimalityInIIS))
	}
	if want.ObjectiveDelta != nil {
		switch {
		case got.ObjectiveDelta == nil:
			mismatches = append(mismatches, fmt.Sprintf("objective_difference missing, want %g", *want.ObjectiveDelta))
		case *got.ObjectiveDelta != *want.ObjectiveDelta:
			mismatches = append(mismatches, fmt.Sprintf("objective_difference = %g, want %g", *got.ObjectiveDelta, *want.ObjectiveDelta))
		}
	}
	if want.Description != "" && got.Description != want.Description {
		mismatches = append(mismatches, fmt.Sprintf("description = %q, want %q", got.Description, want.Description))
	}
	return mismatches
}

// sameMultiset compares string lists ignoring order.
func sameMultiset(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	a := slices.Clone(got)
	b := slices.Clone(want)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
