package onboarding

import "fmt"

// ValidationError reports malformed step input. The caller re-shows the
// current step; no state advances.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DomainExtractionError reports that no organization domain could be derived
// from the identity's email. The organization step writes nothing.
type DomainExtractionError struct {
	Email string
}

func (e *DomainExtractionError) Error() string {
	return fmt.Sprintf("cannot derive an organization domain from email %q", e.Email)
}

// MissingOrganizationError reports that the profile step could not resolve a
// target organization from the invitation, the URL, or the session.
type MissingOrganizationError struct{}

func (e *MissingOrganizationError) Error() string {
	return "no organization resolved for this session"
}

// DependencyError wraps a store/storage/network failure. The step is
// unchanged; retry is the user re-submitting the same form.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// IntegrityError reports a later required write failing after an earlier
// write in the same step succeeded. The orphaned resource is left in place
// for manual reconciliation; the store offers no multi-row transaction.
type IntegrityError struct {
	Step   Step
	Orphan string
	Err    error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("step %s failed after creating %s: %v", e.Step, e.Orphan, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }
