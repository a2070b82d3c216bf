package client

import (
	"context"
	"errors"
	"sync"
)

// FormState is the lead form's current phase.
type FormState string

const (
	// FormIdle means the form is editable and has not been submitted.
	FormIdle FormState = "idle"
	// FormSubmitting means a submission is in flight.
	FormSubmitting FormState = "submitting"
	// FormSuccess means the last submission was accepted.
	FormSuccess FormState = "success"
	// FormError means the last submission failed; values are preserved
	// for correction.
	FormError FormState = "error"
)

// ErrSubmissionInFlight is returned when Submit is called while a
// submission is already running.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// LeadSubmitter submits a lead and returns its assigned ID. *Client
// satisfies this.
type LeadSubmitter interface {
	SubmitLead(ctx context.Context, lead Lead) (string, error)
}

// LeadForm tracks a lead submission through its lifecycle. A failed
// submission keeps the entered values so the user can correct and retry;
// only an explicit Reset clears them.
type LeadForm struct {
	mu        sync.Mutex
	state     FormState
	values    Lead
	lastErr   error
	leadID    string
	submitter LeadSubmitter
}

// NewLeadForm creates an idle form using the given submitter.
func NewLeadForm(submitter LeadSubmitter) *LeadForm {
	return &LeadForm{
		state:     FormIdle,
		submitter: submitter,
	}
}

// State returns the current phase.
func (f *LeadForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Values returns the currently entered values.
func (f *LeadForm) Values() Lead {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Err returns the error from the last failed submission, if any.
func (f *LeadForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// LeadID returns the ID assigned by the last successful submission.
func (f *LeadForm) LeadID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leadID
}

// SetValues stores the entered values without submitting.
func (f *LeadForm) SetValues(values Lead) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = values
}

// Submit sends the given values to the gateway. On failure the values are
// preserved and the error is retained for display; a retry is another
// Submit call. Submitting while a submission is in flight is rejected.
func (f *LeadForm) Submit(ctx context.Context, values Lead) (string, error) {
	f.mu.Lock()
	if f.state == FormSubmitting {
		f.mu.Unlock()
		return "", ErrSubmissionInFlight
	}
	f.values = values
	f.state = FormSubmitting
	f.lastErr = nil
	f.mu.Unlock()

	id, err := f.submitter.SubmitLead(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = FormError
		f.lastErr = err
		return "", err
	}

	f.state = FormSuccess
	f.leadID = id
	return id, nil
}

// Reset returns the form to idle and clears values, error, and lead ID.
// Reset during an in-flight submission is rejected.
func (f *LeadForm) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormSubmitting {
		return ErrSubmissionInFlight
	}
	f.state = FormIdle
	f.values = Lead{}
	f.lastErr = nil
	f.leadID = ""
	return nil
}
