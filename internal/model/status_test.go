package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionTransitions(t *testing.T) {
	// Pending can be decided either way.
	assert.True(t, CanTransitionSubmission(SubmissionPending, SubmissionApproved))
	assert.True(t, CanTransitionSubmission(SubmissionPending, SubmissionRejected))

	// Rejected can be re-opened, nothing else.
	assert.True(t, CanTransitionSubmission(SubmissionRejected, SubmissionPending))
	assert.False(t, CanTransitionSubmission(SubmissionRejected, SubmissionApproved))

	// Approved is terminal.
	assert.False(t, CanTransitionSubmission(SubmissionApproved, SubmissionPending))
	assert.False(t, CanTransitionSubmission(SubmissionApproved, SubmissionRejected))

	// Self-loops and unknown statuses are refused.
	assert.False(t, CanTransitionSubmission(SubmissionPending, SubmissionPending))
	assert.False(t, CanTransitionSubmission("nonsense", SubmissionApproved))
}

func TestRentalTransitions(t *testing.T) {
	assert.True(t, CanTransitionRental(RentalPending, RentalAccepted))
	assert.True(t, CanTransitionRental(RentalPending, RentalRejected))
	assert.True(t, CanTransitionRental(RentalPending, RentalCancelled))

	// Every decided state is terminal.
	for _, from := range []string{RentalAccepted, RentalRejected, RentalCancelled} {
		for _, to := range []string{RentalPending, RentalAccepted, RentalRejected, RentalCancelled} {
			assert.False(t, CanTransitionRental(from, to), "%s -> %s should be refused", from, to)
		}
	}
}

func TestValidStatuses(t *testing.T) {
	assert.True(t, ValidSubmissionStatus(SubmissionPending))
	assert.True(t, ValidSubmissionStatus(SubmissionApproved))
	assert.False(t, ValidSubmissionStatus("verified"))

	assert.True(t, ValidRentalStatus(RentalCancelled))
	assert.False(t, ValidRentalStatus(""))
}

func TestListingVocabulary(t *testing.T) {
	assert.True(t, ValidCategory("flat"))
	assert.False(t, ValidCategory("castle"))
	assert.True(t, ValidSubcategory("2bhk"))
	assert.False(t, ValidSubcategory("10bhk"))
	assert.True(t, ValidImageLabel("kitchen"))
	assert.False(t, ValidImageLabel("garage"))
	assert.True(t, ValidPropertyDocumentType("title_deed"))
	assert.False(t, ValidPropertyDocumentType("aadhaar"))
}
