package model

// Status enumerations for the verification and rental workflows.  The
// original product let admins move a record from any status to any other
// status; here the legal transitions are written down explicitly and
// everything else is rejected as a conflict.

// Account-level verification states stored on users and listings.
const (
	VerificationUnverified = "unverified"
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
	VerificationRejected   = "rejected"
)

// Submission states for identity and listing document review records.
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// Rental request states.
const (
	RentalPending   = "pending"
	RentalAccepted  = "accepted"
	RentalRejected  = "rejected"
	RentalCancelled = "cancelled"
)

// submissionTransitions lists which review statuses are reachable from each
// current status.  A rejected submission may be re-opened by an admin;
// approved is terminal.
var submissionTransitions = map[string][]string{
	SubmissionPending:  {SubmissionApproved, SubmissionRejected},
	SubmissionRejected: {SubmissionPending},
	SubmissionApproved: {},
}

// rentalTransitions lists the legal rental request transitions.  Accepted,
// rejected and cancelled are all terminal: once a landlord has replied or
// the tenant has cancelled, the negotiation is over.
var rentalTransitions = map[string][]string{
	RentalPending:   {RentalAccepted, RentalRejected, RentalCancelled},
	RentalAccepted:  {},
	RentalRejected:  {},
	RentalCancelled: {},
}

// ValidSubmissionStatus reports whether s is a known submission status.
func ValidSubmissionStatus(s string) bool {
	_, ok := submissionTransitions[s]
	return ok
}

// ValidRentalStatus reports whether s is a known rental request status.
func ValidRentalStatus(s string) bool {
	_, ok := rentalTransitions[s]
	return ok
}

// CanTransitionSubmission reports whether a review record may move from
// `from` to `to`.
func CanTransitionSubmission(from, to string) bool {
	for _, next := range submissionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionRental reports whether a rental request may move from
// `from` to `to`.
func CanTransitionRental(from, to string) bool {
	for _, next := range rentalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
