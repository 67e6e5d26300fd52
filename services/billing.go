package services

import "math"

// Billing milestone invoice statuses. The lifecycle is strictly monotonic:
// pending -> sent -> paid.
const (
	BillingPending = "Invoice_pending"
	BillingSent    = "Invoice_sent"
	BillingPaid    = "Invoice_paid"
)

// Schedule reconciliation verdicts, compared against the project fee with
// a half-cent tolerance. Advisory only — nothing is normalized.
//
// The tolerance must stay below a full cent: a one-cent overshoot is
// smaller than 0.01 in float64, so an epsilon of 0.01 would swallow it.
const (
	ScheduleOverpassed  = "Overpassed agreed fee"
	SchedulePlanned     = "Successfully Planned"
	ScheduleOutstanding = "Outstanding billing milestones"

	scheduleEpsilon = 0.005
)

var billingRank = map[string]int{
	BillingPending: 0,
	BillingSent:    1,
	BillingPaid:    2,
}

// TransitionOutcome is the result of proposing a billing status change.
type TransitionOutcome int

const (
	// TransitionRejected: the change would move the status backwards and
	// is silently ignored.
	TransitionRejected TransitionOutcome = iota
	// TransitionApplied: the change is valid and takes effect immediately.
	TransitionApplied
	// TransitionNeedsConfirmation: the change is valid but irreversible in
	// practice, so it must be explicitly confirmed before it applies.
	TransitionNeedsConfirmation
)

// ProposeBillingTransition evaluates a requested status change for a
// billing milestone. Regressions (Invoice_sent -> Invoice_pending and any
// move away from Invoice_paid) are rejected; moving to Invoice_paid
// requires a confirmation step.
func ProposeBillingTransition(current, next string) TransitionOutcome {
	currentRank, okCurrent := billingRank[current]
	nextRank, okNext := billingRank[next]
	if !okCurrent || !okNext {
		return TransitionRejected
	}
	if nextRank < currentRank {
		return TransitionRejected
	}
	if next == BillingPaid && current != BillingPaid {
		return TransitionNeedsConfirmation
	}
	return TransitionApplied
}

// MilestonePercentage derives the display percentage of a milestone
// amount against the project fee, e.g. "25%". A project without a
// positive fee yields "0%". The percentage is never stored — it is
// recomputed from the amount whenever the milestone is shown or edited.
func MilestonePercentage(amount, projectFee float64) string {
	return FormatPercentage(amount, projectFee)
}

// ScheduleStatus compares the sum of all milestone amounts for a project
// against the project's agreed fee:
//
//	|sum - fee| < 0.005 -> Successfully Planned
//	sum > fee           -> Overpassed agreed fee
//	sum < fee           -> Outstanding billing milestones
func ScheduleStatus(milestoneAmounts []float64, projectFee float64) string {
	var sum float64
	for _, a := range milestoneAmounts {
		sum += a
	}

	if math.Abs(sum-projectFee) < scheduleEpsilon {
		return SchedulePlanned
	}
	if sum > projectFee {
		return ScheduleOverpassed
	}
	return ScheduleOutstanding
}
