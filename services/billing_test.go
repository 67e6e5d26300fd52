package services

import "testing"

func TestProposeBillingTransition(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		expect  TransitionOutcome
	}{
		{"pending to sent", BillingPending, BillingSent, TransitionApplied},
		{"pending to paid needs confirmation", BillingPending, BillingPaid, TransitionNeedsConfirmation},
		{"sent to paid needs confirmation", BillingSent, BillingPaid, TransitionNeedsConfirmation},
		{"sent back to pending rejected", BillingSent, BillingPending, TransitionRejected},
		{"paid back to sent rejected", BillingPaid, BillingSent, TransitionRejected},
		{"paid back to pending rejected", BillingPaid, BillingPending, TransitionRejected},
		{"pending to pending is a no-op apply", BillingPending, BillingPending, TransitionApplied},
		{"sent to sent is a no-op apply", BillingSent, BillingSent, TransitionApplied},
		{"paid to paid is a no-op apply", BillingPaid, BillingPaid, TransitionApplied},
		{"unknown next rejected", BillingPending, "Cancelled", TransitionRejected},
		{"unknown current rejected", "Archived", BillingSent, TransitionRejected},
		{"empty next rejected", BillingPending, "", TransitionRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProposeBillingTransition(tt.current, tt.next)
			if got != tt.expect {
				t.Errorf("ProposeBillingTransition(%q, %q) = %v, want %v",
					tt.current, tt.next, got, tt.expect)
			}
		})
	}
}

func TestScheduleStatus(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
		fee     float64
		expect  string
	}{
		{"exact match", []float64{600, 400}, 1000, SchedulePlanned},
		{"within epsilon above", []float64{1000.005}, 1000, SchedulePlanned},
		{"within epsilon below", []float64{999.995}, 1000, SchedulePlanned},
		{"a cent over is overpassed", []float64{1000.01}, 1000, ScheduleOverpassed},
		{"a cent short is outstanding", []float64{999.99}, 1000, ScheduleOutstanding},
		{"a cent over across milestones", []float64{600, 400.01}, 1000, ScheduleOverpassed},
		{"clearly over", []float64{800, 400}, 1000, ScheduleOverpassed},
		{"a euro under is outstanding", []float64{999}, 1000, ScheduleOutstanding},
		{"no milestones yet", nil, 1000, ScheduleOutstanding},
		{"zero fee zero milestones", nil, 0, SchedulePlanned},
		{"fractional cents accumulate", []float64{333.33, 333.33, 333.34}, 1000, SchedulePlanned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScheduleStatus(tt.amounts, tt.fee)
			if got != tt.expect {
				t.Errorf("ScheduleStatus(%v, %v) = %q, want %q", tt.amounts, tt.fee, got, tt.expect)
			}
		})
	}
}

func TestMilestonePercentage(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		fee    float64
		expect string
	}{
		{"quarter of fee", 9200, 36800, "25%"},
		{"whole fee", 36800, 36800, "100%"},
		{"zero fee project", 5000, 0, "0%"},
		{"over fee", 46000, 36800, "125%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MilestonePercentage(tt.amount, tt.fee)
			if got != tt.expect {
				t.Errorf("MilestonePercentage(%v, %v) = %q, want %q", tt.amount, tt.fee, got, tt.expect)
			}
		})
	}
}
