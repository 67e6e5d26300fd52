package services

import "math"

// ClientFinancials is one client's financial record inside a proposal.
// Editable amounts arrive as European-notation strings from the form and
// are kept verbatim; total_funding and fee are derived on every edit.
type ClientFinancials struct {
	Budget       string `json:"budget"`
	Grant        string `json:"grant"`
	Loan         string `json:"loan"`
	Equity       string `json:"equity"`
	GrantFee     string `json:"grant_fee"`
	LoanFee      string `json:"loan_fee"`
	EquityFee    string `json:"equity_fee"`
	TotalFunding string `json:"total_funding"`
	Fee          string `json:"fee"`
}

// amountOrZero parses a European-notation amount, treating missing or
// unparseable input as 0. Only aggregation sums may coerce like this.
func amountOrZero(s string) float64 {
	v := ParseEuropeanNumber(s)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// RecalcClientFinancials derives total_funding and fee from the record's
// principal amounts and their fee percentages:
//
//	total_funding = grant + loan + equity
//	fee           = grant*grantFee/100 + loan*loanFee/100 + equity*equityFee/100
//
// Both derived values are formatted with exactly two decimal digits.
func RecalcClientFinancials(cf ClientFinancials) ClientFinancials {
	grant := amountOrZero(cf.Grant)
	loan := amountOrZero(cf.Loan)
	equity := amountOrZero(cf.Equity)

	totalFunding := grant + loan + equity
	fee := grant*amountOrZero(cf.GrantFee)/100 +
		loan*amountOrZero(cf.LoanFee)/100 +
		equity*amountOrZero(cf.EquityFee)/100

	cf.TotalFunding = FormatNumber(totalFunding, 2, 2)
	cf.Fee = FormatNumber(fee, 2, 2)
	return cf
}

// RecalcAllFinancials re-derives every client record in a proposal's
// financial mapping.
func RecalcAllFinancials(records map[string]ClientFinancials) map[string]ClientFinancials {
	out := make(map[string]ClientFinancials, len(records))
	for clientID, cf := range records {
		out[clientID] = RecalcClientFinancials(cf)
	}
	return out
}

// ProposalAggregates sums the derived per-client values into the
// proposal-level budget_funding and fee. Recomputed in full at save time
// rather than incrementally, so the aggregates can never drift from the
// per-client records.
func ProposalAggregates(records map[string]ClientFinancials) (budgetFunding, fee float64) {
	for _, cf := range records {
		budgetFunding += amountOrZero(cf.TotalFunding)
		fee += amountOrZero(cf.Fee)
	}
	return Round2(budgetFunding), Round2(fee)
}
