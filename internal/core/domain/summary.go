package domain

// Summary holds the count of tickets per status across the whole store. All
// six counters are present even when the store is empty.
type Summary struct {
	AmountNew         int64 `json:"amountNew"`
	AmountResolved    int64 `json:"amountResolved"`
	AmountApproved    int64 `json:"amountApproved"`
	AmountDisapproved int64 `json:"amountDisapproved"`
	AmountAssigned    int64 `json:"amountAssigned"`
	AmountClosed      int64 `json:"amountClosed"`
}

// SummaryFromCounts maps per-status counts into a Summary. Missing statuses
// count as zero; unknown keys are ignored.
func SummaryFromCounts(counts map[Status]int64) *Summary {
	return &Summary{
		AmountNew:         counts[StatusNew],
		AmountResolved:    counts[StatusResolved],
		AmountApproved:    counts[StatusApproved],
		AmountDisapproved: counts[StatusDisapproved],
		AmountAssigned:    counts[StatusAssigned],
		AmountClosed:      counts[StatusClosed],
	}
}
