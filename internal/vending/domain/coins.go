package domain

import "fmt"

// denominations is ordered from the largest coin to the smallest; the greedy
// change algorithm depends on that order.
var denominations = [...]int64{100, 50, 20, 10, 5}

const smallestDenomination = 5

// ChangeBreakdown maps a coin denomination in cents to the number of coins.
type ChangeBreakdown map[int64]int

// Total returns the amount the breakdown is worth in cents.
func (b ChangeBreakdown) Total() int64 {
	var total int64
	for denomination, count := range b {
		total += denomination * int64(count)
	}

	return total
}

// IsValidDenomination reports whether amount is a coin the machine accepts.
func IsValidDenomination(amount int64) bool {
	for _, denomination := range denominations {
		if denomination == amount {
			return true
		}
	}

	return false
}

// ValidDenominations returns the accepted coins sorted descending.
func ValidDenominations() []int64 {
	res := make([]int64, len(denominations))
	copy(res, denominations[:])
	return res
}

// ComputeChange splits amount into coins, taking as many of each
// denomination as fit before moving to the next smaller one. The set is
// canonical, so greedy descent is optimal.
func ComputeChange(amount int64) (ChangeBreakdown, error) {
	if amount < 0 {
		return nil, &InvalidAmountError{Msg: fmt.Sprintf("change amount %d is negative", amount)}
	}

	if amount%smallestDenomination != 0 {
		return nil, &InvalidAmountError{Msg: fmt.Sprintf("change amount %d is not a multiple of %d", amount, smallestDenomination)}
	}

	change := ChangeBreakdown{}
	remaining := amount

	for _, denomination := range denominations {
		if remaining < denomination {
			continue
		}

		change[denomination] = int(remaining / denomination)
		remaining %= denomination
	}

	return change, nil
}
