package services

import "math"

const (
	// coefficientFloor is the minimum payout uplift applied to every winner
	coefficientFloor = 1.2
	// optionCoefficientStep rewards bets with more contested options
	optionCoefficientStep = 0.05
	// loserCoefficientStep rewards contrarian correct picks
	loserCoefficientStep = 0.1
)

// CalculateBetModifiers derives the payout multiplier and coefficient for a
// resolved bet.
//
// The multiplier lives in the open interval (-1, 1) and turns negative as the
// winning pool's share of the total grows, tapering payouts on lopsided bets.
// The coefficient starts at its floor and grows with the number of contested
// options and the number of losing betters.
func CalculateBetModifiers(totalStaked, winningTotal int64, numOptions, numLosers int) (multiplier, coefficient float64) {
	if totalStaked == 0 {
		return 0, coefficientFloor
	}

	total := float64(totalStaked)
	winning := float64(winningTotal)

	// Quadratic denominator keeps the magnitude well inside (-1, 1) for any
	// realistic pool size; the sign flips once the winning pool holds more
	// than half the total.
	multiplier = (total - 2*winning) / (total*total + 1)

	coefficient = coefficientFloor +
		optionCoefficientStep*float64(numOptions-1) +
		loserCoefficientStep*float64(numLosers)
	if coefficient < coefficientFloor {
		coefficient = coefficientFloor
	}

	return multiplier, coefficient
}

// singleBetWinnings computes one winner's gross payout: their stake scaled by
// the coefficient, a quadratic multiplier adjustment, and an even share of the
// losers' pool. A small spread term compensates for flooring losses across the
// winner field; it shrinks as the field grows. The result is floored.
func singleBetWinnings(pointsBet int64, multiplier, coefficient float64, extraPool int64, numWinners int) int64 {
	if numWinners == 0 {
		return 0
	}

	bet := float64(pointsBet)
	payout := bet*coefficient + multiplier*bet*bet + float64(extraPool)/float64(numWinners)
	if numWinners > 1 {
		payout += 1 / float64(numWinners-1)
	}

	if payout < 0 {
		return 0
	}
	return int64(math.Floor(payout))
}

// taxedWinnings applies the King's tax to a winner's payout. The tax is taken
// on the actual winnings (profit over principal) at the applicable rate, and
// deducted from the gross points won. Supporters always pay the lower of the
// two rates regardless of tuple position.
func taxedWinnings(supporter bool, standardRate, supporterRate float64, actualWon, pointsWon int64) (afterTax, tax int64) {
	rate := standardRate
	if supporter && supporterRate < rate {
		rate = supporterRate
	}

	tax = int64(math.Floor(float64(actualWon) * rate))
	if tax < 0 {
		tax = 0
	}
	return pointsWon - tax, tax
}
