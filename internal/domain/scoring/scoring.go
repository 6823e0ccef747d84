// Package scoring maps competition placements to points and labels.
package scoring

import (
	"fmt"
	"strconv"
)

// Points awarded per placement.
const (
	firstPlacePoints  = 10
	secondPlacePoints = 7
	thirdPlacePoints  = 5
	honourablePoints  = 3 // 4th and 5th
	finisherPoints    = 1 // 6th and below
)

// PointsForPosition returns the fixed point value for a 1-based placement.
func PointsForPosition(position int) (int, error) {
	switch {
	case position < 1:
		return 0, fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	case position == 1:
		return firstPlacePoints, nil
	case position == 2:
		return secondPlacePoints, nil
	case position == 3:
		return thirdPlacePoints, nil
	case position <= 5:
		return honourablePoints, nil
	default:
		return finisherPoints, nil
	}
}

// PositionLabel returns the poster ordinal: 1ST, 2ND, 3RD, then NTH.
func PositionLabel(position int) (string, error) {
	switch {
	case position < 1:
		return "", fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	case position == 1:
		return "1ST", nil
	case position == 2:
		return "2ND", nil
	case position == 3:
		return "3RD", nil
	default:
		return strconv.Itoa(position) + "TH", nil
	}
}

// PlaceLabel returns the badge text shown next to a public result,
// e.g. "1st Place" or "12th Place".
func PlaceLabel(position int) (string, error) {
	var suffix string
	switch {
	case position < 1:
		return "", fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	case position == 1:
		suffix = "st"
	case position == 2:
		suffix = "nd"
	case position == 3:
		suffix = "rd"
	default:
		suffix = "th"
	}
	return strconv.Itoa(position) + suffix + " Place", nil
}
