package leaderboardservice

import "errors"

var (
	// ErrMatchNotFound is returned when a tip sheet is requested for an unknown match.
	ErrMatchNotFound = errors.New("match not found")
	// ErrUserNotRanked is returned when the user is not part of the standings.
	ErrUserNotRanked = errors.New("user is not ranked")
)

var rejections = []error{ErrMatchNotFound, ErrUserNotRanked}
