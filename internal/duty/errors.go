package duty

import "errors"

// Validation errors are reported back to the caller as a rejection; none of
// them are fatal to the process.
var (
	ErrBadDate       = errors.New("malformed date")
	ErrPastDate      = errors.New("date must be in the future")
	ErrAssigneeCount = errors.New("shift needs 1 or 2 assignees")
	ErrFieldMismatch = errors.New("assignees and phones count mismatch")
	ErrPairFlag      = errors.New("pair flag inconsistent with assignee count")
)
