package errors

import "errors"

var (
	ErrCopanyNotFound           = errors.New("copany not found")
	ErrNotCopanyOwner           = errors.New("distribution recompute requires the copany owner")
	ErrRecordNotFound           = errors.New("distribution record not found")
	ErrNotRecordRecipient       = errors.New("distribution record is not addressed to user")
	ErrRecordAlreadyConfirmed   = errors.New("distribution record already confirmed")
	ErrInvalidMonthKey          = errors.New("month must use the YYYY-MM format")
	ErrInvalidDistributionInput = errors.New("invalid distribution input")
	ErrRecomputeLocked          = errors.New("distribution recompute already running for copany")
)
