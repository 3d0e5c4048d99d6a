package errors

import "errors"

var (
	ErrCopanyNotFound      = errors.New("copany not found")
	ErrCopanyExists        = errors.New("copany already exists")
	ErrContributorExists   = errors.New("contributor already joined copany")
	ErrContributorNotFound = errors.New("contributor not found")
	ErrIssueNotFound       = errors.New("issue not found")
	ErrInvalidCopanyInput  = errors.New("invalid copany input")
)
