package errors

import "errors"

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrTransactionImmutable = errors.New("confirmed transaction cannot be modified")
	ErrInvalidLedgerInput   = errors.New("invalid ledger input")
	ErrInvalidMonthKey      = errors.New("month must use the YYYY-MM format")
	ErrRevenueEntryNotFound = errors.New("app revenue entry not found")
)
