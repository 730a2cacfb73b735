package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrNoOverdraft = errors.New("Insufficient funds")
var ErrInvalidAmount = errors.New("Amount must be greater than zero")
