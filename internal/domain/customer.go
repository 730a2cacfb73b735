package domain

import "time"

type Customer struct {
	ID                 string
	FirstName          string
	LastName           string
	Email              string
	PhoneNumber        string
	TransactionPinHash string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
