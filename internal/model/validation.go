package model

import "time"

// ValidationStatus is one peer's opinion of another seat's claim
type ValidationStatus string

const (
	ValidationPending    ValidationStatus = "pending"
	ValidationApproved   ValidationStatus = "approved"
	ValidationQuestioned ValidationStatus = "questioned"
)

// ValidationRecord is one validator seat's decision on one target seat's
// claim. Unique per (validator, target): resubmission overwrites.
// TargetLockVersion is the target claim's lock version at submission time;
// an approval only counts toward ratification while the versions match.
type ValidationRecord struct {
	FlightID          FlightID
	ValidatorSeatID   SeatID
	TargetSeatID      SeatID
	Status            ValidationStatus
	Note              string
	TargetLockVersion int
	UpdatedAt         time.Time
}
