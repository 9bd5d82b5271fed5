package models

import "time"

// BlockedSlot is doctor-declared unavailability for a half-open [Start, End)
// range on one date. Slots are created and deleted, never edited in place.
type BlockedSlot struct {
	ID        string    `bson:"id" json:"id"`
	DoctorID  string    `bson:"doctorId" json:"doctorId"`
	Date      string    `bson:"date" json:"date"`
	Start     TimeOfDay `bson:"start" json:"start"`
	End       TimeOfDay `bson:"end" json:"end"`
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Interval returns the slot's range for conflict checking.
func (b BlockedSlot) Interval() TimeInterval {
	return TimeInterval{Date: b.Date, Start: b.Start, End: b.End}
}

// BlockRequest is the payload for declaring a blocked slot.
type BlockRequest struct {
	Date  string `json:"date" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
	Note  string `json:"note"`
}
