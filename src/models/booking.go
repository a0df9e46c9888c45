package models

import (
	"eventuate/src/types"
	"time"
)

type Booking struct {
	ID              uint                `gorm:"primarykey" json:"id"`
	EventID         uint                `gorm:"index" json:"event_id,omitempty"`
	AttendeeID      uint                `gorm:"index" json:"attendee_id,omitempty"`
	BookingDate     time.Time           `json:"booking_date,omitempty"`
	Status          types.BookingStatus `gorm:"default:'pending';index" json:"status,omitempty"`
	TicketCount     uint                `json:"ticket_count,omitempty"`
	TotalAmount     float64             `json:"total_amount"`
	PaymentStatus   types.PaymentStatus `gorm:"default:'pending'" json:"payment_status,omitempty"`
	PaymentMethod   string              `gorm:"default:'razorpay'" json:"payment_method,omitempty"`
	PaymentID       string              `json:"payment_id,omitempty"`
	SpecialRequests string              `json:"special_requests,omitempty"`
	CheckInStatus   bool                `json:"check_in_status"`
	CheckInTime     *time.Time          `json:"check_in_time,omitempty"`
	RefundAmount    float64             `json:"refund_amount,omitempty"`
	RefundReason    string              `json:"refund_reason,omitempty"`

	Event    *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Attendee *User  `gorm:"foreignKey:AttendeeID" json:"attendee,omitempty"`

	types.Timestamps
}
