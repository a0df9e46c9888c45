package models

import (
	"eventuate/src/types"
)

type User struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Name        string            `json:"name,omitempty"`
	Email       string            `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string            `json:"-"`
	Phone       string            `json:"phone,omitempty"`
	Bio         string            `json:"bio,omitempty"`
	Location    string            `json:"location,omitempty"`
	Avatar      string            `json:"avatar,omitempty"`
	AccountType types.AccountType `gorm:"default:'attendee'" json:"account_type,omitempty"`
	IsVerified  bool              `json:"is_verified"`
	Interests   types.JSONBArray  `gorm:"type:jsonb" json:"interests,omitempty"`
	// Notification preferences: emailNotifications, smsNotifications,
	// eventReminders, marketingEmails.
	Notifications types.JSONB `gorm:"type:jsonb" json:"notifications,omitempty"`

	Events   []Event   `gorm:"foreignKey:OrganizerID" json:"events,omitempty"`
	Bookings []Booking `gorm:"foreignKey:AttendeeID" json:"bookings,omitempty"`

	types.Timestamps
}
