package models

import (
	"eventuate/src/types"
	"time"
)

type Event struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `json:"title,omitempty"`
	Slug        string            `gorm:"index" json:"slug,omitempty"`
	Description string            `json:"description,omitempty"`
	Category    string            `gorm:"index" json:"category,omitempty"`
	OrganizerID uint              `gorm:"index" json:"organizer_id,omitempty"`
	DateTime    time.Time         `json:"date_time,omitempty"`
	Location    types.JSONB       `gorm:"type:jsonb" json:"location,omitempty"`
	Price       float64           `json:"price"`
	Capacity    uint              `json:"capacity,omitempty"`
	Images      types.JSONBArray  `gorm:"type:jsonb" json:"images,omitempty"`
	Status      types.EventStatus `gorm:"default:'draft';index" json:"status,omitempty"`
	Tags        types.JSONBArray  `gorm:"type:jsonb" json:"tags,omitempty"`
	Featured    bool              `json:"featured"`
	Views       uint              `json:"views"`
	Rating      types.JSONB       `gorm:"type:jsonb" json:"rating,omitempty"`

	Organizer *User     `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Bookings  []Booking `gorm:"foreignKey:EventID" json:"bookings,omitempty"`

	// Computed on read, never stored.
	AvailableSpots *uint `gorm:"-" json:"available_spots,omitempty"`
	SoldOut        *bool `gorm:"-" json:"is_sold_out,omitempty"`
	TicketsSold    *uint `gorm:"-" json:"tickets_sold,omitempty"`

	types.Timestamps
}
