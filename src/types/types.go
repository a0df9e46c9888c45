package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type AccountType string

const (
	ACCOUNT_ATTENDEE  AccountType = "attendee"
	ACCOUNT_ORGANIZER AccountType = "organizer"
	ACCOUNT_BOTH      AccountType = "both"
)

// CanOrganize reports whether the account may create and manage events.
func (a AccountType) CanOrganize() bool {
	return a == ACCOUNT_ORGANIZER || a == ACCOUNT_BOTH
}

type EventStatus string

const (
	EVENT_DRAFT     EventStatus = "draft"
	EVENT_PUBLISHED EventStatus = "published"
	EVENT_CANCELLED EventStatus = "cancelled"
	EVENT_COMPLETED EventStatus = "completed"
)

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELLED BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_COMPLETED PaymentStatus = "completed"
	PAYMENT_FAILED    PaymentStatus = "failed"
	PAYMENT_REFUNDED  PaymentStatus = "refunded"
)

var EventCategories = []string{
	"Music",
	"Food & Drink",
	"Workshops",
	"Networking",
	"Sports",
	"Arts",
	"Technology",
	"Fitness",
}

type Claims struct {
	Email       string `json:"email"`
	AccountType string `json:"account_type"`
	jwt.RegisteredClaims
}

type RegisterUserRequestBody struct {
	Name        string       `json:"name" binding:"required,max=100"`
	Email       string       `json:"email" binding:"required,email"`
	Password    string       `json:"password" binding:"required,min=6"`
	AccountType *AccountType `json:"account_type,omitempty" binding:"omitempty,oneof=attendee organizer both"`
	Phone       string       `json:"phone,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequestBody struct {
	Name      *string     `json:"name,omitempty" binding:"omitempty,max=100"`
	Phone     *string     `json:"phone,omitempty"`
	Bio       *string     `json:"bio,omitempty" binding:"omitempty,max=500"`
	Location  *string     `json:"location,omitempty"`
	Avatar    *string     `json:"avatar,omitempty"`
	Interests *JSONBArray `json:"interests,omitempty"`
}

type ChangePasswordRequestBody struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type UpdateSettingsRequestBody struct {
	EmailNotifications *bool        `json:"email_notifications,omitempty"`
	SMSNotifications   *bool        `json:"sms_notifications,omitempty"`
	EventReminders     *bool        `json:"event_reminders,omitempty"`
	MarketingEmails    *bool        `json:"marketing_emails,omitempty"`
	AccountType        *AccountType `json:"account_type,omitempty" binding:"omitempty,oneof=attendee organizer both"`
}

type EventLocation struct {
	Venue       string    `json:"venue" binding:"required"`
	Address     string    `json:"address" binding:"required"`
	City        string    `json:"city" binding:"required"`
	Coordinates []float64 `json:"coordinates,omitempty" binding:"omitempty,len=2"`
}

// ToJSONB flattens the location into the shape stored in the events table.
func (l *EventLocation) ToJSONB() JSONB {
	loc := JSONB{
		"venue":   l.Venue,
		"address": l.Address,
		"city":    l.City,
	}
	if len(l.Coordinates) == 2 {
		loc["coordinates"] = l.Coordinates
	}
	return loc
}

type CreateEventRequestBody struct {
	Title       string        `json:"title" binding:"required,max=100"`
	Description string        `json:"description" binding:"required,max=2000"`
	Category    string        `json:"category" binding:"required,eventcategory"`
	DateTime    string        `json:"date_time" binding:"required,bookabledate"`
	Location    EventLocation `json:"location" binding:"required"`
	Price       float64       `json:"price,omitempty" binding:"omitempty,gte=0"`
	Capacity    uint          `json:"capacity" binding:"required,min=1"`
	Images      JSONBArray    `json:"images,omitempty"`
	Tags        JSONBArray    `json:"tags,omitempty"`
	Publish     bool          `json:"publish,omitempty"`
}

type UpdateEventRequestBody struct {
	Title       *string        `json:"title,omitempty" binding:"omitempty,max=100"`
	Description *string        `json:"description,omitempty" binding:"omitempty,max=2000"`
	Category    *string        `json:"category,omitempty" binding:"omitempty,eventcategory"`
	DateTime    *string        `json:"date_time,omitempty" binding:"omitempty,bookabledate"`
	Location    *EventLocation `json:"location,omitempty"`
	Price       *float64       `json:"price,omitempty" binding:"omitempty,gte=0"`
	Capacity    *uint          `json:"capacity,omitempty" binding:"omitempty,min=1"`
	Images      *JSONBArray    `json:"images,omitempty"`
	Tags        *JSONBArray    `json:"tags,omitempty"`
	Status      *EventStatus   `json:"status,omitempty" binding:"omitempty,oneof=draft published cancelled completed"`
	Featured    *bool          `json:"featured,omitempty"`
}

type EventQueryFilters struct {
	Category string   `form:"category" binding:"omitempty,eventcategory"`
	Status   string   `form:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	DateFrom string   `form:"dateFrom"`
	DateTo   string   `form:"dateTo"`
	PriceMin *float64 `form:"priceMin" binding:"omitempty,gte=0"`
	PriceMax *float64 `form:"priceMax" binding:"omitempty,gte=0"`
	Location string   `form:"location"`
	Search   string   `form:"search"`
	Page     int      `form:"page,default=1" binding:"omitempty,min=1"`
	Limit    int      `form:"limit" binding:"omitempty,min=1,max=50"`
}

type OrganizerEventQueryFilters struct {
	Status string `form:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	Page   int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type CreateBookingRequestBody struct {
	EventID         uint   `json:"event_id" binding:"required"`
	TicketCount     uint   `json:"ticket_count" binding:"required,min=1"`
	SpecialRequests string `json:"special_requests,omitempty" binding:"omitempty,max=500"`
}

type UpdateBookingRequestBody struct {
	Status        *BookingStatus `json:"status,omitempty" binding:"omitempty,oneof=confirmed pending cancelled"`
	CheckInStatus *bool          `json:"check_in_status,omitempty"`
}

type BookingQueryFilters struct {
	Status string `form:"status" binding:"omitempty,oneof=confirmed pending cancelled"`
	Page   int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type VerifyTicketRequestBody struct {
	QRData string `json:"qr_data" binding:"required"`
}

type AnalyticsQueryFilters struct {
	Period    string `form:"period,default=30d" binding:"omitempty,oneof=7d 30d 90d 1y"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type EventBookingsURIParams struct {
	EventID uint `uri:"id" binding:"required"`
}

// TicketQRPayload is the plaintext JSON embedded in a ticket QR code. It
// carries no signature and no expiry; the check-in endpoint trusts it as-is.
type TicketQRPayload struct {
	BookingID    uint      `json:"bookingId"`
	EventID      uint      `json:"eventId"`
	AttendeeID   uint      `json:"attendeeId"`
	AttendeeName string    `json:"attendeeName"`
	EventTitle   string    `json:"eventTitle"`
	TicketCount  uint      `json:"ticketCount"`
	IssuedAt     time.Time `json:"issuedAt"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type BookingStatusStat struct {
	Status      BookingStatus `json:"status"`
	Count       int64         `json:"count"`
	TotalAmount float64       `json:"total_amount"`
}

type BookingTrendPoint struct {
	Date    string  `json:"date"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type CategoryPreferenceStat struct {
	Category   string  `json:"category"`
	Count      int64   `json:"count"`
	TotalSpent float64 `json:"total_spent"`
}
