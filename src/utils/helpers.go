package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"eventuate/src/config"
	"eventuate/src/db"
	"eventuate/src/lib"
	"eventuate/src/models"
	"eventuate/src/types"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
	"github.com/yeqown/go-qrcode"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func ComparePassword(hash string, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GenerateJWT(user *models.User) (string, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))
	now := time.Now()
	claims := &types.Claims{
		Email:       user.Email,
		AccountType: string(user.AccountType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// GetConfirmedTicketCount sums ticket_count over confirmed bookings for an
// event. Pending and cancelled bookings do not occupy capacity.
func GetConfirmedTicketCount(tx *gorm.DB, eventId uint) (uint, error) {
	var total *int64
	err := tx.
		Model(&models.Booking{}).
		Where(&models.Booking{EventID: eventId, Status: types.BOOKING_CONFIRMED}).
		Select("SUM(ticket_count)").
		Scan(&total).
		Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return uint(*total), nil
}

func AvailableSpots(capacity uint, confirmed uint) uint {
	if confirmed >= capacity {
		return 0
	}
	return capacity - confirmed
}

// DecorateEventAvailability fills the computed AvailableSpots and SoldOut
// fields on an event before it goes out the door.
func DecorateEventAvailability(tx *gorm.DB, event *models.Event) error {
	confirmed, err := GetConfirmedTicketCount(tx, event.ID)
	if err != nil {
		return err
	}
	spots := AvailableSpots(event.Capacity, confirmed)
	soldOut := spots == 0
	event.AvailableSpots = &spots
	event.SoldOut = &soldOut
	return nil
}

func MakeEventSlug(title string) string {
	return slug.Make(title)
}

func CreateNewEvent(params *types.CreateEventRequestBody, organizerId uint) (uint, error) {
	dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, params.DateTime)
	if err != nil {
		log.Printf("Error parsing dateTime: %s\n", err.Error())
		return 0, err
	}
	event := models.Event{
		Title:       params.Title,
		Slug:        slug.Make(params.Title),
		Description: params.Description,
		Category:    params.Category,
		OrganizerID: organizerId,
		DateTime:    dateTime,
		Location:    params.Location.ToJSONB(),
		Price:       params.Price,
		Capacity:    params.Capacity,
		Images:      params.Images,
		Tags:        params.Tags,
		Status:      types.EVENT_DRAFT,
	}
	if params.Publish {
		event.Status = types.EVENT_PUBLISHED
	}

	gdb := db.GetDb()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// One-shot job to flip the event to completed once its start time passes.
	go func() {
		runsAt := dateTime.UTC()
		id, err := lib.CreateOneTimeCronJob(runsAt, func() {
			if err := CompleteEvent(event.ID); err != nil {
				log.Printf("Error completing event %d: %s\n", event.ID, err.Error())
			}
		}, fmt.Sprintf("Event_%d_Complete", event.ID))
		if err != nil {
			log.Printf("Error creating job for Event: id=%d error=%s\n", event.ID, err.Error())
			return
		}
		log.Printf("Created job for Event[%d] with ID %s\n", event.ID, *id)
	}()

	return event.ID, nil
}

func CompleteEvent(id uint) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Event{}).
			Where("id = ? AND status = ?", id, types.EVENT_PUBLISHED).
			Update("status", types.EVENT_COMPLETED).
			Error
	})
}

// EncodeTicketQR renders the ticket payload as a QR image and returns it as
// a base64 data URL. The payload travels as plain JSON inside the code.
func EncodeTicketQR(payload *types.TicketQRPayload) (string, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	qrc, err := qrcode.New(string(content))
	if err != nil {
		log.Printf("Error generating QR code: %s\n", err.Error())
		return "", err
	}
	var buf bytes.Buffer
	if err := qrc.SaveTo(&buf); err != nil {
		return "", err
	}
	dataURL := fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(buf.Bytes()))
	return dataURL, nil
}

// DecodeTicketQR parses the JSON payload a scanner extracted from a ticket
// QR code.
func DecodeTicketQR(qrData string) (*types.TicketQRPayload, error) {
	var payload types.TicketQRPayload
	if err := json.Unmarshal([]byte(qrData), &payload); err != nil {
		return nil, errors.New("invalid QR code data")
	}
	if payload.BookingID == 0 || payload.EventID == 0 {
		return nil, errors.New("invalid QR code data")
	}
	return &payload, nil
}

func TicketQRCacheKey(bookingId uint) string {
	return fmt.Sprintf("booking:qr:%d", bookingId)
}

func EventViewsCacheKey(eventId uint) string {
	return fmt.Sprintf("event:views:%d", eventId)
}

// CountEventView bumps the per-event view counter in redis. The counter is
// folded back into the events table by FlushViewCounters.
func CountEventView(eventId uint) {
	rdb := lib.GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.Incr(context.Background(), EventViewsCacheKey(eventId)).Err(); err != nil {
		log.Printf("Error incrementing views for event %d: %s\n", eventId, err.Error())
	}
}

// ConfirmPendingBookings force-confirms bookings stuck in pending, marking
// their payment as paid. Runs on a schedule as cleanup for abandoned
// payment flows.
func ConfirmPendingBookings() {
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Booking{}).
			Where("status = ?", types.BOOKING_PENDING).
			Updates(map[string]any{
				"status":         types.BOOKING_CONFIRMED,
				"payment_status": types.PAYMENT_COMPLETED,
			})
		if res.Error != nil {
			return res.Error
		}
		log.Printf("Confirmed %d pending bookings\n", res.RowsAffected)
		return nil
	})
	if err != nil {
		log.Printf("Error confirming pending bookings: %s\n", err.Error())
	}
}

// CompletePastEvents flips published events whose start time has passed to
// completed.
func CompletePastEvents() {
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Event{}).
			Where("status = ? AND date_time < ?", types.EVENT_PUBLISHED, time.Now()).
			Update("status", types.EVENT_COMPLETED)
		if res.Error != nil {
			return res.Error
		}
		log.Printf("Completed %d past events\n", res.RowsAffected)
		return nil
	})
	if err != nil {
		log.Printf("Error completing past events: %s\n", err.Error())
	}
}

// FlushViewCounters folds the redis view counters back into the events
// table and resets them.
func FlushViewCounters() {
	rdb := lib.GetRedisClient()
	if rdb == nil {
		return
	}
	ctx := context.Background()
	gdb := db.GetDb()
	iter := rdb.Scan(ctx, 0, "event:views:*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := rdb.GetDel(ctx, key).Result()
		if err == redis.Nil {
			continue
		} else if err != nil {
			log.Printf("Error reading counter %s: %s\n", key, err.Error())
			continue
		}
		views, err := strconv.Atoi(val)
		if err != nil || views < 1 {
			continue
		}
		eventId, err := strconv.Atoi(strings.TrimPrefix(key, "event:views:"))
		if err != nil {
			continue
		}
		if err := gdb.
			Model(&models.Event{}).
			Where("id = ?", eventId).
			Update("views", gorm.Expr("views + ?", views)).
			Error; err != nil {
			log.Printf("Error flushing views for event %d: %s\n", eventId, err.Error())
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("Error scanning view counters: %s\n", err.Error())
	}
}

// FormatValidationErrors turns binding failures into the message strings
// the API returns under "errors".
func FormatValidationErrors(err error) []string {
	messages := []string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email address", fe.Field()))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
			case "eventcategory":
				messages = append(messages, fmt.Sprintf("%s must be a valid category", fe.Field()))
			case "bookabledate":
				messages = append(messages, fmt.Sprintf("%s must be a future date", fe.Field()))
			default:
				messages = append(messages, fmt.Sprintf("%s failed validation on '%s'", fe.Field(), fe.Tag()))
			}
		}
		return messages
	}
	return append(messages, err.Error())
}
