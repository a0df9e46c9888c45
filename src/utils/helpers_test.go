package utils

import (
	"eventuate/src/models"
	"eventuate/src/types"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	assert.Nil(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, ComparePassword(hash, "s3cret-pass"))
	assert.False(t, ComparePassword(hash, "wrong-pass"))
}

func TestGenerateJWTRoundtrip(t *testing.T) {
	user := &models.User{
		ID:          42,
		Email:       "organizer@example.com",
		AccountType: types.ACCOUNT_ORGANIZER,
	}
	token, err := GenerateJWT(user)
	assert.Nil(t, err)
	assert.NotEmpty(t, token)

	claims := &types.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tk *jwt.Token) (any, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	assert.Nil(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "organizer@example.com", claims.Email)
	assert.Equal(t, "organizer", claims.AccountType)

	exp, err := claims.GetExpirationTime()
	assert.Nil(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp.Time, time.Minute)
}

func TestAvailableSpots(t *testing.T) {
	assert.Equal(t, uint(10), AvailableSpots(10, 0))
	assert.Equal(t, uint(3), AvailableSpots(10, 7))
	assert.Equal(t, uint(0), AvailableSpots(10, 10))
	// Oversold events clamp to zero instead of underflowing.
	assert.Equal(t, uint(0), AvailableSpots(10, 12))
}

func TestMakeEventSlug(t *testing.T) {
	assert.Equal(t, "jazz-friday-rooftop", MakeEventSlug("Jazz Friday: Rooftop!"))
}

func TestEncodeTicketQR(t *testing.T) {
	payload := &types.TicketQRPayload{
		BookingID:    7,
		EventID:      3,
		AttendeeID:   42,
		AttendeeName: "Sam Park",
		EventTitle:   "Jazz Friday",
		TicketCount:  2,
		IssuedAt:     time.Now(),
	}
	dataURL, err := EncodeTicketQR(payload)
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/jpeg;base64,"))
	assert.Greater(t, len(dataURL), len("data:image/jpeg;base64,"))
}

func TestDecodeTicketQR(t *testing.T) {
	qrData := fmt.Sprintf(`{"bookingId":7,"eventId":3,"attendeeId":42,"attendeeName":"Sam Park","eventTitle":"Jazz Friday","ticketCount":2,"issuedAt":%q}`, time.Now().Format(time.RFC3339))
	payload, err := DecodeTicketQR(qrData)
	assert.Nil(t, err)
	assert.Equal(t, uint(7), payload.BookingID)
	assert.Equal(t, uint(3), payload.EventID)
	assert.Equal(t, uint(42), payload.AttendeeID)
	assert.Equal(t, uint(2), payload.TicketCount)
}

func TestDecodeTicketQRRejectsBadPayloads(t *testing.T) {
	_, err := DecodeTicketQR("not-json-at-all")
	assert.NotNil(t, err)

	_, err = DecodeTicketQR(`{"somethingElse":true}`)
	assert.NotNil(t, err)

	_, err = DecodeTicketQR(`{"bookingId":7}`)
	assert.NotNil(t, err)
}

func TestTicketQRCacheKey(t *testing.T) {
	assert.Equal(t, "booking:qr:15", TicketQRCacheKey(15))
	assert.Equal(t, "event:views:3", EventViewsCacheKey(3))
}
