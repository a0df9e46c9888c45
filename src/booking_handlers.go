package main

import (
	"context"
	"errors"
	"eventuate/src/config"
	"eventuate/src/db"
	"eventuate/src/lib"
	"eventuate/src/lib/mailer"
	"eventuate/src/models"
	"eventuate/src/types"
	"eventuate/src/utils"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")

			var event models.Event
			gdb := db.GetDb()
			if err := gdb.Where(&models.Event{ID: body.EventID}).First(&event).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
				return
			}
			if event.Status != types.EVENT_PUBLISHED {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": "Event is not available for booking"})
				return
			}
			if time.Now().After(event.DateTime) {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": "Cannot book past events"})
				return
			}

			var booking models.Booking
			err := gdb.Transaction(func(tx *gorm.DB) error {
				var existing int64
				if err := tx.
					Model(&models.Booking{}).
					Where("event_id = ? AND attendee_id = ? AND status IN (?)",
						event.ID, userId, []types.BookingStatus{types.BOOKING_CONFIRMED, types.BOOKING_PENDING}).
					Count(&existing).
					Error; err != nil {
					return err
				}
				if existing > 0 {
					return errors.New("You already have a booking for this event")
				}

				// Read-then-write: two near-capacity requests can both pass
				// this check.
				confirmed, err := utils.GetConfirmedTicketCount(tx, event.ID)
				if err != nil {
					return err
				}
				if confirmed+body.TicketCount > event.Capacity {
					return errors.New("Not enough tickets available")
				}

				booking = models.Booking{
					EventID:         event.ID,
					AttendeeID:      userId,
					BookingDate:     time.Now(),
					Status:          types.BOOKING_PENDING,
					TicketCount:     body.TicketCount,
					TotalAmount:     event.Price * float64(body.TicketCount),
					PaymentStatus:   types.PAYMENT_PENDING,
					PaymentID:       uuid.NewString(),
					SpecialRequests: body.SpecialRequests,
				}
				if err := tx.Create(&booking).Error; err != nil {
					return fmt.Errorf("error in Booking transaction: %s", err.Error())
				}
				return tx.
					Where(&models.Booking{ID: booking.ID}).
					Preload("Event").
					Preload("Attendee").
					First(&booking).
					Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"booking": booking})
		}).
		GET("/bookings/my-bookings", func(ctx *gin.Context) {
			var filters types.BookingQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			page := filters.Page
			if page < 1 {
				page = 1
			}
			limit := filters.Limit
			if limit < 1 {
				limit = config.BOOKINGS_PAGE_LIMIT
			}
			var bookings []models.Booking
			var total int64
			gdb := db.GetDb()
			q := gdb.Model(&models.Booking{}).Where("attendee_id = ?", userId)
			if filters.Status != "" {
				q = q.Where("status = ?", filters.Status)
			}
			if err := q.Count(&total).Error; err != nil {
				log.Printf("Error counting bookings for user [%d]: %s\n", userId, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			offset := (page - 1) * limit
			if err := q.
				Preload("Event").
				Order("booking_date desc").
				Offset(offset).
				Limit(limit).
				Find(&bookings).
				Error; err != nil {
				log.Printf("Error listing bookings for user [%d]: %s\n", userId, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			pages := (total + int64(limit) - 1) / int64(limit)
			ctx.JSON(http.StatusOK, gin.H{
				"bookings": bookings,
				"pagination": types.Pagination{
					Page:  page,
					Limit: limit,
					Total: total,
					Pages: pages,
				},
			})
		}).
		GET("/events/:id/bookings", func(ctx *gin.Context) {
			var params types.EventBookingsURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			var filters types.BookingQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			gdb := db.GetDb()
			var event models.Event
			if err := gdb.Where(&models.Event{ID: params.EventID}).First(&event).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
				return
			}
			if event.OrganizerID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to view bookings for this event"})
				return
			}
			page := filters.Page
			if page < 1 {
				page = 1
			}
			limit := filters.Limit
			if limit < 1 {
				limit = config.ORGANIZER_PAGE_LIMIT
			}
			var bookings []models.Booking
			var total int64
			q := gdb.Model(&models.Booking{}).Where("event_id = ?", event.ID)
			if filters.Status != "" {
				q = q.Where("status = ?", filters.Status)
			}
			if err := q.Count(&total).Error; err != nil {
				log.Printf("Error counting bookings for event [%d]: %s\n", event.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			offset := (page - 1) * limit
			if err := q.
				Preload("Attendee").
				Order("booking_date desc").
				Offset(offset).
				Limit(limit).
				Find(&bookings).
				Error; err != nil {
				log.Printf("Error listing bookings for event [%d]: %s\n", event.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			pages := (total + int64(limit) - 1) / int64(limit)
			ctx.JSON(http.StatusOK, gin.H{
				"bookings": bookings,
				"pagination": types.Pagination{
					Page:  page,
					Limit: limit,
					Total: total,
					Pages: pages,
				},
			})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			var booking models.Booking
			gdb := db.GetDb()
			if err := gdb.
				Where(&models.Booking{ID: params.ID}).
				Preload("Event").
				Preload("Attendee").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "Booking not found"})
				return
			}
			if booking.AttendeeID != userId && (booking.Event == nil || booking.Event.OrganizerID != userId) {
				ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to view this booking"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"booking": booking})
		}).
		PUT("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			var body types.UpdateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			var booking models.Booking
			gdb := db.GetDb()
			if err := gdb.
				Where(&models.Booking{ID: params.ID}).
				Preload("Event").
				Preload("Attendee").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "Booking not found"})
				return
			}
			isOrganizer := booking.Event != nil && booking.Event.OrganizerID == userId
			isAttendee := booking.AttendeeID == userId
			if !isOrganizer && !isAttendee {
				ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this booking"})
				return
			}
			if body.Status != nil && !isOrganizer {
				ctx.JSON(http.StatusForbidden, gin.H{"message": "Only organizers can change booking status"})
				return
			}
			confirming := false
			err := gdb.Transaction(func(tx *gorm.DB) error {
				updates := map[string]any{}
				if body.Status != nil {
					updates["status"] = *body.Status
					if *body.Status == types.BOOKING_CONFIRMED && booking.Status != types.BOOKING_CONFIRMED {
						updates["payment_status"] = types.PAYMENT_COMPLETED
						confirming = true
					}
				}
				if body.CheckInStatus != nil {
					updates["check_in_status"] = *body.CheckInStatus
					if *body.CheckInStatus {
						updates["check_in_time"] = time.Now()
					}
				}
				if len(updates) > 0 {
					if err := tx.
						Model(&models.Booking{}).
						Where("id = ?", booking.ID).
						Updates(updates).
						Error; err != nil {
						return err
					}
				}
				return tx.
					Where(&models.Booking{ID: booking.ID}).
					Preload("Event").
					Preload("Attendee").
					First(&booking).
					Error
			})
			if err != nil {
				log.Printf("Error updating booking [%d]: %s\n", booking.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			if confirming && booking.Attendee != nil && booking.Event != nil {
				mailer.NewMailerMessage(&lib.SendMailInput{
					To:      []string{booking.Attendee.Email},
					Subject: fmt.Sprintf("Booking confirmed: %s", booking.Event.Title),
					Body: fmt.Sprintf("Hi %s, your booking for %s (%d tickets) is confirmed. See you there!",
						booking.Attendee.Name, booking.Event.Title, booking.TicketCount),
				})
			}
			ctx.JSON(http.StatusOK, gin.H{"booking": booking})
		}).
		DELETE("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				var booking models.Booking
				if err := tx.
					Where(&models.Booking{ID: params.ID}).
					Preload("Event").
					First(&booking).
					Error; err != nil {
					return err
				}
				if booking.AttendeeID != userId {
					return errForbidden
				}
				if booking.Event != nil && time.Now().After(booking.Event.DateTime) {
					return errors.New("Cannot cancel booking for past events")
				}
				return tx.
					Model(&models.Booking{}).
					Where("id = ?", booking.ID).
					Update("status", types.BOOKING_CANCELLED).
					Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"message": "Booking not found"})
					return
				}
				if errors.Is(err, errForbidden) {
					ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to cancel this booking"})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
		}).
		GET("/bookings/:id/qr", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			var booking models.Booking
			gdb := db.GetDb()
			if err := gdb.
				Where(&models.Booking{ID: params.ID}).
				Preload("Event").
				Preload("Attendee").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "Booking not found"})
				return
			}
			isOrganizer := booking.Event != nil && booking.Event.OrganizerID == userId
			if booking.AttendeeID != userId && !isOrganizer {
				ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to access this ticket"})
				return
			}
			if booking.Status != types.BOOKING_CONFIRMED {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": "QR code is only available for confirmed bookings"})
				return
			}

			cacheKey := utils.TicketQRCacheKey(booking.ID)
			rd := lib.GetRedisClient()
			if rd != nil {
				cached, err := rd.Get(context.Background(), cacheKey).Result()
				if err == nil {
					ctx.JSON(http.StatusOK, gin.H{"qrCode": cached})
					return
				} else if err != redis.Nil {
					log.Printf("[redis] Error reading QR cache for booking [%d]: %s\n", booking.ID, err.Error())
				}
			}

			payload := types.TicketQRPayload{
				BookingID:   booking.ID,
				EventID:     booking.EventID,
				AttendeeID:  booking.AttendeeID,
				TicketCount: booking.TicketCount,
				IssuedAt:    time.Now(),
			}
			if booking.Attendee != nil {
				payload.AttendeeName = booking.Attendee.Name
			}
			if booking.Event != nil {
				payload.EventTitle = booking.Event.Title
			}
			qrCode, err := utils.EncodeTicketQR(&payload)
			if err != nil {
				log.Printf("Error generating QR for booking [%d]: %s\n", booking.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			if rd != nil {
				if err := rd.SetEx(context.Background(), cacheKey, qrCode, config.QR_CACHE_TTL_HOURS*time.Hour).Err(); err != nil {
					log.Printf("[redis] Error caching QR for booking [%d]: %s\n", booking.ID, err.Error())
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"qrCode": qrCode})
		}).
		POST("/bookings/qr/verify", func(ctx *gin.Context) {
			var body types.VerifyTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			payload, err := utils.DecodeTicketQR(body.QRData)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid QR code data"})
				return
			}
			userId := ctx.GetUint("id")
			var booking models.Booking
			gdb := db.GetDb()
			if err := gdb.
				Where(&models.Booking{ID: payload.BookingID, EventID: payload.EventID}).
				Preload("Event").
				Preload("Attendee").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "Booking not found"})
				return
			}
			if booking.Event == nil || booking.Event.OrganizerID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to verify tickets for this event"})
				return
			}
			if booking.Status != types.BOOKING_CONFIRMED {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": "Booking is not confirmed"})
				return
			}
			attendee := gin.H{}
			if booking.Attendee != nil {
				attendee = gin.H{
					"name":  booking.Attendee.Name,
					"email": booking.Attendee.Email,
					"phone": booking.Attendee.Phone,
				}
			}
			if booking.CheckInStatus {
				ctx.JSON(http.StatusOK, gin.H{
					"alreadyCheckedIn": true,
					"message":          "Ticket already checked in",
					"attendee":         attendee,
					"ticketCount":      booking.TicketCount,
					"checkInTime":      booking.CheckInTime,
				})
				return
			}
			now := time.Now()
			if err := gdb.Transaction(func(tx *gorm.DB) error {
				return tx.
					Model(&models.Booking{}).
					Where("id = ?", booking.ID).
					Updates(map[string]any{
						"check_in_status": true,
						"check_in_time":   now,
					}).
					Error
			}); err != nil {
				log.Printf("Error checking in booking [%d]: %s\n", booking.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"alreadyCheckedIn": false,
				"message":          "Check-in successful",
				"attendee":         attendee,
				"ticketCount":      booking.TicketCount,
				"checkInTime":      now,
			})
		})
	return g
}
