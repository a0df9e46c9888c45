package main

import (
	"eventuate/src/config"
	"eventuate/src/db"
	"eventuate/src/models"
	"eventuate/src/types"
	"eventuate/src/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func analyticsPeriodRange(filters *types.AnalyticsQueryFilters) (time.Time, time.Time) {
	end := time.Now()
	var start time.Time
	switch filters.Period {
	case "7d":
		start = end.AddDate(0, 0, -7)
	case "90d":
		start = end.AddDate(0, 0, -90)
	case "1y":
		start = end.AddDate(-1, 0, 0)
	default:
		start = end.AddDate(0, 0, -30)
	}
	if filters.StartDate != "" {
		if t, err := time.Parse(config.TIME_PARSE_FORMAT, filters.StartDate); err == nil {
			start = t
		}
	}
	if filters.EndDate != "" {
		if t, err := time.Parse(config.TIME_PARSE_FORMAT, filters.EndDate); err == nil {
			end = t
		}
	}
	return start, end
}

func analyticsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/analytics/organizer", func(ctx *gin.Context) {
			var filters types.AnalyticsQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			start, end := analyticsPeriodRange(&filters)

			var totalEvents int64
			var byStatus []types.BookingStatusStat
			var totals struct {
				Bookings int64   `json:"bookings"`
				Tickets  int64   `json:"tickets"`
				Revenue  float64 `json:"revenue"`
				CheckIns int64   `json:"check_ins"`
			}
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.Event{}).
					Where("organizer_id = ? AND created_at BETWEEN ? AND ?", userId, start, end).
					Count(&totalEvents).
					Error; err != nil {
					return err
				}
				base := tx.
					Model(&models.Booking{}).
					Joins("JOIN events ON events.id = bookings.event_id").
					Where("events.organizer_id = ? AND bookings.booking_date BETWEEN ? AND ?", userId, start, end)
				if err := base.Session(&gorm.Session{}).
					Select("COUNT(bookings.id) AS bookings, COALESCE(SUM(bookings.ticket_count), 0) AS tickets, COALESCE(SUM(bookings.total_amount) FILTER (WHERE bookings.status = 'confirmed'), 0) AS revenue, COUNT(bookings.id) FILTER (WHERE bookings.check_in_status) AS check_ins").
					Scan(&totals).
					Error; err != nil {
					return err
				}
				return base.Session(&gorm.Session{}).
					Select("bookings.status AS status, COUNT(bookings.id) AS count, COALESCE(SUM(bookings.total_amount), 0) AS total_amount").
					Group("bookings.status").
					Scan(&byStatus).
					Error
			})
			if err != nil {
				log.Printf("Error building organizer analytics for user [%d]: %s\n", userId, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"period": gin.H{"start": start, "end": end},
				"totals": gin.H{
					"events":    totalEvents,
					"bookings":  totals.Bookings,
					"tickets":   totals.Tickets,
					"revenue":   totals.Revenue,
					"check_ins": totals.CheckIns,
				},
				"bookings_by_status": byStatus,
			})
		}).
		GET("/analytics/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			var filters types.AnalyticsQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			gdb := db.GetDb()
			var event models.Event
			if err := gdb.Where(&models.Event{ID: params.ID}).First(&event).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
				return
			}
			if event.OrganizerID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to view analytics for this event"})
				return
			}
			start, end := analyticsPeriodRange(&filters)

			var byStatus []types.BookingStatusStat
			var trends []types.BookingTrendPoint
			err := gdb.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.Booking{}).
					Where("event_id = ?", event.ID).
					Select("status, COUNT(id) AS count, COALESCE(SUM(total_amount), 0) AS total_amount").
					Group("status").
					Scan(&byStatus).
					Error; err != nil {
					return err
				}
				return tx.
					Model(&models.Booking{}).
					Where("event_id = ? AND booking_date BETWEEN ? AND ?", event.ID, start, end).
					Select("TO_CHAR(booking_date, 'YYYY-MM-DD') AS date, COUNT(id) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
					Group("TO_CHAR(booking_date, 'YYYY-MM-DD')").
					Order("date asc").
					Scan(&trends).
					Error
			})
			if err != nil {
				log.Printf("Error building analytics for event [%d]: %s\n", event.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"event":              gin.H{"id": event.ID, "title": event.Title, "capacity": event.Capacity, "views": event.Views},
				"period":             gin.H{"start": start, "end": end},
				"bookings_by_status": byStatus,
				"trends":             trends,
			})
		})
	return g
}

func attendeeAnalyticsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/analytics/attendee", func(ctx *gin.Context) {
			var filters types.AnalyticsQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			start, end := analyticsPeriodRange(&filters)

			var byStatus []types.BookingStatusStat
			var categories []types.CategoryPreferenceStat
			var trends []types.BookingTrendPoint
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				base := tx.
					Model(&models.Booking{}).
					Where("attendee_id = ? AND booking_date BETWEEN ? AND ?", userId, start, end)
				if err := base.Session(&gorm.Session{}).
					Select("status, COUNT(id) AS count, COALESCE(SUM(total_amount), 0) AS total_amount").
					Group("status").
					Scan(&byStatus).
					Error; err != nil {
					return err
				}
				if err := base.Session(&gorm.Session{}).
					Joins("JOIN events ON events.id = bookings.event_id").
					Select("events.category AS category, COUNT(bookings.id) AS count, COALESCE(SUM(bookings.total_amount), 0) AS total_spent").
					Group("events.category").
					Order("count desc").
					Scan(&categories).
					Error; err != nil {
					return err
				}
				return base.Session(&gorm.Session{}).
					Select("TO_CHAR(booking_date, 'YYYY-MM-DD') AS date, COUNT(id) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
					Group("TO_CHAR(booking_date, 'YYYY-MM-DD')").
					Order("date asc").
					Scan(&trends).
					Error
			})
			if err != nil {
				log.Printf("Error building attendee analytics for user [%d]: %s\n", userId, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}

			var totalBookings, confirmedBookings int64
			var totalSpent, confirmedSpent float64
			for _, stat := range byStatus {
				totalBookings += stat.Count
				totalSpent += stat.TotalAmount
				if stat.Status == types.BOOKING_CONFIRMED {
					confirmedBookings = stat.Count
					confirmedSpent = stat.TotalAmount
				}
			}
			var avgSpent float64
			if totalBookings > 0 {
				avgSpent = totalSpent / float64(totalBookings)
			}
			ctx.JSON(http.StatusOK, gin.H{
				"period": gin.H{"start": start, "end": end},
				"summary": gin.H{
					"total_bookings":            totalBookings,
					"total_spent":               totalSpent,
					"confirmed_bookings":        confirmedBookings,
					"confirmed_spent":           confirmedSpent,
					"average_spent_per_booking": avgSpent,
				},
				"bookings_by_status":   byStatus,
				"category_preferences": categories,
				"spending_trends":      trends,
			})
		})
	return g
}
