package main

import (
	"errors"
	"eventuate/src/config"
	"eventuate/src/db"
	awslib "eventuate/src/lib/aws"
	"eventuate/src/models"
	"eventuate/src/types"
	"eventuate/src/utils"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func publicEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var filters types.EventQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			status := types.EVENT_PUBLISHED
			if filters.Status != "" {
				status = types.EventStatus(filters.Status)
			}
			// The form default only fires when the key is absent; page=0 still binds.
			page := filters.Page
			if page < 1 {
				page = 1
			}
			limit := filters.Limit
			if limit < 1 {
				limit = config.DEFAULT_PAGE_LIMIT
			}
			var events []models.Event
			var total int64
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				q := tx.Model(&models.Event{}).Where("status = ?", status)
				if filters.Category != "" {
					q = q.Where("category = ?", filters.Category)
				}
				if filters.DateFrom != "" {
					if from, err := time.Parse(config.TIME_PARSE_FORMAT, filters.DateFrom); err == nil {
						q = q.Where("date_time >= ?", from)
					}
				}
				if filters.DateTo != "" {
					if to, err := time.Parse(config.TIME_PARSE_FORMAT, filters.DateTo); err == nil {
						q = q.Where("date_time <= ?", to)
					}
				}
				if filters.PriceMin != nil {
					q = q.Where("price >= ?", *filters.PriceMin)
				}
				if filters.PriceMax != nil {
					q = q.Where("price <= ?", *filters.PriceMax)
				}
				if filters.Location != "" {
					q = q.Where("location->>'city' ILIKE ?", fmt.Sprintf("%%%s%%", filters.Location))
				}
				if filters.Search != "" {
					term := fmt.Sprintf("%%%s%%", filters.Search)
					q = q.Where("title ILIKE ? OR description ILIKE ?", term, term)
				}
				if err := q.Count(&total).Error; err != nil {
					return err
				}
				offset := (page - 1) * limit
				if err := q.
					Preload("Organizer").
					Order("date_time asc").
					Offset(offset).
					Limit(limit).
					Find(&events).
					Error; err != nil {
					return err
				}
				for i := range events {
					if err := utils.DecorateEventAvailability(tx, &events[i]); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				log.Printf("Error listing events: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			pages := (total + int64(limit) - 1) / int64(limit)
			ctx.JSON(http.StatusOK, gin.H{
				"events": events,
				"pagination": types.Pagination{
					Page:  page,
					Limit: limit,
					Total: total,
					Pages: pages,
				},
			})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			var event models.Event
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Where(&models.Event{ID: params.ID}).
					Preload("Organizer").
					First(&event).
					Error; err != nil {
					return err
				}
				return utils.DecorateEventAvailability(tx, &event)
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
					return
				}
				log.Printf("Error retrieving event [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			go utils.CountEventView(event.ID)
			ctx.JSON(http.StatusOK, gin.H{"event": event})
		})
	return g
}

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", func(ctx *gin.Context) {
			accountType := types.AccountType(ctx.GetString("accountType"))
			if !accountType.CanOrganize() {
				ctx.JSON(http.StatusForbidden, gin.H{"message": "Only organizers can create events"})
				return
			}
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			eventId, err := utils.CreateNewEvent(&body, userId)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			var event models.Event
			db := db.GetDb()
			if err := db.Where(&models.Event{ID: eventId}).First(&event).Error; err != nil {
				log.Printf("Error retrieving event [%d]: %s\n", eventId, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"event": event})
		}).
		PUT("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			var event models.Event
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Event{ID: params.ID}).First(&event).Error; err != nil {
					return err
				}
				if event.OrganizerID != userId {
					return errForbidden
				}
				updates := map[string]any{}
				if body.Title != nil {
					updates["title"] = *body.Title
					updates["slug"] = utils.MakeEventSlug(*body.Title)
				}
				if body.Description != nil {
					updates["description"] = *body.Description
				}
				if body.Category != nil {
					updates["category"] = *body.Category
				}
				if body.DateTime != nil {
					dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, *body.DateTime)
					if err != nil {
						return err
					}
					updates["date_time"] = dateTime
				}
				if body.Location != nil {
					updates["location"] = body.Location.ToJSONB()
				}
				if body.Price != nil {
					updates["price"] = *body.Price
				}
				if body.Capacity != nil {
					updates["capacity"] = *body.Capacity
				}
				if body.Images != nil {
					updates["images"] = *body.Images
				}
				if body.Tags != nil {
					updates["tags"] = *body.Tags
				}
				if body.Status != nil {
					updates["status"] = *body.Status
				}
				if body.Featured != nil {
					updates["featured"] = *body.Featured
				}
				if len(updates) > 0 {
					if err := tx.
						Model(&models.Event{}).
						Where("id = ?", params.ID).
						Updates(updates).
						Error; err != nil {
						return err
					}
				}
				if err := tx.Where(&models.Event{ID: params.ID}).First(&event).Error; err != nil {
					return err
				}
				return utils.DecorateEventAvailability(tx, &event)
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
					return
				}
				if errors.Is(err, errForbidden) {
					ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this event"})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"event": event})
		}).
		DELETE("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.Where(&models.Event{ID: params.ID}).First(&event).Error; err != nil {
					return err
				}
				if event.OrganizerID != userId {
					return errForbidden
				}
				var count int64
				if err := tx.
					Model(&models.Booking{}).
					Where(&models.Booking{EventID: event.ID}).
					Count(&count).
					Error; err != nil {
					return err
				}
				if count > 0 {
					return errors.New("Cannot delete event with existing bookings")
				}
				return tx.Delete(&event).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
					return
				}
				if errors.Is(err, errForbidden) {
					ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to delete this event"})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
		}).
		GET("/events/organizer/my-events", func(ctx *gin.Context) {
			var filters types.OrganizerEventQueryFilters
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
				limit = config.ORGANIZER_PAGE_LIMIT
			}
			var events []models.Event
			var total int64
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				q := tx.Model(&models.Event{}).Where("organizer_id = ?", userId)
				if filters.Status != "" {
					q = q.Where("status = ?", filters.Status)
				}
				if err := q.Count(&total).Error; err != nil {
					return err
				}
				offset := (page - 1) * limit
				if err := q.
					Order("date_time asc").
					Offset(offset).
					Limit(limit).
					Find(&events).
					Error; err != nil {
					return err
				}
				for i := range events {
					confirmed, err := utils.GetConfirmedTicketCount(tx, events[i].ID)
					if err != nil {
						return err
					}
					spots := utils.AvailableSpots(events[i].Capacity, confirmed)
					soldOut := spots == 0
					events[i].TicketsSold = &confirmed
					events[i].AvailableSpots = &spots
					events[i].SoldOut = &soldOut
				}
				return nil
			})
			if err != nil {
				log.Printf("Error listing events for organizer [%d]: %s\n", userId, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			pages := (total + int64(limit) - 1) / int64(limit)
			ctx.JSON(http.StatusOK, gin.H{
				"events": events,
				"pagination": types.Pagination{
					Page:  page,
					Limit: limit,
					Total: total,
					Pages: pages,
				},
			})
		}).
		POST("/events/:id/images", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			var event models.Event
			db := db.GetDb()
			if err := db.Where(&models.Event{ID: params.ID}).First(&event).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
				return
			}
			if event.OrganizerID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this event"})
				return
			}
			fileHeader, err := ctx.FormFile("image")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": "No image file provided"})
				return
			}
			file, err := fileHeader.Open()
			if err != nil {
				log.Printf("Error reading upload: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			defer file.Close()
			contentType := fileHeader.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "image/jpeg"
			}
			key := fmt.Sprintf("events/%d/%s%s", event.ID, uuid.NewString(), filepath.Ext(fileHeader.Filename))
			url, err := awslib.S3UploadEventImage(key, file, contentType)
			if err != nil {
				log.Printf("Error uploading asset to S3 bucket: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			if err := db.Transaction(func(tx *gorm.DB) error {
				images := append(event.Images, *url)
				return tx.
					Model(&models.Event{}).
					Where("id = ?", event.ID).
					Update("images", images).
					Error
			}); err != nil {
				log.Printf("Error saving image for event [%d]: %s\n", event.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"url": url})
		})
	return g
}
