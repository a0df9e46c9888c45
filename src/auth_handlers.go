package main

import (
	"errors"
	"eventuate/src/controllers"
	"eventuate/src/db"
	"eventuate/src/models"
	"eventuate/src/types"
	"eventuate/src/utils"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func guestAuthHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/auth/register", func(ctx *gin.Context) {
			var body types.RegisterUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			result, status, err := controllers.AuthRegister(ctx, &body)
			if err != nil {
				ctx.JSON(status, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(status, result)
		}).
		POST("/auth/login", func(ctx *gin.Context) {
			var body types.LoginRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			result, status, err := controllers.AuthLogin(ctx, &body)
			if err != nil {
				ctx.JSON(status, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(status, result)
		})
	return g
}

func authHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/auth/me", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var user models.User
			db := db.GetDb()
			if err := db.
				Model(&models.User{}).
				Where(&models.User{ID: userId}).
				First(&user).
				Error; err != nil {
				log.Printf("Error retrieving user [%d]: %s\n", userId, err.Error())
				ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"user": user})
		}).
		PUT("/auth/profile", func(ctx *gin.Context) {
			var body types.UpdateProfileRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.Phone != nil {
				updates["phone"] = *body.Phone
			}
			if body.Bio != nil {
				updates["bio"] = *body.Bio
			}
			if body.Location != nil {
				updates["location"] = *body.Location
			}
			if body.Avatar != nil {
				updates["avatar"] = *body.Avatar
			}
			if body.Interests != nil {
				updates["interests"] = *body.Interests
			}
			var user models.User
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				if len(updates) > 0 {
					if err := tx.
						Model(&models.User{}).
						Where("id = ?", userId).
						Updates(updates).
						Error; err != nil {
						return err
					}
				}
				return tx.Where(&models.User{ID: userId}).First(&user).Error
			}); err != nil {
				log.Printf("Error updating profile for user [%d]: %s\n", userId, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"user": user})
		}).
		PUT("/auth/password", func(ctx *gin.Context) {
			var body types.ChangePasswordRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				var user models.User
				if err := tx.Where(&models.User{ID: userId}).First(&user).Error; err != nil {
					return err
				}
				if !utils.ComparePassword(user.Password, body.CurrentPassword) {
					return errors.New("Current password is incorrect")
				}
				hash, err := utils.HashPassword(body.NewPassword)
				if err != nil {
					return err
				}
				return tx.
					Model(&models.User{}).
					Where("id = ?", userId).
					Update("password", hash).
					Error
			}); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
		}).
		PUT("/auth/settings", func(ctx *gin.Context) {
			var body types.UpdateSettingsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"errors": utils.FormatValidationErrors(err)})
				return
			}
			userId := ctx.GetUint("id")
			var user models.User
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.User{ID: userId}).First(&user).Error; err != nil {
					return err
				}
				prefs := user.Notifications
				if prefs == nil {
					prefs = types.JSONB{}
				}
				if body.EmailNotifications != nil {
					prefs["emailNotifications"] = *body.EmailNotifications
				}
				if body.SMSNotifications != nil {
					prefs["smsNotifications"] = *body.SMSNotifications
				}
				if body.EventReminders != nil {
					prefs["eventReminders"] = *body.EventReminders
				}
				if body.MarketingEmails != nil {
					prefs["marketingEmails"] = *body.MarketingEmails
				}
				updates := map[string]any{"notifications": prefs}
				if body.AccountType != nil {
					updates["account_type"] = *body.AccountType
				}
				if err := tx.
					Model(&models.User{}).
					Where("id = ?", userId).
					Updates(updates).
					Error; err != nil {
					return err
				}
				return tx.Where(&models.User{ID: userId}).First(&user).Error
			}); err != nil {
				log.Printf("Error updating settings for user [%d]: %s\n", userId, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"user": user})
		}).
		DELETE("/auth/account", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				return tx.Delete(&models.User{ID: userId}).Error
			}); err != nil {
				log.Printf("Error deleting account [%d]: %s\n", userId, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
		})
	return g
}
