package controllers

import (
	"context"
	"encoding/json"
	"errors"
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
	"gorm.io/gorm"
)

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func AuthRegister(ctx *gin.Context, body *types.RegisterUserRequestBody) (*AuthResponse, int, error) {
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, errors.New("Server error")
	}
	newUser := models.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: hash,
		Phone:    body.Phone,
		Notifications: types.JSONB{
			"emailNotifications": true,
			"smsNotifications":   false,
			"eventReminders":     true,
			"marketingEmails":    false,
		},
	}
	if body.AccountType != nil {
		newUser.AccountType = *body.AccountType
	}

	gdb := db.GetDb()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.
			Model(&models.User{}).
			Select("id").
			Where("email = ?", body.Email).
			First(&existing).
			Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		if existing.ID > 0 {
			return errors.New("User already exists")
		}
		if err := tx.Create(&newUser).Error; err != nil {
			log.Printf("Error creating user: %s\n", err.Error())
			return fmt.Errorf("error creating user: %s", body.Email)
		}
		return nil
	})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	token, err := utils.GenerateJWT(&newUser)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", newUser.ID, err.Error())
		return nil, http.StatusInternalServerError, errors.New("Server error")
	}

	mailer.NewMailerMessage(&lib.SendMailInput{
		To:      []string{newUser.Email},
		Subject: "Welcome to Eventuate",
		Body:    fmt.Sprintf("Hi %s, your account is ready. Start exploring events today.", newUser.Name),
	})

	return &AuthResponse{Token: token, User: &newUser}, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context, body *types.LoginRequestBody) (*AuthResponse, int, error) {
	gdb := db.GetDb()
	var user models.User
	if err := gdb.
		Model(&models.User{}).
		Where("email = ?", body.Email).
		First(&user).
		Error; err != nil {
		log.Printf("Login failed for %s: %s\n", body.Email, err.Error())
		return nil, http.StatusBadRequest, errors.New("Invalid credentials")
	}
	if !utils.ComparePassword(user.Password, body.Password) {
		return nil, http.StatusBadRequest, errors.New("Invalid credentials")
	}

	token, err := utils.GenerateJWT(&user)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, errors.New("Server error")
	}

	if rd := lib.GetRedisClient(); rd != nil {
		if cached, err := json.Marshal(&user); err == nil {
			key := fmt.Sprintf("user:profile:%d", user.ID)
			if err := rd.Set(context.Background(), key, cached, 24*time.Hour).Err(); err != nil {
				log.Printf("[redis] Error updating user cache: %s\n", err.Error())
			}
		}
	}

	return &AuthResponse{Token: token, User: &user}, http.StatusOK, nil
}
