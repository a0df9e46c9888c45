package middlewares

import (
	"eventuate/src/db"
	"eventuate/src/models"
	"eventuate/src/types"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer ") {
		ctx.AbortWithStatusJSON(401, gin.H{"message": "Not authorized to access this route"})
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatusJSON(401, gin.H{"message": "Not authorized to access this route"})
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatusJSON(401, gin.H{"message": "Not authorized to access this route"})
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatusJSON(401, gin.H{"message": "Not authorized to access this route"})
		return
	}

	db := db.GetDb()
	var user models.User
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatusJSON(401, gin.H{"message": "Not authorized to access this route"})
		return
	}
	db.Model(&models.User{}).Where(&models.User{ID: uint(uid)}).Find(&user)

	if uint(uid) != user.ID || user.ID < 1 {
		ctx.AbortWithStatusJSON(401, gin.H{"message": "Not authorized to access this route"})
		return
	}
	ctx.Set("id", user.ID)
	ctx.Set("email", user.Email)
	ctx.Set("accountType", string(user.AccountType))
}

// RequireOrganizer gates routes that mutate events. Must run after
// AuthMiddleware so accountType is already on the context.
func RequireOrganizer(ctx *gin.Context) {
	accountType := ctx.GetString("accountType")
	if !types.AccountType(accountType).CanOrganize() {
		ctx.AbortWithStatusJSON(403, gin.H{"message": "Only organizers can perform this action"})
		return
	}
}
