package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rkataria99/ExpenseApp-backend/auth"
	"github.com/rkataria99/ExpenseApp-backend/models"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func tokenResponse(c *gin.Context, user *models.User) {
	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "name": user.Name, "email": user.Email},
	})
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var input RegisterInput
	_ = c.ShouldBindJSON(&input)

	if input.Email == "" || input.Password == "" {
		fail(c, http.StatusBadRequest, "Email & password required")
		return
	}

	user, err := models.CreateUser(input.Name, input.Email, input.Password)
	switch {
	case errors.Is(err, models.ErrEmailTaken):
		fail(c, http.StatusBadRequest, "Email already registered")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().Str("user", user.ID).Msg("User registered")
	tokenResponse(c, user)
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var input LoginInput
	_ = c.ShouldBindJSON(&input)

	user, err := models.UserByEmail(input.Email)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	// One message for both failures: no hint whether the email exists.
	if user == nil || !user.CheckPassword(input.Password) {
		fail(c, http.StatusBadRequest, "Invalid email or password")
		return
	}

	tokenResponse(c, user)
}

// GET /api/auth/me
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": auth.CurrentUser(c)})
}
