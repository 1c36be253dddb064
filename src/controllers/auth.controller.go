package controllers

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"time"

	"rbs/src/db"
	"rbs/src/lib"
	"rbs/src/models"
	"rbs/src/services"
	"rbs/src/types"
	"rbs/src/utils"

	"github.com/gin-gonic/gin"
)

// AuthRegister creates an account and mails a verification code. The
// code lives in redis with a 10 minute TTL keyed per email, so a
// restart or a second instance never loses it.
func AuthRegister(ctx *gin.Context) (uint, int, error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return 0, http.StatusBadRequest, err
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return 0, http.StatusInternalServerError, err
	}
	svc := services.NewUserService(db.GetDb())
	user, err := svc.CreateUser(body.Username, body.Email, hash)
	if err != nil {
		return 0, types.ErrorStatus(err), err
	}

	bi, err := rand.Int(rand.Reader, big.NewInt(999_999))
	if err != nil {
		return user.ID, http.StatusInternalServerError, err
	}
	code := fmt.Sprintf("%06d", bi)
	if err := lib.StoreVerificationCode(context.Background(), user.Email, code, 10*time.Minute); err != nil {
		log.Printf("Could not store verification code for [%s]: %s\n", user.Email, err.Error())
	}
	go func() {
		if err := lib.SendMail(&lib.SendMailInput{
			From:     os.Getenv("SMTP_FROM"),
			FromName: "noreply",
			Subject:  "Verify your email address",
			To:       []string{user.Email},
			Body: fmt.Sprintf(`
				<p>Welcome, %s!</p>
				<p>Your verification code: %s</p>
			`, user.Username, code),
			Html: true,
		}); err != nil {
			log.Printf("Could not send verification email to [%s]: %s\n", user.Email, err.Error())
		}
	}()
	return user.ID, http.StatusCreated, nil
}

// AuthVerify redeems a verification code; codes are single-use.
func AuthVerify(ctx *gin.Context) (int, error) {
	var body types.VerifyEmailRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return http.StatusBadRequest, err
	}
	email := utils.NormalizeEmail(body.Email)
	ok, err := lib.ConsumeVerificationCode(context.Background(), email, body.Code)
	if err != nil {
		log.Printf("Error reading verification code for [%s]: %s\n", email, err.Error())
		return http.StatusInternalServerError, err
	}
	if !ok {
		err := types.NewValidationError("verification code is invalid or has expired")
		return types.ErrorStatus(err), err
	}
	if err := db.GetDb().
		Model(&models.User{}).
		Where("email = ?", email).
		Update("email_verified", true).
		Error; err != nil {
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}

func AuthLogin(ctx *gin.Context) (*string, int, error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	svc := services.NewUserService(db.GetDb())
	user, err := svc.FindByEmail(body.Email)
	if err != nil {
		err := types.NewForbiddenError("invalid credentials")
		return nil, http.StatusUnauthorized, err
	}
	if !utils.VerifyPassword(user.PasswordHash, body.Password) {
		err := types.NewForbiddenError("invalid credentials")
		return nil, http.StatusUnauthorized, err
	}
	token, err := utils.NewToken(user.ID, user.Username, user.Role)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	return &token, http.StatusOK, nil
}
