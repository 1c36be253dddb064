package utils

import (
	"fmt"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"rbs/src/config"
	"rbs/src/types"

	"github.com/golang-jwt/jwt/v4"
	"github.com/yeqown/go-qrcode"
	"golang.org/x/crypto/bcrypt"
)

// NormalizeEmail lowercases and trims an email address. Every lookup
// and every stored value goes through this, otherwise the same mailbox
// can end up owning two accounts.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseSlotDate parses a booking date in YYYY-MM-DD form.
func ParseSlotDate(date string) (time.Time, error) {
	return time.ParseInLocation(config.DATE_FORMAT, date, time.Local)
}

// ParseSlotTime validates an HH:MM wall-clock value.
func ParseSlotTime(hhmm string) (time.Time, error) {
	return time.Parse(config.TIME_FORMAT, hhmm)
}

// CombineDateTime resolves a stored date + HH:MM pair into a local
// timestamp for wall-clock comparisons.
func CombineDateTime(date, hhmm string) (time.Time, error) {
	return time.ParseInLocation(config.DATE_FORMAT+" "+config.TIME_FORMAT, fmt.Sprintf("%s %s", date, hhmm), time.Local)
}

// SlotsOverlap applies the half-open interval test on two [start, end)
// slots. Zero-padded HH:MM strings order lexicographically, so plain
// string comparison is exact here.
func SlotsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewToken issues a signed HS256 token for the user, valid for 24h.
func NewToken(userID uint, username string, role types.UserRole) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// GenerateBookingQR renders the booking reference as a QR image in the
// temp dir and returns the file path for mail attachment.
func GenerateBookingQR(reference string) (string, error) {
	qrc, err := qrcode.New(reference)
	if err != nil {
		return "", err
	}
	tempdir := os.Getenv("TEMP_DIR")
	filepath := path.Join(tempdir, fmt.Sprintf("%s.jpeg", reference))
	if err = qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return "", err
	}
	return filepath, nil
}
