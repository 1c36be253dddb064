package middlewares

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"rbs/src/db"
	"rbs/src/types"
	"rbs/src/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	sqldb, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqldb,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", AuthMiddleware, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"id":   ctx.GetUint("id"),
			"role": ctx.GetString("role"),
		})
	})
	return router
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := authTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// The signing secret is read per request, so a secret loaded from .env
// after this package initializes still verifies.
func TestAuthMiddlewareAcceptsLateLoadedSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "late-loaded-secret")
	defer os.Unsetenv("JWT_SECRET")

	gormDB, mock := newMockDB()
	db.NewDB(gormDB)
	mock.
		ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "email", "username", "role"}).
			AddRow(1, "alice@example.com", "alice", "user"))

	token, err := utils.NewToken(1, "alice", types.ROLE_USER)
	assert.Nil(t, err)

	router := authTestRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, mock.ExpectationsWereMet())
}
