package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"rbs/src/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
)

type TestSuite struct {
	suite.Suite
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookingdate", bookingDateValidatorFunc)
		v.RegisterValidation("timeslot", timeSlotValidatorFunc)
	}
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestHealthz() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "ok", gjson.Get(string(rbytes), "status").String())
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestSecureHeaders() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(s.T(), "DENY", w.Header().Get("X-Frame-Options"))
}

func (s *TestSuite) TestAuthRoutesRejectMalformedBodies() {
	router := setupRouter()
	guestAuthRoutes(router)

	s.Run("register without required fields", func() {
		w := httptest.NewRecorder()
		jbody := map[string]any{"email": "someone@example.com"}
		sbody, _ := json.Marshal(&jbody)
		req, _ := http.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("login without password", func() {
		w := httptest.NewRecorder()
		jbody := map[string]any{"email": "someone@example.com"}
		sbody, _ := json.Marshal(&jbody)
		req, _ := http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestProtectedRoutesRequireToken() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.AuthMiddleware)
	roomHandlers(apiv1)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/rooms", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestBookingDateValidator() {
	v := validator.New()
	v.RegisterValidation("bookingdate", bookingDateValidatorFunc)

	assert.Nil(s.T(), v.Var("2999-12-31", "bookingdate"))
	assert.NotNil(s.T(), v.Var("2020-01-01", "bookingdate"), "past dates are rejected")
	assert.NotNil(s.T(), v.Var("31-12-2999", "bookingdate"))
	assert.NotNil(s.T(), v.Var("not-a-date", "bookingdate"))
}

func (s *TestSuite) TestTimeSlotValidator() {
	v := validator.New()
	v.RegisterValidation("timeslot", timeSlotValidatorFunc)

	assert.Nil(s.T(), v.Var("09:00", "timeslot"))
	assert.Nil(s.T(), v.Var("23:59", "timeslot"))
	assert.NotNil(s.T(), v.Var("9:00", "timeslot"), "hours are zero padded")
	assert.NotNil(s.T(), v.Var("25:00", "timeslot"))
	assert.NotNil(s.T(), v.Var("10:00:00", "timeslot"))
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
