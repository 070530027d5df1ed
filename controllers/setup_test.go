package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/gastro-api/config"
	"github.com/yeremiapane/gastro-api/database"
	"github.com/yeremiapane/gastro-api/models"
	"github.com/yeremiapane/gastro-api/router"
	"github.com/yeremiapane/gastro-api/utils"
	"gorm.io/gorm"
)

const testSecret = "controller-test-secret"

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	tokens *utils.TokenIssuer
	seq    int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DBDriver:          "sqlite",
		DBSource:          "file::memory:",
		GinMode:           "release",
		JWTSecret:         testSecret,
		JWTTTL:            time.Hour,
		CORSOrigins:       []string{"*"},
		RateLimitRPS:      1000,
		RateLimitBurst:    1000,
		ReservationPolicy: "overlap",
	}
	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testServer{
		t:      t,
		db:     db,
		router: router.SetupRouter(db, cfg),
		tokens: utils.NewTokenIssuer(testSecret, time.Hour),
	}
}

// user seeds an account and returns a bearer token for it.
func (s *testServer) user(staff bool) (models.User, string) {
	s.t.Helper()
	s.seq++
	u := models.User{
		Name:     fmt.Sprintf("user %d", s.seq),
		Email:    fmt.Sprintf("user%d@example.com", s.seq),
		Password: "x",
		IsStaff:  staff,
	}
	require.NoError(s.t, s.db.Create(&u).Error)
	token, err := s.tokens.GenerateToken(u.ID, u.IsStaff)
	require.NoError(s.t, err)
	return u, token
}

// restaurant seeds a restaurant with an owner and returns the owner's token.
func (s *testServer) restaurant(title string) (models.Restaurant, string) {
	s.t.Helper()
	owner, token := s.user(false)
	r := models.Restaurant{Title: title, Status: models.RestaurantOpen}
	require.NoError(s.t, s.db.Create(&r).Error)
	require.NoError(s.t, s.db.Create(&models.Owner{UserID: owner.ID, RestaurantID: r.ID}).Error)
	return r, token
}

func (s *testServer) customer() (models.Customer, string) {
	s.t.Helper()
	u, token := s.user(false)
	c := models.Customer{UserID: u.ID}
	require.NoError(s.t, s.db.Create(&c).Error)
	return c, token
}

func (s *testServer) product(restaurantID uint, title, price string) models.Product {
	s.t.Helper()
	col := models.Collection{RestaurantID: restaurantID, Title: title + " collection"}
	require.NoError(s.t, s.db.Create(&col).Error)
	p := models.Product{
		RestaurantID: restaurantID,
		CollectionID: col.ID,
		Title:        title,
		Slug:         title,
		UnitPrice:    decimal.RequireFromString(price),
	}
	require.NoError(s.t, s.db.Create(&p).Error)
	return p
}

func (s *testServer) count(model interface{}) int64 {
	s.t.Helper()
	var n int64
	require.NoError(s.t, s.db.Model(model).Count(&n).Error)
	return n
}

// do sends a JSON request. An empty token sends no Authorization header.
func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func decode[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
