package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsidehq/court-pricing-backend/internal/auth"
	"github.com/courtsidehq/court-pricing-backend/internal/court"
	courtHttp "github.com/courtsidehq/court-pricing-backend/internal/court/http"
	"github.com/courtsidehq/court-pricing-backend/internal/notify"
	"github.com/courtsidehq/court-pricing-backend/internal/pricing"
	"github.com/courtsidehq/court-pricing-backend/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memUserService is an in-memory user.Service. Passwords are stored as
// plain text; only the HTTP contract is under test here.
type memUserService struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newMemUserService() *memUserService {
	return &memUserService{users: make(map[string]*user.User)}
}

func (s *memUserService) seed(email, password string, isAdmin bool) *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: password,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
		IsAdmin:      isAdmin,
	}
	s.users[u.ID] = u
	return u
}

func (s *memUserService) Register(_ context.Context, email, password, displayName string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, user.ErrEmailAlreadyUsed
		}
	}
	u := &user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: password,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}
	if displayName != "" {
		u.DisplayName = &displayName
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *memUserService) Login(_ context.Context, email, password string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email && u.PasswordHash == password {
			out := *u
			return &out, nil
		}
	}
	return nil, user.ErrInvalidCredentials
}

func (s *memUserService) GetByID(_ context.Context, id string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *memUserService) List(_ context.Context, _ user.Filter) ([]*user.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, len(out), nil
}

func (s *memUserService) Update(_ context.Context, id string, input user.UpdateInput) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	if input.DisplayName != nil {
		u.DisplayName = input.DisplayName
	}
	if input.IsActive != nil {
		u.IsActive = *input.IsActive
	}
	if input.IsAdmin != nil {
		u.IsAdmin = *input.IsAdmin
	}
	out := *u
	return &out, nil
}

// memCourtService is an in-memory court.Service with version bumps and
// stale-version rejects, matching the database-backed contract.
type memCourtService struct {
	mu     sync.Mutex
	courts map[string]*court.Court
}

func newMemCourtService() *memCourtService {
	return &memCourtService{courts: make(map[string]*court.Court)}
}

func (s *memCourtService) Create(_ context.Context, req court.CreateRequest) (*court.Court, error) {
	if req.PeakHoursMultiplier == 0 {
		req.PeakHoursMultiplier = 1.0
	}
	if req.WeekendMultiplier == 0 {
		req.WeekendMultiplier = 1.0
	}
	c := &court.Court{
		ID:                    uuid.NewString(),
		Name:                  req.Name,
		BasePrice:             req.BasePrice,
		DynamicPricingEnabled: req.DynamicPricingEnabled,
		PeakHoursMultiplier:   req.PeakHoursMultiplier,
		WeekendMultiplier:     req.WeekendMultiplier,
		Version:               1,
		CreatedAt:             time.Now().UTC(),
		UpdatedAt:             time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *c
	s.courts[c.ID] = &stored
	return c, nil
}

func (s *memCourtService) GetByID(_ context.Context, id string) (*court.Court, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courts[id]
	if !ok {
		return nil, court.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *memCourtService) List(_ context.Context, filter court.Filter) ([]*court.Court, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*court.Court, 0, len(s.courts))
	for _, c := range s.courts {
		copied := *c
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	start := (filter.Page - 1) * filter.PageSize
	if start > len(all) {
		return nil, len(all), nil
	}
	end := start + filter.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (s *memCourtService) Update(ctx context.Context, id string, req court.UpdateRequest) (*court.Court, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		next := *c
		next.Name = *req.Name
		return s.Replace(ctx, &next)
	}
	return c, nil
}

func (s *memCourtService) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courts[id]; !ok {
		return court.ErrNotFound
	}
	delete(s.courts, id)
	return nil
}

func (s *memCourtService) Replace(_ context.Context, c *court.Court) (*court.Court, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.courts[c.ID]
	if !ok {
		return nil, court.ErrNotFound
	}
	if current.Version != c.Version {
		return nil, court.ErrVersionConflict
	}
	saved := *c
	saved.Version++
	saved.UpdatedAt = time.Now().UTC()
	s.courts[c.ID] = &saved
	out := saved
	return &out, nil
}

// consoleStore adapts the court service to the console's Store interface.
type consoleStore struct {
	svc court.Service
}

func (s consoleStore) Get(ctx context.Context, courtID string) (*court.Court, error) {
	return s.svc.GetByID(ctx, courtID)
}

func (s consoleStore) Put(ctx context.Context, c *court.Court) (*court.Court, error) {
	return s.svc.Replace(ctx, c)
}

type testEnv struct {
	router     *gin.Engine
	users      *memUserService
	jwtManager *auth.JWTManager
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	users := newMemUserService()
	courts := newMemCourtService()
	jwtManager := auth.NewJWTManager("test-secret", 30*time.Minute)

	calc := pricing.NewCalculator()
	estimator := pricing.NewEstimator(calc, pricing.DefaultEstimatorConfig())
	hub := pricing.NewHub(consoleStore{svc: courts}, notify.NewLogSink())

	router := NewRouter(Config{
		UserService:  users,
		CourtService: courts,
		Hub:          hub,
		Calc:         calc,
		Estimator:    estimator,
		Cache:        nil,
		JWTManager:   jwtManager,
	})

	return testEnv{router: router, users: users, jwtManager: jwtManager}
}

func (e testEnv) token(t *testing.T, u *user.User) string {
	t.Helper()
	token, err := e.jwtManager.GenerateAccessToken(u.ID, u.Email)
	require.NoError(t, err)
	return token
}

func (e testEnv) request(t *testing.T, method, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	var accessToken string

	t.Run("Register", func(t *testing.T) {
		w := env.request(t, "POST", "/v1/auth/register", RegisterRequest{
			Email:       "ops@example.com",
			Password:    "password123",
			DisplayName: "Ops",
		}, "")
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Duplicate Register", func(t *testing.T) {
		w := env.request(t, "POST", "/v1/auth/register", RegisterRequest{
			Email:    "ops@example.com",
			Password: "password123",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Login", func(t *testing.T) {
		w := env.request(t, "POST", "/v1/auth/login", LoginRequest{
			Email:    "ops@example.com",
			Password: "password123",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[LoginResponse](t, w)
		require.NotEmpty(t, resp.AccessToken)
		accessToken = resp.AccessToken
	})

	t.Run("Wrong Password", func(t *testing.T) {
		w := env.request(t, "POST", "/v1/auth/login", LoginRequest{
			Email:    "ops@example.com",
			Password: "wrong",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Me", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/me", nil, accessToken)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[MeResponse](t, w)
		assert.Equal(t, "ops@example.com", resp.User.Email)
	})

	t.Run("Me Without Token", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCourtAdminAccess(t *testing.T) {
	env := newTestEnv(t)
	admin := env.users.seed("admin@example.com", "password123", true)
	member := env.users.seed("member@example.com", "password123", false)

	payload := gin.H{"name": "Court 1", "base_price": 20}

	w := env.request(t, "POST", "/v1/courts", payload, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "anonymous create rejected")

	w = env.request(t, "POST", "/v1/courts", payload, env.token(t, member))
	assert.Equal(t, http.StatusForbidden, w.Code, "non-admin create rejected")

	w = env.request(t, "POST", "/v1/courts", payload, env.token(t, admin))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, "GET", "/v1/courts", nil, "")
	assert.Equal(t, http.StatusOK, w.Code, "listing is public")
}

func TestPricingFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.users.seed("admin@example.com", "password123", true)
	adminToken := env.token(t, admin)

	var courtID string

	t.Run("Create Court", func(t *testing.T) {
		w := env.request(t, "POST", "/v1/courts", gin.H{
			"name":                    "Center Court",
			"base_price":              20,
			"dynamic_pricing_enabled": true,
		}, adminToken)
		require.Equal(t, http.StatusCreated, w.Code)

		resp := decode[courtHttp.CourtResponse](t, w)
		require.NotEmpty(t, resp.ID)
		assert.Equal(t, 1.0, resp.PeakHoursMultiplier, "multiplier defaults applied")
		courtID = resp.ID
	})

	t.Run("Update Pricing", func(t *testing.T) {
		w := env.request(t, "PUT", "/v1/courts/"+courtID+"/pricing", gin.H{
			"base_price":            30,
			"peak_hours_multiplier": 1.5,
		}, adminToken)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[courtHttp.CourtResponse](t, w)
		assert.Equal(t, int64(30), resp.BasePrice)
		assert.Equal(t, 1.5, resp.PeakHoursMultiplier)
		assert.Equal(t, 2, resp.Version, "commit bumps the version")
	})

	t.Run("Multiplier Out Of Form Bounds", func(t *testing.T) {
		w := env.request(t, "PUT", "/v1/courts/"+courtID+"/pricing", gin.H{
			"peak_hours_multiplier": 2.5,
		}, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Quote Peak Hour", func(t *testing.T) {
		// Tuesday at 19:00 with base 30 and peak x1.5.
		w := env.request(t, "GET", "/v1/courts/"+courtID+"/quote?date=2026-03-03&hour=19", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[courtHttp.QuoteResponse](t, w)
		assert.Equal(t, int64(45), resp.Price)
	})

	t.Run("Quote Off Peak", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/courts/"+courtID+"/quote?date=2026-03-03&hour=10", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[courtHttp.QuoteResponse](t, w)
		assert.Equal(t, int64(30), resp.Price)
	})

	t.Run("Add Period From Preset", func(t *testing.T) {
		w := env.request(t, "POST", "/v1/courts/"+courtID+"/pricing/periods", gin.H{
			"preset": "happy-hour",
		}, adminToken)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[courtHttp.CourtResponse](t, w)
		require.Len(t, resp.SpecialPricing, 1)
		assert.Equal(t, 0.8, resp.SpecialPricing[0].Multiplier)
		assert.True(t, resp.SpecialPricing[0].Active)
	})

	t.Run("Unknown Preset", func(t *testing.T) {
		w := env.request(t, "POST", "/v1/courts/"+courtID+"/pricing/periods", gin.H{
			"preset": "no-such-preset",
		}, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Toggle And Remove Period", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/courts/"+courtID, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		periodID := decode[courtHttp.CourtResponse](t, w).SpecialPricing[0].ID

		w = env.request(t, "PATCH", "/v1/courts/"+courtID+"/pricing/periods/"+periodID, gin.H{
			"active": false,
		}, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, decode[courtHttp.CourtResponse](t, w).SpecialPricing[0].Active)

		w = env.request(t, "DELETE", "/v1/courts/"+courtID+"/pricing/periods/"+periodID, nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[courtHttp.CourtResponse](t, w).SpecialPricing)
	})

	t.Run("Revenue Endpoints", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/courts/"+courtID+"/revenue", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[courtHttp.RevenueResponse](t, w)
		assert.Positive(t, resp.DailyRevenue)

		w = env.request(t, "GET", "/v1/revenue", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		portfolio := decode[courtHttp.PortfolioRevenueResponse](t, w)
		assert.Equal(t, 1, portfolio.Courts)
		assert.Equal(t, resp.DailyRevenue, portfolio.DailyRevenue)
	})

	t.Run("Presets Catalog", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/pricing/presets", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestUserAdminEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := env.users.seed("admin@example.com", "password123", true)
	member := env.users.seed("member@example.com", "password123", false)
	adminToken := env.token(t, admin)

	t.Run("List Requires Admin", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/users", nil, env.token(t, member))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("List", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/users", nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Promote Member", func(t *testing.T) {
		w := env.request(t, "PATCH", "/v1/users/"+member.ID, gin.H{
			"is_admin": true,
		}, adminToken)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[UserResponse](t, w)
		assert.True(t, resp.IsAdmin)
	})

	t.Run("Patch Unknown User", func(t *testing.T) {
		w := env.request(t, "PATCH", "/v1/users/"+uuid.NewString(), gin.H{
			"is_admin": true,
		}, adminToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
