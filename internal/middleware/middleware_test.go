package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/hospital-registry/config"
	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	"github.com/Payphone-Digital/hospital-registry/internal/service"
	"github.com/Payphone-Digital/hospital-registry/pkg/cache"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/metrics"
	"github.com/Payphone-Digital/hospital-registry/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(RequestContext(time.Second))
	r.GET("/ping", func(c *gin.Context) {
		ctx := c.Request.Context()
		_, hasDeadline := ctx.Deadline()
		c.JSON(http.StatusOK, gin.H{
			"request_id":   ctxutil.GetRequestID(ctx),
			"client_ip":    ctxutil.GetClientIP(ctx),
			"user_agent":   ctxutil.GetUserAgent(ctx),
			"has_deadline": hasDeadline,
		})
	})

	t.Run("generates id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("User-Agent", "curl/8.0")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		body := decodeEnvelope(t, rec)
		id := rec.Header().Get(constants.HeaderXRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, body["request_id"])
		assert.Equal(t, "curl/8.0", body["user_agent"])
		assert.NotEmpty(t, body["client_ip"])
		assert.Equal(t, true, body["has_deadline"])
	})

	t.Run("reuses incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(constants.HeaderXRequestID, "req-abc")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "req-abc", rec.Header().Get(constants.HeaderXRequestID))
		assert.Equal(t, "req-abc", decodeEnvelope(t, rec)["request_id"])
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(constants.HeaderXRequestID, strings.Repeat("x", 500))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Len(t, rec.Header().Get(constants.HeaderXRequestID), 36)
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"allowed origin", http.MethodGet, "http://localhost:3000", http.StatusOK, "http://localhost:3000"},
		{"foreign origin", http.MethodGet, "http://evil.example", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "http://localhost:3000"},
		{"no origin", http.MethodGet, "", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAllow, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantAllow != "" {
				assert.Equal(t, "POST, GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
				assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
			}
		})
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("10.0.0.1")
		require.True(t, ok, "request %d", i)
	}
	ok, retry := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.InDelta(t, 20.0, retry.Seconds(), 1.0)

	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok, "other clients have their own bucket")

	now = now.Add(20 * time.Second)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok, "one token refills after duration/max")

	now = now.Add(2 * time.Minute)
	rl.Allow("10.0.0.3")
	assert.Equal(t, 1, rl.Len(), "idle buckets are dropped")
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(1, time.Minute)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, []string{"59", "60", "61"}, rec.Header().Get(constants.HeaderRetryAfter))
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "RATE_LIMITED", body["code"])
	assert.Equal(t, false, body["success"])
}

func newAuthRouter(t *testing.T) (*gin.Engine, *service.JWTService, *service.Authorizer) {
	t.Helper()
	tokens, err := service.NewJWTService(config.JWTConfig{
		Secret:         "0123456789abcdef0123456789abcdef",
		ExpirationTime: time.Hour,
		Issuer:         "hospital-management-system",
	})
	require.NoError(t, err)

	denylist := cache.NewCache()
	t.Cleanup(denylist.Close)
	authz := service.NewAuthorizer(tokens, denylist)

	auth := NewAuthMiddleware(authz)
	r := gin.New()
	r.GET("/admin", auth.RequireRole(constants.RoleAdmin), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		userID, _ := ctxutil.GetUserIDUint(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"id":         claims.UserID,
			"ctx_id":     userID,
			"ctx_type":   ctxutil.GetUserType(c.Request.Context()),
			"gin_userid": c.GetUint(constants.GinKeyUserID),
		})
	})
	return r, tokens, authz
}

func TestRequireRole(t *testing.T) {
	r, tokens, _ := newAuthRouter(t)

	admin, _, err := tokens.Issue(service.Subject{ID: 7, Email: "root@b.com", Type: constants.RoleAdmin})
	require.NoError(t, err)
	hospital, _, err := tokens.Issue(service.Subject{ID: 8, Email: "h@b.com", Type: constants.RoleHospital})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"no header", "", http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"bad token", "Bearer abc.def.ghi", http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"wrong role", "Bearer " + hospital, http.StatusForbidden, "FORBIDDEN"},
		{"lowercase scheme", "bearer " + admin, http.StatusOK, ""},
		{"admin", "Bearer " + admin, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeEnvelope(t, rec)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
				return
			}
			assert.Equal(t, float64(7), body["id"])
			assert.Equal(t, float64(7), body["ctx_id"])
			assert.Equal(t, "admin", body["ctx_type"])
			assert.Equal(t, float64(7), body["gin_userid"])
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"Bearer  abc ": "abc",
		"Bearer":       "",
		"Bearer a b":   "",
		"Token abc":    "",
		"":             "",
	}
	for header, want := range tests {
		assert.Equal(t, want, bearerToken(header), header)
	}
}

func TestValidateJSON(t *testing.T) {
	require.NoError(t, validation.Register())

	r := gin.New()
	r.POST("/register", ValidateJSON(func() interface{} { return &dto.RegisterAdminRequest{} }), func(c *gin.Context) {
		req, ok := RequestBody[dto.RegisterAdminRequest](c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": req.Email})
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"full_name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeEnvelope(t, rec)["code"])

	rec = post(`{"full_name":"Al","email":"nope","password":"weak"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok, "errors should be an object: %v", body["errors"])
	assert.Contains(t, errs, "full_name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.NotContains(t, rec.Body.String(), "weak")

	rec = post(`{"full_name":"Root Admin","email":"root@b.com","password":"Secret123!"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "root@b.com", decodeEnvelope(t, rec)["email"])
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/hospitals/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hospitals/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out := rec.Body.String()
	assert.Contains(t, out, `http_requests_total{method="GET",path="/hospitals/:id",status="200"} 3`)
	assert.Contains(t, out, `http_requests_total{method="GET",path="unmatched",status="404"} 1`)
}
