package middleware_test

import (
	"context"
	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func protectedRouter(tc *testutil.TestContext) *gin.Engine {
	r := gin.New()
	r.GET("/protected", tc.AuthMiddleware.AuthRequired(), func(c *gin.Context) {
		user := auth.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name       string
		authHeader func(tc *testutil.TestContext, user *models.User) string
		setupFunc  func(tc *testutil.TestContext, user *models.User)
		wantStatus int
	}{
		{
			name:       "Valid Token",
			authHeader: func(tc *testutil.TestContext, user *models.User) string { return "Bearer " + tc.TokenFor(user.ID) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "Missing Header",
			authHeader: func(tc *testutil.TestContext, user *models.User) string { return "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Wrong Scheme",
			authHeader: func(tc *testutil.TestContext, user *models.User) string { return "Basic " + tc.TokenFor(user.ID) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Garbage Token",
			authHeader: func(tc *testutil.TestContext, user *models.User) string { return "Bearer not.a.token" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "Expired Token",
			authHeader: func(tc *testutil.TestContext, user *models.User) string {
				claims := jwt.MapClaims{
					"sub": user.ID.String(),
					"exp": time.Now().Add(-time.Hour).Unix(),
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
					SignedString([]byte(tc.Config.Auth.JWTSecret))
				require.NoError(tc.T, err)
				return "Bearer " + token
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "Subject Does Not Exist",
			authHeader: func(tc *testutil.TestContext, user *models.User) string {
				token, err := tc.AuthService.GenerateToken(uuid.New())
				require.NoError(tc.T, err)
				return "Bearer " + token
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Deactivated Subject",
			authHeader: func(tc *testutil.TestContext, user *models.User) string { return "Bearer " + tc.TokenFor(user.ID) },
			setupFunc: func(tc *testutil.TestContext, user *models.User) {
				require.NoError(tc.T, tc.UserRepo.SetActive(context.Background(), user.ID, false))
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			user := tc.CreateTestUser("Alice Smith", "alice@example.com", "test_password", false)
			if tt.setupFunc != nil {
				tt.setupFunc(tc, user)
			}

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header := tt.authHeader(tc, user); header != "" {
				req.Header.Set("Authorization", header)
			}

			w := httptest.NewRecorder()
			protectedRouter(tc).ServeHTTP(w, req)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus == http.StatusOK {
				require.Contains(t, w.Body.String(), user.Email)
			}
		})
	}
}
