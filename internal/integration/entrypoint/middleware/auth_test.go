package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/sales-reporter/backend/internal/domain/error"
	"github.com/sales-reporter/backend/internal/integration/adapters"
	"github.com/sales-reporter/backend/internal/integration/entrypoint/dto"
)

const testSecret = "test-admin-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupProtectedEngine(enabled bool) *gin.Engine {
	auth := NewAuthMiddleware(adapters.NewTokenService(testSecret), enabled)

	engine := gin.New()
	engine.GET("/protected", auth.Authenticate(), func(c *gin.Context) {
		subject, _ := GetSubjectFromContext(c)
		c.JSON(http.StatusOK, gin.H{"subject": subject})
	})
	return engine
}

func call(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestAuthenticate_ValidToken(t *testing.T) {
	token, err := adapters.NewTokenService(testSecret).GenerateAdminToken("ops", time.Hour)
	require.NoError(t, err)

	rec := call(setupProtectedEngine(true), "Bearer "+token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"subject":"ops"}`, rec.Body.String())
}

func TestAuthenticate_Rejections(t *testing.T) {
	engine := setupProtectedEngine(true)

	otherToken, err := adapters.NewTokenService("another-secret").GenerateAdminToken("ops", time.Hour)
	require.NoError(t, err)
	expiredToken, err := adapters.NewTokenService(testSecret).GenerateAdminToken("ops", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   domainerror.AuthErrorCode
	}{
		{"missing header", "", domainerror.ErrCodeMissingToken},
		{"wrong scheme", "Basic b3BzOnB3", domainerror.ErrCodeInvalidToken},
		{"empty bearer", "Bearer   ", domainerror.ErrCodeMissingToken},
		{"garbage", "Bearer not.a.jwt", domainerror.ErrCodeInvalidToken},
		{"foreign signature", "Bearer " + otherToken, domainerror.ErrCodeInvalidToken},
		{"expired", "Bearer " + expiredToken, domainerror.ErrCodeExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(engine, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, string(tt.code), errorCode(t, rec))
		})
	}
}

func TestAuthenticate_Disabled(t *testing.T) {
	token, err := adapters.NewTokenService(testSecret).GenerateAdminToken("ops", time.Hour)
	require.NoError(t, err)

	rec := call(setupProtectedEngine(false), "Bearer "+token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(domainerror.ErrCodeAdminDisabled), errorCode(t, rec))
}
