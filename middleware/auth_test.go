package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miniblog/miniblog/config"
	"github.com/miniblog/miniblog/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("RATE_LIMIT_PER_MINUTE", "10000")
	config.Reset()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func identityEcho(ctx *gin.Context) {
	id, _ := ctx.Get(ContextUserIDKey)
	email, _ := ctx.Get(ContextEmailKey)
	ctx.JSON(http.StatusOK, gin.H{"id": id, "email": email})
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := gin.New()
	r.GET("/probe", AuthRequired(), identityEcho)

	token, err := utils.GenerateToken("user-1", "a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc123", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), "user-1")
				assert.Contains(t, w.Body.String(), "a@x.com")
			} else {
				assert.Contains(t, w.Body.String(), "error")
			}
		})
	}
}

func TestAuthOptionalContinuesWithoutIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/probe", AuthOptional(), func(ctx *gin.Context) {
		_, hasID := ctx.Get(ContextUserIDKey)
		ctx.JSON(http.StatusOK, gin.H{"authenticated": hasID})
	})

	for _, header := range []string{"", "Bearer garbage", "Basic abc"} {
		w := doRequest(r, header)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	}
}

func TestAuthOptionalAttachesValidIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/probe", AuthOptional(), identityEcho)

	token, err := utils.GenerateToken("user-2", "b@x.com")
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-2")
}
