package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolms/internal/app/integrity"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/auth"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"violation", &integrity.Violation{Reason: integrity.ReasonMissingCourse, Entity: integrity.EntitySubject, Message: "Subject must belong to a course."}, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"validation", apperrors.NewValidationError("name is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"duplicate", apperrors.NewDuplicateKeyError("course with this name already exists."), http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"referenced", apperrors.NewReferencedRowError("students exist"), http.StatusBadRequest, dto.ErrorCodeResourceReferenced},
		{"not found", fmt.Errorf("get course: %w", apperrors.ErrResourceNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"missing token", apperrors.ErrTokenMissing, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"invalid token", apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := translate(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, detail.Code)
		})
	}
}

func TestTranslateViolationDetails(t *testing.T) {
	_, detail := translate(&integrity.Violation{
		Reason:       integrity.ReasonCrossCourseStudentAssignment,
		Entity:       integrity.EntitySubject,
		Message:      "Cannot assign students from a different course to this subject.",
		OffendingIDs: []int64{4, 5},
	})

	assert.Equal(t, "Cannot assign students from a different course to this subject.", detail.Message)
	details, ok := detail.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, integrity.ReasonCrossCourseStudentAssignment, details["reason"])
	assert.Equal(t, []int64{4, 5}, details["offendingIds"])
}

func TestTranslateUsesCustomCode(t *testing.T) {
	status, detail := translate(apperrors.NewValidationError(`Invalid pk "9" - object does not exist.`).
		WithCode(string(dto.ErrorCodeResourceInvalid)).
		WithDetails(map[string]interface{}{"field": "students", "id": int64(9)}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.ErrorCodeResourceInvalid, detail.Code)
	assert.Equal(t, map[string]interface{}{"field": "students", "id": int64(9)}, detail.Details)

	_, detail = translate(dberrors.Translate(&pgconn.PgError{
		Code:           dberrors.ForeignKeyViolation,
		ConstraintName: dberrors.SubjectLecturerFKey,
		Message:        `insert or update on table "subjects" violates foreign key constraint`,
	}))
	assert.Equal(t, dto.ErrorCodeResourceInvalid, detail.Code)
}

func TestTranslateHidesInternalErrors(t *testing.T) {
	_, detail := translate(errors.New("pq: password authentication failed"))
	assert.Equal(t, "Internal server error", detail.Message)
}

type fakeVerifier struct {
	claims *auth.Claims
	err    error
	token  string
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (*auth.Claims, error) {
	f.token = token
	return f.claims, f.err
}

func guarded(verifier TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/private", NewAuthMiddleware(verifier).JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetInt64(ContextUserID), "email": c.GetString(ContextEmail)})
	})
	return r
}

func call(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		rec := call(guarded(&fakeVerifier{}), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), string(dto.ErrorCodeTokenNotFound))
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		rec := call(guarded(&fakeVerifier{}), "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), string(dto.ErrorCodeInvalidToken))
	})

	t.Run("rejected token", func(t *testing.T) {
		rec := call(guarded(&fakeVerifier{err: apperrors.ErrTokenExpired}), "Bearer old")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), string(dto.ErrorCodeExpiredToken))
	})

	for _, scheme := range []string{"Bearer", "Token"} {
		t.Run(scheme+" scheme", func(t *testing.T) {
			v := &fakeVerifier{claims: &auth.Claims{UserID: 7, Email: "admin@example.com"}}
			rec := call(guarded(v), scheme+" good-token")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "good-token", v.token)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, float64(7), body["userID"])
			assert.Equal(t, "admin@example.com", body["email"])
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 100))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestAccessLogLevelsByStatus(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), AccessLog(zerolog.New(&buf)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "info", first["level"])
	assert.Equal(t, "/ok", first["path"])
	assert.NotEmpty(t, first["requestId"])
	assert.Equal(t, "warn", second["level"])
	assert.Equal(t, float64(http.StatusNotFound), second["status"])
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:4200/"}, false))
	r.GET("/api/courses/", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })

	preflight := httptest.NewRequest(http.MethodOptions, "/api/courses/", nil)
	preflight.Header.Set("Origin", "http://localhost:4200")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, preflight)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	req := httptest.NewRequest(http.MethodGet, "/api/courses/", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	all := gin.New()
	all.Use(CORS(nil, true))
	all.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://anywhere.example.com")
	rec = httptest.NewRecorder()
	all.ServeHTTP(rec, req)
	assert.Equal(t, "http://anywhere.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
