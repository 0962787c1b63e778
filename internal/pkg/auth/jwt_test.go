package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

func newService() *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "schoolms"})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newService()
	token, err := svc.GenerateToken(&models.User{ID: 7, Email: "admin@example.com", IsStaff: true})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsStaff)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := newService()
	user := &models.User{ID: 1, Email: "a@example.com"}

	expired := newService()
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.GenerateToken(user)
	require.NoError(t, err)

	otherKey := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "schoolms"})
	forged, err := otherKey.GenerateToken(user)
	require.NoError(t, err)

	otherIssuer := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "elsewhere"})
	foreign, err := otherIssuer.GenerateToken(user)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "", want: apperrors.ErrTokenMissing},
		{name: "garbage", token: "not-a-jwt", want: apperrors.ErrTokenInvalid},
		{name: "expired", token: expiredToken, want: apperrors.ErrTokenExpired},
		{name: "wrong key", token: forged, want: apperrors.ErrTokenInvalid},
		{name: "wrong issuer", token: foreign, want: apperrors.ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		err    error
	}{
		{header: "Bearer abc", token: "abc"},
		{header: "Token abc", token: "abc"},
		{header: "token  abc ", token: "abc"},
		{header: "", err: apperrors.ErrTokenMissing},
		{header: "Basic abc", err: apperrors.ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ExtractToken(tt.header)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, got)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPasswordWithCost("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
