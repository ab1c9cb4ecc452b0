package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	secret := []byte("secret")
	claims := NewClaims("Report Cards", "1", "Mrs. Wanjiku", []string{RoleTeacher}, time.Hour)

	token, err := GenerateToken(claims, secret)
	require.NoError(t, err)

	parsed, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "1", parsed.Subject)
	assert.Equal(t, "Mrs. Wanjiku", parsed.Name)
	assert.True(t, parsed.HasRole(RoleTeacher))
	assert.False(t, parsed.HasRole(RoleAdmin))

	_, err = ParseToken(token, []byte("other"))
	assert.Error(t, err)
}

func TestParseToken_expired(t *testing.T) {
	defer func() { NowFunc = time.Now }()
	NowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := GenerateToken(NewClaims("Report Cards", "1", "", nil, time.Hour), []byte("secret"))
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("secret"))
	assert.Error(t, err)
}
