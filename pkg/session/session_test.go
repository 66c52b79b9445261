package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/querylab/pkg/errors"
	"github.com/TFMV/querylab/pkg/models"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

var (
	alice = models.User{ID: 1, Username: "alice", Email: "alice@example.com", Role: "USER"}
	root  = models.User{ID: 2, Username: "root", Email: "root@example.com", Role: models.RoleAdmin}
)

func TestSession_Roles(t *testing.T) {
	var empty Session
	assert.False(t, empty.Authenticated())
	assert.False(t, empty.IsAdmin())

	user := New("tok", alice)
	assert.True(t, user.Authenticated())
	assert.False(t, user.IsAdmin())

	admin := FromAuthResponse(&models.AuthResponse{Token: "tok", ID: 2, Username: "root", Email: "root@example.com", Role: "ADMIN"})
	assert.True(t, admin.IsAdmin())
	assert.Equal(t, root, admin.User())

	admin.Clear()
	assert.False(t, admin.Authenticated())
	assert.Equal(t, models.User{}, admin.User())
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		token    string
		expected bool
	}{
		{
			name:     "future exp",
			token:    signedToken(t, jwt.MapClaims{"sub": "alice", "exp": now.Add(time.Hour).Unix()}),
			expected: false,
		},
		{
			name:     "past exp",
			token:    signedToken(t, jwt.MapClaims{"sub": "alice", "exp": now.Add(-time.Minute).Unix()}),
			expected: true,
		},
		{
			name:     "no exp",
			token:    signedToken(t, jwt.MapClaims{"sub": "alice"}),
			expected: false,
		},
		{
			name:     "opaque token",
			token:    "not-a-jwt",
			expected: false,
		},
		{
			name:     "empty",
			token:    "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.token, alice).Expired(now))
		})
	}
}

func TestAuthorize(t *testing.T) {
	now := time.Now()
	expired := New(signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()}), alice)

	tests := []struct {
		name  string
		sess  *Session
		route Route
		code  string
	}{
		{"login is public", nil, RouteLogin, ""},
		{"register is public", &Session{}, RouteRegister, ""},
		{"query needs session", &Session{}, RouteQuery, errors.CodeUnauthorized},
		{"nil session", nil, RouteHistory, errors.CodeUnauthorized},
		{"user may query", New("tok", alice), RouteQuery, ""},
		{"user may compare", New("tok", alice), RouteCompare, ""},
		{"user may read history", New("tok", alice), RouteHistory, ""},
		{"user may not administer", New("tok", alice), RouteAdmin, errors.CodePermissionDenied},
		{"admin may administer", New("tok", root), RouteAdmin, ""},
		{"expired token", expired, RouteQuery, errors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.sess, tt.route, now)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "querylab", "session.yaml")
	store := NewFileStore(path)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.False(t, loaded.Authenticated())

	require.NoError(t, store.Save(New("abc.def.ghi", root)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", loaded.Token())
	assert.Equal(t, root, loaded.User())

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: [unterminated"), 0o600))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestTeardown(t *testing.T) {
	store := &MemoryStore{}
	sess := New("tok", alice)
	require.NoError(t, store.Save(sess))

	Teardown(sess, store, func(err error) { t.Fatalf("unexpected error: %v", err) })()

	assert.False(t, sess.Authenticated())
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.False(t, loaded.Authenticated())
}
