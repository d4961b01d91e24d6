package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAuthenticated_RequiresBothKeys(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		username string
		want     bool
	}{
		{"both present", "tok", "alice", true},
		{"token only", "tok", "", false},
		{"username only", "", "alice", false},
		{"neither", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := NewMemoryStorage()
			require.NoError(t, storage.Set(ctx, map[string]string{KeyToken: tt.token, KeyUsername: tt.username}))

			store := NewStore(storage)
			assert.Equal(t, tt.want, store.IsAuthenticated(ctx))

			sess, err := store.Current(ctx)
			require.NoError(t, err)
			if tt.want {
				require.NotNil(t, sess)
				assert.Equal(t, Session{Token: tt.token, Username: tt.username}, *sess)
			} else {
				assert.Nil(t, sess)
			}
		})
	}
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewStore(storage)

	require.NoError(t, store.Login(ctx, "tok", "alice"))
	assert.True(t, store.IsAuthenticated(ctx))

	require.NoError(t, store.Logout(ctx))
	assert.False(t, store.IsAuthenticated(ctx))

	token, _ := storage.Get(ctx, KeyToken)
	username, _ := storage.Get(ctx, KeyUsername)
	assert.Empty(t, token)
	assert.Empty(t, username)
	assert.Zero(t, storage.Len())
}

func TestLogin_RejectsEmptyValues(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	assert.ErrorIs(t, store.Login(context.Background(), "", "alice"), ErrEmptyCredentials)
	assert.ErrorIs(t, store.Login(context.Background(), "tok", ""), ErrEmptyCredentials)
}

func TestStore_RereadsStorageOnEveryCheck(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryStorage()
	tabA := NewStore(shared)
	tabB := NewStore(shared)

	require.NoError(t, tabA.Login(ctx, "tok", "alice"))
	assert.True(t, tabB.IsAuthenticated(ctx), "login in one tab is visible in another")

	require.NoError(t, tabB.Logout(ctx))
	assert.False(t, tabA.IsAuthenticated(ctx), "logout in one tab is visible in another")
}

type failingStorage struct{ MemoryStorage }

func (*failingStorage) Get(context.Context, string) (string, error) {
	return "", errors.New("storage unavailable")
}

func TestIsAuthenticated_StorageErrorIsAnonymous(t *testing.T) {
	store := NewStore(&failingStorage{})
	assert.False(t, store.IsAuthenticated(context.Background()))

	_, err := store.Current(context.Background())
	assert.Error(t, err)
}

func TestFromContext_DefaultsToAnonymous(t *testing.T) {
	store := FromContext(context.Background())
	require.NotNil(t, store)
	assert.False(t, store.IsAuthenticated(context.Background()))

	injected := NewStore(NewMemoryStorage())
	assert.Same(t, injected, FromContext(WithStore(context.Background(), injected)))
}
