package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/greenhouse-iot/console/internal/console/api"
	"github.com/greenhouse-iot/console/internal/console/models"
	"github.com/greenhouse-iot/console/internal/console/storage"
)

// ---- helpers ----

func setupKV(t *testing.T) (storage.Repository, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kv (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return storage.NewSQLiteRepository(db), db
}

func persistedToken(t *testing.T, db *sql.DB) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM kv WHERE key = ?`, TokenKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	require.NoError(t, err)
	return v
}

// ---- fake API ----

type fakeAPI struct {
	loginToken string
	loginErr   error
	loginUser  string
	loginPass  string

	users     []models.DirectoryUser
	listErr   error
	listCalls int

	changeErr   error
	lastCurrent string
	lastNew     string

	token      string
	setCalls   int
	clearCalls int
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (string, error) {
	f.loginUser, f.loginPass = username, password
	return f.loginToken, f.loginErr
}

func (f *fakeAPI) ListUsers(context.Context) ([]models.DirectoryUser, error) {
	f.listCalls++
	return f.users, f.listErr
}

func (f *fakeAPI) ChangeOwnPassword(_ context.Context, current, newPassword string) error {
	f.lastCurrent, f.lastNew = current, newPassword
	return f.changeErr
}

func (f *fakeAPI) SetToken(token string) { f.token = token; f.setCalls++ }
func (f *fakeAPI) ClearToken()          { f.token = ""; f.clearCalls++ }

func newStore(t *testing.T, f *fakeAPI) (*Store, *sql.DB) {
	t.Helper()
	kv, db := setupKV(t)
	return NewStore(f, kv, zerolog.Nop()), db
}

// ---- TESTS ----

func TestLogin_Success(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "1", "role": "User"})
	f := &fakeAPI{loginToken: tok}
	s, db := newStore(t, f)

	ok := s.Login(context.Background(), "john", "pw")
	require.True(t, ok)
	require.True(t, s.Authed())
	require.Equal(t, "john", s.User().UserName)
	require.Equal(t, []string{"User"}, s.User().Roles)

	require.Equal(t, []byte(tok), persistedToken(t, db))
	require.Equal(t, tok, f.token)
	// plain users never hit the directory
	require.Equal(t, 0, f.listCalls)
}

func TestLogin_ReplacesStalePersistedState(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "1", "role": "User"})
	f := &fakeAPI{loginToken: tok}
	s, db := newStore(t, f)

	// leftovers from an earlier session version must not survive a login
	_, err := db.Exec(`INSERT INTO kv (key, value) VALUES ('legacy', 'x'), (?, 'stale')`, TokenKey)
	require.NoError(t, err)

	require.True(t, s.Login(context.Background(), "john", "pw"))
	require.Equal(t, []byte(tok), persistedToken(t, db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestLogin_BadCredentialsResolvesFalse(t *testing.T) {
	f := &fakeAPI{loginErr: api.ErrUnauthorized}
	s, db := newStore(t, f)

	require.False(t, s.Login(context.Background(), "john", "wrong"))
	require.False(t, s.Authed())
	require.Nil(t, s.User())
	require.Nil(t, persistedToken(t, db))
}

func TestLogin_UndecodableTokenResolvesFalse(t *testing.T) {
	f := &fakeAPI{loginToken: "garbage"}
	s, db := newStore(t, f)

	require.False(t, s.Login(context.Background(), "john", "pw"))
	require.False(t, s.Authed())
	require.Nil(t, persistedToken(t, db))
}

func TestLogin_AdminEnrichedFromDirectory(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "1", "role": "Admin"})
	f := &fakeAPI{
		loginToken: tok,
		users: []models.DirectoryUser{
			{ID: "2", UserName: "bob", Roles: []string{"User"}, IsFirstLogin: false},
			{ID: "1", UserName: "alice", Roles: []string{"Admin"}, IsFirstLogin: true},
		},
	}
	s, _ := newStore(t, f)

	require.True(t, s.Login(context.Background(), "alice", "pw"))
	require.Equal(t, 1, f.listCalls)

	u := s.User()
	require.True(t, u.IsFirstLogin)
	require.Equal(t, "alice", u.UserName)
	require.Equal(t, []string{"Admin"}, u.Roles)
}

func TestLogin_AdminMatchByUsernameWhenIDsDiffer(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"role": "Admin"})
	f := &fakeAPI{
		loginToken: tok,
		users: []models.DirectoryUser{
			{ID: "9", UserName: "alice", Roles: []string{"Admin"}, IsFirstLogin: true},
		},
	}
	s, _ := newStore(t, f)

	require.True(t, s.Login(context.Background(), "alice", "pw"))
	require.True(t, s.User().IsFirstLogin)
}

func TestLogin_DirectoryFailureFallsBackToDefaults(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "1", "role": "Admin"})
	f := &fakeAPI{loginToken: tok, listErr: api.ErrUnavailable}
	s, _ := newStore(t, f)

	require.True(t, s.Login(context.Background(), "alice", "pw"))
	u := s.User()
	require.False(t, u.IsFirstLogin)
	require.Equal(t, []string{"Admin"}, u.Roles)
}

func TestLogout_ClearsEverything(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "1", "role": "User"})
	f := &fakeAPI{loginToken: tok}
	s, db := newStore(t, f)

	require.True(t, s.Login(context.Background(), "john", "pw"))
	s.Logout(context.Background())

	require.False(t, s.Authed())
	require.Nil(t, s.User())
	require.Empty(t, f.token)
	require.Nil(t, persistedToken(t, db))
}

func TestLogout_Idempotent(t *testing.T) {
	f := &fakeAPI{}
	s, db := newStore(t, f)

	s.Logout(context.Background())
	s.Logout(context.Background())

	require.False(t, s.Authed())
	require.Nil(t, persistedToken(t, db))
}

func TestInitialize_NoPersistedToken(t *testing.T) {
	f := &fakeAPI{}
	s, _ := newStore(t, f)

	require.NoError(t, s.Initialize(context.Background()))
	require.False(t, s.Authed())
	require.Equal(t, 0, f.setCalls)
}

func TestInitialize_RestoresWithoutNetwork(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "1", "role": []string{"Admin"}, "name": "alice"})
	f := &fakeAPI{}
	kv, _ := setupKV(t)
	require.NoError(t, kv.Set(context.Background(), TokenKey, []byte(tok)))

	s := NewStore(f, kv, zerolog.Nop())
	require.NoError(t, s.Initialize(context.Background()))

	require.True(t, s.Authed())
	u := s.User()
	require.Equal(t, "1", u.ID)
	require.Equal(t, "alice", u.UserName)
	require.Equal(t, []string{"Admin"}, u.Roles)
	// header armed, but no network call even for admins
	require.Equal(t, tok, f.token)
	require.Equal(t, 0, f.listCalls)
}

func TestInitialize_MalformedTokenClearsState(t *testing.T) {
	f := &fakeAPI{}
	kv, db := setupKV(t)
	require.NoError(t, kv.Set(context.Background(), TokenKey, []byte("rotten")))

	s := NewStore(f, kv, zerolog.Nop())
	require.NoError(t, s.Initialize(context.Background()))

	require.False(t, s.Authed())
	require.Nil(t, persistedToken(t, db))
	require.Equal(t, 0, f.setCalls)
}

func TestInitialize_ExpiredTokenClearsState(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "1", "role": "User", "exp": 1000})
	f := &fakeAPI{}
	kv, db := setupKV(t)
	require.NoError(t, kv.Set(context.Background(), TokenKey, []byte(tok)))

	s := NewStore(f, kv, zerolog.Nop())
	require.NoError(t, s.Initialize(context.Background()))

	require.False(t, s.Authed())
	require.Nil(t, persistedToken(t, db))
}

func TestRoundTrip_LoginThenFreshInitialize(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "1", "role": "User", "name": "john"})
	f := &fakeAPI{loginToken: tok}
	kv, _ := setupKV(t)

	first := NewStore(f, kv, zerolog.Nop())
	require.True(t, first.Login(context.Background(), "john", "pw"))
	want := first.User()

	second := NewStore(&fakeAPI{}, kv, zerolog.Nop())
	require.NoError(t, second.Initialize(context.Background()))

	got := second.User()
	require.NotNil(t, got)
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.UserName, got.UserName)
	require.Equal(t, want.Roles, got.Roles)
}

func TestChangePassword_Delegates(t *testing.T) {
	f := &fakeAPI{}
	s, _ := newStore(t, f)

	require.NoError(t, s.ChangePassword(context.Background(), "old", "new"))
	require.Equal(t, "old", f.lastCurrent)
	require.Equal(t, "new", f.lastNew)
}

func TestChangePassword_IncorrectOldPassword(t *testing.T) {
	f := &fakeAPI{changeErr: api.ErrIncorrectPassword}
	s, _ := newStore(t, f)

	err := s.ChangePassword(context.Background(), "bad", "new")
	require.ErrorIs(t, err, ErrIncorrectOldPassword)
}

func TestChangePassword_NetworkFailureWrapped(t *testing.T) {
	f := &fakeAPI{changeErr: api.ErrUnavailable}
	s, _ := newStore(t, f)

	err := s.ChangePassword(context.Background(), "old", "new")
	require.Error(t, err)
	require.ErrorIs(t, err, api.ErrUnavailable)
	require.NotErrorIs(t, err, ErrIncorrectOldPassword)
}

func TestRefresh_ClearsFirstLoginAfterDirectoryUpdate(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "1", "role": "Admin"})
	f := &fakeAPI{
		loginToken: tok,
		users: []models.DirectoryUser{
			{ID: "1", UserName: "alice", Roles: []string{"Admin"}, IsFirstLogin: true},
		},
	}
	s, _ := newStore(t, f)

	require.True(t, s.Login(context.Background(), "alice", "pw"))
	require.True(t, s.User().IsFirstLogin)

	f.users[0].IsFirstLogin = false
	s.Refresh(context.Background())
	require.False(t, s.User().IsFirstLogin)
}

func TestUser_ReturnsCopy(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "1", "role": "User"})
	f := &fakeAPI{loginToken: tok}
	s, _ := newStore(t, f)
	require.True(t, s.Login(context.Background(), "john", "pw"))

	u := s.User()
	u.UserName = "mallory"
	u.Roles[0] = "Admin"

	require.Equal(t, "john", s.User().UserName)
	require.Equal(t, []string{"User"}, s.User().Roles)
}
