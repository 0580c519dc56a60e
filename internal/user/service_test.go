package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
	"github.com/sebuszqo/FinanceControl/internal/identity"
	"github.com/sebuszqo/FinanceControl/internal/optional"
)

// revokerSpy records which users had their sessions revoked.
type revokerSpy struct{ revoked []string }

func (r *revokerSpy) DeleteUser(userID string) int {
	r.revoked = append(r.revoked, userID)
	return 1
}

func newTestService() (Service, *MemoryRepository) {
	s, repo, _ := newTestServiceWithRevoker()
	return s, repo
}

func newTestServiceWithRevoker() (Service, *MemoryRepository, *revokerSpy) {
	repo := NewMemoryRepository()
	revoker := &revokerSpy{}
	return NewUserService(repo, prefixEncoder{}, revoker), repo, revoker
}

func signup(t *testing.T, s Service, username string) UserResponse {
	t.Helper()
	resp, err := s.CreateUser(context.Background(), CreateUserRequest{
		Username:        username,
		Password:        "pw1234",
		ConfirmPassword: "pw1234",
	})
	require.NoError(t, err)
	return resp
}

// sessionFor binds a session for u the way the auth middleware does after login.
func sessionFor(t *testing.T, repo *MemoryRepository, id string) (context.Context, *identity.Static) {
	t.Helper()
	u, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	s := &identity.Static{P: identity.Principal{UserID: u.ID, Username: u.Username, Credential: u.PasswordHash}}
	return identity.WithSession(context.Background(), s), s
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s, _ := newTestService()
	alice := signup(t, s, "alice")
	assert.Equal(t, "alice", alice.DisplayName)

	_, err := s.CreateUser(context.Background(), CreateUserRequest{
		Username:        "alice",
		Password:        "another",
		ConfirmPassword: "another",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateUser_Validation(t *testing.T) {
	s, repo := newTestService()

	_, err := s.CreateUser(context.Background(), CreateUserRequest{Username: "alice", Password: "pw1234", ConfirmPassword: "pw12345"})
	assert.True(t, apperrors.IsValidationError(err))

	exists, _ := repo.ExistsByUsername(context.Background(), "alice")
	assert.False(t, exists)
}

func TestCurrentUser_Get(t *testing.T) {
	s, repo := newTestService()
	alice := signup(t, s, "alice")
	ctx, _ := sessionFor(t, repo, alice.ID)

	me, err := s.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice, me)

	_, err = s.GetCurrentUser(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestGetUser_Ownership(t *testing.T) {
	s, repo, revoker := newTestServiceWithRevoker()
	alice := signup(t, s, "alice")
	bob := signup(t, s, "bob")
	asBob, _ := sessionFor(t, repo, bob.ID)

	_, err := s.GetUser(asBob, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	_, err = s.UpdateUser(asBob, alice.ID, UpdateUserRequest{DisplayName: optional.Of("pwned")})
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	err = s.DeleteUser(asBob, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	assert.Empty(t, revoker.revoked)

	_, err = s.GetUser(asBob, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateCurrentUser_PasswordChangeRebindsSession(t *testing.T) {
	s, repo := newTestService()
	alice := signup(t, s, "alice")
	ctx, session := sessionFor(t, repo, alice.ID)

	_, err := s.UpdateCurrentUser(ctx, UpdateUserRequest{
		Password:        optional.Of("newpass"),
		ConfirmPassword: optional.Of("newpass"),
	})
	require.NoError(t, err)

	assert.Equal(t, "encoded:newpass", session.P.Credential)
	assert.Equal(t, alice.ID, session.P.UserID)

	// the same session keeps working
	me, err := s.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	stored, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "encoded:newpass", stored.PasswordHash)
}

func TestUpdateCurrentUser_NoPasswordKeepsSession(t *testing.T) {
	s, repo := newTestService()
	alice := signup(t, s, "alice")
	ctx, session := sessionFor(t, repo, alice.ID)
	before := session.P

	updated, err := s.UpdateCurrentUser(ctx, UpdateUserRequest{DisplayName: optional.Of("Alice A.")})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.DisplayName)
	assert.Equal(t, before, session.P)
}

func TestUpdateCurrentUser_Validation(t *testing.T) {
	s, repo := newTestService()
	alice := signup(t, s, "alice")
	ctx, session := sessionFor(t, repo, alice.ID)
	before := session.P

	_, err := s.UpdateCurrentUser(ctx, UpdateUserRequest{Password: optional.Of("abc"), ConfirmPassword: optional.Of("abc")})
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, before, session.P)
}

func TestDeleteCurrentUser_InvalidatesSession(t *testing.T) {
	s, repo, revoker := newTestServiceWithRevoker()
	alice := signup(t, s, "alice")
	ctx, session := sessionFor(t, repo, alice.ID)

	require.NoError(t, s.DeleteCurrentUser(ctx))
	assert.True(t, session.Invalidated)
	assert.Equal(t, []string{alice.ID}, revoker.revoked)

	_, err := repo.FindByID(context.Background(), alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = s.GetCurrentUser(ctx)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
