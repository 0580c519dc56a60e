package user

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
	"github.com/sebuszqo/FinanceControl/internal/database"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	db   *database.DBService
	repo Repository
}

func (s *UserRepositoryTestSuite) SetupTest() {
	dsn := filepath.Join(s.T().TempDir(), "users.db")
	require.NoError(s.T(), database.Migrate(database.DriverSQLite, dsn))

	db, err := database.Open(context.Background(), database.DriverSQLite, dsn)
	require.NoError(s.T(), err)
	s.db = db
	s.repo = NewUserRepository(db)
}

func (s *UserRepositoryTestSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *UserRepositoryTestSuite) newUser(username string) *User {
	return &User{ID: uuid.NewString(), Username: username, PasswordHash: "hash", DisplayName: username}
}

func (s *UserRepositoryTestSuite) TestCreateAndFind() {
	ctx := context.Background()
	u := s.newUser("alice")
	u.Email = strPtr("alice@example.com")
	require.NoError(s.T(), s.repo.Create(ctx, u))

	byID, err := s.repo.FindByID(ctx, u.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), u, byID)

	byName, err := s.repo.FindByUsername(ctx, "alice")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), u.ID, byName.ID)

	exists, err := s.repo.ExistsByUsername(ctx, "alice")
	require.NoError(s.T(), err)
	assert.True(s.T(), exists)

	exists, err = s.repo.ExistsByUsername(ctx, "bob")
	require.NoError(s.T(), err)
	assert.False(s.T(), exists)
}

func (s *UserRepositoryTestSuite) TestDuplicateUsernameIsConflict() {
	ctx := context.Background()
	require.NoError(s.T(), s.repo.Create(ctx, s.newUser("alice")))

	err := s.repo.Create(ctx, s.newUser("alice"))
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
	assert.Contains(s.T(), err.Error(), "already exists")
}

func (s *UserRepositoryTestSuite) TestUpdate() {
	ctx := context.Background()
	u := s.newUser("alice")
	require.NoError(s.T(), s.repo.Create(ctx, u))

	u.PasswordHash = "new-hash"
	u.DisplayName = "Alice"
	u.Email = strPtr("")
	require.NoError(s.T(), s.repo.Update(ctx, u))

	found, err := s.repo.FindByID(ctx, u.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "new-hash", found.PasswordHash)
	assert.Equal(s.T(), "Alice", found.DisplayName)
	require.NotNil(s.T(), found.Email)
	assert.Equal(s.T(), "", *found.Email)
}

func (s *UserRepositoryTestSuite) TestDeleteAndMissing() {
	ctx := context.Background()
	u := s.newUser("alice")
	require.NoError(s.T(), s.repo.Create(ctx, u))

	require.NoError(s.T(), s.repo.Delete(ctx, u.ID))
	_, err := s.repo.FindByID(ctx, u.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
	assert.ErrorIs(s.T(), s.repo.Delete(ctx, u.ID), apperrors.ErrNotFound)

	_, err = s.repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
	_, err = s.repo.FindByID(ctx, "not-a-uuid")
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *UserRepositoryTestSuite) TestFindAndDeleteByAlternateUUIDSpelling() {
	ctx := context.Background()
	u := s.newUser("alice")
	require.NoError(s.T(), s.repo.Create(ctx, u))

	found, err := s.repo.FindByID(ctx, strings.ToUpper(u.ID))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), u.ID, found.ID)

	found, err = s.repo.FindByID(ctx, "urn:uuid:"+u.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), u.ID, found.ID)

	require.NoError(s.T(), s.repo.Delete(ctx, strings.ToUpper(u.ID)))
	assert.ErrorIs(s.T(), s.repo.Delete(ctx, "not-a-uuid"), apperrors.ErrNotFound)
}

func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
