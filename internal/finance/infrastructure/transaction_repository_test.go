package infrastructure

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
	"github.com/sebuszqo/FinanceControl/internal/database"
	"github.com/sebuszqo/FinanceControl/internal/finance/domain"
)

// RepositoryTestSuite runs the same checks against every domain.Repository implementation.
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(kind domain.Kind) domain.Repository
	// newUser registers an owner and returns its id.
	newUser  func(username string) string
	teardown func()

	expenses domain.Repository
	incomes  domain.Repository
	alice    string
	bob      string
}

func (s *RepositoryTestSuite) SetupTest() {
	s.expenses = s.newRepo(domain.KindExpense)
	s.incomes = s.newRepo(domain.KindIncome)
	s.alice = s.newUser("alice-" + uuid.NewString()[:8])
	s.bob = s.newUser("bob-" + uuid.NewString()[:8])
}

func (s *RepositoryTestSuite) TearDownSuite() {
	if s.teardown != nil {
		s.teardown()
	}
}

func (s *RepositoryTestSuite) transaction(owner, category string, at time.Time) *domain.Transaction {
	description := "Weekly shop"
	return &domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      owner,
		Amount:      decimal.RequireFromString("1500.21"),
		Category:    category,
		CreateDate:  at,
		Description: &description,
	}
}

func (s *RepositoryTestSuite) TestCreateAndFind() {
	ctx := context.Background()
	at := time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC)
	tx := s.transaction(s.alice, "Groceries", at)

	require.NoError(s.T(), s.expenses.Create(ctx, tx))

	found, err := s.expenses.FindByID(ctx, tx.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), tx.ID, found.ID)
	assert.Equal(s.T(), s.alice, found.UserID)
	assert.True(s.T(), found.Amount.Equal(tx.Amount), "amount %s", found.Amount)
	assert.Equal(s.T(), "Groceries", found.Category)
	assert.True(s.T(), found.CreateDate.Equal(at))
	require.NotNil(s.T(), found.Description)
	assert.Equal(s.T(), "Weekly shop", *found.Description)
}

func (s *RepositoryTestSuite) TestAmountIsStoredExactly() {
	ctx := context.Background()
	for _, amount := range []string{"1500.215", "0.0001", "123456789012345678901.123456789", "-42.5"} {
		tx := s.transaction(s.alice, "Groceries", time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC))
		tx.Amount = decimal.RequireFromString(amount)
		require.NoError(s.T(), s.expenses.Create(ctx, tx))

		found, err := s.expenses.FindByID(ctx, tx.ID)
		require.NoError(s.T(), err)
		assert.True(s.T(), found.Amount.Equal(tx.Amount), "stored %s, read back %s", amount, found.Amount)

		tx.Amount = tx.Amount.Add(decimal.RequireFromString("0.001"))
		require.NoError(s.T(), s.expenses.Update(ctx, tx))
		found, err = s.expenses.FindByID(ctx, tx.ID)
		require.NoError(s.T(), err)
		assert.True(s.T(), found.Amount.Equal(tx.Amount), "updated %s, read back %s", tx.Amount, found.Amount)
	}
}

func (s *RepositoryTestSuite) TestKindsAreDisjoint() {
	ctx := context.Background()
	tx := s.transaction(s.alice, "Salary", time.Now().UTC().Add(-time.Hour))
	require.NoError(s.T(), s.incomes.Create(ctx, tx))

	_, err := s.expenses.FindByID(ctx, tx.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)

	_, err = s.incomes.FindByID(ctx, tx.ID)
	assert.NoError(s.T(), err)
}

func (s *RepositoryTestSuite) TestFindByID_Missing() {
	_, err := s.expenses.FindByID(context.Background(), uuid.NewString())
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)

	_, err = s.expenses.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestFindByID_AlternateUUIDSpellings() {
	ctx := context.Background()
	tx := s.transaction(s.alice, "Groceries", time.Now().UTC().Add(-time.Hour))
	require.NoError(s.T(), s.expenses.Create(ctx, tx))

	for _, id := range []string{strings.ToUpper(tx.ID), "urn:uuid:" + tx.ID, "{" + tx.ID + "}"} {
		found, err := s.expenses.FindByID(ctx, id)
		require.NoError(s.T(), err, id)
		assert.Equal(s.T(), tx.ID, found.ID)
	}

	list, err := s.expenses.FindAllByUserID(ctx, strings.ToUpper(s.alice))
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)

	require.NoError(s.T(), s.expenses.Delete(ctx, "urn:uuid:"+tx.ID))
	_, err = s.expenses.FindByID(ctx, tx.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
	assert.ErrorIs(s.T(), s.expenses.Delete(ctx, "not-a-uuid"), apperrors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestUpdate() {
	ctx := context.Background()
	tx := s.transaction(s.alice, "Groceries", time.Now().UTC().Add(-time.Hour))
	require.NoError(s.T(), s.expenses.Create(ctx, tx))

	tx.Category = "Food"
	tx.Description = nil
	require.NoError(s.T(), s.expenses.Update(ctx, tx))

	found, err := s.expenses.FindByID(ctx, tx.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Food", found.Category)
	assert.Nil(s.T(), found.Description)

	missing := s.transaction(s.alice, "Ghost", time.Now().UTC())
	assert.ErrorIs(s.T(), s.expenses.Update(ctx, missing), apperrors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestDelete() {
	ctx := context.Background()
	tx := s.transaction(s.alice, "Groceries", time.Now().UTC().Add(-time.Hour))
	require.NoError(s.T(), s.expenses.Create(ctx, tx))

	require.NoError(s.T(), s.expenses.Delete(ctx, tx.ID))
	_, err := s.expenses.FindByID(ctx, tx.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)

	assert.ErrorIs(s.T(), s.expenses.Delete(ctx, tx.ID), apperrors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestFindAllByUserID_LatestFirst() {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	older := s.transaction(s.alice, "Older", base)
	newest := s.transaction(s.alice, "Newest", base.Add(48*time.Hour))
	middle := s.transaction(s.alice, "Middle", base.Add(time.Hour))
	foreign := s.transaction(s.bob, "Bob", base.Add(72*time.Hour))

	for _, tx := range []*domain.Transaction{older, newest, middle, foreign} {
		require.NoError(s.T(), s.expenses.Create(ctx, tx))
	}

	result, err := s.expenses.FindAllByUserID(ctx, s.alice)
	require.NoError(s.T(), err)
	require.Len(s.T(), result, 3)
	assert.Equal(s.T(), "Newest", result[0].Category)
	assert.Equal(s.T(), "Middle", result[1].Category)
	assert.Equal(s.T(), "Older", result[2].Category)
}

func (s *RepositoryTestSuite) TestFindAllByUserID_Empty() {
	result, err := s.incomes.FindAllByUserID(context.Background(), s.bob)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), result)
	assert.Empty(s.T(), result)
}

func TestMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(domain.Kind) domain.Repository { return NewMemoryTransactionRepository() },
		newUser: func(string) string { return uuid.NewString() },
	})
}

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "finance.db")
	require.NoError(t, database.Migrate(database.DriverSQLite, dsn))

	db, err := database.Open(ctx, database.DriverSQLite, dsn)
	require.NoError(t, err)

	suite.Run(t, sqlSuite(t, db))
}

func sqlSuite(t *testing.T, db *database.DBService) *RepositoryTestSuite {
	return &RepositoryTestSuite{
		newRepo: func(kind domain.Kind) domain.Repository { return NewTransactionRepository(db, kind) },
		newUser: func(username string) string {
			id := uuid.NewString()
			_, err := db.DB.Exec(db.Rebind(`INSERT INTO users (id, username, password_hash, display_name) VALUES (?, ?, ?, ?)`),
				id, username, "hash", username)
			require.NoError(t, err)
			return id
		},
		teardown: func() { db.Close() },
	}
}

func TestSQLiteRepository_OwnerMustExist(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "finance.db")
	require.NoError(t, database.Migrate(database.DriverSQLite, dsn))
	db, err := database.Open(ctx, database.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewTransactionRepository(db, domain.KindExpense)
	err = repo.Create(ctx, &domain.Transaction{
		ID:         uuid.NewString(),
		UserID:     uuid.NewString(),
		Amount:     decimal.NewFromInt(1),
		Category:   "Orphan",
		CreateDate: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
