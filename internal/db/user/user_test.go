package dbuser

import (
	"context"
	c "nudgebot/internal/core/domain/common"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/db"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *PgxUserRepository
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool(suite.T())
	suite.repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUserRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestGetByID() {
	// Setup ---
	db.CreateTestUser(s.pool, 10, 555)

	// Exercise ---
	u, err := s.repo.GetByID(context.Background(), user.ID(10))

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(user.ID(10), u.ID)
	assert.Equal("user10", u.Username)
	assert.Equal(c.NewOptional(user.TelegramID(555), true), u.TelegramID)
	assert.False(u.Email.IsPresent)
}

func (s *testSuite) TestGetByIDWithEmail() {
	// Setup ---
	_, err := s.pool.Exec(
		context.Background(),
		`INSERT INTO "user" (id, username, email, created_at) VALUES (11, 'bob', 'bob@example.com', now())`,
	)
	s.Require().Nil(err)

	// Exercise ---
	u, err := s.repo.GetByID(context.Background(), user.ID(11))

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(c.NewOptional(c.Email("bob@example.com"), true), u.Email)
	assert.False(u.TelegramID.IsPresent)
}

func (s *testSuite) TestGetByIDDoesNotExist() {
	_, err := s.repo.GetByID(context.Background(), user.ID(404))
	s.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}
