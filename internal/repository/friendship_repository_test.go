package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockFriendshipRepo(t *testing.T) (*FriendshipRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return NewFriendshipRepository(gdb, nil), mock, db
}

// Accepting flips the pending request and writes both directed halves of
// the edge inside one transaction, so each side sees the other in its
// friend list as soon as the commit lands.
func TestAcceptRequest_FlipsRequestAndWritesBothEdges(t *testing.T) {
	repo, mock, db := newMockFriendshipRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `friend_requests` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `friendships`").
		WithArgs(uint(1), uint(2), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `friendships`").
		WithArgs(uint(2), uint(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	edge, err := repo.AcceptRequest(1, 2)
	require.NoError(t, err)

	assert.Equal(t, uint(1), edge.StudentID)
	assert.Equal(t, uint(2), edge.FriendID)
	assert.False(t, edge.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A second accept of the same request finds no pending row: the
// conditional update matches nothing, no edges are touched, and the
// transaction rolls back.
func TestAcceptRequest_NoPendingRequest(t *testing.T) {
	repo, mock, db := newMockFriendshipRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `friend_requests` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.AcceptRequest(1, 2)
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An edge half may already exist when requests crossed in both
// directions. The duplicate insert is tolerated, the existing row is
// read back, and the transaction still commits with the mirror half.
func TestAcceptRequest_ToleratesExistingEdge(t *testing.T) {
	repo, mock, db := newMockFriendshipRepo(t)
	defer db.Close()

	existing := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `friend_requests` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `friendships`").
		WithArgs(uint(1), uint(2), sqlmock.AnyArg()).
		WillReturnError(&gomysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry '1-2' for key 'friendships.PRIMARY'",
		})
	mock.ExpectQuery("SELECT (.+) FROM `friendships`").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "friend_id", "created_at"}).
			AddRow(1, 2, existing))
	mock.ExpectExec("INSERT INTO `friendships`").
		WithArgs(uint(2), uint(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	edge, err := repo.AcceptRequest(1, 2)
	require.NoError(t, err)

	assert.Equal(t, existing, edge.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An insert failure that is not a duplicate aborts the whole unit, so an
// accepted request without its edges is never committed.
func TestAcceptRequest_EdgeFailureRollsBackFlip(t *testing.T) {
	repo, mock, db := newMockFriendshipRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `friend_requests` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `friendships`").
		WithArgs(uint(1), uint(2), sqlmock.AnyArg()).
		WillReturnError(&gomysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})
	mock.ExpectRollback()

	_, err := repo.AcceptRequest(1, 2)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, util.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasPendingRequest(t *testing.T) {
	repo, mock, db := newMockFriendshipRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `friend_requests`").
		WithArgs(uint(1), uint(2), model.RequestPending).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	pending, err := repo.HasPendingRequest(1, 2)
	require.NoError(t, err)
	assert.True(t, pending)
	assert.NoError(t, mock.ExpectationsWereMet())
}
