package repository

import (
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockRepo(t *testing.T) (*StudentRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return NewStudentRepository(gdb), mock, db
}

func TestPublicIDExists(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT count(*) FROM `students` WHERE public_id = ?")).
		WithArgs(54321).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	exists, err := repo.PublicIDExists(54321)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignPublicID_TranslatesDuplicate(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `students` SET").
		WillReturnError(&gomysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry '54321' for key 'students.public_id'",
		})
	mock.ExpectRollback()

	err := repo.AssignPublicID(7, 54321)
	assert.ErrorIs(t, err, util.ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyOTP_NoMatchingRow(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `students` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := repo.VerifyOTP("alice@example.com", "123456")
	assert.ErrorIs(t, err, util.ErrInvalidOTP)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPassword_NoMatchingRow(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `students` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.ResetPassword("alice@example.com", "123456", "new-hash")
	assert.ErrorIs(t, err, util.ErrInvalidOTP)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPMatches_LiveCode(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `students`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	ok, err := repo.OTPMatches("alice@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_MissingRow(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `students` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateProfile(99, map[string]interface{}{"name": "Alice"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_NoFieldsIsNoop(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	defer db.Close()

	err := repo.UpdateProfile(1, map[string]interface{}{})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
