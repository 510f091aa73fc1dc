package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/courseloom/backend/internal/models"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnrollmentRepository creates a repository with a mock database
func setupEnrollmentRepository(t *testing.T) (*enrollmentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewEnrollmentRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestEnrollmentRepository_GetByStudentAndCourse(t *testing.T) {
	now := time.Now()
	completed := now.Add(time.Hour)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectNil     bool
		checkResult   func(*testing.T, *models.Enrollment)
	}{
		{
			name: "active enrollment without completion timestamp",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "status", "progress_percentage", "enrolled_at", "completed_at"}).
					AddRow(1, 10, 20, "active", 33, now, nil)
				mock.ExpectQuery(`SELECT id, student_id, course_id, status, progress_percentage, enrolled_at, completed_at`).
					WithArgs(int64(10), int64(20)).
					WillReturnRows(rows)
			},
			checkResult: func(t *testing.T, e *models.Enrollment) {
				assert.Equal(t, models.EnrollmentStatusActive, e.Status)
				assert.Equal(t, 33, e.ProgressPercentage)
				assert.Nil(t, e.CompletedAt)
			},
		},
		{
			name: "completed enrollment carries completion timestamp",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "status", "progress_percentage", "enrolled_at", "completed_at"}).
					AddRow(1, 10, 20, "completed", 100, now, completed)
				mock.ExpectQuery(`SELECT id, student_id, course_id, status, progress_percentage, enrolled_at, completed_at`).
					WithArgs(int64(10), int64(20)).
					WillReturnRows(rows)
			},
			checkResult: func(t *testing.T, e *models.Enrollment) {
				assert.Equal(t, models.EnrollmentStatusCompleted, e.Status)
				require.NotNil(t, e.CompletedAt)
			},
		},
		{
			name: "absent enrollment returns nil without error",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "status", "progress_percentage", "enrolled_at", "completed_at"})
				mock.ExpectQuery(`SELECT id, student_id, course_id, status, progress_percentage, enrolled_at, completed_at`).
					WithArgs(int64(10), int64(20)).
					WillReturnRows(rows)
			},
			expectNil: true,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, student_id, course_id, status, progress_percentage, enrolled_at, completed_at`).
					WithArgs(int64(10), int64(20)).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupEnrollmentRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.GetByStudentAndCourse(context.Background(), 10, 20)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else if tt.expectNil {
				assert.NoError(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, result)
				tt.checkResult(t, result)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnrollmentRepository_Create(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success sets the generated id",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO enrollments`).
					WithArgs(int64(10), int64(20), models.EnrollmentStatusActive, 0, now).
					WillReturnResult(sqlmock.NewResult(7, 1))
			},
		},
		{
			name: "duplicate key maps to ErrDuplicateEntry",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO enrollments`).
					WithArgs(int64(10), int64(20), models.EnrollmentStatusActive, 0, now).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '10-20' for key 'uq_enrollments_student_course'"})
			},
			expectedError: models.ErrDuplicateEntry,
		},
		{
			name: "other database error is wrapped, not translated",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO enrollments`).
					WithArgs(int64(10), int64(20), models.EnrollmentStatusActive, 0, now).
					WillReturnError(&mysql.MySQLError{Number: 1452, Message: "foreign key constraint fails"})
			},
			expectedError: errors.New("failed to create enrollment"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupEnrollmentRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			enrollment := &models.Enrollment{
				StudentID:  10,
				CourseID:   20,
				Status:     models.EnrollmentStatusActive,
				EnrolledAt: now,
			}
			err := repo.Create(context.Background(), enrollment)

			if tt.expectedError == nil {
				assert.NoError(t, err)
				assert.Equal(t, int64(7), enrollment.ID)
			} else if errors.Is(tt.expectedError, models.ErrDuplicateEntry) {
				assert.ErrorIs(t, err, models.ErrDuplicateEntry)
			} else {
				assert.Error(t, err)
				assert.NotErrorIs(t, err, models.ErrDuplicateEntry)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnrollmentRepository_UpdateProgress(t *testing.T) {
	completedAt := time.Now()

	t.Run("writes completion timestamp at 100 percent", func(t *testing.T) {
		repo, mock, cleanup := setupEnrollmentRepository(t)
		defer cleanup()

		mock.ExpectExec(`SET progress_percentage = \?, status = \?, completed_at = \?`).
			WithArgs(100, models.EnrollmentStatusCompleted, sqlmock.AnyArg(), int64(10), int64(20)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateProgress(context.Background(), 10, 20, 100, models.EnrollmentStatusCompleted, &completedAt)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clears completion timestamp below 100 percent", func(t *testing.T) {
		repo, mock, cleanup := setupEnrollmentRepository(t)
		defer cleanup()

		mock.ExpectExec(`SET progress_percentage = \?, status = \?, completed_at = \?`).
			WithArgs(67, models.EnrollmentStatusActive, sqlmock.AnyArg(), int64(10), int64(20)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateProgress(context.Background(), 10, 20, 67, models.EnrollmentStatusActive, nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnrollmentRepository_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupEnrollmentRepository(t)
		defer cleanup()

		mock.ExpectExec(`DELETE FROM enrollments WHERE student_id = \? AND course_id = \?`).
			WithArgs(int64(10), int64(20)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), 10, 20)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing enrollment maps to ErrEnrollmentNotFound", func(t *testing.T) {
		repo, mock, cleanup := setupEnrollmentRepository(t)
		defer cleanup()

		mock.ExpectExec(`DELETE FROM enrollments WHERE student_id = \? AND course_id = \?`).
			WithArgs(int64(10), int64(20)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), 10, 20)
		assert.ErrorIs(t, err, models.ErrEnrollmentNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnrollmentRepository_ListByStudent(t *testing.T) {
	now := time.Now()

	t.Run("returns all enrollments", func(t *testing.T) {
		repo, mock, cleanup := setupEnrollmentRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "status", "progress_percentage", "enrolled_at", "completed_at"}).
			AddRow(1, 10, 20, "completed", 100, now, now).
			AddRow(2, 10, 21, "active", 50, now, nil)
		mock.ExpectQuery(`SELECT id, student_id, course_id, status, progress_percentage, enrolled_at, completed_at`).
			WithArgs(int64(10)).
			WillReturnRows(rows)

		result, err := repo.ListByStudent(context.Background(), 10)
		assert.NoError(t, err)
		require.Len(t, result, 2)
		assert.NotNil(t, result[0].CompletedAt)
		assert.Nil(t, result[1].CompletedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result", func(t *testing.T) {
		repo, mock, cleanup := setupEnrollmentRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "status", "progress_percentage", "enrolled_at", "completed_at"})
		mock.ExpectQuery(`SELECT id, student_id, course_id, status, progress_percentage, enrolled_at, completed_at`).
			WithArgs(int64(10)).
			WillReturnRows(rows)

		result, err := repo.ListByStudent(context.Background(), 10)
		assert.NoError(t, err)
		assert.Len(t, result, 0)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
