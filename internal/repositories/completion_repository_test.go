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

// setupCompletionRepository creates a repository with a mock database
func setupCompletionRepository(t *testing.T) (*completionRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewCompletionRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestCompletionRepository_Get(t *testing.T) {
	now := time.Now()

	t.Run("existing completion", func(t *testing.T) {
		repo, mock, cleanup := setupCompletionRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"id", "student_id", "lesson_id", "completed_at"}).
			AddRow(1, 10, 30, now)
		mock.ExpectQuery(`SELECT id, student_id, lesson_id, completed_at`).
			WithArgs(int64(10), int64(30)).
			WillReturnRows(rows)

		result, err := repo.Get(context.Background(), 10, 30)
		assert.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, int64(30), result.LessonID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent completion returns nil without error", func(t *testing.T) {
		repo, mock, cleanup := setupCompletionRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"id", "student_id", "lesson_id", "completed_at"})
		mock.ExpectQuery(`SELECT id, student_id, lesson_id, completed_at`).
			WithArgs(int64(10), int64(30)).
			WillReturnRows(rows)

		result, err := repo.Get(context.Background(), 10, 30)
		assert.NoError(t, err)
		assert.Nil(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCompletionRepository_Create(t *testing.T) {
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupCompletionRepository(t)
		defer cleanup()

		mock.ExpectExec(`INSERT INTO lesson_completions`).
			WithArgs(int64(10), int64(30), now).
			WillReturnResult(sqlmock.NewResult(5, 1))

		completion := &models.LessonCompletion{StudentID: 10, LessonID: 30, CompletedAt: now}
		err := repo.Create(context.Background(), completion)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), completion.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate maps to ErrDuplicateEntry", func(t *testing.T) {
		repo, mock, cleanup := setupCompletionRepository(t)
		defer cleanup()

		mock.ExpectExec(`INSERT INTO lesson_completions`).
			WithArgs(int64(10), int64(30), now).
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '10-30' for key 'uq_completions_student_lesson'"})

		completion := &models.LessonCompletion{StudentID: 10, LessonID: 30, CompletedAt: now}
		err := repo.Create(context.Background(), completion)
		assert.ErrorIs(t, err, models.ErrDuplicateEntry)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other database error is not translated", func(t *testing.T) {
		repo, mock, cleanup := setupCompletionRepository(t)
		defer cleanup()

		mock.ExpectExec(`INSERT INTO lesson_completions`).
			WithArgs(int64(10), int64(30), now).
			WillReturnError(errors.New("connection reset"))

		completion := &models.LessonCompletion{StudentID: 10, LessonID: 30, CompletedAt: now}
		err := repo.Create(context.Background(), completion)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrDuplicateEntry)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCompletionRepository_CountCompletedPublished(t *testing.T) {
	t.Run("counts only completions of published lessons", func(t *testing.T) {
		repo, mock, cleanup := setupCompletionRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(2)
		mock.ExpectQuery(`SELECT COUNT\(DISTINCT lc\.lesson_id\)`).
			WithArgs(int64(10), int64(20)).
			WillReturnRows(rows)

		count, err := repo.CountCompletedPublished(context.Background(), 10, 20)
		assert.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupCompletionRepository(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT COUNT\(DISTINCT lc\.lesson_id\)`).
			WithArgs(int64(10), int64(20)).
			WillReturnError(errors.New("database error"))

		_, err := repo.CountCompletedPublished(context.Background(), 10, 20)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
