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

// setupCourseRepository creates a repository with a mock database
func setupCourseRepository(t *testing.T) (*courseRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewCourseRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func courseColumns() []string {
	return []string{"id", "instructor_id", "slug", "title", "description", "price_cents", "currency", "published", "created_at"}
}

func TestCourseRepository_GetByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectNil     bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(courseColumns()).
					AddRow(1, 2, "go-basics", "Go Basics", "Introductory course", 4999, "USD", true, now)
				mock.ExpectQuery(`SELECT id, instructor_id, slug, title, description, price_cents, currency, published, created_at`).
					WithArgs(int64(1)).
					WillReturnRows(rows)
			},
		},
		{
			name: "absent course returns nil without error",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(courseColumns())
				mock.ExpectQuery(`SELECT id, instructor_id, slug, title, description, price_cents, currency, published, created_at`).
					WithArgs(int64(1)).
					WillReturnRows(rows)
			},
			expectNil: true,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, instructor_id, slug, title, description, price_cents, currency, published, created_at`).
					WithArgs(int64(1)).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.GetByID(context.Background(), 1)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else if tt.expectNil {
				assert.NoError(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, "go-basics", result.Slug)
				assert.Equal(t, int64(4999), result.PriceCents)
				assert.True(t, result.Published)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_ListPublished(t *testing.T) {
	t.Run("applies pagination offsets", func(t *testing.T) {
		repo, mock, cleanup := setupCourseRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"id", "slug", "title", "price_cents", "currency"}).
			AddRow(1, "go-basics", "Go Basics", 4999, "USD").
			AddRow(2, "sql-intro", "SQL Intro", 0, "")
		mock.ExpectQuery(`SELECT id, slug, title, price_cents, currency`).
			WithArgs(20, 20).
			WillReturnRows(rows)

		result, err := repo.ListPublished(context.Background(), 2, 20)
		assert.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "go-basics", result[0].Slug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty page", func(t *testing.T) {
		repo, mock, cleanup := setupCourseRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"id", "slug", "title", "price_cents", "currency"})
		mock.ExpectQuery(`SELECT id, slug, title, price_cents, currency`).
			WithArgs(20, 0).
			WillReturnRows(rows)

		result, err := repo.ListPublished(context.Background(), 1, 20)
		assert.NoError(t, err)
		assert.Len(t, result, 0)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCourseRepository_Create(t *testing.T) {
	now := time.Now()

	t.Run("success sets the generated id", func(t *testing.T) {
		repo, mock, cleanup := setupCourseRepository(t)
		defer cleanup()

		mock.ExpectExec(`INSERT INTO courses`).
			WithArgs(int64(2), "go-basics", "Go Basics", "Introductory course", int64(4999), "USD", false, now).
			WillReturnResult(sqlmock.NewResult(9, 1))

		course := &models.Course{
			InstructorID: 2,
			Slug:         "go-basics",
			Title:        "Go Basics",
			Description:  "Introductory course",
			PriceCents:   4999,
			Currency:     "USD",
			CreatedAt:    now,
		}
		err := repo.Create(context.Background(), course)
		assert.NoError(t, err)
		assert.Equal(t, int64(9), course.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate slug maps to ErrDuplicateEntry", func(t *testing.T) {
		repo, mock, cleanup := setupCourseRepository(t)
		defer cleanup()

		mock.ExpectExec(`INSERT INTO courses`).
			WithArgs(int64(2), "go-basics", "Go Basics", "", int64(0), "", false, now).
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'go-basics' for key 'uq_courses_slug'"})

		course := &models.Course{InstructorID: 2, Slug: "go-basics", Title: "Go Basics", CreatedAt: now}
		err := repo.Create(context.Background(), course)
		assert.ErrorIs(t, err, models.ErrDuplicateEntry)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCourseRepository_SetPublished(t *testing.T) {
	repo, mock, cleanup := setupCourseRepository(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE courses SET published = \? WHERE id = \?`).
		WithArgs(true, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetPublished(context.Background(), 1, true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
