package cart

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	myErr "lifeline-store/internal/types/errors"
)

func setupPostgresRepo(t *testing.T) (*PostgresSnapshotRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("ошибка при создании mock db: %s", err)
	}

	repo := NewPostgresSnapshotRepository(db, zaptest.NewLogger(t).Sugar())

	return repo, mock, func() { db.Close() }
}

func TestPostgresSnapshotRepository_Get(t *testing.T) {
	tests := []struct {
		name           string
		mockBehavior   func(mock sqlmock.Sqlmock)
		expectedResult []byte
		expectedError  error
	}{
		{
			name: "успешный возврат",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[]`))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM cart_snapshot WHERE cart_key = $1")).
					WithArgs("k").
					WillReturnRows(rows)
			},
			expectedResult: []byte(`[]`),
		},
		{
			name: "нет снапшота",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM cart_snapshot WHERE cart_key = $1")).
					WithArgs("k").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: myErr.ErrNotFound,
		},
		{
			name: "ошибка БД",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM cart_snapshot WHERE cart_key = $1")).
					WithArgs("k").
					WillReturnError(errors.New("db failure"))
			},
			expectedError: myErr.ErrDBInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupPostgresRepo(t)
			defer cleanup()

			tt.mockBehavior(mock)

			res, err := repo.Get(context.Background(), "k")
			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedResult, res)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresSnapshotRepository_Set(t *testing.T) {
	tests := []struct {
		name          string
		mockBehavior  func(mock sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "успешное сохранение",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cart_snapshot(cart_key, payload, updated_at)")).
					WithArgs("k", []byte(`[]`)).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "ошибка БД",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cart_snapshot(cart_key, payload, updated_at)")).
					WithArgs("k", []byte(`[]`)).
					WillReturnError(errors.New("insert failed"))
			},
			expectedError: myErr.ErrDBInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupPostgresRepo(t)
			defer cleanup()

			tt.mockBehavior(mock)

			err := repo.Set(context.Background(), "k", []byte(`[]`))
			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
