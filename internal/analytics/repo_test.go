package analytics

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"

	myErr "lifeline-store/internal/types/errors"
)

const upsertStatsQuery = `
			INSERT INTO cart_product_stats (product_id, category, adds, removals, purchases, units_sold)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (product_id)`

// Тест IncrementStats: для каждого товара выполняется INSERT ... ON CONFLICT ...,
// и транзакция корректно коммитится.
func TestRepository_IncrementStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening a stub database connection: %s", err)
	}
	defer db.Close()

	repo := NewRepository(db, zapTestLogger(t))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertStatsQuery)).
		WithArgs("1", "Electronics", 0, 0, 1, 5).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	deltas := map[string]StatsDelta{"1": {Category: "Electronics", Purchases: 1, UnitsSold: 5}}
	if err := repo.IncrementStats(context.Background(), deltas); err != nil {
		t.Errorf("IncrementStats returned unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestRepository_IncrementStats_RollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening a stub database connection: %s", err)
	}
	defer db.Close()

	repo := NewRepository(db, zapTestLogger(t))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertStatsQuery)).WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	err = repo.IncrementStats(context.Background(), map[string]StatsDelta{"1": {Adds: 1}})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestRepository_GetProductStats(t *testing.T) {
	query := regexp.QuoteMeta(`
		SELECT product_id, category, adds, removals, purchases, units_sold
		FROM cart_product_stats
		WHERE product_id = $1`)
	columns := []string{"product_id", "category", "adds", "removals", "purchases", "units_sold"}

	tests := []struct {
		name        string
		prepare     func(mock sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "found",
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("1").
					WillReturnRows(sqlmock.NewRows(columns).AddRow("1", "Electronics", 10, 2, 3, 7))
			},
		},
		{
			name: "not found",
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("1").WillReturnRows(sqlmock.NewRows(columns))
			},
			expectedErr: myErr.ErrNotFound,
		},
		{
			name: "db error",
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("1").WillReturnError(errors.New("conn reset"))
			},
			expectedErr: myErr.ErrDBInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("unexpected error when opening a stub database connection: %s", err)
			}
			defer db.Close()

			tt.prepare(mock)
			stats, err := NewRepository(db, zapTestLogger(t)).GetProductStats(context.Background(), "1")

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stats.Adds != 10 || stats.UnitsSold != 7 || stats.Category != "Electronics" {
				t.Errorf("unexpected stats: %+v", stats)
			}
		})
	}
}

// Тест GetTopProducts: возвращаются строки в порядке выдачи запроса.
func TestRepository_GetTopProducts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening a stub database connection: %s", err)
	}
	defer db.Close()

	repo := NewRepository(db, zapTestLogger(t))

	rows := sqlmock.NewRows([]string{"product_id", "category", "adds", "removals", "purchases", "units_sold"}).
		AddRow("5", "Books", 3, 0, 2, 9).
		AddRow("7", "Sports", 8, 1, 1, 1)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT product_id, category, adds, removals, purchases, units_sold
		FROM cart_product_stats
		ORDER BY units_sold DESC, adds DESC
		LIMIT $1`)).
		WithArgs(2).
		WillReturnRows(rows)

	result, err := repo.GetTopProducts(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetTopProducts returned error: %v", err)
	}

	if len(result) != 2 || result[0].ProductID != "5" || result[1].ProductID != "7" {
		t.Errorf("unexpected result: %+v", result)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// Вспомогательная функция для создания логгера.
func zapTestLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()
	logger, err := zap.NewDevelopmentConfig().Build(zap.AddCallerSkip(1))
	if err != nil {
		t.Fatalf("failed to create zap logger: %v", err)
	}
	return logger.Sugar()
}
