package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

func TestIsRetryable(t *testing.T) {
	serial := &pgconn.PgError{Code: "40001"}
	deadlock := fmt.Errorf("update: %w", &pgconn.PgError{Code: "40P01"})

	assert.True(t, isRetryable(serial))
	assert.True(t, isRetryable(deadlock))
	assert.False(t, isRetryable(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isRetryable(errors.New("otro")))
	assert.True(t, isCheckViolation(&pgconn.PgError{Code: "23514"}))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}

func TestFailureWhere(t *testing.T) {
	where, args := failureWhere(repository.FailureFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
	assert.Equal(t, " WHERE customer_id <> ''", andCustomer(where))

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	where, args = failureWhere(repository.FailureFilter{Branch: "B1", From: from, To: to})
	assert.Equal(t, " WHERE branch = $1 AND processed_at >= $2 AND processed_at <= $3", where)
	assert.Equal(t, []any{"B1", from, to}, args)
	assert.Equal(t, where+" AND customer_id <> ''", andCustomer(where))
}
