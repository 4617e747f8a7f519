package base

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("create assignment: %w", &pgconn.PgError{Code: "23505"})
	exclusion := fmt.Errorf("create booking: %w", &pgconn.PgError{Code: "23P01"})

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsExclusionViolation(unique))
	assert.True(t, IsExclusionViolation(exclusion))
	assert.False(t, IsUniqueViolation(exclusion))

	assert.True(t, IsNotFound(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, IsNotFound(unique))
}

func TestTxFromEmptyContext(t *testing.T) {
	_, ok := TxFrom(context.Background())
	assert.False(t, ok)
}
