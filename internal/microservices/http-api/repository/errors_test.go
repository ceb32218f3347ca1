package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, ErrDuplicate},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, ErrDuplicate},
		{"pg malformed uuid", fmt.Errorf("query: %w", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}), ErrNotFound},
		{"sqlite unique", errors.New("UNIQUE constraint failed: users.username"), ErrDuplicate},
		{"version conflict", ErrVersionConflict, ErrVersionConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "op: ")
		})
	}
}

func TestClassify_PassesThroughUnknown(t *testing.T) {
	assert.NoError(t, classify("op", nil))

	cause := &pgconn.PgError{Code: "57014"} // query_canceled
	err := classify("op", cause)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestValidIDs(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, []string{id}, validIDs([]string{"abc", id, ""}))
	assert.Empty(t, validIDs([]string{"ghost"}))
}
