package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUndefinedTable(t *testing.T) {
	undefined := &pq.Error{Code: "42P01", Message: `relation "loan_history" does not exist`}

	assert.True(t, isUndefinedTable(undefined))
	assert.True(t, isUndefinedTable(fmt.Errorf("query failed: %w", undefined)))
	assert.False(t, isUndefinedTable(&pq.Error{Code: "42703"}))
	assert.False(t, isUndefinedTable(errors.New("connection refused")))
	assert.False(t, isUndefinedTable(nil))
}
