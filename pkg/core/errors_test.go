package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNameTooLongError(t *testing.T) {
	name := strings.Repeat("a", 65)
	err := fmt.Errorf("naming: %w", &TableNameTooLongError{Dialect: "Doris", Name: name, Limit: 64})

	assert.True(t, errors.Is(err, ErrTableNameTooLong))
	assert.False(t, errors.Is(err, ErrUnsupportedGranularity))
	assert.Contains(t, err.Error(), "Doris cannot work with table names longer than 64 symbols")
	assert.Contains(t, err.Error(), "sqlAlias")
	assert.Contains(t, err.Error(), name)
}

func TestUnsupportedGranularityError(t *testing.T) {
	err := &UnsupportedGranularityError{Value: "invalid"}
	assert.Equal(t, "unsupported granularity: invalid", err.Error())
	assert.True(t, errors.Is(err, ErrUnsupportedGranularity))
}

func TestTemplateNotFoundError(t *testing.T) {
	err := &TemplateNotFoundError{Category: CategoryExpressions, Name: "ilike"}
	assert.Equal(t, "template expressions.ilike not found", err.Error())
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
}
