package core

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below match these via errors.Is.
var (
	ErrUnsupportedGranularity = errors.New("unsupported granularity")
	ErrTableNameTooLong       = errors.New("table name too long")
	ErrTemplateNotFound       = errors.New("template not found")
)

// UnsupportedGranularityError is returned when a granularity is outside the known set.
type UnsupportedGranularityError struct {
	Value string
}

func (e *UnsupportedGranularityError) Error() string {
	return fmt.Sprintf("unsupported granularity: %s", e.Value)
}

// Is reports whether target is ErrUnsupportedGranularity.
func (e *UnsupportedGranularityError) Is(target error) bool {
	return target == ErrUnsupportedGranularity
}

// TableNameTooLongError is returned when a generated table name exceeds the
// target database's identifier length limit.
type TableNameTooLongError struct {
	Dialect string
	Name    string
	Limit   int
}

func (e *TableNameTooLongError) Error() string {
	return fmt.Sprintf(
		"%s cannot work with table names longer than %d symbols. Consider using the 'sqlAlias' attribute in your cube and pre-aggregation definition for %s.",
		e.Dialect, e.Limit, e.Name,
	)
}

// Is reports whether target is ErrTableNameTooLong.
func (e *TableNameTooLongError) Is(target error) bool {
	return target == ErrTableNameTooLong
}

// TemplateNotFoundError names the missing template.
type TemplateNotFoundError struct {
	Category string
	Name     string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %s.%s not found", e.Category, e.Name)
}

// Is reports whether target is ErrTemplateNotFound.
func (e *TemplateNotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}
