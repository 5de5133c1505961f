package copairs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alxndrkalinin/copairs/internal/grouping"
	"github.com/alxndrkalinin/copairs/internal/rowindex"
	"github.com/alxndrkalinin/copairs/metadata"
	"github.com/alxndrkalinin/copairs/table"
)

var (
	// ErrInvalidConfiguration is matched by every *ConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidData is matched by every *DataError.
	ErrInvalidData = errors.New("invalid data")

	// ErrNoNullPair is returned when no null pair was found within the
	// configured number of tries.
	ErrNoNullPair = errors.New("no null pair found")
)

// ConfigurationError reports a request that cannot be answered as asked:
// unknown or contradictory columns, or an empty predicate.
//
// It matches ErrInvalidConfiguration with errors.Is. The original underlying
// error (if any) can be accessed via errors.Unwrap.
type ConfigurationError struct {
	Reason  string
	Columns []string
	cause   error
}

func (e *ConfigurationError) Error() string {
	if len(e.Columns) == 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Reason, strings.Join(e.Columns, ", "))
}

func (e *ConfigurationError) Unwrap() error { return e.cause }

// Is reports whether target is ErrInvalidConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrInvalidConfiguration }

// DataError reports table content the engine refuses to work on: missing
// values in a referenced column, ambiguous row index labels or schema
// violations. Row is -1 when the error is not tied to a single row.
//
// It matches ErrInvalidData with errors.Is. The original underlying error
// (if any) can be accessed via errors.Unwrap.
type DataError struct {
	Reason string
	Column string
	Row    int
	cause  error
}

func (e *DataError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrInvalidData.Error())
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if e.Column != "" {
		fmt.Fprintf(&sb, " in column %q", e.Column)
	}
	if e.Row >= 0 {
		fmt.Fprintf(&sb, " at row %d", e.Row)
	}
	return sb.String()
}

func (e *DataError) Unwrap() error { return e.cause }

// Is reports whether target is ErrInvalidData.
func (e *DataError) Is(target error) bool { return target == ErrInvalidData }

func configError(reason string, columns ...string) *ConfigurationError {
	return &ConfigurationError{Reason: reason, Columns: columns}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Already translated.
	var ce *ConfigurationError
	var de *DataError
	if errors.As(err, &ce) || errors.As(err, &de) {
		return err
	}

	// Configuration problems.
	var uc *grouping.UnknownColumnError
	if errors.As(err, &uc) {
		return &ConfigurationError{Reason: "unknown column", Columns: []string{uc.Column}, cause: err}
	}
	var tuc *table.UnknownColumnError
	if errors.As(err, &tuc) {
		return &ConfigurationError{Reason: "unknown column", Columns: tuc.Columns, cause: err}
	}

	// Data problems.
	var mv *grouping.MissingValueError
	if errors.As(err, &mv) {
		return &DataError{Reason: "missing value", Column: mv.Column, Row: mv.Row, cause: err}
	}
	var dup *rowindex.DuplicateIndexError
	if errors.As(err, &dup) {
		return &DataError{Reason: fmt.Sprintf("duplicate index label %s", dup.Label), Row: dup.Second, cause: err}
	}
	var mi *rowindex.MissingIndexError
	if errors.As(err, &mi) {
		return &DataError{Reason: "missing index label", Row: mi.Row, cause: err}
	}
	var tm *rowindex.TooManyRowsError
	if errors.As(err, &tm) {
		return &DataError{Reason: tm.Error(), Row: -1, cause: err}
	}
	var se *metadata.SchemaError
	if errors.As(err, &se) {
		return &DataError{
			Reason: fmt.Sprintf("type %s does not match schema type %s", se.Kind, se.Expected),
			Column: se.Column,
			Row:    se.Row,
			cause:  err,
		}
	}

	return err
}
