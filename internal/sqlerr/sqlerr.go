// Package sqlerr classifies PostgreSQL driver errors.
//
// Clients only ever see the generic storage message, so the
// classification here feeds logs: a SQLSTATE family, a severity,
// the offending table/column/constraint and a readable description.
package sqlerr

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Code is a coarse SQLSTATE category.
type Code string

const (
	Other                Code = "other"
	NotNullViolation     Code = "not_null_violation"
	ForeignKeyViolation  Code = "foreign_key_violation"
	UniqueViolation      Code = "unique_violation"
	CheckViolation       Code = "check_violation"
	ExclusionViolation   Code = "exclusion_violation"
	InvalidTextValue     Code = "invalid_text_representation"
	NumericOutOfRange    Code = "numeric_value_out_of_range"
	StringTooLong        Code = "string_data_right_truncation"
	SerializationFailure Code = "serialization_failure"
	DeadlockDetected     Code = "deadlock_detected"
	QueryCanceled        Code = "query_canceled"
	UndefinedTable       Code = "undefined_table"
	UndefinedColumn      Code = "undefined_column"
	UndefinedFunction    Code = "undefined_function"
	SyntaxError          Code = "syntax_error"
	ConnectionException  Code = "connection_exception"
	InsufficientResource Code = "insufficient_resources"
	AdminShutdown        Code = "admin_shutdown"
)

// MapCode maps a five character SQLSTATE onto a Code.
// Unknown states in a known class map onto the class.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "22P02":
		return InvalidTextValue
	case "22003":
		return NumericOutOfRange
	case "22001":
		return StringTooLong
	case "40001":
		return SerializationFailure
	case "40P01":
		return DeadlockDetected
	case "57014":
		return QueryCanceled
	case "42P01":
		return UndefinedTable
	case "42703":
		return UndefinedColumn
	case "42883":
		return UndefinedFunction
	case "42601":
		return SyntaxError
	case "57P01":
		return AdminShutdown
	}

	if len(sqlstate) < 2 {
		return Other
	}

	switch sqlstate[:2] {
	case "08":
		return ConnectionException
	case "53":
		return InsufficientResource
	default:
		return Other
	}
}

// Severity is the severity reported by the server.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// MapSeverity maps the server's severity string onto a Severity.
// Anything unrecognised is treated as an error.
func MapSeverity(severity string) Severity {
	switch s := Severity(severity); s {
	case SeverityFatal, SeverityPanic, SeverityWarning, SeverityNotice,
		SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}

// Error is a classified PostgreSQL error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      *pgconn.PgError
}

func (e *Error) Error() string {
	return string(e.Severity) + ": " + e.Message + " (SQLSTATE " + e.DatabaseCode + ")"
}

// Unwrap returns the original driver error.
func (e *Error) Unwrap() error {
	if e.driverErr == nil {
		return nil
	}
	return e.driverErr
}

// MarshalZerologObject writes the classification as log fields.
func (e *Error) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("code", string(e.Code)).
		Str("sqlstate", e.DatabaseCode).
		Str("severity", string(e.Severity)).
		Str("error_code", generateErrorCode(e.TableName, e.Code)).
		Str("description", describe(e))

	if e.TableName != "" {
		ev.Str("table", e.TableName)
	}
	if e.ColumnName != "" {
		ev.Str("column", e.ColumnName)
	}
	if e.ConstraintName != "" {
		ev.Str("constraint", e.ConstraintName)
	}
}
