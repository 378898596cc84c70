package sqlerr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/blog-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConvertPgError classifies a raw server error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// Classify returns the *Error for a PostgreSQL server error anywhere in
// err's chain, or nil when err did not come from the server.
func Classify(err error) *Error {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ConvertPgError(pgErr)
	}
	return nil
}

// generateErrorCode builds "<DOMAIN>_<ACTION>", e.g. BLOG_POST_INVALID.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidTextValue, NumericOutOfRange, StringTooLong:
		action = "INVALID"
	case ConnectionException, AdminShutdown, InsufficientResource:
		action = "UNAVAILABLE"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// describe renders a readable sentence for operators reading the logs.
func describe(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)
	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entityName)
	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)
	case CheckViolation:
		if sqlErr.ConstraintName != "" {
			return fmt.Sprintf("The %s violates constraint %s", entityName, sqlErr.ConstraintName)
		}
		return "One or more values do not meet required conditions"
	case ConnectionException, AdminShutdown:
		return "The database connection was lost"
	case InsufficientResource:
		return "The database ran out of resources"
	case QueryCanceled:
		return "The query was cancelled"
	case SerializationFailure, DeadlockDetected:
		return "The statement conflicted with a concurrent transaction"
	default:
		return "The database rejected the statement"
	}
}

// getEntityName prefers a foreign key column ("author_id" -> "Author"),
// then the singular table name, then "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// IsDriverError reports whether err came from the database driver or from
// a cancelled or expired context while talking to it.
func IsDriverError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	var connectErr *pgconn.ConnectError
	var sqlErr *Error

	switch {
	case errors.As(err, &pgErr), errors.As(err, &connectErr), errors.As(err, &sqlErr):
		return true
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, pgx.ErrTooManyRows), errors.Is(err, pgx.ErrTxClosed):
		return true
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return true
	case pgconn.Timeout(err), pgconn.SafeToRetry(err):
		return true
	}
	return false
}

// HandleError converts a data layer failure into an application error.
//
// An *errs.HTTPError passes through unchanged. Everything else is a
// storage failure: the whole chain is kept as the cause, so the log shows
// which operation failed and Classify can still reach the server error.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	return errs.NewStorageError(err)
}
