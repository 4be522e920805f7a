// Copyright (C) 2026 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package errors

import (
	"errors"
	"fmt"

	"github.com/croessner/sqlauth/server/definitions"
)

// DetailedError carries an error together with optional per-occurrence
// context. The With* methods operate on a copy, so package-level sentinel
// values stay immutable and safe for concurrent use.
type DetailedError struct {
	err      error
	guid     string
	details  string
	instance string
}

func (d *DetailedError) Error() string {
	return d.err.Error()
}

func (d *DetailedError) Unwrap() error {
	return d.err
}

// Is reports a match whenever the target is the sentinel this DetailedError
// was derived from, independent of any attached details.
func (d *DetailedError) Is(target error) bool {
	if other, assertOk := target.(*DetailedError); assertOk {
		return d.err == other.err
	}

	return errors.Is(d.err, target)
}

func (d *DetailedError) WithGUID(guid string) *DetailedError {
	if d == nil {
		return nil
	}

	derived := *d
	derived.guid = guid

	return &derived
}

func (d *DetailedError) WithDetail(detail string) *DetailedError {
	if d == nil {
		return nil
	}

	derived := *d
	derived.details = detail

	return &derived
}

func (d *DetailedError) WithInstance(instance string) *DetailedError {
	if d == nil {
		return nil
	}

	derived := *d
	derived.instance = instance

	return &derived
}

func (d *DetailedError) GetGUID() string {
	return d.guid
}

func (d *DetailedError) GetDetails() string {
	return d.details
}

func (d *DetailedError) GetInstance() string {
	return d.instance
}

func NewDetailedError(err string) *DetailedError {
	return &DetailedError{err: errors.New(err)}
}

// QueryError wraps a driver error together with the SQL round-trip stage it
// occurred in. Prepare, execute and fetch failures all surface through this
// one type; none of them are retried.
type QueryError struct {
	Stage definitions.QueryStage
	Err   error
}

func (q *QueryError) Error() string {
	return fmt.Sprintf("sql %s failed: %v", q.Stage, q.Err)
}

func (q *QueryError) Unwrap() error {
	return q.Err
}

func NewQueryError(stage definitions.QueryStage, err error) *QueryError {
	return &QueryError{Stage: stage, Err: err}
}

// auth.

var (
	// ErrWrongUserPass is the single user-facing invalid-credentials signal.
	// It deliberately does not distinguish unknown usernames from wrong
	// passwords.
	ErrWrongUserPass = errors.New("WRONGUSERPASS")
)

// config.

var (
	ErrNoDatabasesConfigured   = errors.New("no 'databases:' section found")
	ErrNoAuthQueriesConfigured = errors.New("no 'auth_queries:' section found")
	ErrDuplicateAuthQuery      = errors.New("duplicate auth query name")
	ErrUnknownDatabaseRef      = errors.New("query references an unknown database")
	ErrUnknownAuthQueryRef     = errors.New("attr query restricted to an unknown auth query")
	ErrInvalidUsernameRegex    = errors.New("username_regex does not compile")
	ErrUnsupportedSQLDriver    = errors.New("unsupported SQL driver")
	ErrSQLConfig               = NewDetailedError("sql_config_error")
)

// database.

var (
	ErrDatabaseConnect      = NewDetailedError("database_connect_error")
	ErrNoDatabaseConnection = NewDetailedError("no_database_connection")
)

// hash verification. These stay internal: the resolver logs them and
// collapses all of them into ErrWrongUserPass towards the caller.

var (
	ErrHashColumnMissing      = NewDetailedError("hash_column_missing")
	ErrHashColumnEmpty        = NewDetailedError("hash_column_empty")
	ErrHashColumnInconsistent = NewDetailedError("hash_column_inconsistent")
)

// util.

var (
	ErrUnsupportedAlgorithm      = errors.New("unsupported hash algorithm")
	ErrUnsupportedPasswordOption = errors.New("unsupported password option")
)
