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

package definitions

const (
	// LogKeyGUID represents the per-login-attempt identifier used in log entries.
	LogKeyGUID = "session"

	// LogKeyMsg represents the message content in log entries.
	LogKeyMsg = "msg"

	// LogKeyError represents error information in log entries.
	LogKeyError = "error"

	// LogKeyErrorDetails represents additional error details in log entries.
	LogKeyErrorDetails = "error_details"

	// LogKeyWarning represents warning information in log entries.
	LogKeyWarning = "warn"

	// LogKeyInstance represents instance identification in log entries.
	LogKeyInstance = "instance"

	// LogKeyUsername represents the username being authenticated.
	LogKeyUsername = "username"

	// LogKeyDatabase represents the configured database name a statement ran against.
	LogKeyDatabase = "database"

	// LogKeyAuthQuery represents the name of an authentication query.
	LogKeyAuthQuery = "auth_query"

	// LogKeyQueryStage represents the SQL round-trip phase of a query error.
	LogKeyQueryStage = "stage"
)

// Log levels accepted by log.SetupLogging.
const (
	// LogLevelNone is the iota constant representing no logs
	LogLevelNone = iota

	// LogLevelError is the iota constant for error logs
	LogLevelError

	// LogLevelWarn is the iota constant for warning logs
	LogLevelWarn

	// LogLevelInfo is the iota constant for info logs
	LogLevelInfo

	// LogLevelDebug is the iota constant for debug logs
	LogLevelDebug
)

// Supported salted hashes.
const (
	// SSHAUNKNOWN marks an unrecognized salted hash prefix.
	SSHAUNKNOWN Algorithm = iota

	// SSHA256 is a constant for choosing the SHA-256 algorithm
	SSHA256

	// SSHA512 is a constant for choosing the SHA-512 algorithm
	SSHA512
)

// Encoding schema for encrypted passwords.
const (
	// ENCUNKNOWN marks an unrecognized password encoding.
	ENCUNKNOWN PasswordOption = iota

	// ENCB64 selects base64 payload encoding.
	ENCB64

	// ENCHEX selects hexadecimal payload encoding.
	ENCHEX
)

// SQL round-trip phases reported by the query executor.
const (
	StagePrepare QueryStage = "prepare"
	StageExecute QueryStage = "execute"
	StageFetch   QueryStage = "fetch"
)

// Query placeholder names handed to SQL statements. These are the only
// parameters the engine ever binds.
const (
	ParamUsername = "username"
	ParamPassword = "password"
	ParamUserID   = "userid"
)

// DefaultName is used by the legacy configuration adapter for the implicit
// database and authentication query.
const DefaultName = "default"
