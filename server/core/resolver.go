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

package core

import (
	"context"
	stderrors "errors"

	"github.com/croessner/sqlauth/server/backend"
	"github.com/croessner/sqlauth/server/config"
	"github.com/croessner/sqlauth/server/definitions"
	"github.com/croessner/sqlauth/server/errors"
	"github.com/croessner/sqlauth/server/stats"
	"github.com/go-kit/log/level"
)

// queryOutcome is the evaluation state of one authentication query within a
// single login attempt.
type queryOutcome uint8

const (
	outcomeSkipped queryOutcome = iota
	outcomeFailed
	outcomeWon
)

func (o queryOutcome) String() string {
	switch o {
	case outcomeSkipped:
		return "skipped"
	case outcomeFailed:
		return "failed"
	case outcomeWon:
		return "won"
	default:
		return "unknown"
	}
}

// AuthResult is the per-attempt outcome record of a successful resolution.
// Keeping it separate from the configuration means concurrent logins on one
// Engine never share mutable state.
type AuthResult struct {
	// Query is the name of the authentication query that ended the
	// evaluation.
	Query string

	// UserID is the extracted alternate user key, when the query
	// configured one. HasUserID distinguishes "not configured" from an
	// empty value.
	UserID    string
	HasUserID bool

	// Attributes accumulates the merged attributes of the authentication
	// query and, later, the attribute queries.
	Attributes backend.AttributeSet
}

// resolve walks the configured authentication queries in order and returns
// the result of the first successful one. Queries whose username gate does
// not match are skipped without a database round-trip; per-query SQL errors
// are logged and count as a failed query. When no query succeeds, the
// generic ErrWrongUserPass is returned: unknown usernames and wrong
// passwords are deliberately indistinguishable.
func (e *Engine) resolve(ctx context.Context, registry *backend.Registry, guid string, username string, password string) (*AuthResult, error) {
	for _, authQuery := range e.file.AuthQueries {
		if !authQuery.MatchesUsername(username) {
			e.countOutcome(authQuery, outcomeSkipped)
			e.debugOutcome(guid, username, authQuery, outcomeSkipped)

			continue
		}

		conn, err := registry.Connect(ctx, authQuery.Database)
		if err != nil {
			return nil, err
		}

		params := map[string]any{definitions.ParamUsername: username}

		// Hash-verified queries never see the plain text password as a
		// SQL parameter; it is compared in-process instead.
		if !authQuery.HasHashVerification() {
			params[definitions.ParamPassword] = password
		}

		rows, err := backend.Execute(ctx, conn, authQuery.Query, params)
		if err != nil {
			e.logQueryError(guid, authQuery.Name, authQuery.Database, err)
			e.countOutcome(authQuery, outcomeFailed)

			continue
		}

		if len(rows) == 0 {
			e.countOutcome(authQuery, outcomeFailed)
			e.debugOutcome(guid, username, authQuery, outcomeFailed)

			continue
		}

		if authQuery.HasHashVerification() {
			verified, err := backend.VerifyHash(rows, authQuery.PasswordVerifyHashColumn, password)
			if err != nil {
				if isHashColumnError(err) {
					// A broken hash column is a query-authoring bug.
					// Log the real cause, deny with the generic signal.
					level.Error(e.logger).Log(
						definitions.LogKeyGUID, guid,
						definitions.LogKeyAuthQuery, authQuery.Name,
						definitions.LogKeyError, err,
						definitions.LogKeyErrorDetails, errorDetails(err),
					)

					e.countOutcome(authQuery, outcomeFailed)

					return nil, errors.ErrWrongUserPass
				}

				e.logQueryError(guid, authQuery.Name, authQuery.Database, err)
				e.countOutcome(authQuery, outcomeFailed)

				continue
			}

			if !verified {
				e.countOutcome(authQuery, outcomeFailed)
				e.debugOutcome(guid, username, authQuery, outcomeFailed)

				continue
			}
		}

		e.countOutcome(authQuery, outcomeWon)
		e.debugOutcome(guid, username, authQuery, outcomeWon)

		return e.newAuthResult(guid, authQuery, rows), nil
	}

	return nil, errors.ErrWrongUserPass
}

// newAuthResult assembles the per-attempt record for the successful query:
// merged attributes with the hash column held back, plus the extracted user
// identifier when configured.
func (e *Engine) newAuthResult(guid string, authQuery *config.AuthQuery, rows []backend.Row) *AuthResult {
	result := &AuthResult{
		Query:      authQuery.Name,
		Attributes: make(backend.AttributeSet),
	}

	forbidden := make(map[string]struct{})

	if authQuery.HasHashVerification() {
		forbidden[authQuery.PasswordVerifyHashColumn] = struct{}{}
	}

	result.Attributes.Merge(rows, forbidden)

	if authQuery.ExtractUserIDFrom != "" {
		value, present := rows[0][authQuery.ExtractUserIDFrom]
		if present && value != nil {
			result.UserID = backend.StringifyValue(value)
			result.HasUserID = true
		} else {
			level.Warn(e.logger).Log(
				definitions.LogKeyGUID, guid,
				definitions.LogKeyAuthQuery, authQuery.Name,
				definitions.LogKeyWarning, "extract_userid_from column missing or NULL, falling back to username",
				"column", authQuery.ExtractUserIDFrom,
			)
		}
	}

	return result
}

func (e *Engine) countOutcome(authQuery *config.AuthQuery, outcome queryOutcome) {
	stats.AuthQueryResultsCounter.WithLabelValues(authQuery.Name, outcome.String()).Inc()
}

func (e *Engine) debugOutcome(guid string, username string, authQuery *config.AuthQuery, outcome queryOutcome) {
	level.Debug(e.logger).Log(
		definitions.LogKeyGUID, guid,
		definitions.LogKeyUsername, username,
		definitions.LogKeyAuthQuery, authQuery.Name,
		definitions.LogKeyMsg, outcome.String(),
	)
}

func (e *Engine) logQueryError(guid string, queryName string, database string, err error) {
	keyvals := []any{
		definitions.LogKeyGUID, guid,
		definitions.LogKeyAuthQuery, queryName,
		definitions.LogKeyDatabase, database,
		definitions.LogKeyError, err,
	}

	var queryError *errors.QueryError
	if stderrors.As(err, &queryError) {
		stats.QueryErrorsCounter.WithLabelValues(string(queryError.Stage)).Inc()

		keyvals = append(keyvals, definitions.LogKeyQueryStage, string(queryError.Stage))
	}

	level.Error(e.logger).Log(keyvals...)
}

func isHashColumnError(err error) bool {
	return stderrors.Is(err, errors.ErrHashColumnMissing) ||
		stderrors.Is(err, errors.ErrHashColumnEmpty) ||
		stderrors.Is(err, errors.ErrHashColumnInconsistent)
}

func errorDetails(err error) string {
	var detailed *errors.DetailedError
	if stderrors.As(err, &detailed) {
		return detailed.GetDetails()
	}

	return ""
}
