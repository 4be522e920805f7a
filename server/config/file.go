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

package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// File is one authentication source configuration. It is immutable after
// NewFile has validated it; login attempts never write to it.
type File struct {
	// Databases maps a symbolic name to a connection configuration. At
	// least one entry is required.
	Databases map[string]*Database `mapstructure:"databases" validate:"required,min=1,dive"`

	// AuthQueries are evaluated in the order they appear in the
	// configuration file; the first successful one ends the evaluation.
	// Names must be unique.
	AuthQueries []*AuthQuery `mapstructure:"auth_queries" validate:"required,min=1,dive"`

	// AttrQueries contribute additional attributes after a successful
	// authentication and play no role in credential verification.
	AttrQueries []*AttrQuery `mapstructure:"attr_queries" validate:"omitempty,dive"`

	// CacheTTL enables the in-process cache for successful logins when set
	// to a positive duration.
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"omitempty,gt=0,max=24h"`
}

// Database holds the connection settings for one named SQL server.
type Database struct {
	DSN      string            `mapstructure:"dsn" validate:"required"`
	Username string            `mapstructure:"username"`
	Password string            `mapstructure:"password"`
	Options  map[string]string `mapstructure:"options"`
}

// AuthQuery verifies credentials and yields the first batch of attributes.
type AuthQuery struct {
	Name     string `mapstructure:"name" validate:"required"`
	Database string `mapstructure:"database" validate:"required"`
	Query    string `mapstructure:"query" validate:"required"`

	// UsernameRegex gates the query: usernames that do not match are
	// skipped without a database round-trip.
	UsernameRegex string `mapstructure:"username_regex"`

	// ExtractUserIDFrom names the result column whose value replaces the
	// username in subsequent attribute queries.
	ExtractUserIDFrom string `mapstructure:"extract_userid_from"`

	// PasswordVerifyHashColumn switches the query into hash-verify mode:
	// the statement returns a stored hash instead of checking the password
	// in SQL, and the plain text password is never bound as a parameter.
	PasswordVerifyHashColumn string `mapstructure:"password_verify_hash_column"`

	pattern *regexp.Regexp
}

// AttrQuery yields additional attributes for an authenticated user.
type AttrQuery struct {
	Database string `mapstructure:"database" validate:"required"`
	Query    string `mapstructure:"query" validate:"required"`

	// OnlyForAuth restricts the query to logins won by one of the listed
	// authentication queries. An empty list means no restriction.
	OnlyForAuth []string `mapstructure:"only_for_auth"`
}

func (f *File) String() string {
	names := make([]string, 0, len(f.AuthQueries))
	for _, authQuery := range f.AuthQueries {
		names = append(names, authQuery.Name)
	}

	return fmt.Sprintf(
		"File: {databases[%d] auth_queries[%s] attr_queries[%d]}",
		len(f.Databases), strings.Join(names, ","), len(f.AttrQueries))
}

// GetDatabase returns the connection settings for a symbolic database name.
func (f *File) GetDatabase(name string) (*Database, bool) {
	database, assertOk := f.Databases[name]

	return database, assertOk
}

// GetAuthQuery returns the authentication query with the given name.
func (f *File) GetAuthQuery(name string) *AuthQuery {
	for _, authQuery := range f.AuthQueries {
		if authQuery.Name == name {
			return authQuery
		}
	}

	return nil
}

// GetCacheTTL returns the configured success-cache TTL. Zero disables the cache.
func (f *File) GetCacheTTL() time.Duration {
	if f == nil {
		return 0
	}

	return f.CacheTTL
}

// HasHashVerification reports whether the query checks the password
// in-process against a stored hash instead of inside the SQL statement.
func (a *AuthQuery) HasHashVerification() bool {
	return a.PasswordVerifyHashColumn != ""
}

// MatchesUsername applies the optional username gate. Queries without a
// pattern accept every username.
func (a *AuthQuery) MatchesUsername(username string) bool {
	if a.pattern == nil {
		return true
	}

	return a.pattern.MatchString(username)
}

// AppliesTo reports whether this attribute query runs for a login won by the
// named authentication query.
func (q *AttrQuery) AppliesTo(authQueryName string) bool {
	if len(q.OnlyForAuth) == 0 {
		return true
	}

	for _, name := range q.OnlyForAuth {
		if name == authQueryName {
			return true
		}
	}

	return false
}
