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
	"testing"

	"github.com/croessner/sqlauth/server/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFromLegacy(t *testing.T) {
	legacy := &LegacyFile{
		DSN:      "mysql://db.example.test:3306/accounts",
		Username: "app",
		Password: "secret",
		Queries: []string{
			"select name from users where uid = :username and password = :password",
			"select grp from groups where uid = :username",
			"select mail from mailboxes where uid = :username",
		},
	}

	file, err := FileFromLegacy(legacy)
	require.NoError(t, err)

	require.Len(t, file.Databases, 1)
	database, assertOk := file.GetDatabase("default")
	require.True(t, assertOk)
	assert.Equal(t, legacy.DSN, database.DSN)
	assert.Equal(t, "app", database.Username)

	require.Len(t, file.AuthQueries, 1)
	assert.Equal(t, "default", file.AuthQueries[0].Name)
	assert.Equal(t, legacy.Queries[0], file.AuthQueries[0].Query)
	assert.False(t, file.AuthQueries[0].HasHashVerification())

	require.Len(t, file.AttrQueries, 2)
	assert.Equal(t, legacy.Queries[1], file.AttrQueries[0].Query)
	assert.Equal(t, legacy.Queries[2], file.AttrQueries[1].Query)
	assert.Empty(t, file.AttrQueries[0].OnlyForAuth)
}

func TestFileFromLegacySingleQuery(t *testing.T) {
	file, err := FileFromLegacy(&LegacyFile{
		DSN:     "sqlite3://file:legacy?mode=memory",
		Queries: []string{"select name from users where uid = :username and password = :password"},
	})
	require.NoError(t, err)

	assert.Len(t, file.AuthQueries, 1)
	assert.Empty(t, file.AttrQueries)
}

func TestFileFromLegacyEmpty(t *testing.T) {
	_, err := FileFromLegacy(&LegacyFile{DSN: "sqlite3://file:legacy?mode=memory"})
	assert.ErrorIs(t, err, errors.ErrNoAuthQueriesConfigured)

	_, err = FileFromLegacy(nil)
	assert.ErrorIs(t, err, errors.ErrNoAuthQueriesConfigured)
}
