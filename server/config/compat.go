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
	"github.com/croessner/sqlauth/server/definitions"
	"github.com/croessner/sqlauth/server/errors"
)

// LegacyFile is the older flat configuration shape: one database and an
// ordered list of SQL statements, where the first statement authenticates
// and the remaining ones contribute attributes.
type LegacyFile struct {
	DSN      string            `mapstructure:"dsn"`
	Username string            `mapstructure:"username"`
	Password string            `mapstructure:"password"`
	Options  map[string]string `mapstructure:"options"`
	Queries  []string          `mapstructure:"query"`
}

// FileFromLegacy mechanically rewrites a LegacyFile into the current schema:
// one database named "default", one auth query named "default" from the
// first statement, and one attr query per remaining statement. The result
// runs through the same validation as a natively loaded File.
func FileFromLegacy(legacy *LegacyFile) (*File, error) {
	if legacy == nil || len(legacy.Queries) == 0 {
		return nil, errors.ErrNoAuthQueriesConfigured
	}

	file := &File{
		Databases: map[string]*Database{
			definitions.DefaultName: {
				DSN:      legacy.DSN,
				Username: legacy.Username,
				Password: legacy.Password,
				Options:  legacy.Options,
			},
		},
		AuthQueries: []*AuthQuery{
			{
				Name:     definitions.DefaultName,
				Database: definitions.DefaultName,
				Query:    legacy.Queries[0],
			},
		},
	}

	for _, query := range legacy.Queries[1:] {
		file.AttrQueries = append(file.AttrQueries, &AttrQuery{
			Database: definitions.DefaultName,
			Query:    query,
		})
	}

	if err := file.validate(); err != nil {
		return nil, err
	}

	return file, nil
}
