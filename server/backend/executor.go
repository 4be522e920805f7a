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

package backend

import (
	"context"

	"github.com/croessner/sqlauth/server/definitions"
	"github.com/croessner/sqlauth/server/errors"
	"github.com/jmoiron/sqlx"
)

// Row is one result row as the driver returned it, keyed by column name.
// Values are the driver's native types before stringification; SQL NULL is a
// nil value.
type Row map[string]any

// Execute runs a named-parameter statement and fetches every row. Prepare,
// execute and fetch failures surface as a QueryError carrying the stage; an
// empty result is an empty slice, not an error. Nothing is retried.
func Execute(ctx context.Context, conn *sqlx.DB, query string, params map[string]any) ([]Row, error) {
	stmt, err := conn.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, errors.NewQueryError(definitions.StagePrepare, err)
	}

	defer stmt.Close()

	rows, err := stmt.QueryxContext(ctx, params)
	if err != nil {
		return nil, errors.NewQueryError(definitions.StageExecute, err)
	}

	defer rows.Close()

	var result []Row

	for rows.Next() {
		row := make(Row)

		if err = rows.MapScan(row); err != nil {
			return nil, errors.NewQueryError(definitions.StageFetch, err)
		}

		normalizeRow(row)

		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.NewQueryError(definitions.StageFetch, err)
	}

	return result, nil
}

// normalizeRow fixes []uint8 results some drivers (MySQL/MariaDB) return for
// text columns.
func normalizeRow(row Row) {
	for key, value := range row {
		if bytes, assertOk := value.([]byte); assertOk {
			row[key] = string(bytes)
		}
	}
}
