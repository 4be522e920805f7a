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
	"fmt"

	"github.com/croessner/sqlauth/server/backend"
	"github.com/croessner/sqlauth/server/definitions"
)

// gatherAttributes runs every applicable attribute query and merges its rows
// into the result. The parameter is the extracted user identifier when the
// winning authentication query produced one, else the original username.
// Attribute queries never abort a login: SQL errors are logged and the query
// is skipped.
func (e *Engine) gatherAttributes(ctx context.Context, registry *backend.Registry, guid string, username string, result *AuthResult) error {
	params := map[string]any{definitions.ParamUsername: username}
	if result.HasUserID {
		params = map[string]any{definitions.ParamUserID: result.UserID}
	}

	for index, attrQuery := range e.file.AttrQueries {
		if !attrQuery.AppliesTo(result.Query) {
			continue
		}

		conn, err := registry.Connect(ctx, attrQuery.Database)
		if err != nil {
			return err
		}

		rows, err := backend.Execute(ctx, conn, attrQuery.Query, params)
		if err != nil {
			e.logQueryError(guid, fmt.Sprintf("attr#%d", index), attrQuery.Database, err)

			continue
		}

		result.Attributes.Merge(rows, nil)
	}

	return nil
}
