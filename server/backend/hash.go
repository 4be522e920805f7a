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
	"fmt"

	"github.com/croessner/sqlauth/server/errors"
	"github.com/croessner/sqlauth/server/util"
)

// VerifyHash validates the hash column of an authentication query result and
// compares the supplied plain text password against it.
//
// An empty row-set returns (false, nil): the query simply did not match and
// the caller moves on. A hash column that is missing, NULL, empty or not
// identical across all rows is a query-authoring bug; those cases return a
// distinct DetailedError so the resolver can log the cause, and they must
// never silently authenticate against an arbitrary row's hash. A clean
// comparison returns the verification outcome: false means wrong password
// for this query, allowing fallthrough to the next one.
func VerifyHash(rows []Row, hashColumn string, plainPassword string) (bool, error) {
	if len(rows) == 0 {
		return false, nil
	}

	var hashValue string

	for index, row := range rows {
		value, present := row[hashColumn]
		if !present || value == nil {
			return false, errors.ErrHashColumnMissing.WithDetail(
				fmt.Sprintf("column %q missing or NULL in row %d", hashColumn, index))
		}

		stringValue := StringifyValue(value)
		if stringValue == "" {
			return false, errors.ErrHashColumnEmpty.WithDetail(
				fmt.Sprintf("column %q empty in row %d", hashColumn, index))
		}

		if index == 0 {
			hashValue = stringValue

			continue
		}

		if stringValue != hashValue {
			return false, errors.ErrHashColumnInconsistent.WithDetail(
				fmt.Sprintf("column %q differs between rows 0 and %d", hashColumn, index))
		}
	}

	return util.ComparePasswords(hashValue, plainPassword)
}
