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
	"slices"
	"strconv"
	"time"
)

// AttributeSet maps an attribute name to an ordered, duplicate-free list of
// string values. Value order is the order of first appearance across merges.
type AttributeSet map[string][]string

// Merge folds a row-set into the set: SQL NULLs and forbidden columns are
// skipped, everything else is stringified and appended unless the exact value
// is already present for that name. Merging the same rows twice is a no-op.
func (a AttributeSet) Merge(rows []Row, forbidden map[string]struct{}) {
	for _, row := range rows {
		for column, value := range row {
			if value == nil {
				continue
			}

			if _, assertOk := forbidden[column]; assertOk {
				continue
			}

			stringValue := StringifyValue(value)

			if slices.Contains(a[column], stringValue) {
				continue
			}

			a[column] = append(a[column], stringValue)
		}
	}
}

// Copy returns a deep copy, so cached results cannot be mutated by callers.
func (a AttributeSet) Copy() AttributeSet {
	copied := make(AttributeSet, len(a))

	for name, values := range a {
		copied[name] = slices.Clone(values)
	}

	return copied
}

// StringifyValue converts a driver-native scalar into its canonical textual
// form. Byte slices become strings, times RFC 3339.
func StringifyValue(value any) string {
	switch typedValue := value.(type) {
	case string:
		return typedValue
	case []byte:
		return string(typedValue)
	case bool:
		return strconv.FormatBool(typedValue)
	case int64:
		return strconv.FormatInt(typedValue, 10)
	case int32:
		return strconv.FormatInt(int64(typedValue), 10)
	case int:
		return strconv.Itoa(typedValue)
	case float64:
		return strconv.FormatFloat(typedValue, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typedValue), 'g', -1, 32)
	case time.Time:
		return typedValue.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", typedValue)
	}
}
