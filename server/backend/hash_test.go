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
	"testing"

	"github.com/croessner/sqlauth/server/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Verifies against "bc123".
const ssha256Hash = "{SSHA256}9BT0VNzrkTp51/skOYDjOEFoYPN9FoGx/Gd+njZv5tEOgtl6TvODXg=="

func TestVerifyHashEmptyRows(t *testing.T) {
	verified, err := VerifyHash(nil, "passhash", "bc123")

	require.NoError(t, err, "empty rows mean try the next query, not an error")
	assert.False(t, verified)
}

func TestVerifyHashMatch(t *testing.T) {
	rows := []Row{{"passhash": ssha256Hash, "cn": "Alice"}}

	verified, err := VerifyHash(rows, "passhash", "bc123")

	require.NoError(t, err)
	assert.True(t, verified)
}

func TestVerifyHashMismatch(t *testing.T) {
	rows := []Row{{"passhash": ssha256Hash}}

	verified, err := VerifyHash(rows, "passhash", "wrong")

	require.NoError(t, err, "a wrong password is a boolean outcome, not an error")
	assert.False(t, verified)
}

func TestVerifyHashConsistentAcrossRows(t *testing.T) {
	rows := []Row{
		{"passhash": ssha256Hash, "group": "admin"},
		{"passhash": ssha256Hash, "group": "ops"},
	}

	verified, err := VerifyHash(rows, "passhash", "bc123")

	require.NoError(t, err)
	assert.True(t, verified)
}

func TestVerifyHashColumnErrors(t *testing.T) {
	testCases := []struct {
		name     string
		rows     []Row
		expected error
	}{
		{
			"column missing",
			[]Row{{"cn": "Alice"}},
			errors.ErrHashColumnMissing,
		},
		{
			"column null",
			[]Row{{"passhash": nil}},
			errors.ErrHashColumnMissing,
		},
		{
			"column empty",
			[]Row{{"passhash": ""}},
			errors.ErrHashColumnEmpty,
		},
		{
			"column inconsistent",
			[]Row{
				{"passhash": ssha256Hash},
				{"passhash": "{SSHA256}somethingelse"},
			},
			errors.ErrHashColumnInconsistent,
		},
		{
			"inconsistent even when one hash matches",
			[]Row{
				{"passhash": "{SSHA256}somethingelse"},
				{"passhash": ssha256Hash},
			},
			errors.ErrHashColumnInconsistent,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			verified, err := VerifyHash(testCase.rows, "passhash", "bc123")

			assert.False(t, verified)
			assert.ErrorIs(t, err, testCase.expected)
		})
	}
}

func TestVerifyHashGarbageHash(t *testing.T) {
	rows := []Row{{"passhash": "not-a-hash"}}

	verified, err := VerifyHash(rows, "passhash", "bc123")

	assert.False(t, verified)
	assert.Error(t, err, "an undecodable hash surfaces the primitive's error for diagnostics")
}
