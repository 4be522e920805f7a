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
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttributeSetMerge(t *testing.T) {
	attributes := make(AttributeSet)

	rows := []Row{
		{"group": "admin", "shell": "/bin/sh"},
		{"group": "ops", "shell": "/bin/sh"},
	}

	attributes.Merge(rows, nil)

	assert.Equal(t, []string{"admin", "ops"}, attributes["group"], "row order must be preserved")
	assert.Equal(t, []string{"/bin/sh"}, attributes["shell"], "equal values must not duplicate")
}

func TestAttributeSetMergeIdempotent(t *testing.T) {
	attributes := make(AttributeSet)

	rows := []Row{
		{"group": "admin"},
		{"group": "ops"},
	}

	attributes.Merge(rows, nil)

	once := attributes.Copy()

	attributes.Merge(rows, nil)

	assert.Equal(t, once, attributes)
}

func TestAttributeSetMergeSkipsNullAndForbidden(t *testing.T) {
	attributes := make(AttributeSet)

	rows := []Row{
		{"name": "alice", "email": nil, "passhash": "{SSHA256}abc"},
	}

	attributes.Merge(rows, map[string]struct{}{"passhash": {}})

	assert.Equal(t, []string{"alice"}, attributes["name"])
	assert.NotContains(t, attributes, "email")
	assert.NotContains(t, attributes, "passhash")
}

func TestAttributeSetMergeStringifies(t *testing.T) {
	attributes := make(AttributeSet)

	when := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	rows := []Row{
		{
			"uid":     int64(42),
			"active":  true,
			"quota":   1.5,
			"since":   when,
			"comment": []byte("bytes"),
		},
	}

	attributes.Merge(rows, nil)

	assert.Equal(t, []string{"42"}, attributes["uid"])
	assert.Equal(t, []string{"true"}, attributes["active"])
	assert.Equal(t, []string{"1.5"}, attributes["quota"])
	assert.Equal(t, []string{"2026-08-23T12:00:00Z"}, attributes["since"])
	assert.Equal(t, []string{"bytes"}, attributes["comment"])
}

func TestAttributeSetCopyIsDeep(t *testing.T) {
	attributes := AttributeSet{"group": {"admin"}}

	copied := attributes.Copy()
	copied["group"][0] = "changed"
	copied["extra"] = []string{"x"}

	assert.Equal(t, []string{"admin"}, attributes["group"])
	assert.NotContains(t, attributes, "extra")
}
