// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/facilityadmin/pkg/pagination"
)

/*
TestFromRequest verifies parsing and clamping of paging query parameters.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: 12}},
		{"explicit", "?page=3&limit=50", pagination.Params{Page: 3, Limit: 50}},
		{"negative_page", "?page=-2", pagination.Params{Page: 1, Limit: 12}},
		{"limit_over_max", "?limit=500", pagination.Params{Page: 1, Limit: 12}},
		{"garbage", "?page=abc&limit=xyz", pagination.Params{Page: 1, Limit: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/bookings"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request, 12))
		})
	}
}

/*
TestNewMeta checks total page derivation.
*/
func TestNewMeta(t *testing.T) {
	assert.Equal(t, pagination.Meta{Page: 1, Limit: 10, Total: 25, TotalPages: 3}, pagination.NewMeta(1, 10, 25))
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 25).TotalPages)
}

/*
TestParams_Values verifies query encoding.
*/
func TestParams_Values(t *testing.T) {
	values := pagination.Params{Page: 2, Limit: 4}.Values()
	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "4", values.Get("limit"))
}
