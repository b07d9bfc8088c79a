// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package facility_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facilityadmin/internal/facility"
)

/*
TestRegistry_TotalAndInjective verifies every key maps to one distinct path.
*/
func TestRegistry_TotalAndInjective(t *testing.T) {
	keys := facility.Keys()
	require.Len(t, keys, 7)

	seen := make(map[string]facility.Key)
	for _, key := range keys {
		path := key.Path()
		require.NotEmpty(t, path, "key %s has no path", key)
		require.NotEmpty(t, key.Label())

		previous, duplicate := seen[path]
		assert.False(t, duplicate, "path %s shared by %s and %s", path, previous, key)
		seen[path] = key
	}
}

/*
TestParse verifies only registered keys are accepted.
*/
func TestParse(t *testing.T) {
	key, err := facility.Parse("laundry-male")
	require.NoError(t, err)
	assert.Equal(t, facility.LaundryMale, key)
	assert.Equal(t, "/mesin-cuci-cowo", key.Path())

	_, err = facility.Parse("sauna")
	assert.Error(t, err)
	_, err = facility.Parse("")
	assert.Error(t, err)

	assert.False(t, facility.Key("sauna").Valid())
	assert.Empty(t, facility.Key("sauna").Path())
}

/*
TestHandler_GetModule verifies lookups by key and the 404 for unknown keys.
*/
func TestHandler_GetModule(t *testing.T) {
	router := chi.NewRouter()
	facility.NewHandler().RegisterRoutes(router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/theater", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"path":"/theater"`)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/sauna", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
