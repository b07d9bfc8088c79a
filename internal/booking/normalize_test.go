// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facilityadmin/internal/booking"
	"github.com/taibuivan/facilityadmin/internal/facility"
)

func decodeRaw(t *testing.T, document string) booking.Raw {
	t.Helper()

	var raw booking.Raw
	decoder := json.NewDecoder(strings.NewReader(document))
	decoder.UseNumber()
	require.NoError(t, decoder.Decode(&raw))
	return raw
}

/*
TestNormalize_Precedence verifies the candidate order of every attribute.
*/
func TestNormalize_Precedence(t *testing.T) {
	raw := decodeRaw(t, `{
		"id": 42,
		"waktuMulai": "2026-03-01T08:00:00Z",
		"startTime": "2020-01-01T00:00:00Z",
		"endTime": "2026-03-01T10:00:00Z",
		"penanggungJawab": {"namaLengkap": "Siti Aminah"},
		"peminjam": {"namaPanggilan": "Budi"},
		"fasilitas": {"namaFasilitas": "Projector"},
		"status": "Pending"
	}`)

	summary := booking.Normalize(facility.Theater, raw, "")

	assert.Equal(t, "42", summary.ID)
	assert.Equal(t, facility.Theater, summary.Module)
	assert.Equal(t, "2026-03-01T08:00:00Z", summary.StartTime)
	assert.Equal(t, "2026-03-01T10:00:00Z", summary.EndTime)
	assert.Equal(t, "Siti Aminah", summary.ResponsibleParty)
	assert.Equal(t, "Projector", summary.Meta)
	assert.Equal(t, "Pending", summary.Status)
}

/*
TestNormalize_FloorBeatsArea verifies a floor label wins over an area name,
and that the fallback wins over both.
*/
func TestNormalize_FloorBeatsArea(t *testing.T) {
	raw := decodeRaw(t, `{"id":"k1","lantai":"Floor 3","area":{"namaArea":"East Wing"}}`)

	assert.Equal(t, "Floor 3", booking.Normalize(facility.Kitchen, raw, "").Meta)
	assert.Equal(t, "Stove A", booking.Normalize(facility.Kitchen, raw, "Stove A").Meta)

	delete(raw, "lantai")
	assert.Equal(t, "East Wing", booking.Normalize(facility.Kitchen, raw, "").Meta)

	raw["area"] = "Rooftop"
	assert.Equal(t, "Rooftop", booking.Normalize(facility.Kitchen, raw, "").Meta)
}

/*
TestNormalize_SkipsEmptyValues verifies empty strings and non-scalar values
do not stop the probe.
*/
func TestNormalize_SkipsEmptyValues(t *testing.T) {
	raw := decodeRaw(t, `{
		"id": "b-1",
		"lantai": "",
		"area": {"namaArea": ""},
		"facility": {"name": "Machine 2"},
		"penanggungJawab": "not an object",
		"user": {"namaPanggilan": "", "namaLengkap": "Rina Wulandari"}
	}`)

	summary := booking.Normalize(facility.LaundryFemale, raw, "")
	assert.Equal(t, "Machine 2", summary.Meta)
	assert.Equal(t, "Rina Wulandari", summary.ResponsibleParty)
	assert.Empty(t, summary.StartTime)
	assert.Empty(t, summary.Status)
}

/*
TestNormalize_WhitespaceIsAValue verifies a blank but non-empty value is
kept verbatim and stops the candidate search.
*/
func TestNormalize_WhitespaceIsAValue(t *testing.T) {
	raw := decodeRaw(t, `{
		"id": "b-2",
		"lantai": " ",
		"facility": {"name": "Machine 2"},
		"user": {"namaPanggilan": "  ", "namaLengkap": "Rina Wulandari"}
	}`)

	summary := booking.Normalize(facility.LaundryFemale, raw, "")
	assert.Equal(t, " ", summary.Meta)
	assert.Equal(t, "  ", summary.ResponsibleParty)

	assert.Equal(t, "\t", booking.Normalize(facility.LaundryFemale, raw, "\t").Meta)
}

/*
TestNormalize_IdentifierCoercion verifies every present id is rendered as a
string and only an absent or null id is generated.
*/
func TestNormalize_IdentifierCoercion(t *testing.T) {
	tests := []struct {
		name     string
		document string
		want     string
	}{
		{"string", `{"id":"b-9"}`, "b-9"},
		{"empty string", `{"id":""}`, ""},
		{"padded string", `{"id":" b-9 "}`, " b-9 "},
		{"number", `{"id":7}`, "7"},
		{"true", `{"id":true}`, "true"},
		{"false", `{"id":false}`, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Normalize(facility.Theater, decodeRaw(t, tt.document), "").ID)
		})
	}

	for _, document := range []string{`{}`, `{"id":null}`} {
		generated := booking.Normalize(facility.Theater, decodeRaw(t, document), "").ID
		assert.Len(t, generated, 36, document)
	}
}

/*
TestNormalize_Status verifies the isDone flag wins over the status string.
*/
func TestNormalize_Status(t *testing.T) {
	tests := []struct {
		name     string
		document string
		want     string
	}{
		{"Done", `{"id":1,"isDone":true,"status":"Pending"}`, booking.StatusDone},
		{"Scheduled", `{"id":1,"isDone":false}`, booking.StatusScheduled},
		{"RawStatus", `{"id":1,"status":"Cancelled"}`, "Cancelled"},
		{"NonBooleanFlag", `{"id":1,"isDone":"yes","status":"Open"}`, "Open"},
		{"Absent", `{"id":1}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Normalize(facility.Communal, decodeRaw(t, tt.document), "").Status)
		})
	}
}

/*
TestNormalize_PureAndIdempotent verifies repeated calls agree and leave the
document untouched, except for synthesized ids.
*/
func TestNormalize_PureAndIdempotent(t *testing.T) {
	document := `{"id":"c-9","waktuMulai":"2026-01-01T09:00:00Z","user":{"namaLengkap":"Andi"},"isDone":false}`
	raw := decodeRaw(t, document)

	first := booking.Normalize(facility.CoworkingSpace, raw, "")
	second := booking.Normalize(facility.CoworkingSpace, raw, "")
	assert.Equal(t, first, second)
	assert.Equal(t, decodeRaw(t, document), raw)

	anonymous := decodeRaw(t, `{"waktuMulai":"2026-01-01T09:00:00Z"}`)
	a := booking.Normalize(facility.CoworkingSpace, anonymous, "")
	b := booking.Normalize(facility.CoworkingSpace, anonymous, "")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	a.ID, b.ID = "", ""
	assert.Equal(t, a, b)
}

/*
TestSummary_Start verifies start times parse in the accepted layouts.
*/
func TestSummary_Start(t *testing.T) {
	start, ok := booking.Summary{StartTime: "2026-03-01T08:00:00.123+07:00"}.Start()
	require.True(t, ok)
	assert.Equal(t, 2026, start.Year())

	_, ok = booking.Summary{StartTime: "2026-03-01 08:00:00"}.Start()
	assert.True(t, ok)

	_, ok = booking.Summary{StartTime: "tomorrow"}.Start()
	assert.False(t, ok)

	_, ok = booking.Summary{}.Start()
	assert.False(t, ok)
}
