// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package booking reads and removes bookings of the facility modules.

The remote API stores each module in its own shape: a kitchen booking names a
floor, a theater booking a borrower, a laundry booking a machine. [Normalize]
reduces any of them to a single [Summary] so the console can list bookings of
every module side by side.

# Probing

Each attribute of a [Summary] is read from an ordered list of candidate
fields. The first candidate holding a non-empty string or a number wins.
Nested candidates walk through objects; a candidate whose path crosses a
non-object value is skipped.
*/
package booking

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/taibuivan/facilityadmin/internal/facility"
	"github.com/taibuivan/facilityadmin/pkg/uuid"
)

// Raw is a booking document as received from the remote API.
type Raw map[string]any

// Status values derived from the remote "isDone" flag.
const (
	StatusDone      = "Done"
	StatusScheduled = "Scheduled"
)

// Summary is the module-independent view of one booking.
type Summary struct {
	ID               string       `json:"id"`
	Module           facility.Key `json:"module"`
	StartTime        string       `json:"startTime,omitempty"`
	EndTime          string       `json:"endTime,omitempty"`
	ResponsibleParty string       `json:"responsibleParty,omitempty"`
	Meta             string       `json:"meta,omitempty"`
	Status           string       `json:"status,omitempty"`
}

// timeLayouts are tried in order when reading a start time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Start parses the start time. It reports false when the start is absent or
// not a recognizable timestamp.
func (s Summary) Start() (time.Time, bool) {
	if s.StartTime == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s.StartTime); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// # Probe Lists

type path []string

var (
	startPaths = []path{{"waktuMulai"}, {"startTime"}}
	endPaths   = []path{{"waktuBerakhir"}, {"endTime"}}

	metaPaths = []path{
		{"lantai"},
		{"area"},
		{"area", "namaArea"},
		{"fasilitas"},
		{"fasilitas", "namaFasilitas"},
		{"facility", "name"},
	}

	responsiblePaths = []path{
		{"penanggungJawab", "namaPanggilan"},
		{"penanggungJawab", "namaLengkap"},
		{"peminjam", "namaPanggilan"},
		{"peminjam", "namaLengkap"},
		{"user", "namaPanggilan"},
		{"user", "namaLengkap"},
	}
)

// # Normalizer

// Normalize maps a raw booking of module key to a [Summary].
//
// fallbackMeta, when non-empty, takes precedence over every meta field of
// the document. Values are taken verbatim: only "" is skipped, whitespace
// is not. The document is never modified. The result depends only on the
// inputs, except that a booking without an id receives a fresh UUIDv7.
func Normalize(key facility.Key, raw Raw, fallbackMeta string) Summary {
	summary := Summary{
		ID:               identifier(raw["id"]),
		Module:           key,
		StartTime:        probe(raw, startPaths),
		EndTime:          probe(raw, endPaths),
		ResponsibleParty: probe(raw, responsiblePaths),
		Meta:             fallbackMeta,
		Status:           status(raw),
	}

	if summary.Meta == "" {
		summary.Meta = probe(raw, metaPaths)
	}

	return summary
}

// identifier renders any present id as a string, "" included. Only an
// absent or null id is replaced by a UUIDv7.
func identifier(value any) string {
	switch id := value.(type) {
	case nil:
		return uuid.New()
	case string:
		return id
	case bool:
		return strconv.FormatBool(id)
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		encoded, err := json.Marshal(id)
		if err != nil {
			return uuid.New()
		}
		return string(encoded)
	}
}

// status prefers the boolean isDone flag over a free-form status string.
func status(raw Raw) string {
	if done, ok := raw["isDone"].(bool); ok {
		if done {
			return StatusDone
		}
		return StatusScheduled
	}
	return text(raw, path{"status"})
}

// probe returns the first non-empty candidate.
func probe(raw Raw, candidates []path) string {
	for _, candidate := range candidates {
		if value := text(raw, candidate); value != "" {
			return value
		}
	}
	return ""
}

// text reads the value at p as a string. Only strings and numbers qualify.
func text(raw Raw, p path) string {
	var current any = map[string]any(raw)

	for _, field := range p {
		object, ok := asObject(current)
		if !ok {
			return ""
		}
		current = object[field]
	}

	switch value := current.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return ""
	}
}

func asObject(value any) (map[string]any, bool) {
	switch object := value.(type) {
	case map[string]any:
		return object, true
	case Raw:
		return object, true
	default:
		return nil, false
	}
}
