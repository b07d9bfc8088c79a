// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package dashboard assembles the admin overview from many remote reads.

# Fan-out

One dashboard load issues fifteen independent reads: the user count, the
booking count of each facility module and the latest bookings of each
module. They run concurrently and are joined before the summary is
assembled, so a summary is either complete or not produced at all.

# Degradation

A module the admin may not read (403) counts as empty. Any other failure of
a single read is logged and degrades the same way; only a cancelled context
fails the whole load.
*/
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/facilityadmin/internal/booking"
	"github.com/taibuivan/facilityadmin/internal/facility"
	"github.com/taibuivan/facilityadmin/internal/platform/apiclient"
	"github.com/taibuivan/facilityadmin/internal/platform/constants"
	"github.com/taibuivan/facilityadmin/internal/platform/ctxutil"
	"github.com/taibuivan/facilityadmin/pkg/slice"
)

// # Contracts

// UserCounter counts the user directory.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// BookingReader reads the bookings of one module.
type BookingReader interface {
	Count(ctx context.Context, key facility.Key) (int, error)
	Latest(ctx context.Context, key facility.Key, n int) ([]booking.Summary, error)
}

// Summary is the admin overview.
type Summary struct {
	UserCount     int                  `json:"userCount"`
	BookingTotals map[facility.Key]int `json:"bookingTotals"`
	Latest        []booking.Summary    `json:"latest"`
	BaseURL       string               `json:"baseUrl"`
}

// # Aggregator

// Aggregator builds [Summary] values.
type Aggregator struct {
	users    UserCounter
	bookings BookingReader
	baseURL  string
	logger   *slog.Logger
}

// NewAggregator constructs an [Aggregator]. baseURL is reported verbatim in
// every summary.
func NewAggregator(users UserCounter, bookings BookingReader, baseURL string, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		users:    users,
		bookings: bookings,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Build runs every read concurrently and assembles the summary.
//
// It returns an error only when ctx is done before the reads are joined.
func (aggregator *Aggregator) Build(ctx context.Context) (Summary, error) {
	keys := facility.Keys()

	// Each goroutine owns one index of these slices.
	var userCount int
	counts := make([]int, len(keys))
	latest := make([][]booking.Summary, len(keys))

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		count, err := aggregator.users.Count(groupCtx)
		if err != nil {
			aggregator.degrade(groupCtx, "user_count", "", err)
			return nil
		}
		userCount = count
		return nil
	})

	for i, key := range keys {
		group.Go(func() error {
			count, err := aggregator.bookings.Count(groupCtx, key)
			if err != nil {
				aggregator.degrade(groupCtx, "booking_count", key, err)
				return nil
			}
			counts[i] = count
			return nil
		})

		group.Go(func() error {
			items, err := aggregator.bookings.Latest(groupCtx, key, constants.DashboardLatestPerModule)
			if err != nil {
				aggregator.degrade(groupCtx, "booking_latest", key, err)
				return nil
			}
			latest[i] = slice.Take(items, constants.DashboardLatestPerModule)
			return nil
		})
	}

	_ = group.Wait()
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	totals := make(map[facility.Key]int, len(keys))
	for i, key := range keys {
		totals[key] = counts[i]
	}

	return Summary{
		UserCount:     userCount,
		BookingTotals: totals,
		Latest:        mergeLatest(latest, constants.DashboardLatestTotal),
		BaseURL:       aggregator.baseURL,
	}, nil
}

// degrade records a failed read that the summary replaces with a zero value.
func (aggregator *Aggregator) degrade(ctx context.Context, read string, key facility.Key, err error) {
	if apiclient.IsStatus(err, http.StatusForbidden) {
		return
	}

	logger := ctxutil.GetLogger(ctx)
	if logger == slog.Default() && aggregator.logger != nil {
		logger = aggregator.logger
	}

	logger.WarnContext(ctx, "dashboard_read_degraded",
		slog.String("read", read),
		slog.String("module", string(key)),
		slog.Any("error", err),
	)
}

// mergeLatest flattens the per-module lists and keeps the limit newest.
//
// Bookings without a readable start sort last. Ties keep module order.
func mergeLatest(groups [][]booking.Summary, limit int) []booking.Summary {
	merged := slice.Flatten(groups)

	slices.SortStableFunc(merged, func(a, b booking.Summary) int {
		aStart, aOK := a.Start()
		bStart, bOK := b.Start()

		switch {
		case aOK && bOK:
			return bStart.Compare(aStart)
		case aOK:
			return -1
		case bOK:
			return 1
		default:
			return 0
		}
	})

	return slice.Take(merged, limit)
}
