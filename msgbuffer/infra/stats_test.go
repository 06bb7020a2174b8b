package infra

import (
	"context"
	"errors"
	"testing"

	"message-buffer/msgbuffer/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStatsStore_CountsByOutcome(t *testing.T) {
	s := NewMemoryStatsStore(WithTrackAuthors(true))
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, domain.StatsEvent{Author: "a", Outcome: domain.OutcomeAccepted}))
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Author: "a", Outcome: domain.OutcomeQuotaExceeded}))
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Author: "b", Outcome: domain.OutcomeTooLarge}))

	assert.Equal(t, Counters{Accepted: 1, TooLarge: 1, QuotaExceeded: 1}, s.Total())
	assert.Equal(t, map[string]Counters{
		"a": {Accepted: 1, QuotaExceeded: 1},
		"b": {TooLarge: 1},
	}, s.ByAuthor())
}

func TestMemoryStatsStore_AuthorsNotTrackedByDefault(t *testing.T) {
	s := NewMemoryStatsStore()
	require.NoError(t, s.Record(context.Background(), domain.StatsEvent{Author: "a", Outcome: domain.OutcomeAccepted}))
	assert.Empty(t, s.ByAuthor())
}

func TestPrometheusStatsStore_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := NewPrometheusStatsStore(reg)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, domain.StatsEvent{Outcome: domain.OutcomeAccepted, Length: 3, Count: 7}))
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Outcome: domain.OutcomeAccepted, Length: 3, Count: 8}))
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Outcome: domain.OutcomeTooLarge, Length: 4096}))

	assert.Equal(t, 2.0, testutil.ToFloat64(s.submits.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.submits.WithLabelValues("too_large")))
	assert.Equal(t, 8.0, testutil.ToFloat64(s.bufferSize))
}

func TestPrometheusStatsStore_DoubleRegisterFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusStatsStore(reg)
	require.NoError(t, err)

	_, err = NewPrometheusStatsStore(reg)
	require.Error(t, err)
}

func TestRedisStatsStore_NilClientIsNoop(t *testing.T) {
	s := NewRedisStatsStore(nil, WithStatsPrefix(":x:"))
	assert.Equal(t, "x", s.prefix)
	require.NoError(t, s.Record(context.Background(), domain.StatsEvent{Outcome: domain.OutcomeAccepted}))
}

func TestRedisStatsStore_BucketOption(t *testing.T) {
	assert.Equal(t, "minute", NewRedisStatsStore(nil).bucket)
	assert.Equal(t, "none", NewRedisStatsStore(nil, WithStatsBucket(" None ")).bucket)
	assert.True(t, NewRedisStatsStore(nil, WithStatsTrackAuthors(true)).trackAuthors)
}

type failingStats struct{ err error }

func (f failingStats) Record(context.Context, domain.StatsEvent) error { return f.err }

func TestMultiStatsStore_FansOutAndJoinsErrors(t *testing.T) {
	mem := NewMemoryStatsStore()
	boom := errors.New("boom")
	m := MultiStatsStore{mem, nil, failingStats{err: boom}}

	err := m.Record(context.Background(), domain.StatsEvent{Outcome: domain.OutcomeAccepted})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), mem.Total().Accepted)
}
