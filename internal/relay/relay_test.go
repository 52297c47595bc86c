package relay

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pasobeso/medbook-orderservice/internal/outbox"
)

type mockSource struct {
	entries  []outbox.Entry
	fetchErr error

	marked  []int64
	markErr error
}

func (m *mockSource) UnpublishedEvents(_ context.Context, limit int) ([]outbox.Entry, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if len(m.entries) > limit {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

func (m *mockSource) MarkEventPublished(_ context.Context, id int64) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.marked = append(m.marked, id)
	return nil
}

type mockPublisher struct {
	published []outbox.Entry
	failOnID  int64
}

func (m *mockPublisher) Publish(_ context.Context, entry outbox.Entry) error {
	if m.failOnID != 0 && entry.ID == m.failOnID {
		return errors.New("broker unavailable")
	}
	m.published = append(m.published, entry)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func newTestPoller(source Source, pub Publisher) *Poller {
	return NewPoller(source, pub, zerolog.New(os.Stderr).Level(zerolog.Disabled))
}

func TestDrain_PublishesThenMarks(t *testing.T) {
	source := &mockSource{entries: []outbox.Entry{
		{ID: 1, EventType: "inventory.reserve_order", Payload: []byte(`{"order_id":101}`)},
		{ID: 2, EventType: "delivery.order_request", Payload: []byte(`{"order_id":102}`)},
	}}
	pub := &mockPublisher{}

	newTestPoller(source, pub).drain(context.Background())

	require.Len(t, pub.published, 2)
	assert.Equal(t, int64(1), pub.published[0].ID)
	assert.Equal(t, int64(2), pub.published[1].ID)
	assert.Equal(t, []int64{1, 2}, source.marked)
}

func TestDrain_PublishFailureLeavesEntryUnmarked(t *testing.T) {
	source := &mockSource{entries: []outbox.Entry{
		{ID: 1, EventType: "inventory.reserve_order"},
		{ID: 2, EventType: "inventory.cancel_order"},
		{ID: 3, EventType: "delivery.order_request"},
	}}
	pub := &mockPublisher{failOnID: 2}

	newTestPoller(source, pub).drain(context.Background())

	// Entry 2 stays PENDING for the next tick; the rest of the batch is
	// unaffected.
	assert.Equal(t, []int64{1, 3}, source.marked)
	require.Len(t, pub.published, 2)
}

func TestDrain_MarkFailureDoesNotStopBatch(t *testing.T) {
	source := &mockSource{
		entries: []outbox.Entry{{ID: 1, EventType: "inventory.reserve_order"}},
		markErr: errors.New("connection lost"),
	}
	pub := &mockPublisher{}

	newTestPoller(source, pub).drain(context.Background())

	// Published but unmarked: the entry goes out again on the next tick,
	// which is the at-least-once contract.
	assert.Len(t, pub.published, 1)
	assert.Empty(t, source.marked)
}

func TestDrain_FetchFailure(t *testing.T) {
	source := &mockSource{fetchErr: errors.New("connection refused")}
	pub := &mockPublisher{}

	newTestPoller(source, pub).drain(context.Background())

	assert.Empty(t, pub.published)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		newTestPoller(&mockSource{}, &mockPublisher{}).Run(ctx)
		close(done)
	}()

	<-done
}
