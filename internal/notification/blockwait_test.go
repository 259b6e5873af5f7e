package notification_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-asset-aggregator/internal/domain"
	"github.com/feral-file/ff-asset-aggregator/internal/mocks"
	"github.com/feral-file/ff-asset-aggregator/internal/notification"
)

// firedClock returns an already-fired timer channel so polling loops advance
// immediately
func firedClock(t *testing.T, ctrl *gomock.Controller) *mocks.MockClock {
	t.Helper()
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().After(gomock.Any()).DoAndReturn(func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}).AnyTimes()
	return clock
}

func TestWaiter_WaitForBlock_AlreadyIndexed(t *testing.T) {
	ctrl := gomock.NewController(t)
	subgraphClient := mocks.NewMockSubgraphClient(ctrl)
	clock := mocks.NewMockClock(ctrl)
	waiter := notification.NewWaiter(subgraphClient, clock, time.Second)

	subgraphClient.EXPECT().
		GetHeadBlock(gomock.Any(), domain.ChainEthereum).
		Return(uint64(100), nil)

	err := waiter.WaitForBlock(context.Background(), domain.ChainEthereum, "0xtx", 100)
	assert.NoError(t, err)
}

func TestWaiter_WaitForBlock_PollsUntilCaughtUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	subgraphClient := mocks.NewMockSubgraphClient(ctrl)
	clock := firedClock(t, ctrl)
	waiter := notification.NewWaiter(subgraphClient, clock, time.Second)

	gomock.InOrder(
		subgraphClient.EXPECT().
			GetHeadBlock(gomock.Any(), domain.ChainEthereum).
			Return(uint64(98), nil),
		subgraphClient.EXPECT().
			GetHeadBlock(gomock.Any(), domain.ChainEthereum).
			Return(uint64(99), nil),
		subgraphClient.EXPECT().
			GetHeadBlock(gomock.Any(), domain.ChainEthereum).
			Return(uint64(100), nil),
	)

	err := waiter.WaitForBlock(context.Background(), domain.ChainEthereum, "0xtx", 100)
	assert.NoError(t, err)
}

func TestWaiter_WaitForBlock_PollErrorsKeepWaiting(t *testing.T) {
	ctrl := gomock.NewController(t)
	subgraphClient := mocks.NewMockSubgraphClient(ctrl)
	clock := firedClock(t, ctrl)
	waiter := notification.NewWaiter(subgraphClient, clock, time.Second)

	gomock.InOrder(
		subgraphClient.EXPECT().
			GetHeadBlock(gomock.Any(), domain.ChainEthereum).
			Return(uint64(0), errors.New("subgraph down")),
		subgraphClient.EXPECT().
			GetHeadBlock(gomock.Any(), domain.ChainEthereum).
			Return(uint64(100), nil),
	)

	err := waiter.WaitForBlock(context.Background(), domain.ChainEthereum, "0xtx", 100)
	assert.NoError(t, err)
}

func TestWaiter_WaitForBlock_DuplicateRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	subgraphClient := mocks.NewMockSubgraphClient(ctrl)
	clock := mocks.NewMockClock(ctrl)
	waiter := notification.NewWaiter(subgraphClient, clock, time.Second)

	var head atomic.Uint64
	head.Store(50)

	entered := make(chan struct{})
	var enterOnce sync.Once
	subgraphClient.EXPECT().
		GetHeadBlock(gomock.Any(), domain.ChainEthereum).
		DoAndReturn(func(context.Context, domain.Chain) (uint64, error) {
			enterOnce.Do(func() { close(entered) })
			return head.Load(), nil
		}).
		AnyTimes()
	// Timer that never fires keeps the first wait parked between polls
	clock.EXPECT().After(gomock.Any()).DoAndReturn(func(time.Duration) <-chan time.Time {
		return make(chan time.Time)
	}).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- waiter.WaitForBlock(ctx, domain.ChainEthereum, "0xtx", 100)
	}()

	<-entered
	err := waiter.WaitForBlock(context.Background(), domain.ChainEthereum, "0xtx", 100)
	assert.ErrorIs(t, err, domain.ErrAlreadyWaiting)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled wait did not return")
	}

	// The finished wait released its key
	head.Store(100)
	err = waiter.WaitForBlock(context.Background(), domain.ChainEthereum, "0xtx", 100)
	require.NoError(t, err)
}
