package workers

import (
	"context"
	"fmt"
	"log/slog"
	"pair-chat/domain"
	"pair-chat/errors"
	"pair-chat/mocks"
	"pair-chat/observability"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIndexQueue_Indexes_In_Background(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	index := mocks.NewMockIMessageIndex(ctrl)
	metrics := observability.NewMetrics()
	queue := NewIndexQueue(index, 4, slog.Default(), metrics)

	msg := domain.Message{ID: "m1", ConversationID: "c1", SenderID: "u1", Content: "hello"}
	indexed := make(chan struct{})
	index.EXPECT().Index(gomock.Any(), msg).DoAndReturn(func(context.Context, domain.Message) error {
		close(indexed)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = queue.Run(ctx)
		close(done)
	}()

	req.NoError(queue.Index(context.Background(), msg))
	select {
	case <-indexed:
	case <-time.After(time.Second):
		req.Fail("message was never indexed")
	}

	cancel()
	<-done
	req.Zero(testutil.ToFloat64(metrics.IndexQueueDepth))
	req.Zero(testutil.ToFloat64(metrics.IndexErrors))
}

func TestIndexQueue_Full_Queue_Is_Reported(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	metrics := observability.NewMetrics()
	queue := NewIndexQueue(mocks.NewMockIMessageIndex(ctrl), 1, slog.Default(), metrics)

	req.NoError(queue.Index(context.Background(), domain.Message{ID: "m1"}))
	req.ErrorIs(queue.Index(context.Background(), domain.Message{ID: "m2"}), errors.ErrIndexQueueFull)
	req.Equal(1.0, testutil.ToFloat64(metrics.IndexQueueDepth))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.ErrorIs(queue.Index(ctx, domain.Message{ID: "m3"}), context.Canceled)
}

func TestIndexQueue_Drains_On_Shutdown_And_Counts_Errors(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	index := mocks.NewMockIMessageIndex(ctrl)
	metrics := observability.NewMetrics()
	queue := NewIndexQueue(index, 8, slog.Default(), metrics)

	for i := 0; i < 3; i++ {
		req.NoError(queue.Index(context.Background(), domain.Message{ID: fmt.Sprintf("m%d", i)}))
	}
	// Every queued message is written even though the worker starts already cancelled
	index.EXPECT().Index(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ domain.Message) error {
		req.NoError(ctx.Err())
		return nil
	}).Times(2)
	index.EXPECT().Index(gomock.Any(), gomock.Any()).Return(fmt.Errorf("disk full")).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.NoError(queue.Run(ctx))

	req.Zero(testutil.ToFloat64(metrics.IndexQueueDepth))
	req.Equal(1.0, testutil.ToFloat64(metrics.IndexErrors))
}

func TestIndexQueue_Search_Delegates(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	index := mocks.NewMockIMessageIndex(ctrl)
	queue := NewIndexQueue(index, 1, slog.Default(), observability.NewMetrics())

	want := []domain.Message{{ID: "m1", Content: "hello"}}
	index.EXPECT().Search(gomock.Any(), "c1", "hello", 5).Return(want, nil)

	got, err := queue.Search(context.Background(), "c1", "hello", 5)
	req.NoError(err)
	req.Equal(want, got)
}
