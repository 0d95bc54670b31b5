package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stocktrail/internal/transfer/events"
	"stocktrail/internal/transfer/events/mocks"
)

func TestBreakerSinkOpensAfterConsecutiveFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	b := events.NewBreakerSink(sink, nil)
	ctx := context.Background()

	brokerDown := errors.New("broker unreachable")
	sink.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(brokerDown).Times(5)
	for range 5 {
		assert.ErrorIs(t, b.Publish(ctx, newEvent(events.TypeInitiated)), brokerDown)
	}

	err := b.Publish(ctx, newEvent(events.TypeCompleted))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState, "sink is not called while open")
}

func TestBreakerSinkPassesSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	b := events.NewBreakerSink(sink, nil)

	e := newEvent(events.TypeCancelled)
	sink.EXPECT().Publish(gomock.Any(), e).Return(nil)
	assert.NoError(t, b.Publish(context.Background(), e))
}
