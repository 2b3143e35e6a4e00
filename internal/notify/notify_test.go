package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icad-go/tonedetect/internal/notify"
	"github.com/icad-go/tonedetect/internal/types"
)

type recordingSink struct {
	calls int
	err   error
}

func (s *recordingSink) Notify(_ context.Context, _ types.Segment) error {
	s.calls++

	return s.err
}

func TestDispatchFansOutToEverySink(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}

	dispatcher := notify.NewDispatcher(a, b)
	dispatcher.Dispatch(context.Background(), types.Segment{})

	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestDispatchContinuesPastSinkFailure(t *testing.T) {
	failing := &recordingSink{err: errors.New("boom")}
	ok := &recordingSink{}

	dispatcher := notify.NewDispatcher(failing, ok)
	dispatcher.Dispatch(context.Background(), types.Segment{})

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls, "one sink failing must not prevent the next sink from being called")
}

func TestDispatchWithNoSinks(t *testing.T) {
	dispatcher := notify.NewDispatcher()
	assert.NotPanics(t, func() {
		dispatcher.Dispatch(context.Background(), types.Segment{})
	})
}
