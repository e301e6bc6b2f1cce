package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingEvent struct{ n int }

func (pingEvent) Name() string { return "ping" }

func TestBus_PublishToSubscribers(t *testing.T) {
	bus := New(zap.NewNop())

	var (
		mu   sync.Mutex
		seen []int
	)
	record := func(_ context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.(pingEvent).n)
		return nil
	}
	bus.Subscribe("ping", record)
	bus.Subscribe("ping", func(context.Context, Event) error { return errors.New("слушатель упал") })
	bus.Subscribe("other", record)

	bus.Publish(context.Background(), pingEvent{n: 1})
	bus.Publish(context.Background(), pingEvent{n: 2})
	bus.Wait()

	assert.ElementsMatch(t, []int{1, 2}, seen)
}

func TestBus_NilIsNoop(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), pingEvent{})
	})
}
