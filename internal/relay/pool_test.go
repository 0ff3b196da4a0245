package relay

import (
	"context"
	"fmt"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenSet(t *testing.T) {
	s := newSeenSet(2)
	assert.False(t, s.checkAndMark("a"))
	assert.True(t, s.checkAndMark("a"))
	assert.False(t, s.checkAndMark("b"))
	assert.False(t, s.checkAndMark("c")) // evicts a
	assert.False(t, s.checkAndMark("a"))
	assert.True(t, s.checkAndMark("c"))
}

func TestSeenSet_Capacity(t *testing.T) {
	s := newSeenSet(100)
	for i := 0; i < 1000; i++ {
		s.checkAndMark(fmt.Sprint(i))
	}
	assert.Equal(t, 100, s.order.Len())
	assert.Len(t, s.ids, 100)
}

func TestPool_RejectsEmptyInput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := NewPool(ctx, zerolog.Nop())

	_, err := p.Subscribe(ctx, nil, []nostr.Filter{{Kinds: []int{4}}})
	require.ErrorIs(t, err, errNoRelays)

	_, err = p.Subscribe(ctx, []string{"wss://relay.example"}, nil)
	require.ErrorIs(t, err, errNoFilters)

	_, err = p.Publish(ctx, nil, nostr.Event{})
	require.ErrorIs(t, err, errNoRelays)
}

func TestWithPublishTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := NewPool(ctx, zerolog.Nop(), WithPublishTimeout(0))
	assert.Equal(t, defaultPublishTimeout, p.publishTimeout)

	p = NewPool(ctx, zerolog.Nop(), WithPublishTimeout(defaultPublishTimeout*2))
	assert.Equal(t, 2*defaultPublishTimeout, p.publishTimeout)
}
