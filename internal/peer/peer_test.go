package peer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendQueuesUntilFull(t *testing.T) {
	p := New(2)
	require.True(t, p.Send([]byte{1}))
	require.True(t, p.Send([]byte{2}))

	assert.False(t, p.Send([]byte{3}), "full outbox drops the peer")
	assert.True(t, p.Closed())
	assert.False(t, p.Send([]byte{4}))

	assert.Equal(t, []byte{1}, <-p.Outbox())
}

func TestCloseIsIdempotent(t *testing.T) {
	p := New(1)
	p.Close()
	p.Close()
	assert.True(t, p.Closed())
}

func TestTrackSessions(t *testing.T) {
	p := New(1)
	p.Track("s1")
	p.Track("s2")
	p.Untrack("s1")
	assert.Equal(t, []string{"s2"}, p.Sessions())
	assert.NotEmpty(t, p.ID())
}
