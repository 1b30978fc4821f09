package dispatch

import (
	"context"
	"testing"

	"github.com/DoyleJ11/kittens-server/internal/peer"
	"github.com/DoyleJ11/kittens-server/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queued drains p without blocking.
func queued(t *testing.T, p *peer.Peer) []protocol.Command {
	t.Helper()
	var cmds []protocol.Command
	for {
		select {
		case b := <-p.Outbox():
			f, _, err := protocol.Decode(b)
			require.NoError(t, err)
			cmds = append(cmds, f.Command)
		default:
			return cmds
		}
	}
}

func TestRefusedJoinIsNotTracked(t *testing.T) {
	cases := []struct {
		name  string
		start bool
		want  protocol.ErrorCode
	}{
		{name: "full", want: protocol.CodeGameFull},
		{name: "started", start: true, want: protocol.CodeGameAlreadyStarted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newDispatcher(t)
			alice, bob, carol := peer.New(64), peer.New(64), peer.New(64)

			send(t, d, alice, protocol.CmdCreateGame, "Alice:2")
			gameID, _ := ids(t, next(t, alice, protocol.CmdGameCreated))
			send(t, d, bob, protocol.CmdJoinGame, gameID+":Bob")
			next(t, bob, protocol.CmdPlayerJoined)
			if tc.start {
				send(t, d, alice, protocol.CmdStartGame, gameID)
				next(t, bob, protocol.CmdGameStarted)
			}

			send(t, d, carol, protocol.CmdJoinGame, gameID+":Carol")
			assert.Equal(t, tc.want, errorCode(t, carol))
			assert.Empty(t, carol.Sessions())

			// the hub has handled every earlier message once Games answers
			_, err := d.hub.Games(context.Background())
			require.NoError(t, err)
			assert.NotContains(t, queued(t, carol), protocol.CmdGamesListUpdated)
		})
	}
}

func TestSeatedClientsAreTracked(t *testing.T) {
	d := newDispatcher(t)
	alice, bob := peer.New(64), peer.New(64)

	send(t, d, alice, protocol.CmdCreateGame, "Alice")
	gameID, _ := ids(t, next(t, alice, protocol.CmdGameCreated))
	send(t, d, bob, protocol.CmdJoinGame, gameID+":Bob")
	next(t, bob, protocol.CmdPlayerJoined)

	assert.Equal(t, []string{gameID}, alice.Sessions())
	assert.Equal(t, []string{gameID}, bob.Sessions())
	next(t, bob, protocol.CmdGamesListUpdated)
}
