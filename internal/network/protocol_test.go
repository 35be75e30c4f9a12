package network_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shootclub/internal/network"
)

func TestParseHandshake(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantCmd string
		wantArg string
	}{
		{name: "create", line: "CREATE", wantCmd: "CREATE", wantArg: ""},
		{name: "join with code", line: "JOIN AB12", wantCmd: "JOIN", wantArg: "AB12"},
		{name: "join without code", line: "JOIN", wantCmd: "JOIN", wantArg: ""},
		{name: "extra whitespace", line: "  JOIN   AB12  ", wantCmd: "JOIN", wantArg: "AB12"},
		{name: "empty line", line: "", wantCmd: "", wantArg: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, arg := network.ParseHandshake(tt.line)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantArg, arg)
		})
	}
}

func TestSendAndReadLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, network.SendLine(&buf, "ROOM AB12"))
	assert.Equal(t, "ROOM AB12\n", buf.String())

	line, err := network.ReadLine(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, "ROOM AB12", line)
}

func TestReadLineTrimsCarriageReturn(t *testing.T) {
	r := bufio.NewReader(bytes.NewBufferString("JOIN AB12\r\n"))
	line, err := network.ReadLine(r)
	require.NoError(t, err)
	assert.Equal(t, "JOIN AB12", line)
}

func TestGameOverMessage(t *testing.T) {
	assert.Equal(t, "GAME_OVER Player 1 died - Player 2 wins", network.GameOverMessage(1, 2))
	assert.Equal(t, "GAME_OVER Player 2 died", network.GameOverMessage(2, 0))
}

func TestRoomReply(t *testing.T) {
	assert.Equal(t, "ROOM AB12", network.RoomReply("AB12"))
}
