package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/battlesnake/games"
)

func TestPrintSummaries(t *testing.T) {
	var out bytes.Buffer
	printSummaries(&out, []games.Summary{
		{Snake: "greedy", Games: 4, Wins: 3, Losses: 1, Turns: 41.3, Fallbacks: 2},
	})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "snake", strings.Fields(lines[0])[0])
	assert.Equal(t, []string{"greedy", "4", "3", "1", "0", "41.3", "2", "0"}, strings.Fields(lines[1]))
}

func TestPrintGames(t *testing.T) {
	var out bytes.Buffer
	printGames(&out, []games.Record{{
		GameID:    "g1",
		SnakeName: "random",
		Result:    games.ResultLoss,
		Turns:     12,
		Ended:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}})
	assert.Contains(t, out.String(), "2024-05-01 12:00:00")
	assert.Contains(t, out.String(), "loss")
}
