package opt

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/battlesnake/ai"
)

func TestPlayerFlags(t *testing.T) {
	var o Player
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o.AddFlags(fs, OrDefault(nil))
	require.NoError(t, fs.Parse([]string{"-strategy", "random:4", "-margin", "20ms"}))

	b, err := o.Bounded()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, b.Margin)
	assert.IsType(t, &ai.RandomAI{}, b.Player)

	o.Strategy = "minimax"
	_, err = o.Build()
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	var o Player
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o.AddFlags(fs, OrDefault(nil))
	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, "greedy", o.Strategy)
	assert.Equal(t, ai.DefaultMargin, o.Margin)
}
