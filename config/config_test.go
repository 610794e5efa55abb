package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":7777", cfg.ListenAddr)
	assert.Equal(t, 10, cfg.SmallBlind)
	assert.Equal(t, 20, cfg.BigBlind)
	assert.Equal(t, 5000, cfg.StartingBank)
	assert.Empty(t, cfg.Players)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("SMALL_BLIND", "25")
	t.Setenv("BIG_BLIND", "50")
	t.Setenv("STARTING_BANK", "10000")
	t.Setenv("PLAYERS", "alice, bob,,carol")
	t.Setenv("DEBUG", "true")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 25, cfg.SmallBlind)
	assert.Equal(t, 50, cfg.BigBlind)
	assert.Equal(t, 10000, cfg.StartingBank)
	assert.Equal(t, []string{"alice", "bob", "carol"}, cfg.Players)
	assert.True(t, cfg.Debug)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SMALL_BLIND", "lots")
	t.Setenv("DEBUG", "sometimes")

	cfg := Load()
	assert.Equal(t, 10, cfg.SmallBlind)
	assert.False(t, cfg.Debug)
}
