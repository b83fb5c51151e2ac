package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults without a file", func(t *testing.T) {
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "3000", conf.Port)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, 5, conf.Game.MaxRounds)
		assert.Equal(t, 3*time.Second, conf.Game.NextRoundDelay)
		assert.Equal(t, 5*time.Minute, conf.Game.GracePeriod)
		assert.Equal(t, 2*time.Hour, conf.Game.RoomTTL)
		assert.Equal(t, time.Hour, conf.Game.SweepInterval)
		assert.Equal(t, "random", conf.Bot.Strategy)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "8081")
		t.Setenv("GAME_MAX_ROUNDS", "3")

		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "8081", conf.Port)
		assert.Equal(t, 3, conf.Game.MaxRounds)
	})

	t.Run("Yaml file", func(t *testing.T) {
		// Given: a config file
		path := filepath.Join(t.TempDir(), "config.yml")
		content := `
log-level: debug
port: "4000"
game:
  max-rounds: 7
  next-round-delay: 1s
bot:
  strategy: counter
  seed: 42
nats:
  enabled: true
  url: nats://queue:4222
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: it is loaded
		conf, err := Load(path)

		// Then: values come from the file, the rest from defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "4000", conf.Port)
		assert.Equal(t, 7, conf.Game.MaxRounds)
		assert.Equal(t, time.Second, conf.Game.NextRoundDelay)
		assert.Equal(t, 2*time.Hour, conf.Game.RoomTTL)
		assert.Equal(t, "counter", conf.Bot.Strategy)
		assert.Equal(t, int64(42), conf.Bot.Seed)
		assert.True(t, conf.NATS.Enabled)
		assert.Equal(t, "nats://queue:4222", conf.NATS.URL)
		assert.Equal(t, "rps.rooms", conf.NATS.SubjectPrefix)
	})

	t.Run("Broken file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("port: [\n"), 0o600))

		_, err := Load(path)

		assert.Error(t, err)
	})
}
