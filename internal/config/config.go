package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Port      string   `yaml:"port" env:"PORT" env-default:"3000"`
	StaticDir string   `yaml:"static-dir" env:"STATIC_DIR"`
	Game      Game     `yaml:"game"`
	Bot       Bot      `yaml:"bot"`
	Redis     Redis    `yaml:"redis"`
	Postgres  Postgres `yaml:"postgres"`
	NATS      NATS     `yaml:"nats"`
}

type Game struct {
	MaxRounds      int           `yaml:"max-rounds" env:"GAME_MAX_ROUNDS" env-default:"5"`
	NextRoundDelay time.Duration `yaml:"next-round-delay" env:"GAME_NEXT_ROUND_DELAY" env-default:"3s"`
	GracePeriod    time.Duration `yaml:"grace-period" env:"GAME_GRACE_PERIOD" env-default:"5m"`
	RoomTTL        time.Duration `yaml:"room-ttl" env:"GAME_ROOM_TTL" env-default:"2h"`
	SweepInterval  time.Duration `yaml:"sweep-interval" env:"GAME_SWEEP_INTERVAL" env-default:"1h"`
}

type Bot struct {
	Strategy string `yaml:"strategy" env:"BOT_STRATEGY" env-default:"random"`
	Seed     int64  `yaml:"seed" env:"BOT_SEED"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Postgres struct {
	Enabled bool   `yaml:"enabled" env:"POSTGRES_ENABLED"`
	DSN     string `yaml:"dsn" env:"POSTGRES_DSN"`
}

type NATS struct {
	Enabled       bool   `yaml:"enabled" env:"NATS_ENABLED"`
	URL           string `yaml:"url" env:"NATS_URL" env-default:"nats://localhost:4222"`
	SubjectPrefix string `yaml:"subject-prefix" env:"NATS_SUBJECT_PREFIX" env-default:"rps.rooms"`
}

// MustLoad - load all configurations from the yaml file at path, or from the
// environment alone when the file does not exist.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
