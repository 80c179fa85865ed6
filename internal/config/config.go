package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Hub    HubConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

type JWTConfig struct {
	Secret string
}

// HubConfig tunes the real-time hub. Zero values fall back to the
// defaults below.
type HubConfig struct {
	HistoryLimit int // messages replayed to a joining member
	SendBuffer   int // outbound queue size per connection
	ReadLimit    int // max inbound frame size in bytes
}

const (
	DefaultHistoryLimit = 100
	DefaultSendBuffer   = 256
	DefaultReadLimit    = 4096
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetDefault("hub.historylimit", DefaultHistoryLimit)
	viper.SetDefault("hub.sendbuffer", DefaultSendBuffer)
	viper.SetDefault("hub.readlimit", DefaultReadLimit)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
