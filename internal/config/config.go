package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Postgres DBConfig
	Redis    RedisConfig
	S3       S3Config
	Analyzer AnalyzerConfig
	Jobs     JobsConfig
	Session  Session
	Cookie   Cookie
	Logger   Logger
	Worker   WorkerConfig
}

type ServerConfig struct {
	AppVersion string
	Port       string
	Mode       string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	RenderQueue   string
	EventsChannel string
}

type S3Config struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	OutputBucket string
}

// AnalyzerConfig points at the external download+ML scoring service.
type AnalyzerConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// JobsConfig drives the clip job lifecycle: how long a job may sit in each
// non-terminal state, how often stale jobs are swept, and how long finished
// jobs are retained before garbage collection.
type JobsConfig struct {
	AckTimeout    time.Duration
	RenderTimeout time.Duration
	SweepInterval time.Duration
	Retention     time.Duration
	DedupPolicy   string
}

type Session struct {
	Prefix string
	Name   string
	Expire int
}

type Cookie struct {
	Name     string
	MaxAge   int
	Secure   bool
	HTTPOnly bool
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

type WorkerConfig struct {
	WorkerCount int
	MaxCPUUsage float64
	TempDir     string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
