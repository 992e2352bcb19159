package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level      string
	JSON       bool
	File       string // 非空则同时写文件并按大小切割
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type CORS struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type AI struct {
	APIKey            string `mapstructure:"apiKey"`
	BaseURL           string `mapstructure:"baseURL"`
	AnswerModel       string `mapstructure:"answerModel"`
	TitleModel        string `mapstructure:"titleModel"`
	AnswerMaxTokens   int    `mapstructure:"answerMaxTokens"`
	RequestTimeoutSec int    `mapstructure:"requestTimeoutSec"`
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	CORS  CORS `mapstructure:"cors"`
	DB    DB
	Redis Redis `mapstructure:"redis"`
	AI    AI    `mapstructure:"ai"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	c.applyDefaults()
	// 缺签名密钥或 AI 密钥直接启动失败，不留到请求期
	if strings.TrimSpace(c.JWT.Secret) == "" {
		log.Fatal("config: jwt.secret is required")
	}
	if strings.TrimSpace(c.AI.APIKey) == "" {
		log.Fatal("config: ai.apiKey is required")
	}
	return &c
}

func (c *Config) applyDefaults() {
	if c.JWT.AccessTokenTTLMin <= 0 {
		c.JWT.AccessTokenTTLMin = 60
	}
	if c.AI.AnswerModel == "" {
		c.AI.AnswerModel = "gpt-4o"
	}
	if c.AI.TitleModel == "" {
		c.AI.TitleModel = "gpt-4o-mini"
	}
	if c.AI.AnswerMaxTokens <= 0 {
		c.AI.AnswerMaxTokens = 700
	}
	if c.AI.RequestTimeoutSec <= 0 {
		c.AI.RequestTimeoutSec = 30
	}
}
