package config

import (
  "fmt"
  "os"
  "time"

  "github.com/knadh/koanf/parsers/toml"
  "github.com/knadh/koanf/providers/confmap"
  "github.com/knadh/koanf/providers/env"
  "github.com/knadh/koanf/providers/file"
  "github.com/knadh/koanf/v2"
  "github.com/spf13/cast"
)

type Key = string

const (
  SlackSigningSecret Key = "slack.signing_secret"
  SlackBotToken      Key = "slack.bot_token"
  SlackChannelId     Key = "slack.channel_id"
  SlackAPIURL        Key = "slack.api_url"
  SlackUserNameTTL   Key = "slack.user_name_ttl"

  MongodbURI        Key = "mongodb.uri"
  MongodbHost       Key = "mongodb.host"
  MongodbPort       Key = "mongodb.port"
  MongodbUser       Key = "mongodb.username"
  MongodbPassword   Key = "mongodb.password"
  MongodbDatabase   Key = "mongodb.database"
  MongodbCollection Key = "mongodb.collection"

  InstructionsDir Key = "instructions.dir"
  HTTPAddr        Key = "http.addr"
  WorkerCount     Key = "worker.count"
  Debug           Key = "debug"
)

// envKeys maps environment variables onto config keys, other variables are ignored.
var envKeys = map[string]Key{
  "SLACK_SIGNING_SECRET": SlackSigningSecret,
  "SLACK_BOT_TOKEN":      SlackBotToken,
  "CHANNEL_ID":           SlackChannelId,
  "SLACK_API_URL":        SlackAPIURL,
  "SLACK_USER_NAME_TTL":  SlackUserNameTTL,
  "MONGODB_URI":          MongodbURI,
  "MONGODB_HOST":         MongodbHost,
  "MONGODB_PORT":         MongodbPort,
  "MONGODB_USERNAME":     MongodbUser,
  "MONGODB_PASSWORD":     MongodbPassword,
  "MONGODB_DATABASE":     MongodbDatabase,
  "MONGODB_COLLECTION":   MongodbCollection,
  "INSTRUCTIONS_DIR":     InstructionsDir,
  "HTTP_ADDR":            HTTPAddr,
  "WORKER_COUNT":         WorkerCount,
  "DEBUG":                Debug,
}

var defaults = map[string]any{
  SlackChannelId:    "C05R986BYT1",
  SlackUserNameTTL:  "1h",
  MongodbHost:       "localhost",
  MongodbPort:       "27017",
  MongodbDatabase:   "jarvisdb",
  MongodbCollection: "issues",
  InstructionsDir:   "./instructions",
  HTTPAddr:          "0.0.0.0:8080",
  WorkerCount:       5,
  Debug:             false,
}

type Config struct {
  k *koanf.Koanf
}

// Load reads defaults, then the optional TOML file at path, then the environment.
// Missing credentials are not reported here, the first call that needs them fails instead.
func Load(path string) (*Config, error) {
  k := koanf.New(".")

  if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
    return nil, fmt.Errorf("k.Load: defaults: %w", err)
  }

  if path != "" {
    if _, err := os.Stat(path); err != nil {
      return nil, fmt.Errorf("os.Stat: %w", err)
    }
    if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
      return nil, fmt.Errorf("k.Load: %s: %w", path, err)
    }
  }

  err := k.Load(env.Provider("", ".", func(s string) string {
    return envKeys[s]
  }), nil)
  if err != nil {
    return nil, fmt.Errorf("k.Load: env: %w", err)
  }

  return &Config{k: k}, nil
}

type Value struct {
  value any
}

func (c *Config) Get(key Key) Value {
  return Value{value: c.k.Get(key)}
}

func (v Value) String() string {
  return cast.ToString(v.value)
}

func (v Value) Int() int {
  return cast.ToInt(v.value)
}

func (v Value) Duration() time.Duration {
  return cast.ToDuration(v.value)
}

func (v Value) Bool() bool {
  return cast.ToBool(v.value)
}
