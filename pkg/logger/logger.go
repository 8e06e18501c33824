package logger

import (
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/boiler/pkg/env"
)

type formatter struct {
  format log.Formatter
  fields map[string]any
}

func (f formatter) Format(entry *log.Entry) ([]byte, error) {
  for k, v := range f.fields {
    if _, exists := entry.Data[k]; !exists {
      entry.Data[k] = v
    }
  }
  return f.format.Format(entry)
}

type Config struct {
  Level  string
  Fields map[string]any
}

func Init() {
  InitWithConfig(Config{})
}

// InitWithConfig falls back to the info level when config.Level is empty or unknown.
func InitWithConfig(config Config) {
  var (
    format log.Formatter
    caller bool
  )

  switch env.AppEnv() {

  case env.ProductionEnv:
    format = new(log.JSONFormatter)
    caller = true

  default:
    format = new(log.TextFormatter)
    caller = false
  }

  fields := config.Fields
  if fields == nil {
    fields = map[string]any{}
  }

  level, err := log.ParseLevel(config.Level)
  if err != nil {
    level = log.InfoLevel
  }

  log.SetFormatter(formatter{
    fields: fields,
    format: format,
  })
  log.SetLevel(level)
  log.SetReportCaller(caller)
}
