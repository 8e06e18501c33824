package issues

import (
  "context"
  "fmt"

  "github.com/ushakovn/helpdesk/internal/deps/storage/mongodb"
  "github.com/ushakovn/helpdesk/pkg/validator"
)

const (
  DefaultDatabase   = "jarvisdb"
  DefaultCollection = "issues"
)

// Storage is the subset of the mongodb client used by the repository.
type Storage interface {
  Insert(ctx context.Context, params mongodb.InsertParams) (any, error)
  Update(ctx context.Context, params mongodb.UpdateParams) (int64, error)
  Find(ctx context.Context, params mongodb.FindParams) ([]any, error)
  Count(ctx context.Context, params mongodb.CountParams) (int64, error)
}

type Repository struct {
  config Config
  deps   Dependencies
}

type Config struct {
  Database   string `validate:"required"`
  Collection string `validate:"required"`
}

func (c *Config) Validate() error {
  return validator.Struct(c)
}

type Dependencies struct {
  Mongodb Storage `validate:"required"`
}

func (c *Dependencies) Validate() error {
  return validator.Struct(c)
}

func NewRepository(config Config, deps Dependencies) (*Repository, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }
  return &Repository{
    config: config,
    deps:   deps,
  }, nil
}
