package mongodb

import (
  "context"
  "errors"
  "fmt"
  "net/http"
  "net/url"
  "strings"

  "github.com/ushakovn/helpdesk/pkg/validator"
  "go.mongodb.org/mongo-driver/mongo"
  "go.mongodb.org/mongo-driver/mongo/options"
  "go.mongodb.org/mongo-driver/mongo/readpref"
)

var ErrNotFound = errors.New("document not found")

type Client struct {
  client *mongo.Client
}

type Config struct {
  // URI takes precedence over Host and Port, e.g. for mongodb+srv clusters.
  URI            string `validate:"required_without=Host"`
  Host           string `validate:"required_without=URI"`
  Port           string `validate:"required_with=Host"`
  Authentication *Authentication
}

type Authentication struct {
  User     string
  Password string
}

func (c *Config) Validate() error {
  return validator.Struct(c)
}

type Dependencies struct {
  Client *http.Client `validate:"required"`
}

func (c *Dependencies) Validate() error {
  return validator.Struct(c)
}

func (c *Config) ConnectionString() string {
  if c.URI != "" {
    return c.URI
  }
  sb := strings.Builder{}

  write := func(s string) {
    sb.WriteString(s)
  }

  write("mongodb://")

  if c.Authentication != nil && c.Authentication.User != "" {
    write(url.UserPassword(c.Authentication.User, c.Authentication.Password).String())
    write("@")
  }

  write(c.Host)
  write(":")
  write(c.Port)

  return sb.String()
}

// NewClient does not wait for the deployment, call Ping to check it.
func NewClient(ctx context.Context, config Config, deps Dependencies) (*Client, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }

  opts := options.
    Client().
    SetHTTPClient(deps.Client).
    ApplyURI(config.ConnectionString())

  client, err := mongo.Connect(ctx, opts)
  if err != nil {
    return nil, fmt.Errorf("mongo.Connect: %w", err)
  }

  return &Client{
    client: client,
  }, nil
}

func (c *Client) Ping(ctx context.Context) error {
  if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
    return fmt.Errorf("c.client.Ping: %w", err)
  }
  return nil
}

func (c *Client) Disconnect(ctx context.Context) error {
  if err := c.client.Disconnect(ctx); err != nil {
    return fmt.Errorf("c.client.Disconnect: %w", err)
  }
  return nil
}
