package slack

import (
  "errors"
  "fmt"
  "strings"
  "time"

  "github.com/go-resty/resty/v2"
  log "github.com/sirupsen/logrus"
  slackgo "github.com/slack-go/slack"
  "github.com/ushakovn/helpdesk/pkg/cache"
  "github.com/ushakovn/helpdesk/pkg/validator"
)

const (
  DefaultUserNameTTL    = time.Hour
  DefaultRequestTimeout = 10 * time.Second
)

type Client struct {
  config Config
  deps   Dependencies
  api    *slackgo.Client
  names  *cache.Cache[string, string]
}

// Config fields may be empty, calls needing them fail at the Slack side.
type Config struct {
  Token         string
  SigningSecret string
  APIURL        string `validate:"omitempty,url"`
  UserNameTTL   time.Duration
}

func (c *Config) Validate() error {
  return validator.Struct(c)
}

type Dependencies struct {
  Client *resty.Client `validate:"required"`
}

func (c *Dependencies) Validate() error {
  return validator.Struct(c)
}

func NewClient(config Config, deps Dependencies) (*Client, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }

  if config.UserNameTTL <= 0 {
    config.UserNameTTL = DefaultUserNameTTL
  }
  if config.APIURL == "" {
    config.APIURL = slackgo.APIURL
  }
  if !strings.HasSuffix(config.APIURL, "/") {
    config.APIURL += "/"
  }

  api := slackgo.New(config.Token,
    slackgo.OptionHTTPClient(deps.Client.GetClient()),
    slackgo.OptionAPIURL(config.APIURL),
  )
  log.
    WithField("api_url", config.APIURL).
    Info("slack client created")

  return &Client{
    config: config,
    deps:   deps,
    api:    api,
    names:  cache.NewCache[string, string](config.UserNameTTL),
  }, nil
}

// ErrorCode returns the Slack error code carried by err, e.g. "expired_trigger_id".
func ErrorCode(err error) string {
  var slackErr slackgo.SlackErrorResponse

  if errors.As(err, &slackErr) {
    return slackErr.Err
  }
  return err.Error()
}
