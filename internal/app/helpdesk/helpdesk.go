package helpdesk

import (
  "context"
  "fmt"
  "net/http"
  "time"

  "github.com/slack-go/slack"
  "github.com/ushakovn/helpdesk/internal/catalog"
  slackdeps "github.com/ushakovn/helpdesk/internal/deps/slack"
  "github.com/ushakovn/helpdesk/internal/models"
  "github.com/ushakovn/helpdesk/pkg/validator"
  "github.com/ushakovn/helpdesk/pkg/worker"
)

type Slack interface {
  VerifyRequest(header http.Header, body []byte) error
  OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
  UpdateView(ctx context.Context, viewID string, view slack.ModalViewRequest) error
  PostMessage(ctx context.Context, params slackdeps.PostMessageParams) (string, error)
  UpdateMessage(ctx context.Context, params slackdeps.UpdateMessageParams) error
  UserName(ctx context.Context, userID string) (string, error)
}

type Issues interface {
  Insert(ctx context.Context, issue *models.Issue) (string, error)
  UpdateStatus(ctx context.Context, id string, status models.IssueStatus) error
}

type Pool interface {
  TryPush(call worker.Call) bool
}

type Transport struct {
  config      Config
  deps        Dependencies
  actions     map[string]actionHandler
  submissions map[models.SessionStep]submissionHandler
}

// Config.ChannelId is not required, posting fails at the Slack side when it is empty.
type Config struct {
  ChannelId string
}

type Dependencies struct {
  Catalog *catalog.Catalog `validate:"required"`
  Issues  Issues           `validate:"required"`
  Slack   Slack            `validate:"required"`
  Pool    Pool             `validate:"required"`
  Now     func() time.Time
}

func (c *Dependencies) Validate() error {
  return validator.Struct(c)
}

func NewTransport(config Config, deps Dependencies) (*Transport, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if deps.Now == nil {
    deps.Now = time.Now
  }

  t := &Transport{
    config: config,
    deps:   deps,
  }
  t.registerHandlers()

  return t, nil
}
