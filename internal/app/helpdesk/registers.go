package helpdesk

import (
  "context"

  "github.com/labstack/echo/v4"
  log "github.com/sirupsen/logrus"
  "github.com/slack-go/slack"
  "github.com/ushakovn/helpdesk/internal/models"
)

type actionHandler func(ctx context.Context, callback *slack.InteractionCallback, action *slack.BlockAction)

type submissionHandler func(ctx context.Context, callback *slack.InteractionCallback)

func (t *Transport) Register(e *echo.Echo) {
  e.POST("/help", t.handleHelpCommand)
  e.POST("/slack/interactions", t.handleInteractions)
}

func (t *Transport) registerHandlers() {
  t.actions = map[string]actionHandler{
    ContinueIssueSelectionAction: t.handleContinueIssueSelection,
    IssueNotSolvedAction:         t.handleIssueNotSolved,
    IssueStatusChangeAction:      t.handleIssueStatusChange,
  }

  t.submissions = map[models.SessionStep]submissionHandler{
    models.IssueFormStep: t.handleIssueFormSubmission,
  }
}

// Dispatch routes one interaction event. Unknown events are ignored, failures are only logged.
func (t *Transport) Dispatch(ctx context.Context, callback *slack.InteractionCallback) {
  switch callback.Type {

  case slack.InteractionTypeBlockActions:
    if len(callback.ActionCallback.BlockActions) == 0 {
      log.
        WithField("view_id", callback.View.ID).
        Debug("block actions event without actions ignored")

      return
    }
    action := callback.ActionCallback.BlockActions[0]

    handler, ok := t.actions[action.ActionID]
    if !ok {
      log.
        WithField("action_id", action.ActionID).
        Debug("unknown action ignored")

      return
    }
    handler(ctx, callback, action)

  case slack.InteractionTypeViewSubmission:
    handler, ok := t.submissions[callback.View.CallbackID]
    if !ok {
      log.
        WithField("callback_id", callback.View.CallbackID).
        Debug("unknown view submission ignored")

      return
    }
    handler(ctx, callback)

  default:
    log.
      WithField("type", callback.Type).
      Debug("interaction type ignored")
  }
}
