package helpdesk

import (
  "context"

  log "github.com/sirupsen/logrus"
  "github.com/slack-go/slack"
  slackdeps "github.com/ushakovn/helpdesk/internal/deps/slack"
  "github.com/ushakovn/helpdesk/internal/message"
  "github.com/ushakovn/helpdesk/internal/models"
)

// handleIssueStatusChange flips the issue status and rewrites the status button of the channel message.
// A failed storage update does not block the message update, concurrent toggles are last write wins.
func (t *Transport) handleIssueStatusChange(ctx context.Context, callback *slack.InteractionCallback, action *slack.BlockAction) {
  current, err := models.ParseStatusValue(action.Value)
  if err != nil {
    log.
      WithField("value", action.Value).
      Errorf("models.ParseStatusValue: %v", err)

    return
  }
  next := current.Toggle()

  if err = t.deps.Issues.UpdateStatus(ctx, next.IssueId, next.Status); err != nil {
    log.
      WithField("issue_id", next.IssueId).
      WithField("status", next.Status).
      Errorf("t.deps.Issues.UpdateStatus: %v", err)
  }

  err = t.deps.Slack.UpdateMessage(ctx, slackdeps.UpdateMessageParams{
    ChannelId: callback.Channel.ID,
    Timestamp: callback.Message.Timestamp,
    Text:      message.IssueUpdateText,
    Blocks:    message.WithStatus(callback.Message.Blocks.BlockSet, next),
  })
  if err != nil {
    log.
      WithField("issue_id", next.IssueId).
      WithField("channel_id", callback.Channel.ID).
      Errorf("t.deps.Slack.UpdateMessage: %v", err)

    return
  }

  log.
    WithField("issue_id", next.IssueId).
    WithField("status", next.Status).
    Info("issue status changed")
}
