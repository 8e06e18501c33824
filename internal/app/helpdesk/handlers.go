package helpdesk

import (
  "context"
  "encoding/json"
  "net/http"
  "net/url"

  "github.com/labstack/echo/v4"
  log "github.com/sirupsen/logrus"
  "github.com/slack-go/slack"
  slackdeps "github.com/ushakovn/helpdesk/internal/deps/slack"
  "github.com/ushakovn/helpdesk/internal/message"
  "github.com/ushakovn/helpdesk/internal/models"
  "github.com/ushakovn/helpdesk/pkg/stringer"
)

func (t *Transport) handleHelpCommand(c echo.Context) error {
  body, err := t.readVerifiedBody(c)
  if err != nil {
    log.Warnf("t.readVerifiedBody: %v", err)

    return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
  }

  form, err := url.ParseQuery(string(body))
  if err != nil {
    log.Warnf("url.ParseQuery: %v", err)

    return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
  }
  triggerID := form.Get("trigger_id")

  view := makeIssueTypeView(t.deps.Catalog.Names())

  if err = t.deps.Slack.OpenView(c.Request().Context(), triggerID, view); err != nil {
    log.
      WithField("user_id", form.Get("user_id")).
      WithField("slack_error", slackdeps.ErrorCode(err)).
      Errorf("t.deps.Slack.OpenView: %v", err)
  }

  return c.JSON(http.StatusOK, textResponse{Text: HelpCommandReply})
}

// handleInteractions acknowledges every verified event at once, the work is done by the pool.
func (t *Transport) handleInteractions(c echo.Context) error {
  body, err := t.readVerifiedBody(c)
  if err != nil {
    log.Warnf("t.readVerifiedBody: %v", err)

    return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
  }

  form, err := url.ParseQuery(string(body))
  if err != nil {
    log.Warnf("url.ParseQuery: %v", err)
    return c.JSON(http.StatusOK, struct{}{})
  }

  callback := &slack.InteractionCallback{}

  if err = json.Unmarshal([]byte(form.Get("payload")), callback); err != nil {
    log.Warnf("json.Unmarshal: %v", err)
    return c.JSON(http.StatusOK, struct{}{})
  }

  // Slack expects the ack within seconds, a saturated pool drops the interaction instead of delaying it.
  pushed := t.deps.Pool.TryPush(func(ctx context.Context) error {
    ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
    defer cancel()

    t.Dispatch(ctx, callback)
    return nil
  })
  if !pushed {
    log.
      WithField("type", callback.Type).
      Warn("interaction dropped: worker pool busy or stopped")
  }

  return c.JSON(http.StatusOK, struct{}{})
}

func (t *Transport) handleContinueIssueSelection(ctx context.Context, callback *slack.InteractionCallback, _ *slack.BlockAction) {
  selected := stateSelectedOption(callback.View.State, issueSelectionBlock, IssueSelectionAction)

  if selected == "" {
    log.
      WithField("view_id", callback.View.ID).
      Debug("continue without selected issue type ignored")

    return
  }

  entry, ok := t.deps.Catalog.Find(selected)
  if !ok {
    log.
      WithField("issue_type", selected).
      Warn("unknown issue type selected")

    return
  }

  if err := t.deps.Slack.UpdateView(ctx, callback.View.ID, makeInstructionsView(entry)); err != nil {
    log.
      WithField("view_id", callback.View.ID).
      WithField("issue_type", selected).
      Errorf("t.deps.Slack.UpdateView: %v", err)

    return
  }
}

func (t *Transport) handleIssueNotSolved(ctx context.Context, callback *slack.InteractionCallback, _ *slack.BlockAction) {
  metadata, err := models.DecodeSessionMetadata(callback.View.PrivateMetadata)
  if err != nil {
    log.
      WithField("view_id", callback.View.ID).
      Errorf("models.DecodeSessionMetadata: %v", err)

    return
  }

  if metadata.SelectedIssue == "" {
    log.
      WithField("view_id", callback.View.ID).
      Error("no selected issue found in private metadata")

    return
  }

  if err = t.deps.Slack.UpdateView(ctx, callback.View.ID, makeIssueFormView(metadata)); err != nil {
    log.
      WithField("view_id", callback.View.ID).
      WithField("issue_type", metadata.SelectedIssue).
      Errorf("t.deps.Slack.UpdateView: %v", err)

    return
  }
}

func (t *Transport) handleIssueFormSubmission(ctx context.Context, callback *slack.InteractionCallback) {
  metadata, err := models.DecodeSessionMetadata(callback.View.PrivateMetadata)
  if err != nil {
    log.
      WithField("view_id", callback.View.ID).
      Errorf("models.DecodeSessionMetadata: %v", err)

    return
  }

  userID := callback.User.ID

  reporter, err := t.deps.Slack.UserName(ctx, userID)
  if err != nil {
    log.
      WithField("user_id", userID).
      Warnf("t.deps.Slack.UserName: %v", err)
  }

  state := callback.View.State

  issue := models.NewPendingIssue(models.NewIssueParams{
    Reporter:         stringer.StripTags(reporter),
    Type:             metadata.SelectedIssue,
    Description:      stateValue(state, descriptionBlock, descriptionInput),
    Reproduce:        stateValue(state, reproduceBlock, reproduceInput),
    Log:              stateValue(state, logBlock, logInput),
    MachinePartition: stateValue(state, machinePartitionBlock, machinePartitionInput),
    Container:        stateValue(state, containerBlock, containerInput),
    VersionInfo:      stateValue(state, versionInfoBlock, versionInfoInput),
    SubmittedAt:      t.deps.Now(),
  })

  issueId, err := t.deps.Issues.Insert(ctx, issue)
  if err != nil {
    log.
      WithField("user_id", userID).
      WithField("issue_type", issue.Type).
      Errorf("t.deps.Issues.Insert: %v", err)

    return
  }

  msg := message.Do().
    SetIssuePtr(issue).
    SetIssueId(issueId).
    SetUserId(userID).
    BuildIssueMessage()

  _, err = t.deps.Slack.PostMessage(ctx, slackdeps.PostMessageParams{
    ChannelId: t.config.ChannelId,
    Text:      msg.Text,
    Blocks:    msg.Blocks,
  })
  if err != nil {
    log.
      WithField("issue_id", issueId).
      WithField("channel_id", t.config.ChannelId).
      Errorf("t.deps.Slack.PostMessage: %v", err)

    return
  }

  log.
    WithField("issue_id", issueId).
    WithField("issue_type", issue.Type).
    Info("issue submitted")
}
