package helpdesk

import (
  "context"
  "errors"
  "net/http"
  "net/http/httptest"
  "net/url"
  "strings"
  "testing"
  "time"

  "github.com/labstack/echo/v4"
  "github.com/slack-go/slack"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/mock"
  "github.com/stretchr/testify/require"
  slackdeps "github.com/ushakovn/helpdesk/internal/deps/slack"
  "github.com/ushakovn/helpdesk/internal/models"
  "github.com/ushakovn/helpdesk/pkg/worker"
)

func serve(tr testTransport, path string, form url.Values) *httptest.ResponseRecorder {
  e := echo.New()
  tr.Register(e)

  req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
  req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

  rec := httptest.NewRecorder()
  e.ServeHTTP(rec, req)

  return rec
}

func helpForm() url.Values {
  return url.Values{
    "command":    {"/help"},
    "user_id":    {"U123"},
    "trigger_id": {"13345224609.738474920.8088930838d88f008e0"},
  }
}

func TestHelpCommand(t *testing.T) {
  tr := newTestTransport(t)

  var view slack.ModalViewRequest

  tr.slack.On("VerifyRequest", mock.Anything, mock.Anything).Return(nil).Once()
  tr.slack.On("OpenView", mock.Anything, "13345224609.738474920.8088930838d88f008e0", mock.Anything).
    Return(nil).Run(captureView(&view)).Once()

  rec := serve(tr, "/help", helpForm())

  assert.Equal(t, http.StatusOK, rec.Code)
  assert.JSONEq(t, `{"text":"Please check the Pop-up window to continue."}`, rec.Body.String())

  assert.Equal(t, models.IssueTypeStep, view.CallbackID)
  assert.Equal(t, viewTitle, view.Title.Text)

  section, ok := view.Blocks.BlockSet[2].(*slack.SectionBlock)
  require.True(t, ok)
  assert.Equal(t, issueSelectionBlock, section.BlockID)

  require.NotNil(t, section.Accessory)
  selection := section.Accessory.SelectElement
  require.NotNil(t, selection)
  assert.Equal(t, IssueSelectionAction, selection.ActionID)

  var values []string
  for _, option := range selection.Options {
    values = append(values, option.Value)
  }
  assert.Equal(t, []string{"Container", "Straxen"}, values)

  button := statusButton(t, view.Blocks.BlockSet[len(view.Blocks.BlockSet)-1])
  assert.Equal(t, ContinueIssueSelectionAction, button.ActionID)
  assert.Equal(t, slack.StylePrimary, button.Style)
}

func TestHelpCommandOpenViewFailed(t *testing.T) {
  tr := newTestTransport(t)

  tr.slack.On("VerifyRequest", mock.Anything, mock.Anything).Return(nil).Once()
  tr.slack.On("OpenView", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("expired_trigger_id")).Once()

  rec := serve(tr, "/help", helpForm())

  assert.Equal(t, http.StatusOK, rec.Code)
  assert.JSONEq(t, `{"text":"Please check the Pop-up window to continue."}`, rec.Body.String())
}

func TestInvalidSignature(t *testing.T) {
  for _, path := range []string{"/help", "/slack/interactions"} {
    t.Run(path, func(t *testing.T) {
      tr := newTestTransport(t)

      tr.slack.On("VerifyRequest", mock.Anything, mock.Anything).Return(errors.New("Expected signing signature")).Once()

      rec := serve(tr, path, helpForm())

      assert.Equal(t, http.StatusBadRequest, rec.Code)
      assert.JSONEq(t, `{"error":"invalid request"}`, rec.Body.String())

      tr.slack.AssertNotCalled(t, "OpenView", mock.Anything, mock.Anything, mock.Anything)
      assert.Empty(t, tr.issues.Calls)
    })
  }
}

const statusChangePayload = `{
  "type": "block_actions",
  "user": {"id": "U999"},
  "channel": {"id": "C05R986BYT1"},
  "message": {
    "ts": "1700000000.000100",
    "blocks": [
      {"type": "section", "text": {"type": "mrkdwn", "text": "report"}},
      {"type": "actions", "block_id": "status_block", "elements": [
        {"type": "button", "action_id": "issue_status_change", "value": "42|pending", "style": "danger",
         "text": {"type": "plain_text", "text": "Pending"}}
      ]}
    ]
  },
  "actions": [
    {"type": "button", "action_id": "issue_status_change", "block_id": "status_block", "value": "42|pending"}
  ]
}`

func TestInteractionsDispatch(t *testing.T) {
  tr := newTestTransport(t)

  var updated slackdeps.UpdateMessageParams

  tr.slack.On("VerifyRequest", mock.Anything, mock.Anything).Return(nil).Once()
  tr.issues.On("UpdateStatus", mock.Anything, "42", models.IssueStatusResolved).Return(nil).Once()
  tr.slack.On("UpdateMessage", mock.Anything, mock.Anything).Return(nil).Run(captureMessage(&updated)).Once()

  rec := serve(tr, "/slack/interactions", url.Values{"payload": {statusChangePayload}})

  assert.Equal(t, http.StatusOK, rec.Code)
  assert.JSONEq(t, `{}`, rec.Body.String())

  assert.Equal(t, "C05R986BYT1", updated.ChannelId)
  assert.Equal(t, "1700000000.000100", updated.Timestamp)
  require.Len(t, updated.Blocks, 2)
  assert.Equal(t, "42|resolved", statusButton(t, updated.Blocks[1]).Value)
}

func TestInteractionsMalformedPayload(t *testing.T) {
  tr := newTestTransport(t)

  tr.slack.On("VerifyRequest", mock.Anything, mock.Anything).Return(nil).Once()

  rec := serve(tr, "/slack/interactions", url.Values{"payload": {"{not json"}})

  assert.Equal(t, http.StatusOK, rec.Code)
  assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestInteractionsAckWithSaturatedPool(t *testing.T) {
  tr := newTestTransport(t)

  pool := worker.NewPool(context.Background(), worker.Config{Count: 1})
  tr.deps.Pool = pool

  started := make(chan struct{})
  release := make(chan struct{})

  require.True(t, pool.Push(func(ctx context.Context) error {
    close(started)
    <-release
    return nil
  }))
  <-started

  t.Cleanup(func() {
    close(release)
    pool.StopWait()
  })

  tr.slack.On("VerifyRequest", mock.Anything, mock.Anything).Return(nil).Once()

  responses := make(chan *httptest.ResponseRecorder, 1)
  go func() {
    responses <- serve(tr, "/slack/interactions", url.Values{"payload": {statusChangePayload}})
  }()

  select {
  case rec := <-responses:
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{}`, rec.Body.String())
  case <-time.After(2 * time.Second):
    t.Fatal("interactions ack blocked by a saturated worker pool")
  }

  assert.Empty(t, tr.issues.Calls)
}
