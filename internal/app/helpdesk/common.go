package helpdesk

import (
  "fmt"
  "io"
  "time"

  "github.com/labstack/echo/v4"
  "github.com/slack-go/slack"
)

const (
  maxRequestBody  = 1 << 20
  dispatchTimeout = 30 * time.Second
)

type errorResponse struct {
  Error string `json:"error"`
}

type textResponse struct {
  Text string `json:"text"`
}

// readVerifiedBody returns the raw request body once its Slack signature is checked.
func (t *Transport) readVerifiedBody(c echo.Context) ([]byte, error) {
  req := c.Request()

  body, err := io.ReadAll(io.LimitReader(req.Body, maxRequestBody))
  if err != nil {
    return nil, fmt.Errorf("io.ReadAll: %w", err)
  }

  if err = t.deps.Slack.VerifyRequest(req.Header, body); err != nil {
    return nil, fmt.Errorf("t.deps.Slack.VerifyRequest: %w", err)
  }

  return body, nil
}

func stateAction(state *slack.ViewState, blockID, actionID string) (slack.BlockAction, bool) {
  if state == nil {
    return slack.BlockAction{}, false
  }
  action, ok := state.Values[blockID][actionID]
  return action, ok
}

func stateValue(state *slack.ViewState, blockID, actionID string) string {
  action, _ := stateAction(state, blockID, actionID)
  return action.Value
}

func stateSelectedOption(state *slack.ViewState, blockID, actionID string) string {
  action, _ := stateAction(state, blockID, actionID)
  return action.SelectedOption.Value
}
