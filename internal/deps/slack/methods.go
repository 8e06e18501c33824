package slack

import (
  "context"
  "fmt"
  "net/http"

  slackgo "github.com/slack-go/slack"
)

func (c *Client) VerifyRequest(header http.Header, body []byte) error {
  verifier, err := slackgo.NewSecretsVerifier(header, c.config.SigningSecret)
  if err != nil {
    return fmt.Errorf("slack.NewSecretsVerifier: %w", err)
  }

  if _, err = verifier.Write(body); err != nil {
    return fmt.Errorf("verifier.Write: %w", err)
  }

  if err = verifier.Ensure(); err != nil {
    return fmt.Errorf("verifier.Ensure: %w", err)
  }

  return nil
}

func (c *Client) OpenView(ctx context.Context, triggerID string, view slackgo.ModalViewRequest) error {
  if _, err := c.api.OpenViewContext(ctx, triggerID, view); err != nil {
    return fmt.Errorf("c.api.OpenViewContext: %w", err)
  }
  return nil
}

func (c *Client) UpdateView(ctx context.Context, viewID string, view slackgo.ModalViewRequest) error {
  if _, err := c.api.UpdateViewContext(ctx, view, "", "", viewID); err != nil {
    return fmt.Errorf("c.api.UpdateViewContext: %w", err)
  }
  return nil
}

type PostMessageParams struct {
  ChannelId string
  Text      string
  Blocks    []slackgo.Block
}

// PostMessage returns the timestamp of the posted message.
func (c *Client) PostMessage(ctx context.Context, params PostMessageParams) (string, error) {
  _, ts, err := c.api.PostMessageContext(ctx, params.ChannelId,
    slackgo.MsgOptionText(params.Text, false),
    slackgo.MsgOptionBlocks(params.Blocks...),
  )
  if err != nil {
    return "", fmt.Errorf("c.api.PostMessageContext: %w", err)
  }
  return ts, nil
}

type UpdateMessageParams struct {
  ChannelId string
  Timestamp string
  Text      string
  Blocks    []slackgo.Block
}

func (c *Client) UpdateMessage(ctx context.Context, params UpdateMessageParams) error {
  _, _, _, err := c.api.UpdateMessageContext(ctx, params.ChannelId, params.Timestamp,
    slackgo.MsgOptionText(params.Text, false),
    slackgo.MsgOptionBlocks(params.Blocks...),
  )
  if err != nil {
    return fmt.Errorf("c.api.UpdateMessageContext: %w", err)
  }
  return nil
}
