package slack

import (
  "context"
  "fmt"
)

type usersInfoResponse struct {
  Ok    bool   `json:"ok"`
  Error string `json:"error"`
  User  struct {
    Id   string `json:"id"`
    Name string `json:"name"`
  } `json:"user"`
}

// UserName resolves the handle of a Slack user through users.info, resolved names are cached.
func (c *Client) UserName(ctx context.Context, userID string) (string, error) {
  if name, ok := c.names.Get(userID); ok {
    return name, nil
  }
  result := &usersInfoResponse{}

  resp, err := c.deps.Client.R().
    SetContext(ctx).
    SetAuthToken(c.config.Token).
    SetQueryParam("user", userID).
    SetResult(result).
    Get(c.config.APIURL + "users.info")

  if err != nil {
    return "", fmt.Errorf("c.deps.Client.R().Get: %w", err)
  }
  if resp.IsError() {
    return "", fmt.Errorf("users.info: unexpected status: %s", resp.Status())
  }
  if !result.Ok {
    return "", fmt.Errorf("users.info: %s", result.Error)
  }

  c.names.Set(userID, result.User.Name)

  return result.User.Name, nil
}
