package dashboard

import (
  "net/http"

  "github.com/labstack/echo/v4"
  log "github.com/sirupsen/logrus"
  "github.com/spf13/cast"
  "github.com/ushakovn/helpdesk/internal/app/issues"
  "github.com/ushakovn/helpdesk/internal/models"
)

type errorResponse struct {
  Error string `json:"error"`
}

type issuesResponse struct {
  Issues      []*models.Issue `json:"issues"`
  TotalIssues int64           `json:"total_issues"`
}

type countsResponse struct {
  TotalIssues    int64 `json:"total_issues"`
  PendingIssues  int64 `json:"pending_issues"`
  ResolvedIssues int64 `json:"resolved_issues"`
}

func (d *Dashboard) handleGetIssues(c echo.Context) error {
  ctx := c.Request().Context()

  params := issues.ListParams{
    Page:         positiveParam(c, "page", DefaultPage),
    ItemsPerPage: positiveParam(c, "items_per_page", DefaultItemsPerPage),
  }

  list, err := d.deps.Issues.List(ctx, params)
  if err != nil {
    log.
      WithField("page", params.Page).
      Errorf("d.deps.Issues.List: %v", err)

    return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
  }

  total, err := d.deps.Issues.Count(ctx)
  if err != nil {
    log.Errorf("d.deps.Issues.Count: %v", err)

    return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
  }

  return c.JSON(http.StatusOK, issuesResponse{
    Issues:      list,
    TotalIssues: total,
  })
}

func (d *Dashboard) handleGetIssueCounts(c echo.Context) error {
  ctx := c.Request().Context()

  var (
    resp countsResponse
    err  error
  )

  counts := []struct {
    target *int64
    status []models.IssueStatus
  }{
    {target: &resp.TotalIssues},
    {target: &resp.PendingIssues, status: []models.IssueStatus{models.IssueStatusPending}},
    {target: &resp.ResolvedIssues, status: []models.IssueStatus{models.IssueStatusResolved}},
  }

  for _, count := range counts {
    if *count.target, err = d.deps.Issues.Count(ctx, count.status...); err != nil {
      log.
        WithField("status", count.status).
        Errorf("d.deps.Issues.Count: %v", err)

      return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
    }
  }

  return c.JSON(http.StatusOK, resp)
}

func (d *Dashboard) handleHealth(c echo.Context) error {
  return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// positiveParam falls back to def for a missing, malformed or non positive query value.
func positiveParam(c echo.Context, name string, def int64) int64 {
  raw := c.QueryParam(name)
  if raw == "" {
    return def
  }

  value, err := cast.ToInt64E(raw)
  if err != nil || value < 1 {
    log.
      WithField(name, raw).
      Debug("invalid query parameter replaced with default")

    return def
  }

  return value
}
