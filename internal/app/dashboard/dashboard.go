// Package dashboard serves the read only issue dashboard and its JSON endpoints.
package dashboard

import (
  "context"
  "embed"
  "fmt"

  "github.com/labstack/echo/v4"
  "github.com/ushakovn/helpdesk/internal/app/issues"
  "github.com/ushakovn/helpdesk/internal/models"
  "github.com/ushakovn/helpdesk/pkg/validator"
)

const (
  DefaultPage         = 1
  DefaultItemsPerPage = 5
)

//go:embed assets
var assets embed.FS

type Issues interface {
  List(ctx context.Context, params issues.ListParams) ([]*models.Issue, error)
  Count(ctx context.Context, status ...models.IssueStatus) (int64, error)
}

type Dashboard struct {
  deps Dependencies
}

type Dependencies struct {
  Issues Issues `validate:"required"`
}

func (c *Dependencies) Validate() error {
  return validator.Struct(c)
}

func NewDashboard(deps Dependencies) (*Dashboard, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  return &Dashboard{
    deps: deps,
  }, nil
}

func (d *Dashboard) Register(e *echo.Echo) {
  pages := echo.MustSubFS(assets, "assets/pages")

  e.FileFS("/dashboard", "home.html", pages)
  e.FileFS("/analytics", "analytics.html", pages)
  e.FileFS("/settings", "settings.html", pages)
  e.StaticFS("/static", echo.MustSubFS(assets, "assets/static"))

  e.GET("/get-issues", d.handleGetIssues)
  e.GET("/get-issue-counts", d.handleGetIssueCounts)
  e.GET("/healthz", d.handleHealth)
}
