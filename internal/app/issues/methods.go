package issues

import (
  "context"
  "fmt"

  "github.com/ushakovn/helpdesk/internal/deps/storage/mongodb"
  "github.com/ushakovn/helpdesk/internal/models"
  "go.mongodb.org/mongo-driver/bson/primitive"
)

func (r *Repository) commonParams() mongodb.CommonParams {
  return mongodb.CommonParams{
    Database:   r.config.Database,
    Collection: r.config.Collection,
    StructType: models.Issue{},
  }
}

// Insert stores the issue and returns the hex form of its new id.
func (r *Repository) Insert(ctx context.Context, issue *models.Issue) (string, error) {
  if err := issue.Validate(); err != nil {
    return "", fmt.Errorf("issue.Validate: %w", err)
  }

  res, err := r.deps.Mongodb.Insert(ctx, mongodb.InsertParams{
    CommonParams: r.commonParams(),
    Document:     issue,
  })
  if err != nil {
    return "", fmt.Errorf("r.deps.Mongodb.Insert: %w", err)
  }

  id, ok := res.(primitive.ObjectID)
  if !ok {
    return "", fmt.Errorf("cast %v with type: %[1]T to: %T failed", res, primitive.ObjectID{})
  }
  issue.Id = id

  return id.Hex(), nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status models.IssueStatus) error {
  if !status.IsValid() {
    return fmt.Errorf("unknown issue status: %q", status)
  }

  oid, err := primitive.ObjectIDFromHex(id)
  if err != nil {
    return fmt.Errorf("primitive.ObjectIDFromHex: %w", err)
  }

  matched, err := r.deps.Mongodb.Update(ctx, mongodb.UpdateParams{
    CommonParams: r.commonParams(),
    Filters: map[string]any{
      "_id": oid,
    },
    Document: models.Issue{
      Status: status,
    },
  })
  if err != nil {
    return fmt.Errorf("r.deps.Mongodb.Update: %w", err)
  }

  if matched == 0 {
    return fmt.Errorf("issue %s: %w", id, mongodb.ErrNotFound)
  }

  return nil
}

type ListParams struct {
  Page         int64
  ItemsPerPage int64
}

func (p ListParams) skip() int64 {
  if p.Page < 1 {
    return 0
  }
  return (p.Page - 1) * p.ItemsPerPage
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]*models.Issue, error) {
  res, err := r.deps.Mongodb.Find(ctx, mongodb.FindParams{
    CommonParams: r.commonParams(),
    Skip:         params.skip(),
    Limit:        params.ItemsPerPage,
  })
  if err != nil {
    return nil, fmt.Errorf("r.deps.Mongodb.Find: %w", err)
  }

  return makeListIssues(res)
}

// Count counts all issues, or only the ones in status when it is given.
func (r *Repository) Count(ctx context.Context, status ...models.IssueStatus) (int64, error) {
  filters := map[string]any{}

  if len(status) > 0 {
    filters["status"] = status[0]
  }

  count, err := r.deps.Mongodb.Count(ctx, mongodb.CountParams{
    CommonParams: r.commonParams(),
    Filters:      filters,
  })
  if err != nil {
    return 0, fmt.Errorf("r.deps.Mongodb.Count: %w", err)
  }

  return count, nil
}

func makeListIssues(res []any) (list []*models.Issue, err error) {
  list = make([]*models.Issue, 0, len(res))

  for _, record := range res {
    issue, ok := record.(*models.Issue)
    if !ok {
      return nil, fmt.Errorf("cast %v with type: %[1]T to: %T failed", record, new(models.Issue))
    }

    list = append(list, issue)
  }

  return list, nil
}
