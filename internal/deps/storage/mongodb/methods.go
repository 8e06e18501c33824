package mongodb

import (
  "context"
  "fmt"

  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/helpdesk/pkg/reflection"
  "go.mongodb.org/mongo-driver/bson"
  "go.mongodb.org/mongo-driver/mongo/options"
)

type CommonParams struct {
  Database   string
  Collection string
  StructType any
}

type UpdateParams struct {
  CommonParams

  Filters  map[string]any
  Document any
}

func (p *UpdateParams) toFilters() bson.D {
  return makeBsonDFilters(p.Filters)
}

func (p *UpdateParams) toUpdates() bson.D {
  return makeBsonDUpdates(p.Document)
}

// Update sets the non-zero fields of params.Document on the first matched document.
func (c *Client) Update(ctx context.Context, params UpdateParams) (matched int64, err error) {
  filters := params.toFilters()
  updates := params.toUpdates()

  res, err := c.client.
    Database(params.Database).
    Collection(params.Collection).
    UpdateOne(ctx, filters, updates)

  if err != nil {
    return 0, fmt.Errorf("c.client.Database.Collection.UpdateOne: %w", err)
  }

  return res.MatchedCount, nil
}

type InsertParams struct {
  CommonParams

  Document any
}

func (c *Client) Insert(ctx context.Context, params InsertParams) (id any, err error) {
  res, err := c.client.
    Database(params.Database).
    Collection(params.Collection).
    InsertOne(ctx, params.Document)

  if err != nil {
    return nil, fmt.Errorf("c.client.Database.Collection.InsertOne: %w", err)
  }

  return res.InsertedID, nil
}

type FindParams struct {
  CommonParams

  Filters map[string]any
  Skip    int64
  Limit   int64
}

func (p *FindParams) toFilters() bson.D {
  return makeBsonDFilters(p.Filters)
}

func (p *FindParams) toOptions() *options.FindOptions {
  opts := options.Find()

  if p.Skip != 0 {
    opts.SetSkip(p.Skip)
  }
  if p.Limit != 0 {
    opts.SetLimit(p.Limit)
  }
  return opts
}

func (c *Client) Find(ctx context.Context, params FindParams) ([]any, error) {
  filters := params.toFilters()
  opts := params.toOptions()

  cursor, err := c.client.
    Database(params.Database).
    Collection(params.Collection).
    Find(ctx, filters, opts)

  if err != nil {
    return nil, fmt.Errorf("c.client.Database.Collection.Find: %w", err)
  }

  defer func() {
    if err := cursor.Close(ctx); err != nil {
      log.Errorf("mongodb.Find: cursor.Close: %v", err)
    }
  }()

  out := make([]any, 0, params.Limit)

  for cursor.Next(ctx) {
    doc := any(make(map[string]any))

    if params.StructType != nil {
      doc = reflection.NewOf(params.StructType)
    }

    if err = cursor.Decode(doc); err != nil {
      return nil, fmt.Errorf("cursor.Decode: %T: %w", doc, err)
    }

    out = append(out, doc)
  }

  if err = cursor.Err(); err != nil {
    return nil, fmt.Errorf("cursor.Err: %w", err)
  }

  return out, nil
}

type CountParams struct {
  CommonParams

  Filters map[string]any
}

func (p *CountParams) toFilters() bson.D {
  return makeBsonDFilters(p.Filters)
}

func (c *Client) Count(ctx context.Context, params CountParams) (int64, error) {
  count, err := c.client.
    Database(params.Database).
    Collection(params.Collection).
    CountDocuments(ctx, params.toFilters())

  if err != nil {
    return 0, fmt.Errorf("c.client.Database.Collection.CountDocuments: %w", err)
  }

  return count, nil
}
