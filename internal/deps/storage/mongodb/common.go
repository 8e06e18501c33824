package mongodb

import (
  "reflect"
  "strings"

  "github.com/ushakovn/helpdesk/pkg/reflection"
  "go.mongodb.org/mongo-driver/bson"
)

// makeBsonDUpdates builds a $set of every non-zero field of document, the _id field is never updated.
func makeBsonDUpdates(document any) bson.D {
  updates := bson.D{}

  for _, field := range reflection.ExportedFields(document) {
    key := bsonKey(field.StructField)

    if key == "" || key == "-" || key == "_id" {
      continue
    }

    if !reflection.IsZero(field.Value) {
      update := bson.E{
        Key:   key,
        Value: field.Value.Interface(),
      }
      updates = append(updates, update)
    }
  }

  return bson.D{{
    Key:   "$set",
    Value: updates,
  }}
}

func bsonKey(field reflect.StructField) string {
  tag := field.Tag.Get("bson")

  if tag == "" {
    return strings.ToLower(field.Name)
  }
  key, _, _ := strings.Cut(tag, ",")

  return key
}

func makeBsonDFilters(kv map[string]any) bson.D {
  out := bson.D{}

  for key, value := range kv {
    out = append(out, bson.E{
      Key:   key,
      Value: value,
    })
  }

  return out
}
