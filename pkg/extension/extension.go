package extension

import (
  "path/filepath"
  "strings"

  set "github.com/deckarep/golang-set/v2"
)

var extJSON = set.NewSet("json")

func Ext(filename string) string {
  return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

func IsJSON(filename string) bool {
  return extJSON.ContainsOne(Ext(filename))
}

// TrimExt returns the base name of path without its extension.
func TrimExt(path string) string {
  base := filepath.Base(path)
  return strings.TrimSuffix(base, filepath.Ext(base))
}
