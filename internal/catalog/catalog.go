// Package catalog holds the troubleshooting instructions offered for every issue type.
//
// The catalog is read once from a directory of JSON files shaped as
//
//  {"name": "<issue type>", "content": [<block kit blocks>]}
//
// and is never modified afterwards.
package catalog

import (
  "encoding/json"
  "errors"
  "fmt"
  "os"
  "path/filepath"
  "sort"
  "strings"

  log "github.com/sirupsen/logrus"
  "github.com/slack-go/slack"
  "github.com/ushakovn/helpdesk/pkg/extension"
  "github.com/ushakovn/helpdesk/pkg/stringer"
)

var ErrInvalidEntry = errors.New("invalid catalog entry")

type Entry struct {
  Name   string
  Blocks []slack.Block
}

type Catalog struct {
  entries map[string]Entry
  names   []string
}

// New builds a catalog from entries, a later entry replaces an earlier one with the same name.
func New(entries ...Entry) *Catalog {
  c := &Catalog{
    entries: make(map[string]Entry, len(entries)),
  }
  for _, entry := range entries {
    c.entries[entry.Name] = entry
  }

  c.names = make([]string, 0, len(c.entries))
  for name := range c.entries {
    c.names = append(c.names, name)
  }
  sort.Strings(c.names)

  return c
}

// Load never fails: unreadable files become placeholder entries and a missing directory an empty catalog.
func Load(dir string) *Catalog {
  files, err := listFiles(dir)
  if err != nil {
    log.
      WithField("dir", dir).
      Errorf("catalog.listFiles: %v", err)

    return New()
  }

  entries := make([]Entry, 0, len(files))
  loaded := make(map[string]struct{}, len(files))

  var broken []string

  for _, path := range files {
    entry, err := loadEntry(path)
    if err != nil {
      log.
        WithField("file", path).
        Errorf("catalog.loadEntry: %v", err)

      broken = append(broken, path)
      continue
    }
    entries = append(entries, entry)
    loaded[entry.Name] = struct{}{}
  }

  // A placeholder never shadows instructions loaded from another file.
  for _, path := range broken {
    entry := placeholderEntry(path)

    if _, ok := loaded[entry.Name]; ok {
      log.
        WithField("file", path).
        WithField("name", entry.Name).
        Warn("placeholder skipped: name taken by a loaded entry")

      continue
    }
    entries = append(entries, entry)
  }

  c := New(entries...)

  log.
    WithField("dir", dir).
    WithField("entries", c.Len()).
    Info("instruction catalog loaded")

  return c
}

func (c *Catalog) Find(name string) (Entry, bool) {
  entry, ok := c.entries[name]
  return entry, ok
}

// Names returns the entry names in lexical order.
func (c *Catalog) Names() []string {
  return append([]string(nil), c.names...)
}

func (c *Catalog) Len() int {
  return len(c.entries)
}

func listFiles(dir string) ([]string, error) {
  dirEntries, err := os.ReadDir(dir)
  if err != nil {
    return nil, fmt.Errorf("os.ReadDir: %w", err)
  }

  var files []string

  for _, dirEntry := range dirEntries {
    if !dirEntry.Type().IsRegular() || !extension.IsJSON(dirEntry.Name()) {
      continue
    }
    files = append(files, filepath.Join(dir, dirEntry.Name()))
  }

  return files, nil
}

type entryFile struct {
  Name    string       `json:"name"`
  Content slack.Blocks `json:"content"`
}

func loadEntry(path string) (Entry, error) {
  b, err := os.ReadFile(path)
  if err != nil {
    return Entry{}, fmt.Errorf("os.ReadFile: %w", err)
  }

  var file entryFile

  if err = json.Unmarshal(b, &file); err != nil {
    return Entry{}, fmt.Errorf("json.Unmarshal: %w", err)
  }

  file.Name = strings.TrimSpace(file.Name)

  if file.Name == "" {
    return Entry{}, fmt.Errorf("%w: empty name", ErrInvalidEntry)
  }

  return Entry{
    Name:   file.Name,
    Blocks: file.Content.BlockSet,
  }, nil
}

func placeholderEntry(path string) Entry {
  return Entry{
    Name:   stringer.ToTitle(extension.TrimExt(path)),
    Blocks: []slack.Block{PlaceholderBlock(filepath.Base(path))},
  }
}

func PlaceholderBlock(filename string) slack.Block {
  return slack.NewSectionBlock(
    slack.NewTextBlockObject(slack.MarkdownType,
      fmt.Sprintf("Instructions for %s not found or not accessible.", filename),
      false, false,
    ),
    nil, nil,
  )
}
