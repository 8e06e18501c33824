// Package message builds the channel messages posted for submitted issues.
package message

import (
  "fmt"
  "strings"
  "unicode/utf8"

  "github.com/samber/lo"
  "github.com/slack-go/slack"
  "github.com/ushakovn/helpdesk/internal/models"
  "github.com/ushakovn/helpdesk/pkg/stringer"
)

const (
  StatusChangeAction = "issue_status_change"
  StatusBlockId      = "status_block"

  NewIssueText    = ":exclamation: New issue reported"
  IssueUpdateText = ":exclamation: *Issue Update* :exclamation:"

  maxSectionText  = 3000
  truncatedSuffix = "…"
)

type statusAppearance struct {
  Label string
  Style slack.Style
}

var statusAppearances = map[models.IssueStatus]statusAppearance{
  models.IssueStatusPending: {
    Label: "Pending",
    Style: slack.StyleDanger,
  },
  models.IssueStatusResolved: {
    Label: "Resolved",
    Style: slack.StylePrimary,
  },
}

type Builder struct {
  issue   models.Issue
  issueId string
  userId  string
}

func Do() Builder {
  return Builder{}
}

func (b Builder) SetIssuePtr(issue *models.Issue) Builder {
  b.issue = *issue
  return b
}

func (b Builder) SetIssueId(id string) Builder {
  b.issueId = id
  return b
}

func (b Builder) SetUserId(id string) Builder {
  b.userId = id
  return b
}

type BuildResult struct {
  Text   string
  Blocks []slack.Block
}

// BuildIssueMessage renders the issue summary followed by its status button.
func (b Builder) BuildIssueMessage() BuildResult {
  var text strings.Builder

  fmt.Fprintf(&text, ":exclamation: *New Issue Reported by <@%s>* :exclamation:\n", b.userId)
  fmt.Fprintf(&text, "*Issue type:* %s\n", b.issue.Type)
  fmt.Fprintf(&text, "*Submitted at:* %s\n", b.issue.SubmittedAt)
  fmt.Fprintf(&text, "*Description of the issue:*\n%s\n", b.issue.Description)

  optional := []struct {
    title string
    value string
  }{
    {title: "How to reproduce", value: b.issue.Reproduce},
    {title: "Error log", value: b.issue.Log},
    {title: "Machine and partition", value: b.issue.MachinePartition},
    {title: "Container", value: b.issue.Container},
    {title: "Straxen version info", value: b.issue.VersionInfo},
  }
  for _, field := range optional {
    if stringer.IsEmptyStr(field.value) {
      continue
    }
    fmt.Fprintf(&text, "*%s:*\n%s\n", field.title, field.value)
  }

  summary := slack.NewSectionBlock(
    slack.NewTextBlockObject(slack.MarkdownType, truncate(strings.TrimSpace(text.String())), false, false),
    nil, nil,
  )

  return BuildResult{
    Text: NewIssueText,
    Blocks: []slack.Block{
      summary,
      StatusBlock(models.StatusValue{
        IssueId: b.issueId,
        Status:  b.issue.Status,
      }),
    },
  }
}

// StatusBlock is the trailing actions block of an issue message, its button carries value.
func StatusBlock(value models.StatusValue) *slack.ActionBlock {
  appearance := statusAppearances[value.Status]

  button := slack.NewButtonBlockElement(StatusChangeAction, value.String(),
    slack.NewTextBlockObject(slack.PlainTextType, appearance.Label, false, false),
  )
  button.Style = appearance.Style

  return slack.NewActionBlock(StatusBlockId, button)
}

// WithStatus replaces the trailing block of blocks with the status block of value.
// The input slice is left untouched and an empty message gets just the status block.
func WithStatus(blocks []slack.Block, value models.StatusValue) []slack.Block {
  return append(lo.DropRight(blocks, 1), StatusBlock(value))
}

func truncate(text string) string {
  if utf8.RuneCountInString(text) <= maxSectionText {
    return text
  }
  return lo.Substring(text, 0, maxSectionText-1) + truncatedSuffix
}
