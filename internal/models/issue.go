package models

import (
  "errors"
  "fmt"
  "strings"
  "time"

  "github.com/ushakovn/helpdesk/pkg/validator"
  "go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidStatusValue = errors.New("invalid status value")

// SubmittedAtLayout is the storage format of Issue.SubmittedAt.
const SubmittedAtLayout = "2006-01-02 15:04:05"

type IssueStatus string

const (
  IssueStatusPending  IssueStatus = "pending"
  IssueStatusResolved IssueStatus = "resolved"
)

func (s IssueStatus) IsValid() bool {
  return s == IssueStatusPending || s == IssueStatusResolved
}

func (s IssueStatus) Toggle() IssueStatus {
  if s == IssueStatusPending {
    return IssueStatusResolved
  }
  return IssueStatusPending
}

// Issue field keys are shared with the dashboard script, keep them stable.
type Issue struct {
  Id               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
  Reporter         string             `bson:"user_id" json:"user_id"`
  Type             string             `bson:"issue_type" json:"issue_type"`
  SubmittedAt      string             `bson:"submitted_at" json:"submitted_at" validate:"required"`
  Description      string             `bson:"description" json:"description" validate:"required"`
  Reproduce        string             `bson:"reproduce" json:"reproduce"`
  Log              string             `bson:"log" json:"log"`
  MachinePartition string             `bson:"machine_partition" json:"machine_partition"`
  Container        string             `bson:"container" json:"container"`
  VersionInfo      string             `bson:"straxen_version" json:"straxen_version"`
  Status           IssueStatus        `bson:"status" json:"status" validate:"oneof=pending resolved"`
}

func (i *Issue) Validate() error {
  return validator.Struct(i)
}

type NewIssueParams struct {
  Reporter         string
  Type             string
  Description      string
  Reproduce        string
  Log              string
  MachinePartition string
  Container        string
  VersionInfo      string
  SubmittedAt      time.Time
}

func NewPendingIssue(params NewIssueParams) *Issue {
  return &Issue{
    Reporter:         params.Reporter,
    Type:             params.Type,
    SubmittedAt:      params.SubmittedAt.Format(SubmittedAtLayout),
    Description:      params.Description,
    Reproduce:        params.Reproduce,
    Log:              params.Log,
    MachinePartition: params.MachinePartition,
    Container:        params.Container,
    VersionInfo:      params.VersionInfo,
    Status:           IssueStatusPending,
  }
}

// StatusValue is the payload of the status button on a posted issue message.
type StatusValue struct {
  IssueId string
  Status  IssueStatus
}

func ParseStatusValue(value string) (StatusValue, error) {
  parts := strings.Split(value, "|")

  if len(parts) != 2 {
    return StatusValue{}, fmt.Errorf("%w: %q: expected <id>|<status>", ErrInvalidStatusValue, value)
  }
  id, status := strings.TrimSpace(parts[0]), IssueStatus(strings.TrimSpace(parts[1]))

  if id == "" {
    return StatusValue{}, fmt.Errorf("%w: %q: empty issue id", ErrInvalidStatusValue, value)
  }
  if !status.IsValid() {
    return StatusValue{}, fmt.Errorf("%w: %q: unknown status", ErrInvalidStatusValue, value)
  }

  return StatusValue{
    IssueId: id,
    Status:  status,
  }, nil
}

func (v StatusValue) String() string {
  return fmt.Sprintf("%s|%s", v.IssueId, v.Status)
}

func (v StatusValue) Toggle() StatusValue {
  return StatusValue{
    IssueId: v.IssueId,
    Status:  v.Status.Toggle(),
  }
}
