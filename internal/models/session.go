package models

import (
  "encoding/json"
  "fmt"
)

// Steps of the intake workflow, used as modal callback ids.
const (
  IssueTypeStep    SessionStep = "issue_type"
  InstructionsStep SessionStep = "instructions_modal"
  IssueFormStep    SessionStep = "issue_form"
)

type SessionStep = string

// SessionMetadata travels in the modal private_metadata between workflow steps.
type SessionMetadata struct {
  SelectedIssue string `json:"selected_issue"`
}

func EncodeSessionMetadata(metadata SessionMetadata) string {
  // Marshalling a struct of strings never fails.
  b, _ := json.Marshal(metadata)
  return string(b)
}

func DecodeSessionMetadata(raw string) (SessionMetadata, error) {
  var metadata SessionMetadata

  if raw == "" {
    return metadata, nil
  }
  if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
    return SessionMetadata{}, fmt.Errorf("json.Unmarshal: %w", err)
  }

  return metadata, nil
}
