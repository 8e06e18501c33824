package helpdesk

import (
  "context"
  "errors"
  "net/http"
  "testing"
  "time"

  "github.com/slack-go/slack"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/mock"
  "github.com/stretchr/testify/require"
  "github.com/ushakovn/helpdesk/internal/catalog"
  slackdeps "github.com/ushakovn/helpdesk/internal/deps/slack"
  "github.com/ushakovn/helpdesk/internal/message"
  "github.com/ushakovn/helpdesk/internal/models"
  "github.com/ushakovn/helpdesk/pkg/worker"
)

type mockSlack struct {
  mock.Mock
}

func (m *mockSlack) VerifyRequest(header http.Header, body []byte) error {
  return m.Called(header, body).Error(0)
}

func (m *mockSlack) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
  return m.Called(ctx, triggerID, view).Error(0)
}

func (m *mockSlack) UpdateView(ctx context.Context, viewID string, view slack.ModalViewRequest) error {
  return m.Called(ctx, viewID, view).Error(0)
}

func (m *mockSlack) PostMessage(ctx context.Context, params slackdeps.PostMessageParams) (string, error) {
  args := m.Called(ctx, params)
  return args.String(0), args.Error(1)
}

func (m *mockSlack) UpdateMessage(ctx context.Context, params slackdeps.UpdateMessageParams) error {
  return m.Called(ctx, params).Error(0)
}

func (m *mockSlack) UserName(ctx context.Context, userID string) (string, error) {
  args := m.Called(ctx, userID)
  return args.String(0), args.Error(1)
}

type mockIssues struct {
  mock.Mock
}

func (m *mockIssues) Insert(ctx context.Context, issue *models.Issue) (string, error) {
  args := m.Called(ctx, issue)
  return args.String(0), args.Error(1)
}

func (m *mockIssues) UpdateStatus(ctx context.Context, id string, status models.IssueStatus) error {
  return m.Called(ctx, id, status).Error(0)
}

// inlinePool runs calls on the caller goroutine.
type inlinePool struct{}

func (inlinePool) TryPush(call worker.Call) bool {
  _ = call(context.Background())
  return true
}

const testChannelId = "C05R986BYT1"

var testNow = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func straxenEntry() catalog.Entry {
  return catalog.Entry{
    Name: "Straxen",
    Blocks: []slack.Block{
      slack.NewSectionBlock(markdownText("Run *straxen.print_versions()* first."), nil, nil),
      slack.NewDividerBlock(),
    },
  }
}

type testTransport struct {
  *Transport
  slack  *mockSlack
  issues *mockIssues
}

func newTestTransport(t *testing.T) testTransport {
  slackMock := &mockSlack{}
  issuesMock := &mockIssues{}

  transport, err := NewTransport(Config{
    ChannelId: testChannelId,
  }, Dependencies{
    Catalog: catalog.New(straxenEntry(), catalog.Entry{Name: "Container"}),
    Issues:  issuesMock,
    Slack:   slackMock,
    Pool:    inlinePool{},
    Now: func() time.Time {
      return testNow
    },
  })
  require.NoError(t, err)

  t.Cleanup(func() {
    slackMock.AssertExpectations(t)
    issuesMock.AssertExpectations(t)
  })

  return testTransport{
    Transport: transport,
    slack:     slackMock,
    issues:    issuesMock,
  }
}

func blockActionsCallback(action *slack.BlockAction) *slack.InteractionCallback {
  return &slack.InteractionCallback{
    Type: slack.InteractionTypeBlockActions,
    ActionCallback: slack.ActionCallbacks{
      BlockActions: []*slack.BlockAction{action},
    },
    View: slack.View{
      ID: "V1",
    },
  }
}

func selectionState(value string) *slack.ViewState {
  return &slack.ViewState{
    Values: map[string]map[string]slack.BlockAction{
      issueSelectionBlock: {
        IssueSelectionAction: {
          SelectedOption: slack.OptionBlockObject{Value: value},
        },
      },
    },
  }
}

func statusButton(t *testing.T, block slack.Block) *slack.ButtonBlockElement {
  actionBlock, ok := block.(*slack.ActionBlock)
  require.True(t, ok, "expected actions block, got %T", block)
  require.Len(t, actionBlock.Elements.ElementSet, 1)

  button, ok := actionBlock.Elements.ElementSet[0].(*slack.ButtonBlockElement)
  require.True(t, ok)

  return button
}

func captureView(target *slack.ModalViewRequest) func(mock.Arguments) {
  return func(args mock.Arguments) {
    *target = args.Get(2).(slack.ModalViewRequest)
  }
}

func TestNewTransportValidates(t *testing.T) {
  _, err := NewTransport(Config{}, Dependencies{})
  assert.Error(t, err)
}

func TestDispatchContinueIssueSelection(t *testing.T) {
  tr := newTestTransport(t)

  var view slack.ModalViewRequest
  tr.slack.On("UpdateView", mock.Anything, "V1", mock.Anything).Return(nil).Run(captureView(&view)).Once()

  callback := blockActionsCallback(&slack.BlockAction{ActionID: ContinueIssueSelectionAction})
  callback.View.State = selectionState("Straxen")

  tr.Dispatch(context.Background(), callback)

  entry := straxenEntry()
  blocks := view.Blocks.BlockSet

  require.Len(t, blocks, len(entry.Blocks)+3)
  assert.Equal(t, entry.Blocks, blocks[:len(entry.Blocks)])
  assert.Equal(t, slack.MBTDivider, blocks[len(entry.Blocks)].BlockType())
  assert.Equal(t, slack.MBTContext, blocks[len(entry.Blocks)+1].BlockType())

  button := statusButton(t, blocks[len(blocks)-1])
  assert.Equal(t, IssueNotSolvedAction, button.ActionID)
  assert.Equal(t, slack.StyleDanger, button.Style)

  assert.Equal(t, models.InstructionsStep, view.CallbackID)

  metadata, err := models.DecodeSessionMetadata(view.PrivateMetadata)
  require.NoError(t, err)
  assert.Equal(t, "Straxen", metadata.SelectedIssue)
}

func TestDispatchContinueWithoutSelection(t *testing.T) {
  tr := newTestTransport(t)

  for _, state := range []*slack.ViewState{nil, {}, selectionState(""), selectionState("Unknown")} {
    callback := blockActionsCallback(&slack.BlockAction{ActionID: ContinueIssueSelectionAction})
    callback.View.State = state

    tr.Dispatch(context.Background(), callback)
  }

  tr.slack.AssertNotCalled(t, "UpdateView", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchIssueNotSolved(t *testing.T) {
  tr := newTestTransport(t)

  var view slack.ModalViewRequest
  tr.slack.On("UpdateView", mock.Anything, "V1", mock.Anything).Return(nil).Run(captureView(&view)).Once()

  callback := blockActionsCallback(&slack.BlockAction{ActionID: IssueNotSolvedAction})
  callback.View.PrivateMetadata = `{"selected_issue":"Straxen"}`

  tr.Dispatch(context.Background(), callback)

  assert.Equal(t, models.IssueFormStep, view.CallbackID)
  require.NotNil(t, view.Submit)
  assert.Equal(t, "Submit", view.Submit.Text)

  metadata, err := models.DecodeSessionMetadata(view.PrivateMetadata)
  require.NoError(t, err)
  assert.Equal(t, "Straxen", metadata.SelectedIssue)

  var inputs []*slack.InputBlock
  for _, block := range view.Blocks.BlockSet {
    if input, ok := block.(*slack.InputBlock); ok {
      inputs = append(inputs, input)
    }
  }
  require.Len(t, inputs, 6)

  for _, input := range inputs {
    assert.Equal(t, input.BlockID != descriptionBlock, input.Optional, input.BlockID)
  }
}

func TestDispatchIssueNotSolvedWithoutMetadata(t *testing.T) {
  tr := newTestTransport(t)

  for _, metadata := range []string{"", "{}", "not json"} {
    callback := blockActionsCallback(&slack.BlockAction{ActionID: IssueNotSolvedAction})
    callback.View.PrivateMetadata = metadata

    tr.Dispatch(context.Background(), callback)
  }

  tr.slack.AssertNotCalled(t, "UpdateView", mock.Anything, mock.Anything, mock.Anything)
}

func submissionCallback() *slack.InteractionCallback {
  text := func(value string) slack.BlockAction {
    return slack.BlockAction{Value: value}
  }

  callback := &slack.InteractionCallback{
    Type: slack.InteractionTypeViewSubmission,
    View: slack.View{
      ID:              "V1",
      CallbackID:      models.IssueFormStep,
      PrivateMetadata: `{"selected_issue":"Straxen"}`,
      State: &slack.ViewState{
        Values: map[string]map[string]slack.BlockAction{
          descriptionBlock:      {descriptionInput: text("straxen fails to load raw_records")},
          reproduceBlock:        {reproduceInput: text("st.get_array(run_id, 'raw_records')")},
          logBlock:              {logInput: text("KeyError: 'raw_records'")},
          machinePartitionBlock: {machinePartitionInput: text("dali")},
          containerBlock:        {containerInput: text("2024.03.1")},
          versionInfoBlock:      {versionInfoInput: text("straxen 2.2.0")},
        },
      },
    },
  }
  callback.User.ID = "U123"

  return callback
}

func TestDispatchIssueFormSubmission(t *testing.T) {
  tr := newTestTransport(t)

  const issueId = "65e1b7e4c2a4f1a2b3c4d5e6"

  var (
    issue  *models.Issue
    posted slackdeps.PostMessageParams
  )

  tr.slack.On("UserName", mock.Anything, "U123").Return("jdoe", nil).Once()
  tr.issues.On("Insert", mock.Anything, mock.Anything).Return(issueId, nil).Run(func(args mock.Arguments) {
    issue = args.Get(1).(*models.Issue)
  }).Once()
  tr.slack.On("PostMessage", mock.Anything, mock.Anything).Return("1700000000.000100", nil).Run(func(args mock.Arguments) {
    posted = args.Get(1).(slackdeps.PostMessageParams)
  }).Once()

  tr.Dispatch(context.Background(), submissionCallback())

  require.NotNil(t, issue)
  assert.Equal(t, &models.Issue{
    Reporter:         "jdoe",
    Type:             "Straxen",
    SubmittedAt:      "2024-03-01 10:30:00",
    Description:      "straxen fails to load raw_records",
    Reproduce:        "st.get_array(run_id, 'raw_records')",
    Log:              "KeyError: 'raw_records'",
    MachinePartition: "dali",
    Container:        "2024.03.1",
    VersionInfo:      "straxen 2.2.0",
    Status:           models.IssueStatusPending,
  }, issue)

  assert.Equal(t, testChannelId, posted.ChannelId)
  assert.Equal(t, message.NewIssueText, posted.Text)
  require.Len(t, posted.Blocks, 2)

  summary, ok := posted.Blocks[0].(*slack.SectionBlock)
  require.True(t, ok)
  assert.Contains(t, summary.Text.Text, "<@U123>")
  assert.Contains(t, summary.Text.Text, "straxen fails to load raw_records")

  button := statusButton(t, posted.Blocks[1])
  assert.Equal(t, issueId+"|pending", button.Value)
  assert.Equal(t, IssueStatusChangeAction, button.ActionID)
  assert.Equal(t, "Pending", button.Text.Text)
  assert.Equal(t, slack.StyleDanger, button.Style)
}

func TestDispatchIssueFormSubmissionWithoutUserName(t *testing.T) {
  tr := newTestTransport(t)

  var issue *models.Issue

  tr.slack.On("UserName", mock.Anything, "U123").Return("", errors.New("user_not_found")).Once()
  tr.issues.On("Insert", mock.Anything, mock.Anything).Return("65e1b7e4c2a4f1a2b3c4d5e6", nil).Run(func(args mock.Arguments) {
    issue = args.Get(1).(*models.Issue)
  }).Once()
  tr.slack.On("PostMessage", mock.Anything, mock.Anything).Return("1700000000.000100", nil).Once()

  tr.Dispatch(context.Background(), submissionCallback())

  require.NotNil(t, issue)
  assert.Empty(t, issue.Reporter)
}

func TestDispatchIssueFormSubmissionInsertFailed(t *testing.T) {
  tr := newTestTransport(t)

  tr.slack.On("UserName", mock.Anything, "U123").Return("jdoe", nil).Once()
  tr.issues.On("Insert", mock.Anything, mock.Anything).Return("", errors.New("connection refused")).Once()

  tr.Dispatch(context.Background(), submissionCallback())

  tr.slack.AssertNotCalled(t, "PostMessage", mock.Anything, mock.Anything)
}

func TestDispatchIssueFormSubmissionWithoutIssueType(t *testing.T) {
  tr := newTestTransport(t)

  callback := submissionCallback()
  callback.View.PrivateMetadata = ""

  var inserted *models.Issue

  tr.slack.On("UserName", mock.Anything, "U123").Return("jdoe", nil).Once()
  tr.issues.On("Insert", mock.Anything, mock.Anything).Return("65e1b2c3d4e5f60718293a4b", nil).Run(func(args mock.Arguments) {
    inserted = args.Get(1).(*models.Issue)
  }).Once()
  tr.slack.On("PostMessage", mock.Anything, mock.Anything).Return("1700000000.000100", nil).Once()

  tr.Dispatch(context.Background(), callback)

  require.NotNil(t, inserted)
  assert.Empty(t, inserted.Type)
  assert.NoError(t, inserted.Validate())
}

func TestDispatchIgnoresUnknownEvents(t *testing.T) {
  tr := newTestTransport(t)

  tr.Dispatch(context.Background(), &slack.InteractionCallback{Type: slack.InteractionTypeShortcut})
  tr.Dispatch(context.Background(), &slack.InteractionCallback{Type: slack.InteractionTypeBlockActions})
  tr.Dispatch(context.Background(), blockActionsCallback(&slack.BlockAction{ActionID: "unknown"}))
  tr.Dispatch(context.Background(), &slack.InteractionCallback{
    Type: slack.InteractionTypeViewSubmission,
    View: slack.View{CallbackID: "unknown"},
  })

  assert.Empty(t, tr.slack.Calls)
  assert.Empty(t, tr.issues.Calls)
}
