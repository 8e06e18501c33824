package helpdesk

import (
  "fmt"

  "github.com/samber/lo"
  "github.com/slack-go/slack"
  "github.com/ushakovn/helpdesk/internal/catalog"
  "github.com/ushakovn/helpdesk/internal/message"
  "github.com/ushakovn/helpdesk/internal/models"
  "github.com/ushakovn/helpdesk/pkg/stringer"
)

// Action ids of the interactive elements.
const (
  ContinueIssueSelectionAction = "continue_issue_selection"
  IssueNotSolvedAction         = "issue_not_solved"
  IssueStatusChangeAction      = message.StatusChangeAction
  IssueSelectionAction         = "issue_selection"
)

const issueSelectionBlock = "section-1"

// Input block and element ids of the issue form.
const (
  descriptionBlock      = "issue_description"
  descriptionInput      = "description_input"
  reproduceBlock        = "issue_reproduce"
  reproduceInput        = "reproduce_input"
  logBlock              = "issue_log"
  logInput              = "log_input"
  machinePartitionBlock = "Issue_machine_partition"
  machinePartitionInput = "machine_partition_input"
  containerBlock        = "issue_container"
  containerInput        = "container_input"
  versionInfoBlock      = "issue_straxen_version"
  versionInfoInput      = "straxen_version_input"
)

const (
  HelpCommandReply = "Please check the Pop-up window to continue."

  viewTitle = "🛠 HelpDesk"
)

func plainText(text string) *slack.TextBlockObject {
  return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

func markdownText(text string) *slack.TextBlockObject {
  return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func modalView(callbackID models.SessionStep, metadata string, blocks []slack.Block) slack.ModalViewRequest {
  return slack.ModalViewRequest{
    Type:            slack.VTModal,
    CallbackID:      callbackID,
    Title:           plainText(viewTitle),
    Close:           plainText("Close"),
    PrivateMetadata: metadata,
    Blocks: slack.Blocks{
      BlockSet: blocks,
    },
  }
}

func makeIssueTypeView(issueTypes []string) slack.ModalViewRequest {
  options := lo.Map(issueTypes, func(issueType string, _ int) *slack.OptionBlockObject {
    return slack.NewOptionBlockObject(issueType, plainText(stringer.SanitizeLine(issueType)), nil)
  })

  selection := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic,
    plainText("Select an issue"),
    IssueSelectionAction,
    options...,
  )

  continueButton := slack.NewButtonBlockElement(ContinueIssueSelectionAction, "continue", plainText("Continue"))
  continueButton.Style = slack.StylePrimary

  blocks := []slack.Block{
    slack.NewHeaderBlock(plainText("Welcome to HelpDesk!")),
    slack.NewDividerBlock(),
    slack.NewSectionBlock(
      markdownText("*Please select your issue type:*"),
      nil,
      slack.NewAccessory(selection),
      slack.SectionBlockOptionBlockID(issueSelectionBlock),
    ),
    slack.NewContextBlock("",
      markdownText("You have issue with the HelperBot? Contact the HelpDesk maintainers."),
    ),
    slack.NewDividerBlock(),
    slack.NewActionBlock("", continueButton),
  }

  return modalView(models.IssueTypeStep, "", blocks)
}

// makeInstructionsView appends the fixed trailer to the catalog blocks, the entry itself is not modified.
func makeInstructionsView(entry catalog.Entry) slack.ModalViewRequest {
  notSolvedButton := slack.NewButtonBlockElement(IssueNotSolvedAction, "not_solved", plainText("It doesn't help :/"))
  notSolvedButton.Style = slack.StyleDanger

  blocks := make([]slack.Block, 0, len(entry.Blocks)+3)
  blocks = append(blocks, entry.Blocks...)
  blocks = append(blocks,
    slack.NewDividerBlock(),
    slack.NewContextBlock("",
      markdownText("If you have any tips in minds that should go there, please let us know!"),
    ),
    slack.NewActionBlock("", notSolvedButton),
  )

  metadata := models.EncodeSessionMetadata(models.SessionMetadata{
    SelectedIssue: entry.Name,
  })

  return modalView(models.InstructionsStep, metadata, blocks)
}

type formInput struct {
  blockID   string
  actionID  string
  label     string
  hint      string
  multiline bool
  optional  bool
}

var issueFormInputs = []formInput{
  {
    blockID:   descriptionBlock,
    actionID:  descriptionInput,
    label:     "Description of the issue",
    multiline: true,
  },
  {
    blockID:   reproduceBlock,
    actionID:  reproduceInput,
    label:     "How to reproduce",
    hint:      "Minimal code snippet or the steps you took",
    multiline: true,
    optional:  true,
  },
  {
    blockID:   logBlock,
    actionID:  logInput,
    label:     "Error log",
    multiline: true,
    optional:  true,
  },
  {
    blockID:  machinePartitionBlock,
    actionID: machinePartitionInput,
    label:    "Machine and partition",
    hint:     "For example dali or midway2",
    optional: true,
  },
  {
    blockID:  containerBlock,
    actionID: containerInput,
    label:    "Container",
    optional: true,
  },
  {
    blockID:  versionInfoBlock,
    actionID: versionInfoInput,
    label:    "Straxen version info",
    hint:     "Output of straxen.print_versions()",
    optional: true,
  },
}

func makeIssueFormView(metadata models.SessionMetadata) slack.ModalViewRequest {
  blocks := make([]slack.Block, 0, len(issueFormInputs)+1)

  blocks = append(blocks, slack.NewSectionBlock(
    markdownText(fmt.Sprintf("*Issue type:* %s", metadata.SelectedIssue)),
    nil, nil,
  ))

  for _, input := range issueFormInputs {
    element := slack.NewPlainTextInputBlockElement(nil, input.actionID)
    element.Multiline = input.multiline

    var hint *slack.TextBlockObject
    if input.hint != "" {
      hint = plainText(input.hint)
    }

    block := slack.NewInputBlock(input.blockID, plainText(input.label), hint, element)
    block.Optional = input.optional

    blocks = append(blocks, block)
  }

  view := modalView(models.IssueFormStep, models.EncodeSessionMetadata(metadata), blocks)
  view.Submit = plainText("Submit")

  return view
}
