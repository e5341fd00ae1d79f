package plan

// Status is the state of one plan item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Tool names the engine treats specially.
const (
	SetPlanToolName        = "set_plan"
	ShareReasoningToolName = "share_reasoning"
	WorkflowDoneToolName   = "workflow_done"
)

// Item is a single step of a plan.
type Item struct {
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// Plan is the model's current execution plan.
type Plan struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// ShareReasoningRequest is the share_reasoning argument document.
type ShareReasoningRequest struct {
	Text *string `json:"text"`
}
