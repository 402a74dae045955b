package models

// StepType discriminates the two kinds of workflow steps. A step is exactly
// one of these; the trigger/action split is a closed set.
type StepType string

const (
	StepTypeTrigger StepType = "trigger"
	StepTypeAction  StepType = "action"
)

// TriggerType identifies how a workflow run is initiated.
type TriggerType string

const (
	TriggerTypeForm     TriggerType = "form"
	TriggerTypeSchedule TriggerType = "schedule"
	TriggerTypeDatabase TriggerType = "database"
	TriggerTypeWebhook  TriggerType = "webhook"
)

// ActionType identifies the side effect an action step performs.
type ActionType string

const (
	ActionTypeEmail        ActionType = "email"
	ActionTypeDatabase     ActionType = "database"
	ActionTypeNotification ActionType = "notification"
	ActionTypeCondition    ActionType = "condition"
	ActionTypeDelay        ActionType = "delay"
)

// Position carries canvas coordinates for the dashboard. The engine never
// reads it; execution order is derived solely from connections.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Step is one node in a workflow, either a trigger or an action.
type Step struct {
	ID          string         `json:"id"                    validate:"required"`
	Type        StepType       `json:"type"                  validate:"required,oneof=trigger action"`
	TriggerType TriggerType    `json:"triggerType,omitempty"`
	ActionType  ActionType     `json:"actionType,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Config      map[string]any `json:"config"`
	Position    Position       `json:"position"`
}

func (s *Step) IsTrigger() bool {
	return s.Type == StepTypeTrigger
}

func (s *Step) IsAction() bool {
	return s.Type == StepTypeAction
}
