package wizard

// ViewKind tells the front-end how to render a View.
type ViewKind string

const (
	ViewOptions ViewKind = "options" // pick one of Choices
	ViewConfirm ViewKind = "confirm" // proceed or cancel
	ViewStatus  ViewKind = "status"  // plain text, no input
)

// Choice is one selectable option.
type Choice struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// View is a render instruction for the front-end.
type View struct {
	Kind    ViewKind `json:"kind"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

func optionsView(text string, choices []Choice) View {
	return View{Kind: ViewOptions, Text: text, Choices: choices, Actions: []Action{ActionSelect, ActionCancel}}
}

func confirmView(text string) View {
	return View{Kind: ViewConfirm, Text: text, Actions: []Action{ActionProceed, ActionCancel}}
}

func statusView(text string) View {
	return View{Kind: ViewStatus, Text: text}
}

// Action is the kind of user input.
type Action string

const (
	ActionSelect  Action = "select"
	ActionProceed Action = "proceed"
	ActionCancel  Action = "cancel"
)

// Input is one user interaction with a session.
type Input struct {
	Action Action `json:"action"`
	Index  int    `json:"index,omitempty"`
}

// Select returns an input choosing the option at index.
func Select(index int) Input { return Input{Action: ActionSelect, Index: index} }

// Proceed returns the confirm input.
func Proceed() Input { return Input{Action: ActionProceed} }

// Cancel returns the cancel input.
func Cancel() Input { return Input{Action: ActionCancel} }
