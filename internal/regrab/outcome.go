package regrab

import (
	"fmt"
	"slices"
	"strings"
)

// Stage names a step of a regrab where a failure can happen.
type Stage string

const (
	StageResolve       Stage = "resolve"
	StageDelete        Stage = "delete"
	StageFileDelete    Stage = "file-delete"
	StageRegister      Stage = "register"
	StageAdd           Stage = "add"
	StageSearchTrigger Stage = "search-trigger"
)

// Message is the user-facing description of a failure at this stage when
// every earlier stage of a full regrab took effect. Failed adjusts it to the
// stages that actually ran.
func (s Stage) Message() string {
	switch s {
	case StageResolve:
		return "Could not look up the current catalog entry. Nothing was changed."
	case StageDelete:
		return "Could not delete the existing catalog entry. Nothing was changed."
	case StageFileDelete:
		return "Could not delete the existing episode file. No new search was requested."
	case StageRegister:
		return "Could not add this series to the catalog, so it cannot be regrabbed."
	case StageAdd:
		return "The old entry and its files were deleted, but re-adding it to the catalog failed. Add it back manually."
	case StageSearchTrigger:
		return "The old file was deleted, but the backend did not accept the new search. Trigger a search manually."
	default:
		return "The regrab failed."
	}
}

// Status is the tag of an Outcome.
type Status int

const (
	StatusSuccess Status = iota
	StatusPartialFailure
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartialFailure:
		return "partial_failure"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Failure describes where a regrab stopped.
type Failure struct {
	Stage     Stage
	Reason    string  // user-facing
	Err       error   // operator-facing, logged only
	Completed []Stage // stages that did take effect before the failure
	Uncertain bool    // the failing call may still have taken effect
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("regrab failed at %s", f.Stage)
	}
	return fmt.Sprintf("regrab failed at %s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Outcome is the result of a regrab. Exactly one of the three statuses; never in between.
type Outcome struct {
	Status  Status
	Summary string
	Failure *Failure
}

// Succeeded builds a success outcome.
func Succeeded(summary string) Outcome {
	return Outcome{Status: StatusSuccess, Summary: summary}
}

// Cancelled builds a cancelled outcome.
func Cancelled() Outcome {
	return Outcome{Status: StatusCancelled, Summary: "Cancelled the request."}
}

// Failed builds a partial-failure outcome for stage.
func Failed(stage Stage, err error, completed ...Stage) Outcome {
	return Outcome{
		Status: StatusPartialFailure,
		Failure: &Failure{
			Stage:     stage,
			Reason:    failureReason(stage, completed),
			Err:       err,
			Completed: completed,
		},
	}
}

// failureReason describes a failure at stage given what already took effect,
// so the user learns whether anything was removed from or added to the catalog.
func failureReason(stage Stage, completed []Stage) string {
	deleted := slices.Contains(completed, StageDelete) || slices.Contains(completed, StageFileDelete)
	switch stage {
	case StageAdd:
		if !deleted {
			return "It was not in the catalog any more, so nothing was deleted, but adding it back failed. Add it manually."
		}
	case StageSearchTrigger:
		switch {
		case deleted:
		case slices.Contains(completed, StageAdd):
			return "Nothing was deleted. It was added back to the catalog, but the backend did not accept the new search. Trigger a search manually."
		default:
			return "No file was deleted, but the backend did not accept the new search. Trigger a search manually."
		}
	}
	return stage.Message()
}

// OK reports whether the regrab succeeded.
func (o Outcome) OK() bool { return o.Status == StatusSuccess }

// Message renders the outcome for the user. Transport errors never appear here.
func (o Outcome) Message() string {
	switch o.Status {
	case StatusSuccess, StatusCancelled:
		return o.Summary
	}
	if o.Failure == nil {
		return "The regrab failed."
	}
	var b strings.Builder
	if o.Summary != "" {
		b.WriteString(o.Summary)
		b.WriteString("\n")
	}
	b.WriteString(o.Failure.Reason)
	if o.Failure.Uncertain {
		b.WriteString(" The backend did not answer in time, so it is unclear whether the change was applied. Check the catalog before retrying.")
	}
	return b.String()
}
