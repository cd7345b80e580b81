package model

import "fmt"

// PublishState là trạng thái của một lần submit
type PublishState string

const (
	StateIdle             PublishState = "idle"
	StateValidating       PublishState = "validating"
	StateUploadingAsset   PublishState = "uploading_asset"
	StateResolvingLocator PublishState = "resolving_locator"
	StateCommittingEntry  PublishState = "committing_entry"
	StatePublished        PublishState = "published"
	StateFailed           PublishState = "failed"
)

// publishTransitions: state -> các state kế tiếp hợp lệ
// Failed có thể đến từ mọi working state
var publishTransitions = map[PublishState][]PublishState{
	StateIdle:             {StateValidating},
	StateValidating:       {StateUploadingAsset, StateFailed},
	StateUploadingAsset:   {StateResolvingLocator, StateFailed},
	StateResolvingLocator: {StateCommittingEntry, StateFailed},
	StateCommittingEntry:  {StatePublished, StateFailed},
	StatePublished:        {},
	StateFailed:           {},
}

func (s PublishState) CanTransitionTo(next PublishState) bool {
	for _, allowed := range publishTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PublishState) IsTerminal() bool {
	return s == StatePublished || s == StateFailed
}

// Transition là một bước trong trace của submission
type Transition struct {
	From PublishState `json:"from"`
	To   PublishState `json:"to"`
}

func (t Transition) String() string {
	return fmt.Sprintf("%s -> %s", t.From, t.To)
}
