// Package pipeline aggregates a profile and its reference sites into one fetch result.
package pipeline

// State is a stage of the aggregation state machine.
type State string

const (
	StateValidatingInput    State = "validating_input"
	StateFetchingProfile    State = "fetching_profile"
	StateFetchingReferences State = "fetching_references"
	StateMergingSkills      State = "merging_skills"
	StateDone               State = "done"
	StateErrorFallback      State = "error_fallback"
)

// ProgressEvent represents a progress update during aggregation
type ProgressEvent struct {
	State   State  `json:"state"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when aggregation progress occurs
type ProgressCallback func(event ProgressEvent)

// Chain returns a callback invoking every non-nil callback in order.
func Chain(callbacks ...ProgressCallback) ProgressCallback {
	return func(event ProgressEvent) {
		for _, cb := range callbacks {
			if cb != nil {
				cb(event)
			}
		}
	}
}
