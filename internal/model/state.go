package model

// Phase names a FetchState variant.
type Phase string

const (
	// PhaseIdle means no wallet is connected.
	PhaseIdle Phase = "idle"
	// PhaseLoading means a request for ad content is in flight.
	PhaseLoading Phase = "loading"
	// PhaseError means the last request failed.
	PhaseError Phase = "error"
	// PhaseLoaded means the last request completed.
	PhaseLoaded Phase = "loaded"
)

// FetchState is the state of an ad content request. The set of variants is
// closed: Idle, Loading, Failed and Loaded.
type FetchState interface {
	Phase() Phase
	fetchState()
}

// Idle is the state while no wallet is connected.
type Idle struct{}

// Loading is the state while content for Address is being fetched.
type Loading struct {
	Address string
}

// Failed is the state after a failed fetch. Message is user-facing.
type Failed struct {
	Message string
}

// Loaded is the state after a successful fetch. Content is nil when the
// server had no ad for the wallet.
type Loaded struct {
	Content *AdContent
}

func (Idle) Phase() Phase    { return PhaseIdle }
func (Loading) Phase() Phase { return PhaseLoading }
func (Failed) Phase() Phase  { return PhaseError }
func (Loaded) Phase() Phase  { return PhaseLoaded }

func (Idle) fetchState()    {}
func (Loading) fetchState() {}
func (Failed) fetchState()  {}
func (Loaded) fetchState()  {}

// Settled reports whether s is a resting state that no in-flight request
// will move on from.
func Settled(s FetchState) bool {
	switch s.(type) {
	case Loading:
		return false
	default:
		return true
	}
}
