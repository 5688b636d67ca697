package async

// Lifecycle suffixes appended to a request's type prefix.
const (
	SuffixPending   = "/pending"
	SuffixFulfilled = "/fulfilled"
	SuffixRejected  = "/rejected"
)

// Pending is dispatched synchronously when a request starts.
type Pending struct {
	Prefix    string
	RequestID string
}

// Type implements action.Action.
func (p Pending) Type() string { return p.Prefix + SuffixPending }

// Fulfilled carries the body's result.
type Fulfilled[R any] struct {
	Prefix    string
	RequestID string
	Payload   R
}

// Type implements action.Action.
func (f Fulfilled[R]) Type() string { return f.Prefix + SuffixFulfilled }

// Rejected carries the body's error.
type Rejected struct {
	Prefix    string
	RequestID string
	Err       error
}

// Type implements action.Action.
func (r Rejected) Type() string { return r.Prefix + SuffixRejected }
