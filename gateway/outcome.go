package gateway

// Kind classifies the result of an HTTP call into the categories every
// caller branches on. The mapping from transport results is fixed:
//
//	2xx                      -> Success
//	401                      -> Unauthorized
//	403                      -> Forbidden
//	429                      -> RateLimited
//	504 or transport timeout -> Timeout
//	anything else            -> Failure
type Kind int

const (
	// Success means the call completed and the response parsed cleanly.
	Success Kind = iota

	// Unauthorized means the session token is missing, invalid, or
	// expired. Callers drive the session's unauthorized transition.
	Unauthorized

	// Forbidden means the server refused the action for this account:
	// insufficient credits or wrong tier. Terminal for the attempt.
	Forbidden

	// RateLimited means the action was already performed. Used by the
	// backend for idempotent actions such as upvote.
	RateLimited

	// Timeout means the server or transport timed out. Retryable by the
	// user; the client never retries on its own.
	Timeout

	// Failure is every other error, carrying the best available message.
	Failure
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case RateLimited:
		return "rate_limited"
	case Timeout:
		return "timeout"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of an HTTP call. Every gateway method
// returns one; no method returns a bare error for a completed exchange.
type Outcome struct {
	Kind    Kind
	Message string
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool {
	return o.Kind == Success
}

func successOutcome() Outcome {
	return Outcome{Kind: Success}
}

func failureOutcome(message string) Outcome {
	return Outcome{Kind: Failure, Message: message}
}
