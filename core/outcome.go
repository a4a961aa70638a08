package core

import (
	"fmt"
)

// Reserved Outcome keys managed by the framework. Unit bodies may not set
// them directly and Chain rejects inputs that contain them.
const (
	KeySuccessful = "successful"
	KeyMessages   = "messages"
	KeySkipped    = "skipped"
)

// Outcome is the data-shaped result of invoking a Unit or a Chain. It is a
// plain key/value map carrying the reserved bookkeeping keys alongside the
// unit's declared outputs (or, for a Chain, the accumulated keys).
type Outcome map[string]any

// NewOutcome returns a fresh accumulator seeded successful with no messages.
func NewOutcome() Outcome {
	return Outcome{KeySuccessful: true, KeyMessages: []string{}}
}

// SkippedOutcome returns the synthetic outcome recorded for a registration
// whose guard evaluated false.
func SkippedOutcome() Outcome {
	o := NewOutcome()
	o[KeySkipped] = true
	return o
}

// FailedOutcome returns an unsuccessful outcome carrying the given messages.
func FailedOutcome(msgs ...string) Outcome {
	o := NewOutcome()
	o.fail(msgs...)
	return o
}

// Successful reports whether the outcome's success flag is set.
func (o Outcome) Successful() bool {
	ok, _ := o[KeySuccessful].(bool)
	return ok
}

// Skipped reports whether the outcome was produced by a skipped invocation.
func (o Outcome) Skipped() bool {
	skipped, _ := o[KeySkipped].(bool)
	return skipped
}

// Messages returns the outcome's accumulated messages in append order.
func (o Outcome) Messages() []string {
	msgs, _ := o[KeyMessages].([]string)
	return msgs
}

// Has reports whether key is present in the outcome.
func (o Outcome) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// String returns the value under key if it is a string, else "".
func (o Outcome) String(key string) string {
	s, _ := o[key].(string)
	return s
}

// Int returns the value under key if it is an int, else 0.
func (o Outcome) Int(key string) int {
	n, _ := o[key].(int)
	return n
}

func (o Outcome) appendMessages(msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	o[KeyMessages] = append(o.Messages(), msgs...)
}

func (o Outcome) fail(msgs ...string) {
	o[KeySuccessful] = false
	o.appendMessages(msgs...)
}

// merge folds other into o. Keys overwrite same-named keys in o, except
// messages, which are concatenated in append order.
func (o Outcome) merge(other Outcome) {
	for k, v := range other {
		if k == KeyMessages {
			continue
		}
		o[k] = v
	}
	o.appendMessages(other.Messages()...)
}

// preview renders a truncated textual form of o for diagnostic lines.
// fmt sorts map keys, so the preview is deterministic.
func (o Outcome) preview(limit int) string {
	s := fmt.Sprintf("%v", map[string]any(o))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
