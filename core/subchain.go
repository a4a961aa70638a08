package core

// RunChain builds an anonymous accumulating chain inside a unit body,
// invokes it with the given inputs and folds the sub-result back into the
// calling unit's accumulator. Only the caller's declared output keys plus
// the success flag are taken from the sub-result (absent keys are dropped);
// sub-messages are always appended to the caller's log, success or failure.
//
// The raw sub-result is returned for inspection. The error covers the same
// configuration problems as Chain.Call.
func (e *Exec) RunChain(inputs Outcome, units ...*Unit) (Outcome, error) {
	sub := NewChain().Register(units...)
	result, err := sub.Call(inputs)
	if err != nil {
		return nil, err
	}

	for _, key := range e.unit.ct.outputs {
		if v, ok := result[key]; ok {
			e.out[key] = v
		}
	}
	if v, ok := result[KeySuccessful]; ok {
		e.out[KeySuccessful] = v
	}
	e.out.appendMessages(result.Messages()...)
	return result, nil
}
