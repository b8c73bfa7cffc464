package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// EventsCheck summarizes the events the proposal would emit. Purely
// informational: the decoded names come from the simulation backend and an
// undecodable log is shown raw rather than dropped.
type EventsCheck struct {
	log log.Logger
}

var _ Check = (*EventsCheck)(nil)

func NewEventsCheck(logger log.Logger) *EventsCheck {
	return &EventsCheck{log: logger}
}

func (c *EventsCheck) Name() string {
	return "decoded-events"
}

func (c *EventsCheck) Run(_ context.Context, input *Input) (*Result, error) {
	result := &Result{}
	if input.Sim == nil || len(input.Sim.Transaction.Logs) == 0 {
		result.Info = append(result.Info, "no events emitted")
		return result, nil
	}
	for _, entry := range input.Sim.Transaction.Logs {
		if entry.Name == "" {
			result.Info = append(result.Info, fmt.Sprintf(
				"undecoded log from %s, topics [%s]", entry.Raw.Address, strings.Join(entry.Raw.Topics, ", ")))
			continue
		}
		args := make([]string, 0, len(entry.Inputs))
		for _, arg := range entry.Inputs {
			args = append(args, fmt.Sprintf("%s=%v", arg.Name, arg.Value))
		}
		result.Info = append(result.Info, fmt.Sprintf(
			"%s(%s) emitted by %s", entry.Name, strings.Join(args, ", "), entry.Raw.Address))
	}
	return result, nil
}
