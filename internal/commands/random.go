package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/constants"
)

// DiceRange works out the inclusive bounds for a roll from the arguments
// following the trigger. Arguments that are not 32-bit integers are ignored.
func DiceRange(args []string) (low, high int64) {
	low, high = constants.RandomDefaultMin, constants.RandomDefaultMax

	switch {
	case len(args) == 1:
		if v, err := strconv.ParseInt(args[0], 10, 32); err == nil {
			high = capHigh(v)
		}
	case len(args) >= 2:
		if v, err := strconv.ParseInt(args[0], 10, 32); err == nil {
			if v < constants.RandomLowerLimit {
				v = constants.RandomLowerClamp
			}
			low = v
		}
		if v, err := strconv.ParseInt(args[1], 10, 32); err == nil {
			high = capHigh(v)
		}
	}

	if high < low {
		high = low
	}
	return low, high
}

func capHigh(v int64) int64 {
	if v >= constants.RandomUpperLimit {
		return constants.RandomUpperLimit
	}
	return v
}

func (b *Builtins) handleRandom(_ context.Context, msg bus.IncomingMessage, _ string, args []string) []string {
	low, high := DiceRange(args)
	n := low + b.rand.Int64N(high-low+1)
	return []string{fmt.Sprintf(constants.MsgAtFormat, msg.SenderID, fmt.Sprintf(constants.MsgDiceFormat, n))}
}
