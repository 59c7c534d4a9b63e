package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chihoong/discord-summarizer-bot/src/types"
)

// Bounds for the numeric arguments. Out-of-range values are clamped to the
// nearest bound rather than rejected.
const (
	MinHours = 1
	MaxHours = 168
	MinLimit = 1
	MaxLimit = 500
)

// Defaults fill omitted arguments.
type Defaults struct {
	Hours int
	Limit int
	Style types.Style
}

// Channel identifies the invoking channel, used when the command names no
// explicit target.
type Channel struct {
	ID   string
	Name string
}

// ChannelResolver maps a channel reference token (name, #name or <#id>
// mention) to a channel ID and display name.
type ChannelResolver func(ref string) (id string, name string, err error)

// ValidationError reports a user-correctable command mistake.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Parse turns raw command text into a resolved SummaryRequest. Two shapes are
// recognized: "summarize [hours] [limit] [style]" targeting the invoking
// channel, and "summarize_channel <channel> [hours] [limit] [style]" with the
// channel resolved through the callback. The keyword is matched
// case-insensitively with or without the "!" prefix.
func Parse(raw string, invoking Channel, defaults Defaults, resolve ChannelResolver) (*types.SummaryRequest, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, &ValidationError{Reason: "empty command"}
	}

	keyword := strings.ToLower(strings.TrimPrefix(fields[0], "!"))
	args := fields[1:]

	req := &types.SummaryRequest{
		ChannelID:    invoking.ID,
		ChannelName:  invoking.Name,
		HoursBack:    defaults.Hours,
		MessageLimit: defaults.Limit,
		Style:        defaults.Style,
	}

	switch keyword {
	case "summarize":
	case "summarize_channel":
		if len(args) == 0 {
			return nil, &ValidationError{Reason: "missing channel argument"}
		}
		if resolve == nil {
			return nil, &ValidationError{Reason: "channel not found"}
		}
		id, name, err := resolve(args[0])
		if err != nil {
			return nil, &ValidationError{Reason: "channel not found"}
		}
		req.ChannelID = id
		req.ChannelName = name
		args = args[1:]
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown command %q", keyword)}
	}

	if len(args) > 3 {
		return nil, &ValidationError{Reason: "too many arguments"}
	}

	if len(args) > 0 {
		hours, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, &ValidationError{Reason: "not a number"}
		}
		req.HoursBack = clamp(hours, MinHours, MaxHours)
	}
	if len(args) > 1 {
		limit, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, &ValidationError{Reason: "not a number"}
		}
		req.MessageLimit = clamp(limit, MinLimit, MaxLimit)
	}
	if len(args) > 2 {
		style, ok := types.ParseStyle(args[2])
		if !ok {
			return nil, &ValidationError{Reason: "unrecognized style"}
		}
		req.Style = style
	}

	return req, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
