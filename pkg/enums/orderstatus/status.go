package orderstatus

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTransition is returned when a status change is not present in the transition table.
var ErrInvalidTransition = errors.New("invalid status transition")

type Status string

func (s Status) Code() string {
	return string(s)
}

func (s Status) Label() string {
	parts := strings.Split(string(s), "_")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

type Enum struct {
	Requested    Status
	Pending      Status
	Approved     Status
	InProduction Status
	Completed    Status
	InTransit    Status
	Delivered    Status
	Cancelled    Status
	Stocked      Status
}

var Statuses = Enum{
	Requested:    "requested",
	Pending:      "pending",
	Approved:     "approved",
	InProduction: "in_production",
	Completed:    "completed",
	InTransit:    "in_transit",
	Delivered:    "delivered",
	Cancelled:    "cancelled",
	Stocked:      "stocked",
}

var All = []Status{
	Statuses.Requested,
	Statuses.Pending,
	Statuses.Approved,
	Statuses.InProduction,
	Statuses.Completed,
	Statuses.InTransit,
	Statuses.Delivered,
	Statuses.Cancelled,
	Statuses.Stocked,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if string(s) == name {
			return &s
		}
	}
	return nil
}

// transitions is closed: a pair missing here is rejected.
// completed -> stocked is only honoured for factory orders, see CanTransition.
var transitions = map[Status][]Status{
	Statuses.Requested:    {Statuses.Pending, Statuses.Approved, Statuses.Cancelled},
	Statuses.Pending:      {Statuses.Approved, Statuses.InProduction, Statuses.Cancelled},
	Statuses.Approved:     {Statuses.InProduction, Statuses.Cancelled},
	Statuses.InProduction: {Statuses.Completed, Statuses.Cancelled},
	Statuses.Completed:    {Statuses.InTransit, Statuses.Stocked},
	Statuses.InTransit:    {Statuses.Delivered},
	Statuses.Delivered:    {},
	Statuses.Cancelled:    {},
	Statuses.Stocked:      {},
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to Status, factory bool) bool {
	if to == Statuses.Stocked && !factory {
		return false
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition returns ErrInvalidTransition when from -> to is not allowed.
func Transition(from, to Status, factory bool) error {
	if !CanTransition(from, to, factory) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	targets, ok := transitions[s]
	return ok && len(targets) == 0
}

// BeforeCompletion reports whether s precedes completed in the production flow.
func (s Status) BeforeCompletion() bool {
	switch s {
	case Statuses.Requested, Statuses.Pending, Statuses.Approved, Statuses.InProduction:
		return true
	}
	return false
}

// BeforeProduction reports whether s precedes in_production.
func (s Status) BeforeProduction() bool {
	switch s {
	case Statuses.Requested, Statuses.Pending, Statuses.Approved:
		return true
	}
	return false
}
