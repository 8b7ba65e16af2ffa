package orderstatus

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		factory bool
		want    bool
	}{
		{name: "requestedToApproved", from: Statuses.Requested, to: Statuses.Approved, want: true},
		{name: "pendingToInProduction", from: Statuses.Pending, to: Statuses.InProduction, want: true},
		{name: "approvedToCompleted", from: Statuses.Approved, to: Statuses.Completed, want: false},
		{name: "completedToInTransit", from: Statuses.Completed, to: Statuses.InTransit, want: true},
		{name: "inTransitToDelivered", from: Statuses.InTransit, to: Statuses.Delivered, want: true},
		{name: "deliveredIsTerminal", from: Statuses.Delivered, to: Statuses.Cancelled, want: false},
		{name: "stockedBranch", from: Statuses.Completed, to: Statuses.Stocked, want: false},
		{name: "stockedFactory", from: Statuses.Completed, to: Statuses.Stocked, factory: true, want: true},
		{name: "sameStatus", from: Statuses.Pending, to: Statuses.Pending, want: false},
		{name: "unknownSource", from: Status("bogus"), to: Statuses.Pending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to, tt.factory); got != tt.want {
				t.Fatalf("CanTransition(%s, %s, %v) = %v, want %v", tt.from, tt.to, tt.factory, got, tt.want)
			}
		})
	}
}

func TestTransition(t *testing.T) {
	if err := Transition(Statuses.Pending, Statuses.Approved, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Transition(Statuses.Cancelled, Statuses.Pending, false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range All {
		want := s == Statuses.Delivered || s == Statuses.Cancelled || s == Statuses.Stocked
		if got := s.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", s, got, want)
		}
	}
}

func TestByName(t *testing.T) {
	if s := ByName("in_production"); s == nil || *s != Statuses.InProduction {
		t.Fatalf("unexpected status %v", s)
	}
	if s := ByName("nope"); s != nil {
		t.Fatalf("expected nil, got %v", *s)
	}
}
