package notify

import (
	"testing"
	"time"
)

func TestListAddSuppressesDuplicates(t *testing.T) {
	l := NewList(nil)

	if !l.Add(Notification{ID: "n1", Message: "first"}) {
		t.Fatal("first Add() = false")
	}
	if l.Add(Notification{ID: "n1", Message: "again"}) {
		t.Error("duplicate Add() = true")
	}
	l.Add(Notification{ID: "n2"})

	all := l.All()
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].ID != "n2" || all[1].Message != "first" {
		t.Errorf("list = %+v, want newest first and first copy kept", all)
	}
}

func TestListReadState(t *testing.T) {
	l := NewList(nil)
	l.Add(Notification{ID: "n1"})
	l.Add(Notification{ID: "n2"})
	l.Add(Notification{ID: "n3"})

	if got := l.Unread(); got != 3 {
		t.Fatalf("Unread() = %d, want 3", got)
	}
	if !l.MarkRead("n2") {
		t.Error("MarkRead(n2) = false")
	}
	if l.MarkRead("missing") {
		t.Error("MarkRead(missing) = true")
	}
	if got := l.Unread(); got != 2 {
		t.Errorf("Unread() = %d, want 2", got)
	}
	if got := l.MarkAllRead(); got != 2 {
		t.Errorf("MarkAllRead() = %d, want 2", got)
	}
	if got := l.Unread(); got != 0 {
		t.Errorf("Unread() = %d, want 0", got)
	}
}

func TestListAllReturnsCopy(t *testing.T) {
	l := NewList(nil)
	l.Add(Notification{ID: "n1"})

	all := l.All()
	all[0].Read = true

	if l.Unread() != 1 {
		t.Error("mutating All() result changed the list")
	}
}

func TestListSubscribe(t *testing.T) {
	l := NewList(nil)
	id, ch := l.Subscribe()

	l.Add(Notification{ID: "n1"})
	l.Add(Notification{ID: "n1"})

	select {
	case n := <-ch:
		if n.ID != "n1" {
			t.Errorf("received %q", n.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("no toast delivered")
	}
	select {
	case n := <-ch:
		t.Errorf("duplicate delivered: %q", n.ID)
	default:
	}

	l.Unsubscribe(id)
	if _, ok := <-ch; ok {
		t.Error("channel open after Unsubscribe")
	}
}
