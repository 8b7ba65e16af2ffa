package orders

import (
	"sync"
	"testing"
	"time"

	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
)

func TestNewStore(t *testing.T) {
	store := NewStore(NewState(VariantBranch, 10), nil)
	if store == nil {
		t.Fatal("NewStore() returned nil")
	}
	if store.logger == nil {
		t.Error("logger is nil")
	}
	if got := store.State().PageSize; got != 10 {
		t.Errorf("page size = %d, want 10", got)
	}
}

func TestStoreDispatchPublishes(t *testing.T) {
	store := NewStore(NewState(VariantBranch, 0), nil)
	id, ch := store.Subscribe()
	defer store.Unsubscribe(id)

	store.Dispatch(AddOrder{Order: testOrder("o1", orderstatus.Statuses.Pending)})

	select {
	case s := <-ch:
		if len(s.Orders) != 1 || s.Orders[0].ID != "o1" {
			t.Errorf("published orders = %+v", s.Orders)
		}
	case <-time.After(time.Second):
		t.Fatal("no state published")
	}
}

func TestStoreUnsubscribeClosesChannel(t *testing.T) {
	store := NewStore(NewState(VariantBranch, 0), nil)
	id, ch := store.Subscribe()

	store.Unsubscribe(id)
	store.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("channel still open after Unsubscribe")
	}
	store.Dispatch(SetPage{Page: 2})
}

func TestStoreSlowSubscriberDoesNotBlock(t *testing.T) {
	store := NewStore(NewState(VariantBranch, 0), nil)
	id, _ := store.Subscribe()
	defer store.Unsubscribe(id)

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			store.Dispatch(SetPage{Page: i + 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch blocked on a full subscriber")
	}
}

func TestStoreConcurrentDispatch(t *testing.T) {
	store := NewStore(NewState(VariantBranch, 0), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Dispatch(AddOrder{Order: testOrder(string(rune('A'+i)), orderstatus.Statuses.Pending)})
		}(i)
	}
	wg.Wait()

	if got := len(store.State().Orders); got != 50 {
		t.Errorf("orders = %d, want 50", got)
	}
}
