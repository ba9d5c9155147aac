package queue

import (
	"sync"
	"testing"
)

// testItem is a simple struct for testing the generic queue
type testItem struct {
	ID   int
	Name string
}

func TestQueue_New(t *testing.T) {
	q := New[testItem](4)
	if q == nil {
		t.Fatal("expected non-nil queue")
	}
	if !q.Empty() {
		t.Error("expected empty queue")
	}
	if q.Cap() != 4 {
		t.Errorf("expected capacity 4, got %d", q.Cap())
	}
}

func TestQueue_NewMinimumCapacity(t *testing.T) {
	q := New[int](0)
	if q.Cap() != 1 {
		t.Errorf("expected capacity 1, got %d", q.Cap())
	}
}

func TestQueue_Pop(t *testing.T) {
	q := New[testItem](4)

	if _, ok := q.Pop(); ok {
		t.Error("expected empty pop to report !ok")
	}

	q.Push(testItem{ID: 1, Name: "first"}, testItem{ID: 2, Name: "second"})
	first, ok := q.Pop()
	if !ok || first.ID != 1 || first.Name != "first" {
		t.Errorf("expected {1, first}, got %+v (ok=%v)", first, ok)
	}
	if q.Len() != 1 {
		t.Errorf("expected length 1, got %d", q.Len())
	}
}

func TestQueue_OverwritesOldest(t *testing.T) {
	q := New[int](3)
	q.Push(1, 2, 3, 4, 5)

	if q.Len() != 3 {
		t.Fatalf("expected length 3, got %d", q.Len())
	}
	if q.Dropped() != 2 {
		t.Errorf("expected 2 dropped, got %d", q.Dropped())
	}
	got := q.GetAndEmpty()
	want := []int{3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestQueue_WrapAround(t *testing.T) {
	q := New[int](3)
	q.Push(1, 2)
	q.Pop()
	q.Push(3, 4)

	var got []int
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 2 || got[1] != 3 || got[2] != 4 {
		t.Errorf("expected [2 3 4], got %v", got)
	}
}

func TestQueue_Clear(t *testing.T) {
	q := New[testItem](4)
	q.Push(testItem{ID: 1}, testItem{ID: 2})
	q.Clear()
	if !q.Empty() {
		t.Error("expected empty queue after clear")
	}
	q.Push(testItem{ID: 3})
	v, _ := q.Pop()
	if v.ID != 3 {
		t.Errorf("expected ID 3 after clear, got %d", v.ID)
	}
}

func TestQueue_GetAndEmpty(t *testing.T) {
	q := New[testItem](8)
	if items := q.GetAndEmpty(); len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}

	q.Push(testItem{ID: 1}, testItem{ID: 2}, testItem{ID: 3})
	items := q.GetAndEmpty()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != 1 || items[2].ID != 3 {
		t.Errorf("unexpected order: %+v", items)
	}
	if !q.Empty() {
		t.Error("expected empty queue")
	}
}

func TestQueue_Concurrent(t *testing.T) {
	q := New[int](1000)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(base*100 + j)
			}
		}(i)
	}
	wg.Wait()

	if q.Len() != 1000 {
		t.Errorf("expected 1000 items, got %d", q.Len())
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Pop()
			}
		}()
	}
	wg.Wait()

	if !q.Empty() {
		t.Errorf("expected empty queue, got %d items", q.Len())
	}
}
