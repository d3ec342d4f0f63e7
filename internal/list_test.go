package ucosm_internal

import "testing"

func testListOrder(t *testing.T, l *taskList, want []string) {
	got := make([]string, 0, len(want))
	for p := l.head.next; p != &l.tail; p = p.next {
		got = append(got, p.name)
	}
	if len(got) != len(want) {
		t.Fatalf("order: want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order: want %v, got %v", want, got)
		}
	}
}

func TestListPushFrontBack(t *testing.T) {
	l := newTaskList()
	a := &taskNode{name: "a"}
	b := &taskNode{name: "b"}
	c := &taskNode{name: "c"}

	l.PushBack(a)
	l.PushBack(b)
	l.PushFront(c)

	testListOrder(t, l, []string{"c", "a", "b"})

	if l.Front().name != "c" {
		t.Fatalf("Front: want %q, got %q", "c", l.Front().name)
	}
	if l.Back().name != "b" {
		t.Fatalf("Back: want %q, got %q", "b", l.Back().name)
	}
	if l.Len() != 3 {
		t.Fatalf("Len: want %d, got %d", 3, l.Len())
	}
}

func TestListErase(t *testing.T) {
	l := newTaskList()
	a := &taskNode{name: "a"}
	b := &taskNode{name: "b"}
	c := &taskNode{name: "c"}
	l.PushBack(a)
	l.PushBack(b)
	l.PushBack(c)

	l.Erase(b)
	testListOrder(t, l, []string{"a", "c"})
	if b.Linked() {
		t.Fatalf("erased node should no longer be linked")
	}

	// Erasing an already-erased node is a no-op.
	l.Erase(b)
	testListOrder(t, l, []string{"a", "c"})
}

func TestListEmptyPanicsOnFrontBack(t *testing.T) {
	l := newTaskList()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("Front on empty list should panic")
			}
		}()
		l.Front()
	}()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("Back on empty list should panic")
			}
		}()
		l.Back()
	}()
}

func TestRankListInsertOrder(t *testing.T) {
	rl := newRankList()
	for _, tc := range []struct {
		name string
		rank uint32
	}{
		{"d", 40},
		{"b", 20},
		{"a", 10},
		{"c", 30},
		{"e", 20}, // tie with b, should land after it
	} {
		rl.insert(&taskNode{name: tc.name, rank: tc.rank})
	}
	testListOrder(t, rl.taskList, []string{"a", "b", "e", "c", "d"})
}

func TestRankListReposition(t *testing.T) {
	rl := newRankList()
	nodes := map[string]*taskNode{}
	for _, tc := range []struct {
		name string
		rank uint32
	}{
		{"a", 10}, {"b", 20}, {"c", 30}, {"d", 40},
	} {
		n := &taskNode{name: tc.name, rank: tc.rank}
		nodes[tc.name] = n
		rl.insert(n)
	}

	// Move "a" past "b" and "c":
	rl.setRank(nodes["a"], 35)
	testListOrder(t, rl.taskList, []string{"b", "c", "a", "d"})

	// Move "d" to the front:
	rl.setRank(nodes["d"], 0)
	testListOrder(t, rl.taskList, []string{"d", "b", "c", "a"})
}

func TestRankLessWrapAware(t *testing.T) {
	const maxU32 = ^uint32(0)
	// Origin 0, ordinary case: 5 < 10.
	if !rankLess(0, 5, 10) {
		t.Fatal("rankLess(origin=0, 5, 10): want true")
	}
	// A rank just past overflow (5) should still be considered "after"
	// one just before it (maxU32), from an origin near the overflow point.
	if !rankLess(maxU32-1, maxU32, 5) {
		t.Fatal("rankLess across wraparound: want true")
	}
}
