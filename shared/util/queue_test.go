package util

import "testing"

func TestUniqueQueueLastWriteWins(t *testing.T) {
	q := NewUniqueQueue[string, int]()

	if !q.Enqueue("a", 1) {
		t.Fatalf("primeiro Enqueue(a) deveria ser novo")
	}
	q.Enqueue("b", 2)
	if q.Enqueue("a", 3) {
		t.Errorf("Enqueue(a) repetido deveria atualizar, não inserir")
	}
	if got := q.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	k, v, ok := q.Dequeue()
	if !ok || k != "a" || v != 3 {
		t.Errorf("Dequeue() = (%q, %d, %v), want (a, 3, true)", k, v, ok)
	}
	if q.Contains("a") {
		t.Errorf("Contains(a) = true após Dequeue")
	}

	// b deve continuar acessível pela posição correta depois da reindexação
	q.Enqueue("b", 4)
	k, v, _ = q.Dequeue()
	if k != "b" || v != 4 {
		t.Errorf("Dequeue() = (%q, %d), want (b, 4)", k, v)
	}
	if _, _, ok := q.Dequeue(); ok {
		t.Errorf("Dequeue() em fila vazia retornou ok")
	}
}

func TestUniqueQueueDrainOrder(t *testing.T) {
	q := NewUniqueQueue[int, string]()
	q.Enqueue(3, "c")
	q.Enqueue(1, "a")
	q.Enqueue(3, "C")
	q.Enqueue(2, "b")

	var keys []int
	var values []string
	n := q.Drain(func(k int, v string) {
		keys = append(keys, k)
		values = append(values, v)
	})

	if n != 3 {
		t.Fatalf("Drain() = %d, want 3", n)
	}
	wantKeys := []int{3, 1, 2}
	wantValues := []string{"C", "a", "b"}
	for i := range wantKeys {
		if keys[i] != wantKeys[i] || values[i] != wantValues[i] {
			t.Errorf("item %d = (%d, %q), want (%d, %q)", i, keys[i], values[i], wantKeys[i], wantValues[i])
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d após Drain, want 0", q.Len())
	}
}
