package util

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrFull indica que o produtor alcançou o consumidor.
	ErrFull = errors.New("buffer circular cheio")
	// ErrEmpty indica que não há itens para consumir.
	ErrEmpty = errors.New("buffer circular vazio")
)

// RingBuffer é uma fila circular sem locks para um produtor e um consumidor.
// O thread de render publica estatísticas de frame sem bloquear; o gravador
// consome em lote na sua própria goroutine.
type RingBuffer[T any] struct {
	entries  []T
	mask     uint64
	producer atomic.Uint64
	consumer atomic.Uint64
	dropped  atomic.Uint64
}

// NewRingBuffer cria um buffer com a capacidade arredondada para potência de 2 (mínimo 2).
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	actual := 2
	for actual < capacity {
		actual <<= 1
	}
	return &RingBuffer[T]{
		entries: make([]T, actual),
		mask:    uint64(actual - 1),
	}
}

// Enqueue adiciona um item. Retorna ErrFull (e conta o descarte) se não houver espaço.
func (r *RingBuffer[T]) Enqueue(item T) error {
	next := r.producer.Load()
	if next-r.consumer.Load() >= uint64(len(r.entries)) {
		r.dropped.Add(1)
		return ErrFull
	}
	r.entries[next&r.mask] = item
	r.producer.Add(1)
	return nil
}

// Dequeue remove o item mais antigo.
func (r *RingBuffer[T]) Dequeue() (T, error) {
	var zero T
	c := r.consumer.Load()
	if c >= r.producer.Load() {
		return zero, ErrEmpty
	}
	item := r.entries[c&r.mask]
	r.entries[c&r.mask] = zero
	r.consumer.Add(1)
	return item, nil
}

// Drain consome todos os itens disponíveis, na ordem de chegada.
func (r *RingBuffer[T]) Drain(fn func(T)) int {
	n := 0
	for {
		item, err := r.Dequeue()
		if err != nil {
			return n
		}
		fn(item)
		n++
	}
}

// Len retorna o número de itens aguardando consumo.
func (r *RingBuffer[T]) Len() int {
	return int(r.producer.Load() - r.consumer.Load())
}

// Cap retorna a capacidade real do buffer.
func (r *RingBuffer[T]) Cap() int { return len(r.entries) }

// Dropped retorna quantos itens foram recusados por falta de espaço.
func (r *RingBuffer[T]) Dropped() uint64 { return r.dropped.Load() }
