package util

import (
	"runtime"
	"sync/atomic"
)

// SpinLock é uma exclusão mútua por espera ativa, para seções críticas muito curtas
// (ex: trocar o ponteiro do último frame publicado).
type SpinLock struct {
	state atomic.Int32
}

// Lock adquire o bloqueio.
func (s *SpinLock) Lock() {
	for !s.state.CompareAndSwap(0, 1) {
		runtime.Gosched()
	}
}

// Unlock libera o bloqueio.
func (s *SpinLock) Unlock() {
	s.state.Store(0)
}

// TryLock tenta adquirir o bloqueio sem esperar.
func (s *SpinLock) TryLock() bool {
	return s.state.CompareAndSwap(0, 1)
}

// Latest guarda o valor mais recente publicado por um produtor.
// Leitores sempre recebem a última versão completa.
type Latest[T any] struct {
	lock    SpinLock
	value   T
	version uint64
}

// Store publica um novo valor.
func (l *Latest[T]) Store(v T) uint64 {
	l.lock.Lock()
	l.value = v
	l.version++
	ver := l.version
	l.lock.Unlock()
	return ver
}

// Load retorna o valor atual e sua versão (0 = nada publicado).
func (l *Latest[T]) Load() (T, uint64) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.value, l.version
}
