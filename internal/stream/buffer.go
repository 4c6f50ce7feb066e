package stream

import (
	"sync"
)

// Buffer holds the most recent annotated frame for the live preview.
// Writers replace the frame; readers get the latest available copy.
type Buffer struct {
	mu    sync.RWMutex
	frame []byte
	seq   uint64
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Set replaces the current frame.
func (b *Buffer) Set(frame []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frame = frame
	b.seq++
}

// Latest returns the current frame and its sequence number. The frame is
// nil until the first Set. Callers must not modify the returned slice.
func (b *Buffer) Latest() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.frame, b.seq
}
