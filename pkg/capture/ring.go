package capture

import (
	"encoding/binary"

	"github.com/smallnest/ringbuffer"
)

// chunkBuffer stores size-prefixed chunk frames in a fixed ring buffer.
// When full it drops the oldest frames so a long recording keeps the tail.
type chunkBuffer struct {
	size int
	rb   *ringbuffer.RingBuffer
}

func newChunkBuffer(size int) *chunkBuffer {
	return &chunkBuffer{
		size: size,
		rb:   ringbuffer.New(size),
	}
}

func (b *chunkBuffer) Capacity() int {
	return b.size
}

func (b *chunkBuffer) Enqueue(c Chunk) error {
	data, err := c.MarshalBinary()
	if err != nil {
		return err
	}

	requiredSpace := len(data) + 4
	if requiredSpace > b.rb.Capacity() {
		return ErrFrameTooLarge
	}

	// Make space by removing old frames if necessary
	for b.rb.Free() < requiredSpace {
		if !b.removeOldestFrame() {
			b.rb.Reset()
			break
		}
	}

	sizeBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(sizeBytes, uint32(len(data)))
	if _, err := b.rb.Write(sizeBytes); err != nil {
		return err
	}
	_, err = b.rb.Write(data)
	return err
}

func (b *chunkBuffer) Dequeue() (Chunk, bool) {
	if b.rb.IsEmpty() {
		return Chunk{}, false
	}

	sizeBytes := make([]byte, 4)
	n, err := b.rb.Read(sizeBytes)
	if err != nil || n != 4 {
		return Chunk{}, false
	}
	size := int(binary.LittleEndian.Uint32(sizeBytes))

	data := make([]byte, size)
	n, err = b.rb.Read(data)
	if err != nil || n != size {
		return Chunk{}, false
	}

	var chunk Chunk
	if err := chunk.UnmarshalBinary(data); err != nil {
		return Chunk{}, false
	}
	return chunk, true
}

func (b *chunkBuffer) removeOldestFrame() bool {
	sizeBytes := make([]byte, 4)
	n, err := b.rb.Read(sizeBytes)
	if err != nil || n != 4 {
		return false
	}
	size := int(binary.LittleEndian.Uint32(sizeBytes))
	if size <= 0 || size > b.rb.Capacity() {
		return false
	}
	discard := make([]byte, size)
	n, err = b.rb.Read(discard)
	return err == nil && n == size
}

func (b *chunkBuffer) Reset() {
	b.rb.Reset()
}
