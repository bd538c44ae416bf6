package capture

import (
	"encoding/binary"
	"time"
)

// Chunk is one buffered audio frame received from a client while recording.
type Chunk struct {
	Data       []byte
	Timestamp  time.Time
	SampleRate int32
	Channels   int16
}

const chunkHeaderSize = 8 + 4 + 2 + 4 // timestamp + sampleRate + channels + dataLen

func (c *Chunk) MarshalBinary() ([]byte, error) {
	buf := make([]byte, chunkHeaderSize+len(c.Data))

	offset := 0
	binary.LittleEndian.PutUint64(buf[offset:], uint64(c.Timestamp.UnixNano()))
	offset += 8

	binary.LittleEndian.PutUint32(buf[offset:], uint32(c.SampleRate))
	offset += 4

	binary.LittleEndian.PutUint16(buf[offset:], uint16(c.Channels))
	offset += 2

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(c.Data)))
	offset += 4

	copy(buf[offset:], c.Data)
	return buf, nil
}

func (c *Chunk) UnmarshalBinary(data []byte) error {
	if len(data) < chunkHeaderSize {
		return ErrCorruptFrame
	}

	offset := 0
	c.Timestamp = time.Unix(0, int64(binary.LittleEndian.Uint64(data[offset:])))
	offset += 8

	c.SampleRate = int32(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4

	c.Channels = int16(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2

	dataLen := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4

	if len(data) < offset+dataLen {
		return ErrCorruptFrame
	}
	c.Data = make([]byte, dataLen)
	copy(c.Data, data[offset:offset+dataLen])
	return nil
}
