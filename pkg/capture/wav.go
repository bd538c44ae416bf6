package capture

// assembleWAV concatenates buffered PCM chunks behind a standard 44-byte
// RIFF/WAVE header. Mono 16-bit PCM; the first chunk's sample rate wins.
func assembleWAV(chunks []Chunk) []byte {
	if len(chunks) == 0 {
		return nil
	}

	sampleRate := chunks[0].SampleRate
	if sampleRate == 0 {
		sampleRate = 44100
	}

	totalDataSize := 0
	for _, chunk := range chunks {
		totalDataSize += len(chunk.Data)
	}
	if totalDataSize == 0 {
		return nil
	}

	const (
		numChannels   = 1
		bitsPerSample = 16
	)

	byteRate := int(sampleRate) * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	wavSize := 44 + totalDataSize

	header := make([]byte, 44)

	// RIFF chunk descriptor
	copy(header[0:4], "RIFF")
	writeUint32LE(header[4:8], uint32(wavSize-8))
	copy(header[8:12], "WAVE")

	// fmt sub-chunk
	copy(header[12:16], "fmt ")
	writeUint32LE(header[16:20], 16) // PCM format chunk size
	writeUint16LE(header[20:22], 1)  // PCM format
	writeUint16LE(header[22:24], uint16(numChannels))
	writeUint32LE(header[24:28], uint32(sampleRate))
	writeUint32LE(header[28:32], uint32(byteRate))
	writeUint16LE(header[32:34], uint16(blockAlign))
	writeUint16LE(header[34:36], uint16(bitsPerSample))

	// data sub-chunk
	copy(header[36:40], "data")
	writeUint32LE(header[40:44], uint32(totalDataSize))

	wavData := make([]byte, 0, wavSize)
	wavData = append(wavData, header...)
	for _, chunk := range chunks {
		wavData = append(wavData, chunk.Data...)
	}
	return wavData
}

func writeUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func writeUint16LE(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
