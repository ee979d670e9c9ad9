package upload

// chunk is one contiguous slice of the payload, numbered from 1.
type chunk struct {
	number int
	data   []byte
}

// planChunks partitions the payload into consecutive partSize-byte
// chunks; the final chunk may be shorter. Part numbers are assigned
// positionally starting at 1. The chunk data aliases the payload, no
// copies are made.
func planChunks(data []byte, partSize int64) []chunk {
	total := int64(len(data))
	chunks := make([]chunk, 0, (total+partSize-1)/partSize)

	for offset := int64(0); offset < total; offset += partSize {
		end := offset + partSize
		if end > total {
			end = total
		}

		chunks = append(chunks, chunk{
			number: len(chunks) + 1,
			data:   data[offset:end],
		})
	}

	return chunks
}
