package upload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanChunks(t *testing.T) {
	tests := []struct {
		name      string
		dataLen   int
		partSize  int64
		wantSizes []int
	}{
		{
			name:      "short final chunk",
			dataLen:   10,
			partSize:  4,
			wantSizes: []int{4, 4, 2},
		},
		{
			name:      "exact multiple",
			dataLen:   8,
			partSize:  4,
			wantSizes: []int{4, 4},
		},
		{
			name:      "single chunk",
			dataLen:   3,
			partSize:  4,
			wantSizes: []int{3},
		},
		{
			name:      "payload equals part size",
			dataLen:   4,
			partSize:  4,
			wantSizes: []int{4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.dataLen)
			for i := range data {
				data[i] = byte(i)
			}

			chunks := planChunks(data, tt.partSize)
			require.Len(t, chunks, len(tt.wantSizes))

			var rebuilt bytes.Buffer
			for i, c := range chunks {
				assert.Equal(t, i+1, c.number)
				assert.Len(t, c.data, tt.wantSizes[i])
				rebuilt.Write(c.data)
			}

			// Concatenating the chunks in order must reproduce the payload.
			assert.Equal(t, data, rebuilt.Bytes())
		})
	}
}

func TestLinearBackOff(t *testing.T) {
	b := newLinearBackOff(100)

	assert.Equal(t, int64(100), int64(b.NextBackOff()))
	assert.Equal(t, int64(200), int64(b.NextBackOff()))
	assert.Equal(t, int64(300), int64(b.NextBackOff()))

	b.Reset()
	assert.Equal(t, int64(100), int64(b.NextBackOff()))
}
