package bitwise

// Chunks splits data into consecutive slices of size bytes. The final chunk
// is shorter when len(data) is not a multiple of size. The returned slices
// alias data.
func Chunks(data []byte, size int) [][]byte {
	if size <= 0 || len(data) == 0 {
		return nil
	}
	chunks := make([][]byte, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := min(start+size, len(data))
		chunks = append(chunks, data[start:end:end])
	}
	return chunks
}

// Transpose arranges data into size columns where column j holds byte j of
// every full chunk, in chunk order. A trailing partial chunk is dropped so
// that all columns have the same length.
func Transpose(data []byte, size int) [][]byte {
	if size <= 0 {
		return nil
	}
	rows := len(data) / size
	columns := make([][]byte, size)
	for j := range columns {
		column := make([]byte, rows)
		for i := 0; i < rows; i++ {
			column[i] = data[i*size+j]
		}
		columns[j] = column
	}
	return columns
}

// RepeatedBlocks counts how many full size-byte blocks of data duplicate an
// earlier block.
func RepeatedBlocks(data []byte, size int) int {
	if size <= 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(data)/size)
	repeats := 0
	for start := 0; start+size <= len(data); start += size {
		block := string(data[start : start+size])
		if _, ok := seen[block]; ok {
			repeats++
			continue
		}
		seen[block] = struct{}{}
	}
	return repeats
}

// HasRepeatedBlocks reports whether any full block of data occurs twice.
func HasRepeatedBlocks(data []byte, size int) bool {
	return RepeatedBlocks(data, size) > 0
}
