package termplay

import (
	"encoding/base64"
	"sync"
)

const (
	// chunkSize is the number of base64 characters per kitty transmission
	// chunk.
	chunkSize = 4096
	// rawChunkSize is the raw byte count that encodes to exactly chunkSize
	// base64 characters, so concatenating chunk payloads reproduces one
	// contiguous base64 stream.
	rawChunkSize = 3 * chunkSize / 4

	// encodeWorkers bounds the goroutines used for large payloads.
	encodeWorkers = 4
)

// Encoder buffers are pooled; payloads recur at similar sizes during
// animation playback.
var base64BufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, chunkSize)
		return &buf
	},
}

// base64Encode encodes src with buffer reuse.
func base64Encode(src []byte) string {
	bufPtr := base64BufPool.Get().(*[]byte)
	defer base64BufPool.Put(bufPtr)

	n := base64.StdEncoding.EncodedLen(len(src))
	if cap(*bufPtr) < n {
		*bufPtr = make([]byte, n)
	} else {
		*bufPtr = (*bufPtr)[:n]
	}
	base64.StdEncoding.Encode(*bufPtr, src)
	return string(*bufPtr)
}

// chunkedBase64 encodes data and splits it into chunks of chunkSize base64
// characters (the final chunk may be shorter). Large payloads are encoded
// with a small worker pool.
func chunkedBase64(data []byte) []string {
	numChunks := (len(data) + rawChunkSize - 1) / rawChunkSize
	if numChunks == 0 {
		return nil
	}
	if numChunks <= 2 {
		results := make([]string, 0, numChunks)
		for i := 0; i < len(data); i += rawChunkSize {
			end := min(i+rawChunkSize, len(data))
			results = append(results, base64Encode(data[i:end]))
		}
		return results
	}

	results := make([]string, numChunks)
	jobs := make(chan int, numChunks)
	var wg sync.WaitGroup
	for w := 0; w < min(numChunks, encodeWorkers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				start := idx * rawChunkSize
				end := min(start+rawChunkSize, len(data))
				results[idx] = base64Encode(data[start:end])
			}
		}()
	}
	for i := 0; i < numChunks; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
