package catalog

import "sync"

// minChunk keeps tiny collections from being split into many goroutines.
const minChunk = 64

type span struct{ lo, hi int }

func chunkRanges(n, workers int) []span {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	size := (n + workers*4 - 1) / (workers * 4)
	if size < minChunk {
		size = minChunk
	}
	spans := make([]span, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		spans = append(spans, span{lo, hi})
	}
	return spans
}

// fanOut splits [0, n) into contiguous ranges, runs work over them on a
// worker pool and returns the partial results in range order, so merging
// them reproduces a sequential scan.
func fanOut[T any](n, workers int, work func(lo, hi int) T) []T {
	spans := chunkRanges(n, workers)
	results := make([]T, len(spans))
	if len(spans) == 0 {
		return results
	}
	if len(spans) == 1 {
		results[0] = work(spans[0].lo, spans[0].hi)
		return results
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(spans) {
		workers = len(spans)
	}

	spanChan := make(chan int, len(spans))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range spanChan {
				s := spans[idx]
				results[idx] = work(s.lo, s.hi)
			}
		}()
	}

	for i := range spans {
		spanChan <- i
	}
	close(spanChan)
	wg.Wait()

	return results
}
