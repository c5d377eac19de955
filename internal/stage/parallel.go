package stage

import "sync"

// runIndexedParallel executes fn for indices [0,n) using a worker pool and
// returns results at the index they were computed for.
func runIndexedParallel[T any](n, workers int, fn func(int) T) []T {
	out := make([]T, n)
	if n == 0 {
		return out
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			out[i] = fn(i)
		}
		return out
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for idx := range jobs {
			out[idx] = fn(idx)
		}
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go worker()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}

// workerCount returns the configured worker count, at least one.
func workerCount(configured int) int {
	if configured < 1 {
		return 1
	}
	return configured
}
