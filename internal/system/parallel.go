package system

import (
	"runtime"
	"sync"

	"github.com/traum3rei/go-particles/internal/particle"
)

// workers returns how many goroutines to split n particles across
func (s *System) workers(n int) int {
	w := s.opts.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if limit := n / s.opts.MinChunk; w > limit {
		w = limit
	}
	return max(w, 1)
}

// parallel runs fn on every particle, one contiguous range per worker, and
// waits for all of them
func (s *System) parallel(fn func(p *particle.Particle)) {
	n := len(s.particles)
	if n == 0 {
		return
	}

	numWorkers := s.workers(n)
	if numWorkers == 1 {
		updateRange(s.particles, fn)
		return
	}

	perWorker := n / numWorkers
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := 0; i < numWorkers; i++ {
		start := i * perWorker
		end := start + perWorker
		if i == numWorkers-1 {
			end = n
		}

		go func(chunk []particle.Particle) {
			defer wg.Done()
			updateRange(chunk, fn)
		}(s.particles[start:end])
	}

	wg.Wait()
}

func updateRange(chunk []particle.Particle, fn func(p *particle.Particle)) {
	for i := range chunk {
		fn(&chunk[i])
	}
}
