package fluid

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// parallelThreshold is the minimum particle count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// phase identifies which chunk kernel a worker should run.
type phase int

const (
	phasePrepare phase = iota
	phasePressure
	phaseForce
	phaseCollide
)

// workChunk is a range of the active list for a worker to process.
type workChunk struct {
	phase      phase
	start, end int
}

// workerScratch holds per-worker displacement accumulators. Each worker sums
// pair displacements locally during the force phase and merges once at the
// end of its chunk, so workers never write a shared slot concurrently.
type workerScratch struct {
	delta   []r2.Vec
	touched []int32
}

func (ws *workerScratch) add(i int32, d r2.Vec) {
	cur := ws.delta[i]
	if cur.X == 0 && cur.Y == 0 {
		ws.touched = append(ws.touched, i)
	}
	ws.delta[i] = r2.Add(cur, d)
}

// parallelState holds the persistent worker pool shared by all parallel
// phases of a tick.
type parallelState struct {
	scratches  []workerScratch
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running

	mergeMu sync.Mutex // guards the shared delta buffer during merges
}

func newParallelState(workers, capacity int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	scratches := make([]workerScratch, workers)
	for i := range scratches {
		scratches[i].delta = make([]r2.Vec, capacity)
		scratches[i].touched = make([]int32, 0, 256)
	}
	return &parallelState{
		numWorkers: workers,
		scratches:  scratches,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(s *Sim) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(s *Sim, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.runChunk(chunk, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// runParallel executes one phase over the n active particles and blocks until
// every chunk has completed. Small populations run inline on the caller.
func (s *Sim) runParallel(ph phase, n int) {
	if n < parallelThreshold {
		s.runChunk(workChunk{phase: ph, start: 0, end: n}, &s.par.scratches[0])
		return
	}

	if !s.par.running {
		s.par.startWorkers(s)
	}

	numWorkers := s.par.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		s.par.workChan <- workChunk{phase: ph, start: start, end: end}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-s.par.doneChan
	}
}

// runChunk dispatches a chunk to its phase kernel.
func (s *Sim) runChunk(c workChunk, scratch *workerScratch) {
	switch c.phase {
	case phasePrepare:
		s.prepareChunk(c.start, c.end)
	case phasePressure:
		s.pressureChunk(c.start, c.end)
	case phaseForce:
		s.forceChunk(c.start, c.end, scratch)
	case phaseCollide:
		s.collideChunk(c.start, c.end)
	}
}

// mergeScratch folds a worker's local displacements into the shared delta
// buffer. Called once per worker per force phase, inside the phase barrier.
func (s *Sim) mergeScratch(scratch *workerScratch) {
	s.par.mergeMu.Lock()
	for _, i := range scratch.touched {
		s.delta[i] = r2.Add(s.delta[i], scratch.delta[i])
		scratch.delta[i] = r2.Vec{}
	}
	s.par.mergeMu.Unlock()
	scratch.touched = scratch.touched[:0]
}
