package meshing

import (
	"context"
	"runtime"
	"sync"
)

// Job asks for the faces of chunk (X, Z). The volumes must not change until
// the job's result is delivered.
type Job struct {
	X, Z         int
	Cur          Volume
	PrevX, PrevZ Volume
	MaxFaces     int
}

// Result is the outcome of one Job.
type Result struct {
	X, Z int
	Mesh *Mesh
	Err  error
}

type task struct {
	job Job
	out *Result
	wg  *sync.WaitGroup
}

// WorkerPool builds meshes on a fixed set of goroutines.
type WorkerPool struct {
	jobQueue chan task
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool starts workers goroutines; workers <= 0 uses one per CPU.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		jobQueue: make(chan task, workers*2),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case t := <-p.jobQueue:
			t.run()
		case <-p.ctx.Done():
			return
		}
	}
}

func (t task) run() {
	defer t.wg.Done()
	faces, err := BuildFaces(t.job.Cur, t.job.PrevX, t.job.PrevZ, t.job.MaxFaces)
	*t.out = Result{X: t.job.X, Z: t.job.Z, Err: err}
	if err == nil {
		t.out.Mesh = NewMesh(t.job.X, t.job.Z, faces)
	}
}

// Build runs jobs and returns their results in job order. A single job is
// built on the calling goroutine. Jobs not yet started when ctx is done or
// the pool shuts down report the context error. After Shutdown every job
// fails with context.Canceled.
func (p *WorkerPool) Build(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if err := p.ctx.Err(); err != nil {
		for i, job := range jobs {
			results[i] = Result{X: job.X, Z: job.Z, Err: err}
		}
		return results
	}
	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for i, job := range jobs {
		t := task{job: job, out: &results[i], wg: &wg}
		if len(jobs) == 1 {
			t.run()
			continue
		}
		select {
		case p.jobQueue <- t:
		case <-ctx.Done():
			results[i] = Result{X: job.X, Z: job.Z, Err: ctx.Err()}
			wg.Done()
		case <-p.ctx.Done():
			results[i] = Result{X: job.X, Z: job.Z, Err: p.ctx.Err()}
			wg.Done()
		}
	}
	wg.Wait()
	return results
}

// Shutdown stops the workers. Build must not be called concurrently with
// Shutdown.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
