package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/jobgrid/internal/process"
)

// Behavior scripts how FakeSpawner handles one command.
type Behavior struct {
	// Sleep is how long the fake process "runs".
	Sleep time.Duration
	// Exit is returned once the process is done. The zero value is success.
	Exit process.Exit
	// Block, when set, keeps the process running until it is closed.
	Block <-chan struct{}
	// Panic makes Spawn panic instead of returning.
	Panic bool
}

// FakeSpawner is a process.Spawner that never starts a real process. It
// identifies a process by the last element of its argv, which for shell
// commands is the command string itself, and records when each one ran.
type FakeSpawner struct {
	mu         sync.Mutex
	behaviors  map[string]Behavior
	fallback   Behavior
	records    map[string]*ExecutionRecord
	started    []string
	specs      map[string]process.Spec
	running    int
	maxRunning int
	// notify receives the command of every spawn when non-nil.
	notify chan<- string
}

var _ process.Spawner = (*FakeSpawner)(nil)

// NewFakeSpawner returns a spawner whose processes succeed immediately
// unless configured otherwise.
func NewFakeSpawner() *FakeSpawner {
	return &FakeSpawner{
		behaviors: make(map[string]Behavior),
		records:   make(map[string]*ExecutionRecord),
		specs:     make(map[string]process.Spec),
	}
}

// On sets the behavior for one command.
func (f *FakeSpawner) On(command string, b Behavior) *FakeSpawner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.behaviors[command] = b
	return f
}

// Default sets the behavior of commands without their own.
func (f *FakeSpawner) Default(b Behavior) *FakeSpawner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = b
	return f
}

// Notify makes every spawn send its command to ch before it "runs".
func (f *FakeSpawner) Notify(ch chan<- string) *FakeSpawner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notify = ch
	return f
}

// Spawn implements process.Spawner.
func (f *FakeSpawner) Spawn(_ context.Context, spec process.Spec) process.Exit {
	key := ""
	if len(spec.Args) > 0 {
		key = spec.Args[len(spec.Args)-1]
	}

	f.mu.Lock()
	b, ok := f.behaviors[key]
	if !ok {
		b = f.fallback
	}
	f.started = append(f.started, key)
	f.specs[key] = spec
	f.running++
	if f.running > f.maxRunning {
		f.maxRunning = f.running
	}
	notify := f.notify
	start := time.Now()
	f.mu.Unlock()

	if notify != nil {
		notify <- key
	}
	if b.Sleep > 0 {
		time.Sleep(b.Sleep)
	}
	if b.Block != nil {
		<-b.Block
	}

	f.mu.Lock()
	f.running--
	f.records[key] = &ExecutionRecord{Start: start, End: time.Now()}
	f.mu.Unlock()

	if b.Panic {
		panic("fake spawner: scripted panic for " + key)
	}
	return b.Exit
}

// Started returns the commands in the order they were spawned.
func (f *FakeSpawner) Started() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.started...)
}

// Ran reports whether the command was spawned.
func (f *FakeSpawner) Ran(command string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.specs[command]
	return ok
}

// Spec returns the spec a command was spawned with.
func (f *FakeSpawner) Spec(command string) (process.Spec, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.specs[command]
	return s, ok
}

// Record returns the execution interval of a finished command.
func (f *FakeSpawner) Record(command string) (ExecutionRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[command]
	if !ok {
		return ExecutionRecord{}, false
	}
	return *r, true
}

// MaxConcurrent returns the highest number of simultaneously running fake
// processes.
func (f *FakeSpawner) MaxConcurrent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxRunning
}
