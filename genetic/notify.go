package genetic

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/lixenwraith/mazega/genetic/tracking"
	"github.com/lixenwraith/mazega/maze"
	"github.com/lixenwraith/mazega/parameter"
)

// Progress is the once-per-generation notification sent to observers.
// Best.Path is detached from the population and shared by all observers; Maze is immutable. Neither may be mutated.
type Progress struct {
	RunID      uuid.UUID
	Generation int
	// Best is the best candidate of this generation
	Best      Candidate
	BestSoFar Record
	// Route is BestSoFar's walk as the evaluator scored it
	Route Route
	Stats     tracking.Stats
	Maze      *maze.Maze
	Axes      AxisConvention
	// Optimum is the evaluator's best reachable score
	Optimum float64
	// State is StateRunning for per-generation progress, terminal on the final notification
	State State
}

// Observer receives progress. Calls happen on a goroutine owned by the engine,
// one at a time per observer; a slow observer sees coalesced progress.
type Observer interface {
	Observe(Progress)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Progress)

func (f ObserverFunc) Observe(p Progress) { f(p) }

// mailbox delivers the newest undelivered progress to one observer
type mailbox struct {
	observer Observer
	ch       chan Progress
}

// notifier fans progress out without ever blocking the sender
type notifier struct {
	boxes   []mailbox
	wg      sync.WaitGroup
	dropped atomic.Uint64
	once    sync.Once
}

func newNotifier(observers []Observer) *notifier {
	n := &notifier{boxes: make([]mailbox, 0, len(observers))}
	for _, o := range observers {
		n.boxes = append(n.boxes, mailbox{observer: o, ch: make(chan Progress, parameter.GAMailboxSize)})
	}
	return n
}

func (n *notifier) start() {
	for _, b := range n.boxes {
		n.wg.Add(1)
		go func(b mailbox) {
			defer n.wg.Done()
			for p := range b.ch {
				b.observer.Observe(p)
			}
		}(b)
	}
}

// send replaces any stale progress the observer has not picked up yet
func (n *notifier) send(p Progress) {
	for _, b := range n.boxes {
		for {
			select {
			case b.ch <- p:
			default:
				select {
				case <-b.ch:
					n.dropped.Add(1)
				default:
				}
				continue
			}
			break
		}
	}
}

// close stops delivery after pending progress drains; only the sender may call it
func (n *notifier) close() {
	n.once.Do(func() {
		for _, b := range n.boxes {
			close(b.ch)
		}
	})
}

func (n *notifier) wait() {
	n.wg.Wait()
}
