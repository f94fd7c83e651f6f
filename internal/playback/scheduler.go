package playback

import (
	"image"
	"sync"
	"time"

	"partify/internal/framecache"

	"golang.org/x/image/draw"
)

// FrameDuration is the time each frame stays on screen.
const FrameDuration = 50 * time.Millisecond

// DefaultTickInterval is the nominal spacing of scheduling callbacks,
// roughly one display refresh.
const DefaultTickInterval = 16 * time.Millisecond

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// State is the scheduler's lifecycle state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Frame is delivered to listeners each time the visible frame changes.
// Image is the scheduler's preview surface and is overwritten on the next
// advance; listeners that keep it must copy it.
type Frame struct {
	Index  int
	Image  *image.NRGBA
	Width  int
	Height int
}

// Listener receives preview frames.
type Listener func(Frame)

// Handle identifies a registered listener.
type Handle uint64

// Options configures a Scheduler.
type Options struct {
	// Clock defaults to the system clock.
	Clock Clock
	// TickInterval is the nominal callback spacing. Half of it is added to
	// the elapsed time before rounding down to whole frames, which hides
	// callback jitter. Defaults to DefaultTickInterval.
	TickInterval time.Duration
	// Manual disables the internal ticker; the host calls Advance from its
	// own frame loop.
	Manual bool
}

// Scheduler advances through cached frames at a fixed cadence and pushes
// each new frame, cropped, to a preview surface and its listeners.
type Scheduler struct {
	clock  Clock
	tick   time.Duration
	manual bool

	mu      sync.Mutex
	state   State
	data    *framecache.Data
	preview *image.NRGBA
	index   int
	last    time.Time
	stop    chan struct{}
	done    chan struct{}

	listeners  map[Handle]Listener
	order      []Handle
	nextHandle Handle
}

// New creates an idle scheduler.
func New(opts Options) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	return &Scheduler{
		clock:     opts.Clock,
		tick:      opts.TickInterval,
		manual:    opts.Manual,
		listeners: make(map[Handle]Listener),
	}
}

// Start begins playback of data, stopping any previous loop first. The
// frame index and last-advance time carry over from the previous loop so
// the wobble phase does not visibly reset. It returns false and stays Idle
// when data is not ready.
func (s *Scheduler) Start(data *framecache.Data) bool {
	s.Stop()
	if data.Len() == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data
	s.index %= data.Len()
	if s.last.IsZero() {
		s.last = s.clock.Now()
	}
	r := data.Crop.Rect()
	s.preview = image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	s.state = Running

	if !s.manual {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.loop(s.stop, s.done)
	}
	return true
}

// Stop ends playback. It is safe to call repeatedly and returns only once
// the internal loop has exited. It must not be called from a Listener.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return
	}
	s.state = Idle
	s.data = nil
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

func (s *Scheduler) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Advance(s.clock.Now())
		}
	}
}

// Advance moves playback forward to now and returns how many frames
// elapsed. When at least one did, the new frame is copied to the preview
// surface and listeners are notified.
func (s *Scheduler) Advance(now time.Time) int {
	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return 0
	}

	elapsed := now.Sub(s.last) + s.tick/2
	frames := int(elapsed / FrameDuration)
	if frames <= 0 {
		s.mu.Unlock()
		return 0
	}
	s.last = s.last.Add(time.Duration(frames) * FrameDuration)
	s.index = (s.index + frames) % s.data.Len()

	src := s.data.Frames[s.index]
	draw.Draw(s.preview, s.preview.Bounds(), src, s.data.Crop.Rect().Min, draw.Src)
	fr := Frame{
		Index:  s.index,
		Image:  s.preview,
		Width:  s.preview.Bounds().Dx(),
		Height: s.preview.Bounds().Dy(),
	}
	listeners := make([]Listener, 0, len(s.order))
	for _, h := range s.order {
		listeners = append(listeners, s.listeners[h])
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(fr)
	}
	return frames
}

// OnReady registers l for every new preview frame.
func (s *Scheduler) OnReady(l Listener) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextHandle++
	h := s.nextHandle
	s.listeners[h] = l
	s.order = append(s.order, h)
	return h
}

// OnDestroy removes the listener registered under h. Unknown handles are
// ignored.
func (s *Scheduler) OnDestroy(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listeners[h]; !ok {
		return
	}
	delete(s.listeners, h)
	for i, o := range s.order {
		if o == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// State reports whether the scheduler is running.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Index is the current frame index.
func (s *Scheduler) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}
