package progress

import (
	"fmt"
	"sync"
	"time"
)

// Reporter handles progress reporting for tree scans.
// Walkers run concurrently, so implementations must be safe for concurrent use.
type Reporter interface {
	// SetTotal sets the number of roots that will be scanned
	SetTotal(totalRoots int)
	// StartRoot marks the beginning of a root scan
	StartRoot(root string)
	// Entry reports one classified entry recorded under root
	Entry(root, relPath string)
	// CompleteRoot marks a root scan as finished
	CompleteRoot(root string, entries int)
}

// Callback is a function that receives progress updates
type Callback func(update Update)

// Update represents a progress update
type Update struct {
	Type           UpdateType
	Root           string
	Path           string
	RootEntries    int
	EntriesTotal   int
	RootsCompleted int
	RootsTotal     int
	EntriesPerSec  float64
}

// UpdateType indicates the type of progress update
type UpdateType int

const (
	UpdateStart UpdateType = iota
	UpdateEntry
	UpdateComplete
)

// CallbackReporter implements Reporter with a callback function
type CallbackReporter struct {
	callback       Callback
	mu             sync.Mutex
	perRoot        map[string]int
	entriesTotal   int
	rootsTotal     int
	rootsCompleted int
	startTime      time.Time
}

// NewCallbackReporter creates a new CallbackReporter
func NewCallbackReporter(callback Callback) *CallbackReporter {
	return &CallbackReporter{
		callback:  callback,
		perRoot:   make(map[string]int),
		startTime: time.Now(),
	}
}

// SetTotal sets the total number of roots to scan
func (r *CallbackReporter) SetTotal(totalRoots int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rootsTotal = totalRoots
}

// StartRoot begins tracking a root scan
func (r *CallbackReporter) StartRoot(root string) {
	r.mu.Lock()
	r.perRoot[root] = 0
	update := r.snapshot(UpdateStart, root, "")
	callback := r.callback
	r.mu.Unlock()

	// Call callback outside lock to prevent deadlock
	if callback != nil {
		callback(update)
	}
}

// Entry reports one recorded entry
func (r *CallbackReporter) Entry(root, relPath string) {
	r.mu.Lock()
	r.perRoot[root]++
	r.entriesTotal++
	update := r.snapshot(UpdateEntry, root, relPath)
	callback := r.callback
	r.mu.Unlock()

	if callback != nil {
		callback(update)
	}
}

// CompleteRoot marks a root scan as finished
func (r *CallbackReporter) CompleteRoot(root string, entries int) {
	r.mu.Lock()
	r.rootsCompleted++
	r.perRoot[root] = entries
	update := r.snapshot(UpdateComplete, root, "")
	callback := r.callback
	r.mu.Unlock()

	if callback != nil {
		callback(update)
	}
}

// snapshot must be called with mu held
func (r *CallbackReporter) snapshot(t UpdateType, root, path string) Update {
	var perSec float64
	if elapsed := time.Since(r.startTime).Seconds(); elapsed > 0 {
		perSec = float64(r.entriesTotal) / elapsed
	}

	return Update{
		Type:           t,
		Root:           root,
		Path:           path,
		RootEntries:    r.perRoot[root],
		EntriesTotal:   r.entriesTotal,
		RootsCompleted: r.rootsCompleted,
		RootsTotal:     r.rootsTotal,
		EntriesPerSec:  perSec,
	}
}

// NullReporter is a no-op reporter
type NullReporter struct{}

func (NullReporter) SetTotal(totalRoots int)               {}
func (NullReporter) StartRoot(root string)                 {}
func (NullReporter) Entry(root, relPath string)            {}
func (NullReporter) CompleteRoot(root string, entries int) {}

// FormatProgress returns a progress bar string
func FormatProgress(current, total int64, width int) string {
	if total == 0 {
		return ""
	}

	percent := float64(current) / float64(total)
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}

	bar := make([]byte, width)
	for i := 0; i < width; i++ {
		if i < filled {
			bar[i] = '='
		} else if i == filled {
			bar[i] = '>'
		} else {
			bar[i] = ' '
		}
	}

	return fmt.Sprintf("[%s] %5.1f%%", string(bar), percent*100)
}

// FormatUpdate renders a one-line status for terminal output
func FormatUpdate(u Update) string {
	return fmt.Sprintf("%s %d/%d roots, %d entries (%.0f/s)",
		FormatProgress(int64(u.RootsCompleted), int64(u.RootsTotal), 20),
		u.RootsCompleted, u.RootsTotal, u.EntriesTotal, u.EntriesPerSec)
}
