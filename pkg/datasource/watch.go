package datasource

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bascanada/logexplorer/pkg/log"
)

const defaultQuietPeriod = 200 * time.Millisecond

// Watcher signals changes of a file datasource. A burst of events is
// reported once, after the file has been quiet for the quiet period.
type Watcher struct {
	fs      *fsnotify.Watcher
	path    string
	name    string
	quiet   time.Duration
	changes chan struct{}
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewWatcher watches path through its directory, so a file rotated away
// (renamed or removed, then recreated) keeps being followed.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fs:      fsw,
		path:    path,
		name:    filepath.Base(path),
		quiet:   defaultQuietPeriod,
		changes: make(chan struct{}, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Changes is signaled after the file was written, created, removed or
// renamed. Signals do not queue: a pending one absorbs the next.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.stopped
	})
	return err
}

func (w *Watcher) affects(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != w.name {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) run() {
	defer close(w.stopped)

	quiet := time.NewTimer(w.quiet)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case <-w.stop:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.affects(ev) {
				continue
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				log.Debug("watch %s: %s, following the next file of that name", w.path, ev.Op)
			}
			quiet.Reset(w.quiet)

		case <-quiet.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn("watch %s: %v", w.path, err)
		}
	}
}
