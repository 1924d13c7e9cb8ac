package input

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/joyenv/joyenv/internal/pkg/logger"
)

// settlePeriod gives the kernel time to finish creating all nodes of a
// freshly plugged device before a change is reported.
const settlePeriod = 500 * time.Millisecond

// MonitorDevices watches dir for input device nodes appearing or
// disappearing and emits one signal per settled burst of changes. The
// channel closes when ctx is done.
func MonitorDevices(ctx context.Context, dir string) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	log := logger.GetLogger()
	changes := make(chan struct{}, 1)

	go func() {
		<-ctx.Done()
		if err := watcher.Close(); err != nil {
			log.Debug("closing watcher failed", zap.Error(err))
		}
	}()

	go func() {
		defer close(changes)
		var settle <-chan time.Time
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Remove) == 0 {
					continue
				}
				name := filepath.Base(event.Name)
				if !strings.HasPrefix(name, "event") && !strings.HasPrefix(name, "js") {
					continue
				}
				log.Debug("device node change", zap.String("name", name), zap.Stringer("op", event.Op))
				settle = time.After(settlePeriod)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("device watcher error", zap.Error(err))
			case <-settle:
				settle = nil
				select {
				case changes <- struct{}{}:
				default:
				}
			}
		}
	}()

	return changes, nil
}
