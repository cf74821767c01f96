package server

import (
	"log"

	"github.com/fsnotify/fsnotify"

	"gridmux/internal/bus"
)

// watchConfig watches path (a file or directory holding the session's
// palette/style/keybind config) and enqueues a Reconfigure via
// Bus.BroadcastReconfigure (screen, pty, plugin and client channels)
// whenever it changes. Parsing the changed file is out of scope
// here: this only notices the change and forwards an empty Reconfigure
// envelope, leaving interpretation to whichever task layer needs it.
func (s *Server) watchConfig(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-s.shutdown:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					s.Bus.BroadcastReconfigure(bus.Reconfigure{})
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[server] config watch: %v", err)
			}
		}
	}()
	return nil
}
