package dirsize

import (
	"sync"
	"time"
)

// startProgressReporter invokes hook(dirs, files) on each tick until the
// returned stop function is called. stop waits for the reporter to exit, so
// no tick reaches hook afterwards.
func startProgressReporter(c *collector, hook func(int64, int64), interval time.Duration) (stop func()) {
	if hook == nil {
		return func() {}
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)
	quit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.progress()
			case <-quit:
				return
			}
		}
	}()

	var once sync.Once

	return func() {
		once.Do(func() { close(quit) })
		<-done
	}
}
