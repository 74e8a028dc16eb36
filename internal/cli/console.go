package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
)

// console renders verbose lines, errors and the in-place progress line.
type console struct {
	mu      sync.Mutex
	w       io.Writer
	display display
	live    bool
	dirs    int64
	files   int64
}

func newConsole(w io.Writer, display display, live bool) *console {
	return &console{w: w, display: display, live: live}
}

func counted(dirs, files int64) string {
	return fmt.Sprintf("%s directories counted, %s files counted", humanize.Comma(dirs), humanize.Comma(files))
}

func (c *console) redraw() {
	if c.live {
		fmt.Fprintf(c.w, "\r\033[2K%s\r", counted(c.dirs, c.files))
	}
}

// line prints a full line above the progress line.
func (c *console) line(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live {
		fmt.Fprint(c.w, "\r\033[2K")
	}

	fmt.Fprintln(c.w, s)
	c.redraw()
}

func (c *console) progress(dirs, files int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dirs, c.files = dirs, files
	c.redraw()
}

// entry prints a sized directory or file.
func (c *console) entry(path string, size int64) {
	c.line(fmt.Sprintf("%-20s%s", "["+autoSize(size)+"]", c.display.path(path)))
}

func (c *console) error(err error) {
	if c.live {
		c.line("\033[31m" + err.Error() + "\033[0m")

		return
	}

	c.line(err.Error())
}

// clear removes the progress line.
func (c *console) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live {
		fmt.Fprint(c.w, "\r\033[2K\r")
	}
}
