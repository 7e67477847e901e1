package devices

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// Sink is the raw output transport: one finished text line per call.
// Implementations must swallow their own I/O failures; a broken pipe on
// stdout must not crash the dispatch loop.
type Sink interface {
	Write(text string)
	Close()
}

// ConsoleSink writes to standard output. When a progress display may be
// overprinting the line, each write first clears it.
type ConsoleSink struct {
	clearLine bool
}

// NewConsoleSink returns a stdout sink. showProgress tells it a progress
// ticker may be sharing the terminal.
func NewConsoleSink(showProgress bool) *ConsoleSink {
	return &ConsoleSink{clearLine: showProgress && isatty.IsTerminal(os.Stdout.Fd())}
}

func (c *ConsoleSink) Write(text string) {
	if c.clearLine {
		// ESC[K clears the progress bar left on the line.
		text = "\033[K" + text
	}
	// Errors (typically a closed pipe) are deliberately dropped; there is
	// nowhere left to report them.
	fmt.Fprintln(os.Stdout, text)
}

func (c *ConsoleSink) Close() {}

// FileSink writes to a file, truncating or appending.
type FileSink struct {
	fh *os.File
}

// NewFileSink opens path for output. With overwrite false, output is
// appended to whatever is already there.
func NewFileSink(path string, overwrite bool) (*FileSink, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	fh, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, err
	}
	return &FileSink{fh: fh}, nil
}

func (f *FileSink) Write(text string) {
	f.fh.WriteString(text + "\n")
}

func (f *FileSink) Close() {
	f.fh.Close()
}
