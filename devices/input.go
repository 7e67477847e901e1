// Package devices holds the I/O collaborators of the parsing core: line
// sources (console, file, live follow) and output sinks (console, file)
// plus the text format device that renders records. The core never touches
// a file descriptor itself.
package devices

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Input I/O contract: a source delivers lines on its channel and closes it
// only on genuine end-of-stream. Read failures are reported out-of-band and
// reading continues; a bad read must never end the run.

// Console reads log lines from standard input. With progress enabled (and
// stdout a terminal) it overprints an elapsed-time ticker.
func Console(showProgress bool) <-chan string {
	lines := make(chan string)
	progress := showProgress && isatty.IsTerminal(os.Stdout.Fd())
	go func() {
		defer close(lines)
		start := time.Now()
		last := time.Time{}
		input := bufio.NewReader(os.Stdin)
		for {
			line, err := input.ReadString('\n')
			if line != "" {
				lines <- strings.TrimRight(line, "\r\n")
				if progress && time.Since(last) > 200*time.Millisecond {
					last = time.Now()
					fmt.Fprintf(os.Stdout, "Running for %.2f sec\r", time.Since(start).Seconds())
				}
			}
			if err == io.EOF {
				logrus.Debug("stdin is closed")
				return
			}
			if err != nil {
				// Reported out-of-band; only end-of-stream ends the run.
				fmt.Fprintf(os.Stderr, "[InputError] %v\n", err)
				time.Sleep(100 * time.Millisecond)
			}
		}
	}()
	return lines
}

// File reads a log file from the beginning to the end. With progress
// enabled it overprints a completion bar based on bytes consumed.
func File(path string, showProgress bool) (<-chan string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var size int64
	if info, serr := fh.Stat(); serr == nil {
		size = info.Size()
	}
	progress := showProgress && size > 0 && isatty.IsTerminal(os.Stdout.Fd())

	lines := make(chan string)
	go func() {
		defer close(lines)
		defer fh.Close()
		var consumed int64
		lastPct := -1.0
		reader := bufio.NewReader(fh)
		for {
			// ReadString handles lines of any length; the channel close
			// below is the only end-of-stream signal.
			line, err := reader.ReadString('\n')
			if line != "" {
				consumed += int64(len(line))
				lines <- strings.TrimRight(line, "\r\n")
				if progress {
					pct := 100.0 * float64(consumed) / float64(size)
					if pct-lastPct >= 0.01 {
						lastPct = pct
						printBar(pct)
					}
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				// Reported out-of-band and reading continues.
				fmt.Fprintf(os.Stderr, "[InputError] %v\n", err)
				time.Sleep(100 * time.Millisecond)
			}
		}
	}()
	return lines, nil
}

func printBar(pct float64) {
	const width = 51
	filled := int(pct / 100.0 * width)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("*", filled) + strings.Repeat("-", width-filled)
	fmt.Fprintf(os.Stdout, "%s| %05.2f%% Completed\r", bar, pct)
}
