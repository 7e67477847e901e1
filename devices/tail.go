package devices

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hpcloud/tail"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// TailOptions control the live-follow input mode.
type TailOptions struct {
	ReadFrom  string `long:"read_from" description:"Location in the file from which to start reading. Values: beginning, end, last. Last picks up where it left off, if the file has not been rotated, otherwise beginning." default:"last"`
	Poll      bool   `long:"poll" description:"use poll instead of inotify to follow the file"`
	StateFile string `long:"statefile" description:"File in which to store the last read position. Defaults to a file in $TMPDIR named after the log file."`
}

// tailState is what's stored in a statefile. The inode detects rotation:
// a rotated file gets read from the beginning, not from a stale offset.
type tailState struct {
	INode  uint64
	Offset int64
}

// Follow tails a growing log file, surviving syslog-style rotation, and
// remembers its position across runs through the statefile.
func Follow(path string, opts TailOptions) (<-chan string, error) {
	var loc *tail.SeekInfo // nil means start at beginning
	stateFile := resolveStateFile(opts.StateFile, path)
	switch opts.ReadFrom {
	case "start", "beginning":
	case "end":
		loc = &tail.SeekInfo{Offset: 0, Whence: 2}
	case "last":
		loc = startLocation(stateFile, path)
	default:
		return nil, fmt.Errorf("unknown option to --tail.read_from: %s", opts.ReadFrom)
	}

	tailer, err := tail.TailFile(path, tail.Config{
		Location:  loc,
		ReOpen:    true, // keep reading on rotation, aka tail -F
		MustExist: true,
		Follow:    true,
		Logger:    tail.DiscardingLogger,
		Poll:      opts.Poll,
	})
	if err != nil {
		return nil, err
	}

	stateFh, err := os.OpenFile(stateFile, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"logfile":   path,
			"statefile": stateFile,
		}).Warn("Failed to open statefile for writing. File location will not be saved.")
	}

	lines := make(chan string)
	ticker := time.NewTicker(time.Second)
	done := make(chan struct{})
	st := tailState{}
	go func() {
		// Every statefile write happens here, including the final one, so
		// a tick can never race the shutdown snapshot.
		snapshotLoop(ticker.C, done, func() {
			updateStateFile(&st, tailer, path, stateFh)
		})
		if stateFh != nil {
			stateFh.Close()
		}
	}()
	go func() {
		for line := range tailer.Lines {
			if line.Err != nil {
				// Surfaced out-of-band, keep reading.
				fmt.Fprintf(os.Stderr, "[InputError] %v\n", line.Err)
				continue
			}
			lines <- line.Text
		}
		close(lines)
		ticker.Stop()
		close(done)
	}()
	return lines, nil
}

// snapshotLoop runs update on every tick and once more on done, then
// returns.
func snapshotLoop(tick <-chan time.Time, done <-chan struct{}, update func()) {
	for {
		select {
		case <-tick:
			update()
		case <-done:
			update()
			return
		}
	}
}

func resolveStateFile(configured, logfile string) string {
	if configured != "" {
		if info, err := os.Stat(configured); err != nil || !info.IsDir() {
			return configured
		}
		// Existing directory: place the statefile inside it.
		return filepath.Join(configured, stateFileName(logfile))
	}
	return filepath.Join(os.TempDir(), stateFileName(logfile))
}

func stateFileName(logfile string) string {
	return strings.TrimSuffix(filepath.Base(logfile), ".log") + ".logparser.state"
}

// startLocation reads the statefile and picks a starting point: missing or
// unreadable statefile means end, a rotated logfile (inode mismatch) means
// beginning, otherwise the remembered offset.
func startLocation(stateFile, logfile string) *tail.SeekInfo {
	end := &tail.SeekInfo{Offset: 0, Whence: 2}
	content, err := os.ReadFile(stateFile)
	if err != nil {
		logrus.WithField("error", err).Debug("no readable statefile, starting at end")
		return end
	}
	st := tailState{}
	if err := json.Unmarshal(content, &st); err != nil {
		logrus.WithField("error", err).Debug("undecodable statefile, starting at end")
		return end
	}
	logStat := unix.Stat_t{}
	if err := unix.Stat(logfile, &logStat); err != nil {
		logrus.WithField("error", err).Debug("cannot stat logfile, starting at end")
		return end
	}
	if st.INode != logStat.Ino {
		logrus.Debug("logfile inode changed, starting at beginning")
		return &tail.SeekInfo{}
	}
	return &tail.SeekInfo{Offset: st.Offset, Whence: 0}
}

// updateStateFile snapshots the tailer position once per second.
func updateStateFile(st *tailState, t *tail.Tail, file string, stateFh *os.File) {
	if stateFh == nil {
		return
	}
	logStat := unix.Stat_t{}
	unix.Stat(file, &logStat)
	pos, err := t.Tell()
	if err != nil {
		return
	}
	st.INode = logStat.Ino
	st.Offset = pos
	out, err := json.Marshal(st)
	if err != nil {
		return
	}
	stateFh.Truncate(0)
	out = append(out, '\n')
	stateFh.WriteAt(out, 0)
	stateFh.Sync()
}
