package main

import (
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rkorte/rticonnextdds-logparser/devices"
	"github.com/rkorte/rticonnextdds-logparser/logger"
	"github.com/rkorte/rticonnextdds-logparser/rules"
	"github.com/rkorte/rticonnextdds-logparser/rules/ddsevents"
	"github.com/rkorte/rticonnextdds-logparser/rules/network"
	"github.com/rkorte/rticonnextdds-logparser/rules/noise"
	"github.com/rkorte/rticonnextdds-logparser/state"
)

// run wires the devices, the run state, the logger and the dispatcher, then
// consumes the input to the end.
func run(options GlobalOptions) {
	logrus.Debug("Starting logparser")

	st := state.New()

	// output side
	var sink devices.Sink
	if options.Output != "" {
		fileSink, err := devices.NewFileSink(options.Output, options.Overwrite)
		if err != nil {
			logrus.WithFields(logrus.Fields{"file": options.Output, "err": err}).Fatal(
				"Error opening the output file")
		}
		sink = fileSink
	} else {
		sink = devices.NewConsoleSink(options.ShowProgress)
	}
	format := devices.NewTextFormat(sink)
	format.ShowLines = options.ShowLines

	log := logger.New(st, format, logger.Options{
		Verbosity:     len(options.Verbose),
		Inline:        !options.NoInline,
		IgnorePackets: options.NoNetwork,
		Colors:        options.Colors,
		Highlight:     compileOptional(options.Highlight),
		OnlyIf:        compileOptional(options.OnlyIf),
	})

	// The rule table order is a correctness requirement: semantic groups
	// first, the noise blacklist after them, its catch-all last.
	table := rules.Concat(network.Rules(), ddsevents.Rules(), noise.Rules())
	dispatcher := rules.NewDispatcher(table, st, log)

	// input side
	var lines <-chan string
	var err error
	switch {
	case options.Reqs.LogFile == "-":
		lines = devices.Console(options.ShowProgress)
	case options.Follow:
		lines, err = devices.Follow(options.Reqs.LogFile, options.Tail)
	default:
		lines, err = devices.File(options.Reqs.LogFile, options.ShowProgress)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"file": options.Reqs.LogFile, "err": err}).Fatal(
			"Error occurred while trying to read the logfile")
	}

	dispatcher.ProcessLines(lines)

	if !options.NoSummary {
		writeSummary(st, sink, options.UnmatchedFile)
	}
	if options.UnmatchedFile != "" {
		writeUnmatched(st, options.UnmatchedFile)
	}
	format.Close()
	logrus.Debug("logparser is all done, goodbye!")
}

// compileOptional turns an optional flag pattern into a compiled regex.
// Validity was checked with the other flag sanity checks.
func compileOptional(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	return regexp.MustCompile(pattern)
}

// writeUnmatched archives the unrecognized lines verbatim for manual
// inspection.
func writeUnmatched(st *state.State, path string) {
	unmatched := st.Unmatched()
	if len(unmatched) == 0 {
		return
	}
	content := strings.Join(unmatched, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		logrus.WithFields(logrus.Fields{"file": path, "err": err}).Warn(
			"Failed to write the unmatched-lines archive")
	}
}
