package main

import (
	"fmt"

	"github.com/rkorte/rticonnextdds-logparser/devices"
	"github.com/rkorte/rticonnextdds-logparser/state"
)

// writeSummary prints the end-of-run report: configuration facts, the
// discovered entity registry and the deduplicated warning/error counters.
// It writes straight through the sink; the report is not part of the
// record stream and does not advance the output-line counter.
func writeSummary(st *state.State, sink devices.Sink, unmatchedPath string) {
	sink.Write("")
	sink.Write("----------------------------------------------------------------")

	if addr := st.LocalAddress(); addr != "" {
		sink.Write(fmt.Sprintf("Local address: %s", addr))
	}
	if len(st.InitialPeers) > 0 {
		sink.Write("Initial peers:")
		for _, peer := range st.InitialPeers {
			sink.Write(fmt.Sprintf("  %s", peer))
		}
	}

	var participants []string
	st.Participants(func(addr, name string) {
		participants = append(participants, fmt.Sprintf("  %s: %s", name, addr))
	})
	if len(participants) > 0 {
		sink.Write("Participants:")
		for _, p := range participants {
			sink.Write(p)
		}
	}

	writeCountset(sink, "Config", st.Config)
	writeCountset(sink, "Warnings", st.Warnings)
	writeCountset(sink, "Errors", st.Errors)

	if n := len(st.Unmatched()); n > 0 {
		if unmatchedPath != "" {
			sink.Write(fmt.Sprintf("Unmatched lines: %d (archived to %s)", n, unmatchedPath))
		} else {
			sink.Write(fmt.Sprintf("Unmatched lines: %d (use --unmatched to archive them)", n))
		}
	}
}

// writeCountset prints one counter section, entries in first-seen order.
func writeCountset(sink devices.Sink, title string, set *state.Countset) {
	if set.Len() == 0 {
		return
	}
	sink.Write(fmt.Sprintf("## %s: %d distinct, %d total", title, set.Len(), set.Total()))
	set.Each(func(text string, count int) {
		if count > 1 {
			sink.Write(fmt.Sprintf("  %4dx %s", count, text))
		} else {
			sink.Write(fmt.Sprintf("        %s", text))
		}
	})
}
