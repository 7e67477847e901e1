package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rkorte/rticonnextdds-logparser/event"
	"github.com/rkorte/rticonnextdds-logparser/logger"
	"github.com/rkorte/rticonnextdds-logparser/rules"
	"github.com/rkorte/rticonnextdds-logparser/state"
)

type captureDevice struct {
	records []*event.Record
}

func (c *captureDevice) WriteMessage(r *event.Record, st *state.State) {
	st.OutputLine++
	c.records = append(c.records, r)
}

func (c *captureDevice) Close() {}

func dispatch(t *testing.T, lines ...string) (*state.State, *captureDevice) {
	t.Helper()
	st := state.New()
	dev := &captureDevice{}
	log := logger.New(st, dev, logger.Options{Inline: true})
	d := rules.NewDispatcher(Rules(), st, log)
	for _, line := range lines {
		d.Dispatch(line)
	}
	return st, dev
}

func TestSuppressedChatterProducesNothing(t *testing.T) {
	suppressed := []string{
		"DDS_Registry_lock:Locking the storage service",
		"DDS_Registry_unlock:Unlocking the storage service",
		"RTIEventActiveDatabaseThread_loop:worker collecting garbage",
		"RTIOsapiThread_sleep: Sleep(10 ms)",
		"NDDS_Transport_UDPv4_receive_rEA:worker woke up",
		"DDS_DomainParticipantFactory_initializeI:Welcome to NDDS",
		"",
		"   ",
	}
	for _, line := range suppressed {
		st, dev := dispatch(t, line)
		assert.Len(t, dev.records, 0, "line %q must be suppressed", line)
		assert.Empty(t, st.Unmatched(), "line %q must not be archived", line)
		assert.Equal(t, 0, st.Warnings.Total(), "line %q must not warn", line)
	}
}

func TestCatchAllArchivesUnknownLines(t *testing.T) {
	st, dev := dispatch(t,
		"SomeNewModule_someNewFunction:diagnostic nobody has seen before",
		"another unknown line",
	)
	assert.Len(t, dev.records, 0)
	assert.Equal(t, []string{
		"SomeNewModule_someNewFunction:diagnostic nobody has seen before",
		"another unknown line",
	}, st.Unmatched())
}

func TestCatchAllIsLast(t *testing.T) {
	table := Rules()
	last := table[len(table)-1]
	assert.Equal(t, "(.*)", last.Regex.String())
	// every suppression pattern sits before it
	assert.Equal(t, len(blacklist)+1, len(table))
}

func TestSuppressionBeatsCatchAll(t *testing.T) {
	// a suppressed line also matches (.*); order keeps it out of the archive
	st, _ := dispatch(t, "DDS_Registry_lock:Locking the storage service")
	assert.Empty(t, st.Unmatched())
}
