package ddsevents

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

type fixture struct {
	st  *state.State
	dev *captureDevice
	d   *rules.Dispatcher
}

func newFixture(opts logger.Options) *fixture {
	st := state.New()
	dev := &captureDevice{}
	log := logger.New(st, dev, opts)
	return &fixture{st: st, dev: dev, d: rules.NewDispatcher(Rules(), st, log)}
}

func (f *fixture) descriptions() []string {
	out := make([]string, len(f.dev.records))
	for i, r := range f.dev.records {
		out[i] = r.Description
	}
	return out
}

func TestCreatedParticipant(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch("DDS_DomainParticipantPresentation_reserve_participant_index_entryports:Domain 54:USING PARTICIPANT INDEX=1")

	assert.Equal(t, []string{"Created participant, domain: 54 index: 1"}, f.descriptions())
	assert.Empty(t, f.st.Unmatched())
}

func TestCreateAndDeleteEntities(t *testing.T) {
	f := newFixture(logger.Options{Verbosity: 1})
	f.d.Dispatch(`DDS_DomainParticipant_create_topic_disabledI:created topic: topic="Square", type="ShapeType"`)
	f.d.Dispatch(`DDS_Publisher_create_datawriter_disabledI:created writer: topic="Square"`)
	f.d.Dispatch(`DDS_Subscriber_create_datareader_disabledI:created reader: topic="Square"`)
	f.d.Dispatch(`DDS_DomainParticipant_delete_topic:deleted topic: topic="Square", type="ShapeType"`)

	assert.Equal(t, []string{
		"Created topic, name: 'Square', type: 'ShapeType'",
		"Created writer for topic 'Square'",
		"Created reader for topic 'Square'",
		"Deleted topic, name: 'Square', type: 'ShapeType'",
	}, f.descriptions())

	var topics []string
	f.st.Topics(func(name string) { topics = append(topics, name) })
	assert.Equal(t, []string{"Square"}, topics)
}

func TestDeleteTopicNeedsVerbosity(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch(`DDS_DomainParticipant_delete_topic:deleted topic: topic="Square", type="ShapeType"`)
	assert.Empty(t, f.dev.records)
}

func TestDuplicateTopicName(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch("PRESParticipant_createTopic:name 'Square' in use by another topic")
	assert.Equal(t, []string{"[LP-2] Topic name already in use by another topic: Square"}, f.descriptions())
}

func TestDiscoveredParticipantGetsStableName(t *testing.T) {
	f := newFixture(logger.Options{})
	line := "DISCSimpleParticipantDiscoveryPluginReaderListener_onDataAvailable:discovered new participant: host=0x0A2D0101, app=0x1CF4, instance=0x1"
	f.d.Dispatch(line)
	f.d.Dispatch(line)

	if assert.Len(t, f.dev.records, 2) {
		assert.Equal(t, "P1", f.dev.records[0].Remote)
		assert.Equal(t, "P1", f.dev.records[1].Remote)
		assert.Equal(t, "Discovered new participant (10.45.1.1 07412 0000000001)",
			f.dev.records[0].Description)
	}
}

func TestSecondParticipantGetsNextName(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch("DISCSimpleParticipantDiscoveryPluginReaderListener_onDataAvailable:discovered new participant: host=0x0A2D0101, app=0x1CF4, instance=0x1")
	f.d.Dispatch("DISCSimpleParticipantDiscoveryPluginReaderListener_onDataAvailable:discovered new participant: host=0x0A2D0102, app=0x1CF5, instance=0x1")

	assert.Equal(t, "P1", f.dev.records[0].Remote)
	assert.Equal(t, "P2", f.dev.records[1].Remote)
}

func TestAnnouncedLocalParticipantResolvesToLocal(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch("DISCParticipantDiscoveryPlugin_announceParticipant:announcing participant: host=0x0A2D0101, app=0x1CF4, instance=0x1")
	f.d.Dispatch("DISCSimpleParticipantDiscoveryPluginReaderListener_onDataAvailable:discovered new participant: host=0x0A2D0101, app=0x1CF4, instance=0x1")

	assert.Equal(t, "10.45.1.1 07412", f.st.LocalAddress())
	if assert.Len(t, f.dev.records, 1) {
		assert.Equal(t, "local", f.dev.records[0].Remote)
	}
}

func TestSecondLocalAddressIsAConflict(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch("DISCParticipantDiscoveryPlugin_announceParticipant:announcing participant: host=0x0A2D0101, app=0x1CF4, instance=0x1")
	f.d.Dispatch("DISCParticipantDiscoveryPlugin_announceParticipant:announcing participant: host=0x0A2D0102, app=0x1CF5, instance=0x1")

	assert.Equal(t, "10.45.1.1 07412", f.st.LocalAddress())
	assert.Equal(t, 1, f.st.Warnings.Total())
}

func TestDiscoveredPublication(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch("DISCSimpleEndpointDiscoveryPlugin_publicationOnDataAvailableI:discovered publication: host=0x0A2D0101, app=0x1CF4, instance=0x1, oid=0x80000002")

	if assert.Len(t, f.dev.records, 1) {
		assert.Equal(t, "10.45.1.1 07412 0000000001", f.dev.records[0].Remote)
		assert.Equal(t, "Discovered new publication Writer(8388608)", f.dev.records[0].Description)
	}
}

func TestMatchedUserEntityShownByDefault(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch("PRESPsService_linkToRemoteReader:assert remote 0X0A2D0101,0X1CF4,0X1,0X80000007 to local writer 0X80000002 (Reliable)")

	if assert.Len(t, f.dev.records, 1) {
		r := f.dev.records[0]
		assert.Equal(t, "10.45.1.1 07412 0000000001", r.Remote)
		assert.Equal(t, "Writer(8388608)", r.Entity)
		assert.Equal(t, "Discovered remote Reliable reader Reader(8388608)", r.Description)
	}
}

func TestMatchedBuiltinEntityNeedsVerbosity(t *testing.T) {
	line := "PRESPsService_linkToRemoteWriter:assert remote 0X0A2D0101,0X1CF4,0X1,0X000100C2 to local reader 0X000100C7 (Reliable)"

	f := newFixture(logger.Options{})
	f.d.Dispatch(line)
	assert.Empty(t, f.dev.records)

	f = newFixture(logger.Options{Verbosity: 1})
	f.d.Dispatch(line)
	if assert.Len(t, f.dev.records, 1) {
		assert.Equal(t, "Discovered remote Reliable writer BUILTIN_PARTICIPANT_WRITER",
			f.dev.records[0].Description)
		assert.Equal(t, "BUILTIN_PARTICIPANT_READER", f.dev.records[0].Entity)
	}
}

func TestDifferentTypeNamesIsAnError(t *testing.T) {
	f := newFixture(logger.Options{Inline: true})
	f.d.Dispatch("PRESPsService_isRemoteEndpointTypeConsistent:!typename inconsistency for topic 'Square': 'ShapeType' vs 'ShapeTypeExtended'")

	msg := "[LP-18] Cannot match remote entity in topic 'Square': " +
		"Different type names found ('ShapeType', 'ShapeTypeExtended')"
	assert.Equal(t, 1, f.st.Errors.Count(msg))
	if assert.Len(t, f.dev.records, 1) {
		assert.Equal(t, "ERROR", f.dev.records[0].Kind())
	}
}

func TestUnkeyedAPIMisuse(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch("DDS_DataWriter_register_instance_untypedI:!register instance with unkeyed type")
	f.d.Dispatch("DDS_DataWriter_get_key_value_untypedI:!get key from unkeyed type")
	f.d.Dispatch("DDS_DataWriter_unregister_instance_untypedI:!unregister instance with unkeyed type")

	assert.Equal(t, 1, f.st.Warnings.Count("[LP-4] Try to register instance with no key field."))
	assert.Equal(t, 1, f.st.Errors.Count("[LP-5] Try to get key from unkeyed type."))
	assert.Equal(t, 1, f.st.Warnings.Count("[LP-6] Try to unregister instance with no key field."))
}

func TestLostDiscoverySamplesWarns(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch("DISCSimpleEndpointDiscoveryPlugin_onDataAvailable:lost publication discovery samples: oid=0x000100C2, total=10, delta=2")

	assert.Equal(t, 1, f.st.Warnings.Count(
		"2 discovery samples lost for publication BUILTIN_PARTICIPANT_WRITER (10 in total)"))
}

func TestInitialPeersResolvedAndRecorded(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch(`DDS_DomainParticipantDiscovery_enableI:initial peers: "builtin.udpv4://239.255.0.1,udpv4://0X0A2D0101:7410"`)

	assert.Equal(t, []string{"builtin.udpv4://239.255.0.1", "udpv4://10.45.1.1:7410"},
		f.st.InitialPeers)
	assert.Equal(t, 1, f.st.Config.Count(
		"Initial peers: builtin.udpv4://239.255.0.1, udpv4://10.45.1.1:7410"))
}

func TestLibraryVersionIsAConfigFact(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch("RTIOsapi_printVersion:NDDS version 5.2.3")

	assert.Empty(t, f.dev.records)
	assert.Equal(t, 1, f.st.Config.Count("Version of NDDS is 5.2.3"))
}

func TestEnvVarLookups(t *testing.T) {
	f := newFixture(logger.Options{})
	f.d.Dispatch("RTIOsapi_envVarOrFileGet:environment variable NDDS_QOS_PROFILES not found")
	f.d.Dispatch("RTIOsapi_envVarOrFileGet:file USER_QOS_PROFILES.xml found")

	assert.Equal(t, 1, f.st.Config.Count("Environment variable NDDS_QOS_PROFILES not found"))
	assert.Equal(t, 1, f.st.Config.Count("File USER_QOS_PROFILES.xml found"))
}
