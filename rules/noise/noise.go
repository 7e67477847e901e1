// Package noise is the suppression rule group: messages from the
// middleware's debug chatter that carry no semantic value are matched here
// and dropped. The group ends with the universal catch-all that archives
// anything no other rule recognized; unknown diagnostic text is never
// silently dropped, only the blacklist above it is.
//
// The blacklist patterns are contract data against the middleware's log
// vocabulary. Do not reorder them past the catch-all and do not "fix"
// their spelling or whitespace.
package noise

import (
	"regexp"

	"github.com/rkorte/rticonnextdds-logparser/logger"
	"github.com/rkorte/rticonnextdds-logparser/rules"
	"github.com/rkorte/rticonnextdds-logparser/state"
)

func onIgnored(match []string, st *state.State, log *logger.Logger) error {
	return nil
}

func onUnmatched(match []string, st *state.State, log *logger.Logger) error {
	st.Archive(match[0])
	return nil
}

var blacklist = []string{
	`^\s*$`,
	`DDS_Registry_lock:Locking the storage service`,
	`DDS_Registry_unlock:Unlocking the storage service`,
	`RTIEventActiveDatabaseThread_loop:created \w+`,
	`RTIEventActiveGeneratorThread_loop:created \w+`,
	`COMMENDActiveFacadeReceiver_loop:created \w+`,
	`COMMENDActiveFacade_threadStarted:thread count ref count \d+`,
	`COMMENDActiveFacade_addReceiverThread:thread count ref count \d+`,
	`COMMENDActiveFacade_new:active object count ref count \d+`,
	`RTIEventJobDispatcher_distributeTokens: \d+ agents at priority [-\d]+`,
	`RTIEventJobDispatcher_updateAgentPriorities:agent:0x\w+ priority set to [-\d]+`,
	`NDDS_Transport_UDPv4_receive_rEA:\w+ woke up`,
	`RTIEventJobDispatcher_scheduleJob:agent:\w+ job:\w+ scheduled at priority \d+`,
	`RTIOsapiThread_sleep: nanosleep\(\d+.\d+ s\)`,
	`RTIEventActiveGeneratorThread_loop:\w+ gathering events`,
	`RTIEventActiveGeneratorThread_loop:\w+ firing events`,
	`RTIEventActiveGeneratorThread_loop:\w+ rescheduling events`,
	`RTIEventActiveGeneratorThread_loop:\w+ sleeping \{\w+,\w+\}`,
	`RTIEventActiveDatabaseThread_loop:\w+ collecting garbage`,
	`RTIEventActiveDatabaseThread_loop:\w+ sleeping \{\w+,\w+\}`,
	`RTIEventJobDispatcher_updateAgentPriorities:agent:\w+ priority set to \d+`,
	`RTIEventJobDispatcher_distributeTokens: \w+ agents at priority \d+`,
	`RTIOsapiThread_sleep: Sleep\(\d+ ms\)`,
	`RTISystemClock_init:epoch range \{\w+,\w+\}, frequency \d+ Hz`,
	`DDS_StringSeq_ensure_length:memory allocation: original \d+, new \d+`,
	`DDS_PropertySeq_ensure_length:memory allocation: original \d+, new \d+`,
	`RTINetioReceiver_addEntryport:NetioReceiver_Entryport reused`,
	`RTINetioSender_addDestination:NetioSender_Destination reused`,
	`COMMENDActiveFacadeReceiver_loop:\w+ disowning receive resource`,
	`COMMENDActiveFacadeReceiver_loop:\w+ parsing message`,
	`RTINetioReceiver_receiveFast:\w+ received \d+ bytes`,
	`NDDS_Transport_Shmem_receive_rEA:\w+ blocking on 0X\w+`,
	`NDDS_Transport_Shmem_receive_rEA:\w+ woke up`,
	`NDDS_Transport_UDPv4_receive_rEA:\w+ blocking on 0X\w+`,
	`RTIOsapi_getFirstValidInterface:found address for interface .+ \(address family = \d+\)`,
	`RTIOsapi_getFirstValidInterface:skipped interface .+, \(not valid address family \([\w/]+\)\)`,
	`RTIOsapi_getFirstValidInterface:skipped interface .+, \(loopback interface\)`,
	`RTINetioReceiver_removeEntryport:NetioReceiver_Entryport ref count \d+`,
	`NDDS_Transport_UDPv4_SocketFactory_create_receive_socket:invalid port (\d+)`,
	`NDDS_Transport_UDPv4_create_recvresource_rrEA:Created receive resource for port (\d+)`,
	`NDDS_Transport_UDPv4_create_sendresource_srEA:Created send resource for 0X\w+:\d+`,
	`NDDS_Transport_UDPv4_query_interfaces:skipped (\w+)`,
	`NDDS_Transport_UDPv4_create_recvresource_rrEA:!create socket`,
	`DDS_DomainParticipantFactory_create_participant_disabledI:created participant: domain=\d+, index=-1`,
	`DDS_DomainParticipantPresentation_reserve_participant_index_entryports:Domain \d+:Trying to reserve participant index=\d+...`,
	`DISCPluginManager_onAfterLocalEndpointEnabled:at \{\w+,\w+\}`,
	`DISCSimpleEndpointDiscoveryPluginPDFListener_onAfterLocalWriterEnabled:at \{\w+,\w+\}`,
	`DISCSimpleEndpointDiscoveryPlugin_subscriptionReaderListenerOnDataAvailable:at \{\w+,\w+\}`,
	`DISCPluginManager_onAfterLocalParticipantEnabled:at \{\w+,\w+\}`,
	`DISCEndpointDiscoveryPlugin_assertRemoteEndpoint:at \{\w+,\w+\}`,
	`DISCPluginManager_activateEdpListenersForRemoteParticipant:at \{\w+,\w+\}`,
	`DISCParticipantDiscoveryPlugin_assertRemoteParticipant:at \{\w+,\w+\}`,
	`DISCSimpleParticipantDiscoveryPluginReaderListener_onDataAvailable:at \{\w+,\w+\}`,
	`DISCSimpleParticipantDiscoveryPlugin_remoteParticipantDiscovered:at \{\w+,\w+\}`,
	`DISCSimpleEndpointDiscoveryPlugin_publicationReaderListenerOnDataAvailable:at \{\w+,\w+\}`,
	`DISCSimpleEndpointDiscoveryPluginPDFListener_onAfterLocalReaderEnabled:at \{\w+,\w+\}`,
	`DDS_Topic_createI:!create presentation topic`,
	`DDS_DomainParticipant_create_topic_disabledI:!create topic`,
	`DDSTopic_impl::createI:!create topic`,
	`PRESParticipant_destroyAllEntities:!delete flow controller`,
	`DDS_DomainParticipant_delete_contained_entities:!delete contained entitie`,
	`DISCSimpleParticipantDiscoveryPluginReaderListener_onDataAvailable:discovered modified participant: host=0x\w+, app=0x\w+, instance=0x\w+`,
	`PRESPsService_onWriterResendEvent:writer resend event: \(([\w,]+)\)`,
	`WriterHistoryMemoryPlugin_addEntryToSessions:!initialize sample`,
	`WriterHistoryMemoryPlugin_getEntry:!add virtual sample to sessions`,
	`WriterHistoryMemoryPlugin_addSample:!get entry`,
	`PRESWriterHistoryDriver_addWrite:!add_sample`,
	`PRESPsWriter_writeInternal:!collator addWrite`,
	`WriterHistoryMemoryPlugin_addSampleToWH:!add keyed entry`,
	`WriterHistoryMemoryPlugin_addSample:writer history full`,
	`PRESWriterHistoryDriver_addWrite:!instance history full`,
	`PRESWriterHistoryDriver_addWrite:!instance not found`,
	`PRESPsWriter_writeInternal:!collator write no instance`,
	`PRESCstReaderCollator_addCollatorEntryToPolled:!add keyed entry`,
	`PRESCstReaderCollator_commitRemoteWriterQueue:!add to polled`,
	`PRESCstReaderCollator_updateRemoteWriterQueueFirstRelevant:`,
	`PRESPsService_readerSampleListenerOnNewData:!goto WR pres psRemoteWriter`,
	`PRESPsReaderQueue_storeSampleToEntry:!store sample data`,
	`PRESPsReaderQueue_newData:!get entries`,
	`MIGGeneratorContext_addData:!space assert`,
	`This can occur if multicast is not enabled in the local participant.`,
	`See https://community.rti.com/kb/what-does-cant-reach-locator-error-message-mean for additional info.`,
	`can't reach:`,
	`transport: \d+ \([\w\d]+\)`,
	`address: [\d\.]+`,
	`Recv Resource:`,
	`Send Resource:`,
	`RTINetioSender_addDestination:!create NetioSender_SendResource`,
	`RTINetioReceiver_addEntryport:!create NetioReceiver_ReceiveResource`,
	`send failed:`,
	`^\s*locator:\s*$`,
	`^\s*transport: \d+$`,
	`^\s*address: [\d:]+$`,
	`^[\d:]+$`,
	`^\s*port: \d+$`,
	`^\s*encapsulation:$`,
	`^\s{3}transport_priority: \d+$`,
	`^\s{3}aliasList: ""$`,
	`DDS_DomainParticipantFactory_initializeI:Welcome to NDDS`,
	`DDS_DiscoveryQosPolicy_get_default:no environment variable or file NDDS_DISCOVERY_PEERS`,
	`Creating domain participant...`,
	`loading QoS ...`,
}

// Rules returns the suppression group followed by the terminal catch-all.
func Rules() rules.Table {
	t := make(rules.Table, 0, len(blacklist)+1)
	for _, pattern := range blacklist {
		t = append(t, rules.Rule{Regex: regexp.MustCompile(pattern), Handler: onIgnored})
	}
	t = append(t, rules.Rule{Regex: regexp.MustCompile(`(.*)`), Handler: onUnmatched})
	return t
}
