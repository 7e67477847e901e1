package ddsevents

import (
	"regexp"

	"github.com/rkorte/rticonnextdds-logparser/rules"
)

// Rules returns the semantic rule group. Pattern text is contract data
// against the middleware's diagnostic vocabulary; capture groups are
// positional and must match the handler's expected arity exactly.
func Rules() rules.Table {
	r := func(pattern string, h rules.Handler) rules.Rule {
		return rules.Rule{Regex: regexp.MustCompile(pattern), Handler: h}
	}
	return rules.Table{
		// Network interfaces.
		r(`NDDS_Transport_UDPv4_query_interfaces:interface 0X(\w+), flag 0X(\w+)`,
			onQueryUDPv4Interfaces),
		r(`RTIOsapi_getFirstValidInterface:found valid interface (\w+)`,
			onFindValidInterface),
		r(`RTIOsapi_getInterfaces:(\d+) valid interface\(s\), interface (\S+) is up (\d) multicast (\d)`,
			onGetValidInterface),
		r(`NDDS_Transport_UDPv4_query_interfaces:skipped interface (\S+)`,
			onSkippedInterface),

		// Create or delete entities.
		r(`DDS_DomainParticipantPresentation_reserve_participant_index_entryports:Domain (\d+):USING PARTICIPANT INDEX=(\d+)`,
			onCreateParticipant),
		r(`DDS_DomainParticipant_deleteI:deleted participant: domain=(\d+), index=(\d+)`,
			onDeleteParticipant),
		r(`DDS_DomainParticipant_create_topic_disabledI:created topic: topic="(.+)", type="(.+)"`,
			onCreateTopic),
		r(`DDS_DomainParticipant_create_contentfilteredtopic_disabledI:created topic: topic="(.+)"`,
			onCreateCFT),
		r(`DDS_DomainParticipant_delete_topic:deleted topic: topic="(.+)", type="(.+)"`,
			onDeleteTopic),
		r(`DDS_Publisher_create_datawriter_disabledI:created writer: topic="(.+)"`,
			onCreateWriter),
		r(`DDS_Subscriber_create_datareader_disabledI:created reader: topic="(.+)"`,
			onCreateReader),
		r(`DDS_Publisher_delete_datawriter:deleted writer: topic="(.+)"`,
			onDeleteWriter),
		r(`DDS_Subscriber_delete_datareader:deleted reader: topic="(.+)"`,
			onDeleteReader),
		r(`PRESParticipant_createTopic:name '(.+)' in use by another topic`,
			onDuplicateTopicName),
		r(`DDS_Topic_deleteI:!delete topic before deleting its (\d+) ContentFilteredTopics`,
			onDeleteTopicBeforeCFT),
		r(`PRESParticipant_destroyAllEntities:!delete (\d+) FlowControllers`,
			onFailDeleteFlowControllers),
		r(`DDS_DomainParticipant_enableI:!enable discovery`,
			onInconsistentTransportDiscoveryConfiguration),

		// Discover remote or local entities.
		r(`DISCSimpleParticipantDiscoveryPluginReaderListener_onDataAvailable:discovered new participant: host=0x(\w+), app=0x(\w+), instance=0x(\w+)`,
			onDiscoverParticipant),
		r(`DISCSimpleParticipantDiscoveryPlugin_remoteParticipantDiscovered:re-discovered participant: host=0x(\w+), app=0x(\w+), instance=0x(\w+), oid=0x(\w+)`,
			onUpdateRemoteParticipant),
		r(`DISCParticipantDiscoveryPlugin_announceParticipant:announcing participant: host=0x(\w+), app=0x(\w+), instance=0x(\w+)`,
			onAnnounceLocalParticipant),
		r(`DISCSimpleEndpointDiscoveryPlugin_publicationOnDataAvailableI:discovered publication: host=0x(\w+), app=0x(\w+), instance=0x(\w+), oid=0x(\w+)`,
			onDiscoverPublication),
		r(`DISCEndpointDiscoveryPlugin_assertRemoteEndpoint:updated endpoint: host=0x(\w+), app=0x(\w+), instance=0x(\w+), oid=0x(\w+)`,
			onUpdateEndpoint),
		r(`DISCPluginManager_onAfterLocalWriterEnabled:announcing new writer: host=0x(\w+), app=0x(\w+), instance=0x(\w+), oid=0x(\w+)`,
			onAnnounceLocalPublication),
		r(`DISCPluginManager_onAfterLocalReaderEnabled:announcing new reader: host=0x(\w+), app=0x(\w+), instance=0x(\w+), oid=0x(\w+)`,
			onAnnounceLocalSubscription),
		r(`DISCParticipantDiscoveryPlugin_assertRemoteParticipant:participant is ignoring itself`,
			onParticipantIgnoreItself),
		r(`DISCSimpleEndpointDiscoveryPlugin_onDataAvailable:lost (\w+) discovery samples: oid=0x(\w+), total=(\d+), delta=(\d+)`,
			onLoseDiscoverySamples),

		// Match remote or local entities.
		r(`PRESPsService_linkToRemoteReader:assert remote 0X(\w+),0X(\w+),0X(\w+),0X(\w+) to local writer 0X(\w+) \((\S+)\)`,
			rules.Handler(onMatchEntity("reader", "remote"))),
		r(`PRESPsService_linkToRemoteWriter:assert remote 0X(\w+),0X(\w+),0X(\w+),0X(\w+) to local reader 0X(\w+) \((\S+)\)`,
			rules.Handler(onMatchEntity("writer", "remote"))),
		r(`PRESPsService_isRemoteEndpointTypeConsistent:!typename inconsistency for topic '(.+)': '(.+)' vs '(.+)'`,
			onDifferentTypeNames),
		r(`DISCSimpleEndpointDiscoveryPlugin_compareTypeObject:TypeObject (\w+)`,
			onTypeObjectReceived),

		// Bad usage of the API.
		r(`DDS_DataWriter_register_instance_untypedI:!register instance with unkeyed type`,
			onRegisterUnkeyedInstance),
		r(`DDS_DataWriter_get_key_value_untypedI:!get key from unkeyed type`,
			onGetUnkeyedKey),
		r(`DDS_DataWriter_unregister_instance_untypedI:!unregister instance with unkeyed type`,
			onUnregisterUnkeyedInstance),

		// General information.
		r(`RTIOsapi_printVersion:(\w+) version ([\w.]+)`,
			onLibraryVersion),
		r(`DDS_DomainParticipantDiscovery_enableI:initial peers: "(.+)"`,
			onParticipantInitialPeers),
		r(`RTIOsapi_envVarOrFileGet:(environment variable|file) (\S+) not found`,
			onEnvVarFileNotFound),
		r(`RTIOsapi_envVarOrFileGet:(environment variable|file) (\S+) found`,
			onEnvVarFileFound),
	}
}
