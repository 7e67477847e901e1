// Package ddsevents is the semantic rule group: entity creation and
// deletion, discovery, matching, API misuse and configuration facts.
package ddsevents

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rkorte/rticonnextdds-logparser/logger"
	"github.com/rkorte/rticonnextdds-logparser/state"
)

// ---------------------------------------------------------------------------
// Network interfaces
// ---------------------------------------------------------------------------

var interfaceFlags = []struct {
	bit  uint64
	name string
}{
	{0x01, "UP"},
	{0x02, "BROADCAST"},
	{0x04, "LOOPBACK"},
	{0x08, "POINTOPOINT"},
	{0x10, "MULTICAST"},
	{0x20, "RUNNING"},
}

func onQueryUDPv4Interfaces(match []string, st *state.State, log *logger.Logger) error {
	// Interface queries log the address in reverse byte order.
	ip, err := state.Hex2IP(match[0], true)
	if err != nil {
		return err
	}
	addr := st.ResolveParticipant(ip)
	flag, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(match[1], "0x"), "0X"), 16, 64)
	if err != nil {
		return fmt.Errorf("invalid interface flags %q: %w", match[1], err)
	}
	var names []string
	for _, f := range interfaceFlags {
		if flag&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	log.Event(fmt.Sprintf("Interface: %s is %s", addr, strings.Join(names, "|")), 2)
	return nil
}

func onFindValidInterface(match []string, st *state.State, log *logger.Logger) error {
	log.Cfg(fmt.Sprintf("Valid interface: %s", match[0]), 0)
	return nil
}

func onGetValidInterface(match []string, st *state.State, log *logger.Logger) error {
	if match[2] != "1" {
		return nil
	}
	multicast := "no"
	if match[3] == "1" {
		multicast = "with"
	}
	log.Cfg(fmt.Sprintf("Valid interface: %s (%s multicast)", match[1], multicast), 0)
	return nil
}

func onSkippedInterface(match []string, st *state.State, log *logger.Logger) error {
	log.Event(fmt.Sprintf("Skipped interface: %s", match[0]), 2)
	return nil
}

// ---------------------------------------------------------------------------
// Create or delete entities
// ---------------------------------------------------------------------------

func onCreateParticipant(match []string, st *state.State, log *logger.Logger) error {
	log.Event(fmt.Sprintf("Created participant, domain: %s index: %s", match[0], match[1]), 0)
	return nil
}

func onDeleteParticipant(match []string, st *state.State, log *logger.Logger) error {
	log.Event(fmt.Sprintf("Deleted participant, domain: %s index: %s", match[0], match[1]), 0)
	return nil
}

func onCreateTopic(match []string, st *state.State, log *logger.Logger) error {
	topic := st.ResolveTopic(match[0])
	typ := st.ResolveType(match[1])
	log.Event(fmt.Sprintf("Created topic, name: '%s', type: '%s'", topic, typ), 0)
	return nil
}

func onCreateCFT(match []string, st *state.State, log *logger.Logger) error {
	topic := st.ResolveTopic(match[0])
	log.Event(fmt.Sprintf("Created ContentFilteredTopic, name: '%s'", topic), 0)
	return nil
}

func onDeleteTopic(match []string, st *state.State, log *logger.Logger) error {
	topic := st.ResolveTopic(match[0])
	typ := st.ResolveType(match[1])
	log.Event(fmt.Sprintf("Deleted topic, name: '%s', type: '%s'", topic, typ), 1)
	return nil
}

func onCreateWriter(match []string, st *state.State, log *logger.Logger) error {
	topic := st.ResolveTopic(match[0])
	log.Event(fmt.Sprintf("Created writer for topic '%s'", topic), 0)
	return nil
}

func onCreateReader(match []string, st *state.State, log *logger.Logger) error {
	topic := st.ResolveTopic(match[0])
	log.Event(fmt.Sprintf("Created reader for topic '%s'", topic), 0)
	return nil
}

func onDeleteWriter(match []string, st *state.State, log *logger.Logger) error {
	topic := st.ResolveTopic(match[0])
	log.Event(fmt.Sprintf("Deleted writer for topic '%s'", topic), 0)
	return nil
}

func onDeleteReader(match []string, st *state.State, log *logger.Logger) error {
	topic := st.ResolveTopic(match[0])
	log.Event(fmt.Sprintf("Deleted reader for topic '%s'", topic), 0)
	return nil
}

func onDuplicateTopicName(match []string, st *state.State, log *logger.Logger) error {
	topic := st.ResolveTopic(match[0])
	log.Event(fmt.Sprintf("[LP-2] Topic name already in use by another topic: %s", topic), 0)
	return nil
}

func onDeleteTopicBeforeCFT(match []string, st *state.State, log *logger.Logger) error {
	log.Error(fmt.Sprintf("[LP-7] Cannot delete topic before its %s ContentFilteredTopics", match[0]), 0)
	return nil
}

func onFailDeleteFlowControllers(match []string, st *state.State, log *logger.Logger) error {
	log.Error(fmt.Sprintf("[LP-15] Cannot delete %s FlowControllers from delete_contained_entities", match[0]), 0)
	return nil
}

func onInconsistentTransportDiscoveryConfiguration(match []string, st *state.State, log *logger.Logger) error {
	log.Error("Inconsistent transport/discovery configuration", 0)
	return nil
}

// ---------------------------------------------------------------------------
// Discover remote or local entities
// ---------------------------------------------------------------------------

func onDiscoverParticipant(match []string, st *state.State, log *logger.Logger) error {
	src, err := st.ResolveGUID(match[0], match[1])
	if err != nil {
		return err
	}
	full, err := st.ResolveGUID(match[0], match[1], match[2])
	if err != nil {
		return err
	}
	log.Process(src, "", fmt.Sprintf("Discovered new participant (%s)", full), 0)
	return nil
}

func onUpdateRemoteParticipant(match []string, st *state.State, log *logger.Logger) error {
	src, err := st.ResolveGUID(match[0], match[1])
	if err != nil {
		return err
	}
	full, err := st.ResolveGUID(match[0], match[1], match[2])
	if err != nil {
		return err
	}
	oid := state.OID(match[3])
	log.Process(src, "", fmt.Sprintf("Discovered/Updated participant (%s - %s)", full, oid), 1)
	return nil
}

func onAnnounceLocalParticipant(match []string, st *state.State, log *logger.Logger) error {
	addr, err := state.DecodeGUID(match[0], match[1])
	if err != nil {
		return err
	}
	if prev, conflict := st.SetLocalAddress(addr); conflict {
		log.Warning(fmt.Sprintf("Participant announced a second local address %s, keeping %s", addr, prev), 0)
	}
	return nil
}

func onDiscoverPublication(match []string, st *state.State, log *logger.Logger) error {
	remote, err := st.ResolveGUID(match[0], match[1], match[2])
	if err != nil {
		return err
	}
	log.Process(remote, "", fmt.Sprintf("Discovered new publication %s", state.OID(match[3])), 0)
	return nil
}

func onUpdateEndpoint(match []string, st *state.State, log *logger.Logger) error {
	remote, err := st.ResolveGUID(match[0], match[1], match[2])
	if err != nil {
		return err
	}
	log.Process(remote, "", fmt.Sprintf("Discovered/Updated publication %s", state.OID(match[3])), 1)
	return nil
}

func onAnnounceLocalPublication(match []string, st *state.State, log *logger.Logger) error {
	local, err := st.ResolveGUID(match[0], match[1], match[2])
	if err != nil {
		return err
	}
	log.Process(local, "", fmt.Sprintf("Announcing new writer %s", state.OID(match[3])), 0)
	return nil
}

func onAnnounceLocalSubscription(match []string, st *state.State, log *logger.Logger) error {
	local, err := st.ResolveGUID(match[0], match[1], match[2])
	if err != nil {
		return err
	}
	log.Process(local, "", fmt.Sprintf("Announcing new reader %s", state.OID(match[3])), 0)
	return nil
}

func onParticipantIgnoreItself(match []string, st *state.State, log *logger.Logger) error {
	log.Process("", "", "Participant is ignoring itself", 0)
	return nil
}

func onLoseDiscoverySamples(match []string, st *state.State, log *logger.Logger) error {
	entityType := match[0]
	oid := state.OID(match[1])
	total := match[2]
	delta := match[3]
	log.Warning(fmt.Sprintf("%s discovery samples lost for %s %s (%s in total)", delta, entityType, oid, total), 0)
	return nil
}

// ---------------------------------------------------------------------------
// Match remote or local entities
// ---------------------------------------------------------------------------

// onMatchEntity builds the handler for one local/remote entity pairing.
// Matches against builtin (discovery protocol) entities log at a higher
// verbosity threshold than user traffic.
func onMatchEntity(entity2, kind string) func([]string, *state.State, *logger.Logger) error {
	return func(match []string, st *state.State, log *logger.Logger) error {
		addr, err := st.ResolveGUID(match[0], match[1], match[2])
		if err != nil {
			return err
		}
		entity2OID := state.OID(match[3])
		entity1OID := state.OID(match[4])
		level := 0
		if state.IsBuiltinEntity(match[4]) {
			level = 1
		}
		reliable := match[5] // Best-Effort or Reliable
		log.Process(addr, entity1OID,
			fmt.Sprintf("Discovered %s %s %s %s", kind, reliable, entity2, entity2OID), level)
		return nil
	}
}

func onDifferentTypeNames(match []string, st *state.State, log *logger.Logger) error {
	topic := st.ResolveTopic(match[0])
	type1 := st.ResolveType(match[1])
	type2 := st.ResolveType(match[2])
	log.Error(fmt.Sprintf("[LP-18] Cannot match remote entity in topic '%s': "+
		"Different type names found ('%s', '%s')", topic, type1, type2), 0)
	return nil
}

func onTypeObjectReceived(match []string, st *state.State, log *logger.Logger) error {
	log.Process("", "", fmt.Sprintf("TypeObject %s", match[0]), 2)
	return nil
}

// ---------------------------------------------------------------------------
// Bad usage of the API
// ---------------------------------------------------------------------------

func onRegisterUnkeyedInstance(match []string, st *state.State, log *logger.Logger) error {
	log.Warning("[LP-4] Try to register instance with no key field.", 0)
	return nil
}

func onGetUnkeyedKey(match []string, st *state.State, log *logger.Logger) error {
	log.Error("[LP-5] Try to get key from unkeyed type.", 0)
	return nil
}

func onUnregisterUnkeyedInstance(match []string, st *state.State, log *logger.Logger) error {
	log.Warning("[LP-6] Try to unregister instance with no key field.", 0)
	return nil
}

// ---------------------------------------------------------------------------
// General information
// ---------------------------------------------------------------------------

func onLibraryVersion(match []string, st *state.State, log *logger.Logger) error {
	log.Cfg(fmt.Sprintf("Version of %s is %s", match[0], match[1]), 0)
	return nil
}

func onParticipantInitialPeers(match []string, st *state.State, log *logger.Logger) error {
	peers := strings.Split(match[0], ",")
	resolved := make([]string, 0, len(peers))
	for _, peer := range peers {
		resolved = append(resolved, st.ResolveLocator(peer))
	}
	st.InitialPeers = resolved
	log.Cfg(fmt.Sprintf("Initial peers: %s", strings.Join(resolved, ", ")), 0)
	return nil
}

func onEnvVarFileNotFound(match []string, st *state.State, log *logger.Logger) error {
	log.Cfg(fmt.Sprintf("%s %s not found", capitalize(match[0]), match[1]), 0)
	return nil
}

func onEnvVarFileFound(match []string, st *state.State, log *logger.Logger) error {
	log.Cfg(fmt.Sprintf("%s %s found", capitalize(match[0]), match[1]), 0)
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
