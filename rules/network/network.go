// Package network is the rule group for packet-level traffic events. These
// are the chattiest semantic messages in a debug log, so everything here is
// suppressible as a group through the logger's ignore-packets toggle, and
// discovery-protocol traffic logs at a higher verbosity than user traffic.
package network

import (
	"fmt"
	"regexp"

	"github.com/rkorte/rticonnextdds-logparser/logger"
	"github.com/rkorte/rticonnextdds-logparser/rules"
	"github.com/rkorte/rticonnextdds-logparser/state"
)

func onParsePacket(match []string, st *state.State, log *logger.Logger) error {
	addr, err := st.ResolveGUID(match[1], match[2])
	if err != nil {
		return err
	}
	log.Recv(addr, "", fmt.Sprintf("Received %s packet", match[0]), packetLevel(""))
	return nil
}

func onSendData(match []string, st *state.State, log *logger.Logger) error {
	writer := state.OID(match[0])
	addr, err := st.ResolveGUID(match[1], match[2])
	if err != nil {
		return err
	}
	log.Send(addr, writer, fmt.Sprintf("Sent DATA [%s]", match[3]), packetLevel(match[0]))
	return nil
}

func onSendHeartbeat(match []string, st *state.State, log *logger.Logger) error {
	writer := state.OID(match[0])
	log.Send("", writer, fmt.Sprintf("Sent HB [%s, %s]", match[1], match[2]), packetLevel(match[0]))
	return nil
}

func onReceiveAckNack(match []string, st *state.State, log *logger.Logger) error {
	writer := state.OID(match[0])
	addr, err := st.ResolveGUID(match[1], match[2])
	if err != nil {
		return err
	}
	log.Recv(addr, writer, fmt.Sprintf("Received ACKNACK [%s]", match[3]), packetLevel(match[0]))
	return nil
}

func onScheduleData(match []string, st *state.State, log *logger.Logger) error {
	writer := state.OID(match[0])
	log.Process("", writer, fmt.Sprintf("Scheduling DATA [%s]", match[1]), packetLevel(match[0]))
	return nil
}

// packetLevel pushes discovery-protocol traffic one verbosity level deeper
// than user traffic.
func packetLevel(oid string) int {
	if oid == "" || state.IsBuiltinEntity(oid) {
		return 2
	}
	return 1
}

// Rules returns the packet traffic group.
func Rules() rules.Table {
	r := func(pattern string, h rules.Handler) rules.Rule {
		return rules.Rule{Regex: regexp.MustCompile(pattern), Handler: h}
	}
	return rules.Table{
		r(`MIGInterpreter_parse:(\w+) from 0X(\w+),0X(\w+)`,
			onParsePacket),
		r(`COMMENDSrWriterService_write:writer oid 0x(\w+) sent data to 0x(\w+),0x(\w+): sn=\((\d+)\)`,
			onSendData),
		r(`COMMENDSrWriterService_sendHeartbeats:writer oid 0x(\w+) sent HB: first=\((\d+)\), last=\((\d+)\)`,
			onSendHeartbeat),
		r(`COMMENDSrWriterService_onSubmessage:writer oid 0x(\w+) received ACKNACK from 0x(\w+),0x(\w+): bitmap=\((.+)\)`,
			onReceiveAckNack),
		r(`COMMENDSrWriterService_assertRemoteReader:writer oid 0x(\w+) scheduled DATA: sn=\((\d+)\)`,
			onScheduleData),
	}
}
