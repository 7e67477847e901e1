package state

import (
	"fmt"
	"strconv"
	"strings"
)

// Builtin (discovery protocol) object ids. The low byte of an OID encodes
// the entity kind; values with the 0xC0 bits set belong to the middleware's
// own discovery entities rather than user entities.
var builtinOIDNames = map[uint32]string{
	0x00000000: "UNKNOWN",
	0x000001c1: "BUILTIN_PARTICIPANT",
	0x000002c2: "BUILTIN_TOPIC_WRITER",
	0x000002c7: "BUILTIN_TOPIC_READER",
	0x000003c2: "BUILTIN_PUB_WRITER",
	0x000003c7: "BUILTIN_PUB_READER",
	0x000004c2: "BUILTIN_SUB_WRITER",
	0x000004c7: "BUILTIN_SUB_READER",
	0x000100c2: "BUILTIN_PARTICIPANT_WRITER",
	0x000100c7: "BUILTIN_PARTICIPANT_READER",
	0x000200c2: "BUILTIN_MESSAGE_WRITER",
	0x000200c7: "BUILTIN_MESSAGE_READER",
}

var oidKindNames = map[uint32]string{
	0x01: "Participant",
	0x02: "Writer",
	0x03: "Writer",
	0x04: "Reader",
	0x07: "Reader",
}

// Hex2IP decodes an 8-digit hexadecimal host field into dotted decimal.
// Interface queries log the address in reverse byte order; reverse flips it.
func Hex2IP(hexIP string, reverse bool) (string, error) {
	ip, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(hexIP, "0x"), "0X"), 16, 32)
	if err != nil {
		return "", fmt.Errorf("invalid hex address %q: %w", hexIP, err)
	}
	b := []uint64{ip >> 24 & 0xff, ip >> 16 & 0xff, ip >> 8 & 0xff, ip & 0xff}
	if reverse {
		b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
	}
	return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3]), nil
}

// DecodeGUID turns the fixed-width hex fragments of an entity GUID into the
// canonical address string: dotted host, zero-padded decimal app id and,
// for the three-part form, zero-padded decimal instance id.
func DecodeGUID(parts ...string) (string, error) {
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("guid needs 2 or 3 fragments, got %d", len(parts))
	}
	host, err := Hex2IP(parts[0], false)
	if err != nil {
		return "", err
	}
	app, err := hexField(parts[1])
	if err != nil {
		return "", err
	}
	addr := fmt.Sprintf("%s %05d", host, app)
	if len(parts) == 3 {
		instance, err := hexField(parts[2])
		if err != nil {
			return "", err
		}
		addr = fmt.Sprintf("%s %010d", addr, instance)
	}
	return addr, nil
}

func hexField(raw string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex field %q: %w", raw, err)
	}
	return v, nil
}

// ResolveGUID decodes a GUID and resolves the two-part form through the
// participant registry. The three-part form identifies a specific entity
// instance and is returned as the canonical address text.
func (s *State) ResolveGUID(parts ...string) (string, error) {
	addr, err := DecodeGUID(parts...)
	if err != nil {
		return "", err
	}
	if len(parts) == 2 {
		return s.ResolveParticipant(addr), nil
	}
	return addr, nil
}

// OID decodes the object-id subfield of a GUID into a label: a reserved
// builtin-entity name when it matches the discovery protocol table,
// otherwise a generic kind-and-number label such as "Writer(128)".
func OID(raw string) string {
	num, err := hexField(raw)
	if err != nil {
		return raw
	}
	oid := uint32(num)
	if name, ok := builtinOIDNames[oid]; ok {
		return name
	}
	kind, ok := oidKindNames[oid&0xff]
	if !ok {
		kind = "Object"
	}
	return fmt.Sprintf("%s(%d)", kind, oid>>8)
}

// IsBuiltinEntity reports whether an object id belongs to the discovery
// protocol. Discovery traffic logs at a higher verbosity threshold than
// user traffic.
func IsBuiltinEntity(raw string) bool {
	num, err := hexField(raw)
	if err != nil {
		return false
	}
	return num&0xc0 == 0xc0
}

// decodeLocator normalizes an encoded locator. Hex addresses embedded in
// transport locators ("udpv4://0X0A2D0101:7410") are decoded to dotted
// form; already-textual locators pass through unchanged.
func decodeLocator(raw string) string {
	trimmed := strings.TrimSpace(raw)
	rest := trimmed
	prefix := ""
	if i := strings.Index(trimmed, "://"); i >= 0 {
		prefix = trimmed[:i+3]
		rest = trimmed[i+3:]
	}
	host := rest
	port := ""
	if i := strings.LastIndex(rest, ":"); i >= 0 {
		host = rest[:i]
		port = rest[i:]
	}
	if strings.HasPrefix(host, "0X") || strings.HasPrefix(host, "0x") {
		if ip, err := Hex2IP(host, false); err == nil {
			return prefix + ip + port
		}
	}
	return trimmed
}
