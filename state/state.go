// Package state holds the run-scoped parsing state: the entity registry that
// turns raw hexadecimal identifiers into stable display names, the dedup
// counters for warnings/errors/config facts, the clock pair and the line
// counters. One State exists per run; it is created at startup, passed by
// pointer to every handler and to the logger, and never accessed from more
// than one goroutine.
package state

import (
	"fmt"
	"time"
)

// Clocks is the optional timestamp pair extracted from the log itself. The
// system clock is attached to every emitted record until a newer stamp is
// seen.
type Clocks struct {
	// Monotonic is the middleware's monotonic clock in seconds, when the
	// log carries one.
	Monotonic float64
	HasMono   bool
	// System is the wall clock.
	System    time.Time
	HasSystem bool
}

// State is the mutable run state shared by the dispatcher, the handlers and
// the logger.
type State struct {
	participants map[string]string
	partOrder    []string
	topics       map[string]string
	topicOrder   []string
	types        map[string]string
	typeOrder    []string
	locators     map[string]string
	locOrder     []string

	localAddress string

	// InitialPeers holds the resolved peer locators announced by the
	// middleware, in announcement order.
	InitialPeers []string

	Warnings *Countset
	Errors   *Countset
	Config   *Countset

	Clocks Clocks

	// InputLine is the number of source lines consumed so far.
	InputLine int
	// OutputLine is the number of records actually written. Only the
	// output device increments it.
	OutputLine int

	unmatched []string
}

// New returns an empty run state.
func New() *State {
	return &State{
		participants: make(map[string]string),
		topics:       make(map[string]string),
		types:        make(map[string]string),
		locators:     make(map[string]string),
		Warnings:     NewCountset(),
		Errors:       NewCountset(),
		Config:       NewCountset(),
	}
}

// ResolveParticipant returns the display name for a participant address,
// assigning the next sequential name on first sight. The announced local
// address always resolves to "local".
func (s *State) ResolveParticipant(addr string) string {
	if s.localAddress != "" && addr == s.localAddress {
		return "local"
	}
	if name, ok := s.participants[addr]; ok {
		return name
	}
	name := fmt.Sprintf("P%d", len(s.partOrder)+1)
	s.participants[addr] = name
	s.partOrder = append(s.partOrder, addr)
	return name
}

// ResolveTopic registers a topic identifier and returns its display name.
// Topic names in the log are already human readable so the display name is
// the identifier itself; registration fixes its first-seen position for the
// summary.
func (s *State) ResolveTopic(raw string) string {
	return resolve(s.topics, &s.topicOrder, raw)
}

// ResolveType registers a type identifier, same discipline as ResolveTopic
// in an independent namespace.
func (s *State) ResolveType(raw string) string {
	return resolve(s.types, &s.typeOrder, raw)
}

// ResolveLocator registers a locator and returns its display form. Encoded
// hex-IP locators are decoded to dotted form, anything else passes through.
func (s *State) ResolveLocator(raw string) string {
	if name, ok := s.locators[raw]; ok {
		return name
	}
	name := decodeLocator(raw)
	s.locators[raw] = name
	s.locOrder = append(s.locOrder, raw)
	return name
}

func resolve(m map[string]string, order *[]string, raw string) string {
	if name, ok := m[raw]; ok {
		return name
	}
	m[raw] = raw
	*order = append(*order, raw)
	return raw
}

// SetLocalAddress records the address of the process whose log is being
// read. It may be set only once: a second call with a different address
// returns the conflicting previous value so the caller can surface the
// inconsistency, and the first value stays authoritative.
func (s *State) SetLocalAddress(addr string) (prev string, conflict bool) {
	if s.localAddress != "" && s.localAddress != addr {
		return s.localAddress, true
	}
	s.localAddress = addr
	return "", false
}

// LocalAddress returns the announced local address, empty if never seen.
func (s *State) LocalAddress() string {
	return s.localAddress
}

// Participants visits the discovered participants in first-seen order.
func (s *State) Participants(fn func(addr, name string)) {
	for _, addr := range s.partOrder {
		fn(addr, s.participants[addr])
	}
}

// Topics visits the registered topics in first-seen order.
func (s *State) Topics(fn func(name string)) {
	for _, t := range s.topicOrder {
		fn(s.topics[t])
	}
}

// SetSystemClock updates the wall clock half of the pair.
func (s *State) SetSystemClock(t time.Time) {
	s.Clocks.System = t
	s.Clocks.HasSystem = true
}

// SetMonotonicClock updates the monotonic half of the pair.
func (s *State) SetMonotonicClock(secs float64) {
	s.Clocks.Monotonic = secs
	s.Clocks.HasMono = true
}

// Archive stores an unrecognized line verbatim for later inspection.
// Unknown diagnostic text is never silently dropped.
func (s *State) Archive(line string) {
	s.unmatched = append(s.unmatched, line)
}

// Unmatched returns the archived lines in arrival order.
func (s *State) Unmatched() []string {
	return s.unmatched
}
