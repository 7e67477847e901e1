package state

import "testing"

func TestResolveParticipantAssignsSequentialNames(t *testing.T) {
	s := New()
	if got := s.ResolveParticipant("10.45.1.1 07412"); got != "P1" {
		t.Errorf("first participant: got %q", got)
	}
	if got := s.ResolveParticipant("10.45.1.2 07413"); got != "P2" {
		t.Errorf("second participant: got %q", got)
	}
	// resolution is stable for the whole run
	for i := 0; i < 3; i++ {
		if got := s.ResolveParticipant("10.45.1.1 07412"); got != "P1" {
			t.Fatalf("repeat resolution changed: %q", got)
		}
	}
}

func TestResolveParticipantLocalAddress(t *testing.T) {
	s := New()
	if _, conflict := s.SetLocalAddress("10.45.1.1 07412"); conflict {
		t.Fatal("first SetLocalAddress must not conflict")
	}
	if got := s.ResolveParticipant("10.45.1.1 07412"); got != "local" {
		t.Errorf("local address should resolve to local, got %q", got)
	}
	if got := s.ResolveParticipant("10.45.1.2 07412"); got != "P1" {
		t.Errorf("remote participant after local: got %q", got)
	}
}

func TestSetLocalAddressConflict(t *testing.T) {
	s := New()
	s.SetLocalAddress("10.45.1.1 07412")
	// same value again is idempotent
	if _, conflict := s.SetLocalAddress("10.45.1.1 07412"); conflict {
		t.Error("re-setting the same address must not conflict")
	}
	prev, conflict := s.SetLocalAddress("10.45.1.9 07999")
	if !conflict {
		t.Fatal("conflicting SetLocalAddress must be reported")
	}
	if prev != "10.45.1.1 07412" {
		t.Errorf("conflict should report the kept address, got %q", prev)
	}
	// first value stays authoritative
	if s.LocalAddress() != "10.45.1.1 07412" {
		t.Errorf("local address overwritten: %q", s.LocalAddress())
	}
}

func TestResolveNamespacesAreIndependent(t *testing.T) {
	s := New()
	if got := s.ResolveTopic("Square"); got != "Square" {
		t.Errorf("topic display name: got %q", got)
	}
	if got := s.ResolveType("ShapeType"); got != "ShapeType" {
		t.Errorf("type display name: got %q", got)
	}

	var topics []string
	s.Topics(func(name string) { topics = append(topics, name) })
	if len(topics) != 1 || topics[0] != "Square" {
		t.Errorf("registered topics: %v", topics)
	}
}

func TestArchiveKeepsLinesVerbatim(t *testing.T) {
	s := New()
	lines := []string{"XYZ unknown format 123", "  spaced  "}
	for _, l := range lines {
		s.Archive(l)
	}
	got := s.Unmatched()
	if len(got) != len(lines) {
		t.Fatalf("expected %d archived lines, got %d", len(lines), len(got))
	}
	for i := range lines {
		if got[i] != lines[i] {
			t.Errorf("archived line %d altered: %q", i, got[i])
		}
	}
}
