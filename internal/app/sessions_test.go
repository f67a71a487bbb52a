package app

import "testing"

func TestSessionBookOpenAndActive(t *testing.T) {
	b := NewSessionBook()

	if b.Active("s1") {
		t.Error("unknown session should not be active")
	}

	b.Open(SignalingSession{ID: "s1", From: "alice", Moment: "m1", Conn: "c1"})
	if !b.Active("s1") {
		t.Error("opened session should be active")
	}
}

func TestSessionBookOverwriteOnCollision(t *testing.T) {
	b := NewSessionBook()
	b.Open(SignalingSession{ID: "s1", From: "alice", Moment: "m1", Conn: "c1"})
	// Last offer wins.
	b.Open(SignalingSession{ID: "s1", From: "bob", Moment: "m1", Conn: "c2"})

	b.DeactivateOwned("c1")
	if !b.Active("s1") {
		t.Error("session now owned by c2 should survive c1's disconnect")
	}

	b.DeactivateOwned("c2")
	if b.Active("s1") {
		t.Error("session should be inactive after owner disconnect")
	}
}

func TestSessionBookDeactivateOwned(t *testing.T) {
	b := NewSessionBook()
	b.Open(SignalingSession{ID: "s1", Conn: "c1"})
	b.Open(SignalingSession{ID: "s2", Conn: "c1"})
	b.Open(SignalingSession{ID: "s3", Conn: "c2"})

	b.DeactivateOwned("c1")

	if b.Active("s1") || b.Active("s2") {
		t.Error("sessions owned by c1 should be inactive")
	}
	if !b.Active("s3") {
		t.Error("session owned by c2 should stay active")
	}
}
