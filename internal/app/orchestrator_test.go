package app

import (
	"encoding/json"
	"testing"

	"webmeet/internal/domain"
)

func newTestOrchestrator() *Orchestrator {
	return &Orchestrator{Registry: NewRegistry(), Rooms: NewDirectory()}
}

func decode(t *testing.T, c *fakeConn) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]any
		if err := json.Unmarshal(f, &m); err != nil {
			t.Fatalf("bad frame %q: %v", f, err)
		}
		out = append(out, m)
	}
	return out
}

func ofKind(events []map[string]any, kind string) []map[string]any {
	var out []map[string]any
	for _, e := range events {
		if e["type"] == kind {
			out = append(out, e)
		}
	}
	return out
}

// The end-to-end scenario: A and B meet in r1, C sits in r2.
func TestJoinAndRelayScenario(t *testing.T) {
	o := newTestOrchestrator()
	a, b, c := &fakeConn{}, &fakeConn{}, &fakeConn{}
	o.OnConnect("A", a)
	o.OnConnect("B", b)
	o.OnConnect("C", c)

	o.OnJoin("A", "r1", "Ali")
	aEvents := decode(t, a)
	if len(aEvents) != 1 || aEvents[0]["type"] != KindRoomUsers {
		t.Fatalf("A after own join got %+v, want one room_users", aEvents)
	}
	users := aEvents[0]["users"].([]any)
	if len(users) != 1 {
		t.Fatalf("A's snapshot = %v, want only A", users)
	}
	first := users[0].(map[string]any)
	if first["id"] != "A" || first["displayName"] != "Ali" {
		t.Errorf("A's snapshot entry = %v", first)
	}

	o.OnJoin("B", "r1", "Sara")
	joined := ofKind(decode(t, a), KindUserJoined)
	if len(joined) != 1 || joined[0]["id"] != "B" || joined[0]["displayName"] != "Sara" {
		t.Fatalf("A's user_joined = %+v", joined)
	}
	bEvents := decode(t, b)
	if n := len(ofKind(bEvents, KindUserJoined)); n != 0 {
		t.Errorf("B received %d user_joined for itself, want 0", n)
	}
	bUsers := ofKind(bEvents, KindRoomUsers)
	if len(bUsers) != 1 || len(bUsers[0]["users"].([]any)) != 2 {
		t.Fatalf("B's snapshot = %+v, want A and B", bUsers)
	}

	o.OnJoin("C", "r2", "Omar")
	if got := len(decode(t, a)); got != 2 {
		t.Errorf("A saw %d events after C joined another room, want 2", got)
	}
	if got := len(decode(t, b)); got != 1 {
		t.Errorf("B saw %d events after C joined another room, want 1", got)
	}

	o.Relay("B", KindChatPublic, []byte(`{"type":"chat_public","text":"hi"}`))
	chats := ofKind(decode(t, a), KindChatPublic)
	if len(chats) != 1 || chats[0]["from"] != "B" || chats[0]["text"] != "hi" {
		t.Fatalf("A's chat = %+v", chats)
	}
	if n := len(ofKind(decode(t, b), KindChatPublic)); n != 0 {
		t.Error("broadcast echoed back to sender")
	}
	if n := len(ofKind(decode(t, c), KindChatPublic)); n != 0 {
		t.Error("broadcast leaked across rooms")
	}

	o.OnDisconnect("B")
	left := ofKind(decode(t, a), KindUserLeft)
	if len(left) != 1 || left[0]["id"] != "B" {
		t.Fatalf("A's user_left = %+v", left)
	}
}

func TestRelayUnicastIgnoresRooms(t *testing.T) {
	o := newTestOrchestrator()
	a, c := &fakeConn{}, &fakeConn{}
	o.OnConnect("A", a)
	o.OnConnect("C", c)
	o.OnJoin("A", "r1", "Ali")
	o.OnJoin("C", "r2", "Omar")

	o.Relay("A", KindChatPrivate, []byte(`{"type":"chat_private","to":"C","text":"psst"}`))
	got := ofKind(decode(t, c), KindChatPrivate)
	if len(got) != 1 || got[0]["from"] != "A" {
		t.Fatalf("cross-room unicast not delivered: %+v", got)
	}
}

func TestRelayUnknownRecipientSilent(t *testing.T) {
	o := newTestOrchestrator()
	a := &fakeConn{}
	o.OnConnect("A", a)
	o.OnJoin("A", "r1", "Ali")

	o.Relay("A", KindRTCOffer, []byte(`{"type":"rtc_offer","to":"ghost","sdp":"x"}`))
	if got := len(ofKind(decode(t, a), KindRTCOffer)); got != 0 {
		t.Errorf("sender received %d frames for unknown recipient, want 0", got)
	}
}

func TestRelayBeforeJoinDropped(t *testing.T) {
	o := newTestOrchestrator()
	a, b := &fakeConn{}, &fakeConn{}
	o.OnConnect("A", a)
	o.OnConnect("B", b)
	o.OnJoin("B", "r1", "Sara")

	o.Relay("A", KindChatPublic, []byte(`{"type":"chat_public","text":"early"}`))
	if got := len(ofKind(decode(t, b), KindChatPublic)); got != 0 {
		t.Errorf("pre-join relay delivered %d frames, want 0", got)
	}
}

func TestRelayStampsFromOverClientValue(t *testing.T) {
	o := newTestOrchestrator()
	a, b := &fakeConn{}, &fakeConn{}
	o.OnConnect("A", a)
	o.OnConnect("B", b)
	o.OnJoin("A", "r1", "Ali")
	o.OnJoin("B", "r1", "Sara")

	o.Relay("A", KindChatPublic, []byte(`{"type":"chat_public","from":"spoofed","text":"hi"}`))
	got := ofKind(decode(t, b), KindChatPublic)
	if len(got) != 1 || got[0]["from"] != "A" {
		t.Fatalf("from not overwritten: %+v", got)
	}
}

func TestDisconnectNotifiesEachRemainingMemberOnce(t *testing.T) {
	o := newTestOrchestrator()
	c, d, e := &fakeConn{}, &fakeConn{}, &fakeConn{}
	o.OnConnect("C", c)
	o.OnConnect("D", d)
	o.OnConnect("E", e)
	o.OnJoin("C", "r", "c")
	o.OnJoin("D", "r", "d")
	o.OnJoin("E", "r", "e")

	o.OnDisconnect("C")
	for name, conn := range map[string]*fakeConn{"D": d, "E": e} {
		left := ofKind(decode(t, conn), KindUserLeft)
		if len(left) != 1 || left[0]["id"] != "C" {
			t.Errorf("%s user_left = %+v, want one for C", name, left)
		}
	}

	// C absent from the next snapshot.
	f := &fakeConn{}
	o.OnConnect("F", f)
	o.OnJoin("F", "r", "f")
	snap := ofKind(decode(t, f), KindRoomUsers)[0]["users"].([]any)
	for _, u := range snap {
		if u.(map[string]any)["id"] == "C" {
			t.Error("disconnected connection still in snapshot")
		}
	}
}

func TestJoinDefaultsDisplayName(t *testing.T) {
	o := newTestOrchestrator()
	a := &fakeConn{}
	o.OnConnect("A", a)
	o.OnJoin("A", "r1", "")

	p, err := o.Registry.Profile("A")
	if err != nil {
		t.Fatal(err)
	}
	if p.DisplayName != domain.DefaultDisplayName {
		t.Errorf("displayName = %q, want %q", p.DisplayName, domain.DefaultDisplayName)
	}
}

func TestSendSurvivesBackpressure(t *testing.T) {
	o := newTestOrchestrator()
	a, b := &fakeConn{}, &fakeConn{failing: true}
	o.OnConnect("A", a)
	o.OnConnect("B", b)
	o.OnJoin("A", "r1", "Ali")
	o.OnJoin("B", "r1", "Sara")

	// B's transport refuses every frame; A must still get the broadcast.
	o.Relay("A", KindChatPublic, []byte(`{"type":"chat_public","text":"hi"}`))
	o.Relay("B", KindChatPublic, []byte(`{"type":"chat_public","text":"yo"}`))
	if got := len(ofKind(decode(t, a), KindChatPublic)); got != 1 {
		t.Errorf("A got %d chat frames, want 1", got)
	}
	if got := b.count(); got != 0 {
		t.Errorf("failing transport buffered %d frames, want 0", got)
	}
}
