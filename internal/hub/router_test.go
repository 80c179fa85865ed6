package hub

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enter(t *testing.T, h *Hub, c *Client, roomID string) {
	t.Helper()
	h.router.Dispatch(c, &Envelope{Type: TypeEnter, RoomID: roomID})
}

func TestRouterEnterBroadcastsAndReplaysHistory(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(store, nil)

	// pre-existing history from an earlier session
	_, err := store.SaveMessage("42", "E009", "Park", "earlier message", StoredText)
	require.NoError(t, err)

	first := connect(t, h, "E001", "Kim", KindChat)
	enter(t, h, first, "42")
	drain(first)

	second := connect(t, h, "E002", "Lee", KindChat)
	enter(t, h, second, "42")

	assert.True(t, h.rooms.IsMember("42", "E001"))
	assert.True(t, h.rooms.IsMember("42", "E002"))

	// the earlier member sees the new join notice but no history replay
	firstMsgs := drain(first)
	assert.Nil(t, lastOfType(firstMsgs, TypeChatHistory))
	require.NotNil(t, lastOfType(firstMsgs, TypeEnter))
	assert.Equal(t, "E002", lastOfType(firstMsgs, TypeEnter).SenderID)

	// the joiner sees its own join notice plus the history replay
	secondMsgs := drain(second)
	joinNotice := lastOfType(secondMsgs, TypeEnter)
	require.NotNil(t, joinNotice)
	assert.Equal(t, "E002", joinNotice.SenderID)
	assert.NotZero(t, joinNotice.ID)
	assert.NotNil(t, joinNotice.Timestamp)

	history := lastOfType(secondMsgs, TypeChatHistory)
	require.NotNil(t, history)

	var payload struct {
		Messages []historyItem `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(history.Content, &payload))
	require.NotEmpty(t, payload.Messages)
	// chronological order: the pre-existing message comes first
	assert.Equal(t, "earlier message", payload.Messages[0].Content)
	for i := 1; i < len(payload.Messages); i++ {
		assert.False(t, payload.Messages[i].Timestamp.Before(payload.Messages[i-1].Timestamp))
	}
}

func TestRouterChatPersistsThenBroadcasts(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(store, nil)

	sender := connect(t, h, "E001", "Kim", KindChat)
	peer := connect(t, h, "E002", "Lee", KindChat)
	enter(t, h, sender, "42")
	enter(t, h, peer, "42")
	drain(sender)
	drain(peer)

	h.router.Dispatch(sender, &Envelope{
		Type:    TypeChat,
		RoomID:  "42",
		Content: textContent("hello team"),
		// client-supplied identity must be ignored
		SenderID:   "spoofed",
		SenderName: "Mallory",
	})

	for _, c := range []*Client{sender, peer} {
		msgs := drain(c)
		chat := lastOfType(msgs, TypeChat)
		require.NotNil(t, chat)
		assert.Equal(t, "E001", chat.SenderID)
		assert.Equal(t, "Kim", chat.SenderName)
		assert.NotZero(t, chat.ID)
		assert.NotNil(t, chat.Timestamp)

		var text string
		require.NoError(t, json.Unmarshal(chat.Content, &text))
		assert.Equal(t, "hello team", text)
	}

	assert.Contains(t, store.savedContents(), "hello team")
}

func TestRouterChatFromNonMemberRejected(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(store, nil)

	member := connect(t, h, "E001", "Kim", KindChat)
	outsider := connect(t, h, "E002", "Lee", KindChat)
	enter(t, h, member, "42")
	drain(member)

	h.router.Dispatch(outsider, &Envelope{
		Type:    TypeChat,
		RoomID:  "42",
		Content: textContent("let me in"),
	})

	errReply := lastOfType(drain(outsider), TypeError)
	require.NotNil(t, errReply)
	assert.Empty(t, drain(member))
	assert.NotContains(t, store.savedContents(), "let me in")
}

func TestRouterChatFailsClosedOnStoreError(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(store, nil)

	sender := connect(t, h, "E001", "Kim", KindChat)
	peer := connect(t, h, "E002", "Lee", KindChat)
	enter(t, h, sender, "42")
	enter(t, h, peer, "42")
	drain(sender)
	drain(peer)

	store.failSave = true
	h.router.Dispatch(sender, &Envelope{
		Type:    TypeChat,
		RoomID:  "42",
		Content: textContent("lost words"),
	})

	// sender gets an error reply, nobody gets the message
	require.NotNil(t, lastOfType(drain(sender), TypeError))
	assert.Empty(t, drain(peer))
}

func TestRouterMalformedChatContent(t *testing.T) {
	h := newTestHub(&fakeStore{}, nil)

	sender := connect(t, h, "E001", "Kim", KindChat)
	enter(t, h, sender, "42")
	drain(sender)

	h.router.Dispatch(sender, &Envelope{
		Type:    TypeChat,
		RoomID:  "42",
		Content: json.RawMessage(`{"not":"a string"}`),
	})

	require.NotNil(t, lastOfType(drain(sender), TypeError))
}

func TestRouterMissingRoomID(t *testing.T) {
	h := newTestHub(&fakeStore{}, nil)
	c := connect(t, h, "E001", "Kim", KindChat)

	h.router.Dispatch(c, &Envelope{Type: TypeChat, Content: textContent("hi")})

	require.NotNil(t, lastOfType(drain(c), TypeError))
}

func TestRouterRejectsUnknownAndServerOriginTypes(t *testing.T) {
	h := newTestHub(&fakeStore{}, nil)
	c := connect(t, h, "E001", "Kim", KindChat)
	enter(t, h, c, "42")
	drain(c)

	for _, typ := range []MessageType{"SHOUT", TypeParticipant, TypeChatHistory, TypeError} {
		h.router.Dispatch(c, &Envelope{Type: typ, RoomID: "42"})
		require.NotNil(t, lastOfType(drain(c), TypeError), "type %s", typ)
	}
}

func TestRouterRelayDeliversToTargetOnly(t *testing.T) {
	dir := &fakeDirectory{rooms: map[string]bool{"m1": true}}
	h := newTestHub(&fakeStore{}, dir)

	caller := connect(t, h, "E001", "Kim", KindMeeting)
	callee := connect(t, h, "E002", "Lee", KindMeeting)
	bystander := connect(t, h, "E003", "Park", KindMeeting)
	enter(t, h, caller, "m1")
	enter(t, h, callee, "m1")
	enter(t, h, bystander, "m1")
	drain(caller)
	drain(callee)
	drain(bystander)

	sdp := json.RawMessage(`{"sdp":"v=0..."}`)
	h.router.Dispatch(caller, &Envelope{
		Type:     TypeOffer,
		RoomID:   "m1",
		Target:   "E002",
		Content:  sdp,
		SenderID: "spoofed",
	})

	offer := lastOfType(drain(callee), TypeOffer)
	require.NotNil(t, offer)
	assert.Equal(t, "E001", offer.SenderID)
	assert.Equal(t, "Kim", offer.SenderName)
	assert.Equal(t, "E002", offer.Target)
	assert.Equal(t, sdp, offer.Content)

	assert.Empty(t, drain(caller))
	assert.Empty(t, drain(bystander))
}

func TestRouterRelayMissingTarget(t *testing.T) {
	dir := &fakeDirectory{rooms: map[string]bool{"m1": true}}
	h := newTestHub(&fakeStore{}, dir)

	caller := connect(t, h, "E001", "Kim", KindMeeting)
	enter(t, h, caller, "m1")
	drain(caller)

	h.router.Dispatch(caller, &Envelope{Type: TypeAnswer, RoomID: "m1"})

	require.NotNil(t, lastOfType(drain(caller), TypeError))
}

func TestRouterRelayToAbsentTargetDroppedSilently(t *testing.T) {
	dir := &fakeDirectory{rooms: map[string]bool{"m1": true}}
	h := newTestHub(&fakeStore{}, dir)

	caller := connect(t, h, "E001", "Kim", KindMeeting)
	enter(t, h, caller, "m1")
	drain(caller)

	h.router.Dispatch(caller, &Envelope{
		Type:    TypeOffer,
		RoomID:  "m1",
		Target:  "E404",
		Content: json.RawMessage(`{}`),
	})

	// no error reply, no delivery
	assert.Empty(t, drain(caller))
}

func TestRouterIceCandidateBroadcastsExceptSender(t *testing.T) {
	dir := &fakeDirectory{rooms: map[string]bool{"m1": true}}
	h := newTestHub(&fakeStore{}, dir)

	sender := connect(t, h, "E001", "Kim", KindMeeting)
	a := connect(t, h, "E002", "Lee", KindMeeting)
	b := connect(t, h, "E003", "Park", KindMeeting)
	enter(t, h, sender, "m1")
	enter(t, h, a, "m1")
	enter(t, h, b, "m1")
	drain(sender)
	drain(a)
	drain(b)

	h.router.Dispatch(sender, &Envelope{
		Type:    TypeIceCandidate,
		RoomID:  "m1",
		Content: json.RawMessage(`{"candidate":"..."}`),
	})

	assert.Empty(t, drain(sender))
	for _, c := range []*Client{a, b} {
		candidate := lastOfType(drain(c), TypeIceCandidate)
		require.NotNil(t, candidate)
		assert.Equal(t, "E001", candidate.SenderID)
	}
}

func TestRouterLeaveNotifiesRemaining(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(store, nil)

	leaver := connect(t, h, "E001", "Kim", KindChat)
	stayer := connect(t, h, "E002", "Lee", KindChat)
	enter(t, h, leaver, "42")
	enter(t, h, stayer, "42")
	drain(leaver)
	drain(stayer)

	h.router.Dispatch(leaver, &Envelope{Type: TypeLeave, RoomID: "42"})

	assert.False(t, h.rooms.IsMember("42", "E001"))
	notice := lastOfType(drain(stayer), TypeLeave)
	require.NotNil(t, notice)
	assert.Equal(t, "E001", notice.SenderID)
	assert.Contains(t, store.savedContents(), "Kim left the room")

	// a second LEAVE for the same room is a no-op
	h.router.Dispatch(leaver, &Envelope{Type: TypeLeave, RoomID: "42"})
	assert.Empty(t, drain(stayer))
}

func TestRouterMeetingEnterValidatesDirectory(t *testing.T) {
	dir := &fakeDirectory{rooms: map[string]bool{"open": true, "closed": false}}
	h := newTestHub(&fakeStore{}, dir)
	c := connect(t, h, "E001", "Kim", KindMeeting)

	enter(t, h, c, "missing")
	require.NotNil(t, lastOfType(drain(c), TypeError))
	assert.False(t, h.rooms.IsMember("missing", "E001"))

	enter(t, h, c, "closed")
	require.NotNil(t, lastOfType(drain(c), TypeError))
	assert.False(t, h.rooms.IsMember("closed", "E001"))

	enter(t, h, c, "open")
	assert.True(t, h.rooms.IsMember("open", "E001"))
}

func TestRouterMeetingEnterSendsParticipants(t *testing.T) {
	dir := &fakeDirectory{rooms: map[string]bool{"m1": true}}
	h := newTestHub(&fakeStore{}, dir)

	first := connect(t, h, "E001", "Kim", KindMeeting)
	enter(t, h, first, "m1")
	drain(first)

	second := connect(t, h, "E002", "Lee", KindMeeting)
	enter(t, h, second, "m1")

	// the earlier member is told who joined
	joined := lastOfType(drain(first), TypeParticipant)
	require.NotNil(t, joined)
	var notice struct {
		UserID string `json:"userId"`
		Action string `json:"action"`
	}
	require.NoError(t, json.Unmarshal(joined.Content, &notice))
	assert.Equal(t, "E002", notice.UserID)
	assert.Equal(t, "joined", notice.Action)

	// the joiner gets the full roster
	roster := lastOfType(drain(second), TypeParticipant)
	require.NotNil(t, roster)
	var listPayload struct {
		Action       string            `json:"action"`
		Participants []participantInfo `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(roster.Content, &listPayload))
	assert.Equal(t, "list", listPayload.Action)
	assert.Len(t, listPayload.Participants, 2)
}

func TestHubDisconnectDepartsAllRooms(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(store, nil)

	c := connect(t, h, "E001", "Kim", KindChat)
	witness := connect(t, h, "E002", "Lee", KindChat)
	enter(t, h, c, "42")
	enter(t, h, c, "43")
	enter(t, h, witness, "42")
	drain(c)
	drain(witness)

	h.Disconnect(c.ID)

	assert.False(t, h.rooms.IsMember("42", "E001"))
	assert.False(t, h.rooms.IsMember("43", "E001"))
	assert.Equal(t, 1, h.ConnectionCount())
	require.NotNil(t, lastOfType(drain(witness), TypeLeave))

	// disconnecting an already-gone connection is a no-op
	h.Disconnect(c.ID)
}

func TestRouterConcurrentChatKeepsPerRoomOrder(t *testing.T) {
	store := &fakeStore{}
	stores := map[RoomKind]MessageStore{KindChat: store, KindMeeting: store}
	h := New(Options{SendBuffer: 4096}, stores, nil)

	const senders = 8
	const perSender = 25

	members := make([]*Client, senders)
	for i := range members {
		members[i] = connect(t, h, fmt.Sprintf("E%03d", i+1), fmt.Sprintf("user-%d", i+1), KindChat)
		enter(t, h, members[i], "42")
	}
	for _, m := range members {
		drain(m)
	}

	var wg sync.WaitGroup
	for i, m := range members {
		wg.Add(1)
		go func(i int, m *Client) {
			defer wg.Done()
			for n := 0; n < perSender; n++ {
				h.router.Dispatch(m, &Envelope{
					Type:    TypeChat,
					RoomID:  "42",
					Content: textContent(fmt.Sprintf("msg %d from %d", n, i)),
				})
			}
		}(i, m)
	}
	wg.Wait()

	// every member must observe the same total order, and that order must
	// match the order the store committed the messages in
	var reference []uint
	for idx, m := range members {
		var observed []uint
		for _, env := range drain(m) {
			if env.Type == TypeChat {
				observed = append(observed, env.ID)
			}
		}
		require.Len(t, observed, senders*perSender, "member %d", idx)
		assert.True(t, sort.SliceIsSorted(observed, func(a, b int) bool {
			return observed[a] < observed[b]
		}), "member %d saw messages out of commit order", idx)

		if idx == 0 {
			reference = observed
			continue
		}
		assert.Equal(t, reference, observed, "member %d diverged from member 0", idx)
	}
}

func TestRouterDuplicateEnterRefreshesConnectionOnly(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(store, nil)

	member := connect(t, h, "E001", "Kim", KindChat)
	peer := connect(t, h, "E002", "Lee", KindChat)
	enter(t, h, member, "42")
	enter(t, h, peer, "42")
	drain(member)
	drain(peer)
	savedBefore := len(store.savedContents())

	// a second ENTER from a fresh device must not produce another join
	// notice or history replay, only swap the connection reference
	device := connect(t, h, "E001", "Kim", KindChat)
	enter(t, h, device, "42")

	assert.Empty(t, drain(peer))
	assert.Empty(t, drain(device))
	assert.Len(t, store.savedContents(), savedBefore)

	connID, ok := h.rooms.memberConn("42", "E001")
	require.True(t, ok)
	assert.Equal(t, device.ID, connID)
}

func TestRouterRefusedMeetingEnterLeavesNoRoom(t *testing.T) {
	dir := &fakeDirectory{rooms: map[string]bool{"closed": false}}
	h := newTestHub(&fakeStore{}, dir)
	c := connect(t, h, "E001", "Kim", KindMeeting)

	enter(t, h, c, "missing")
	enter(t, h, c, "closed")

	require.NotNil(t, lastOfType(drain(c), TypeError))
	assert.Nil(t, h.rooms.peek("missing"))
	assert.Nil(t, h.rooms.peek("closed"))
}

func TestRouterLeaveNoticeSaveFailureRepliesError(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(store, nil)

	leaver := connect(t, h, "E001", "Kim", KindChat)
	stayer := connect(t, h, "E002", "Lee", KindChat)
	enter(t, h, leaver, "42")
	enter(t, h, stayer, "42")
	drain(leaver)
	drain(stayer)

	store.failSave = true
	h.router.Dispatch(leaver, &Envelope{Type: TypeLeave, RoomID: "42"})

	// the member is gone either way, the sender is told the notice was lost
	assert.False(t, h.rooms.IsMember("42", "E001"))
	require.NotNil(t, lastOfType(drain(leaver), TypeError))
	assert.Nil(t, lastOfType(drain(stayer), TypeLeave))
}

func TestHubHandleConnectionRequiresIdentity(t *testing.T) {
	h := newTestHub(&fakeStore{}, nil)

	err := h.HandleConnection(nil, "", "Anon", KindChat)
	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.Equal(t, 0, h.ConnectionCount())
}
