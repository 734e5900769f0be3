package chat

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistory_Append_PreservesOrder(t *testing.T) {
	req := require.New(t)
	h := NewHistory(0)
	alice := Participant{ID: "connA", Username: "alice"}

	h.Append("one", alice)
	h.Append("two", alice)
	h.Append("three", alice)

	all := h.All()
	req.Len(all, 3)
	req.Equal("one", all[0].Text)
	req.Equal("two", all[1].Text)
	req.Equal("three", all[2].Text)
}

func TestHistory_Append_IdsAreUniqueAndMonotonic(t *testing.T) {
	req := require.New(t)
	h := NewHistory(0)
	alice := Participant{ID: "connA", Username: "alice"}

	// A tight loop appends many messages inside the same millisecond.
	var prev int64
	for i := 0; i < 1000; i++ {
		msg := h.Append("tick", alice)
		id, err := strconv.ParseInt(msg.ID, 10, 64)
		req.NoError(err)
		req.Greater(id, prev)
		prev = id
	}
}

func TestHistory_Append_CarriesSenderIdentity(t *testing.T) {
	req := require.New(t)
	h := NewHistory(0)

	msg := h.Append("hi", Participant{ID: "connA", Username: "alice"})

	req.Equal("connA", msg.UserID)
	req.Equal("alice", msg.Username)
	req.False(msg.Timestamp.IsZero())
}

func TestHistory_Limit_KeepsLastN(t *testing.T) {
	req := require.New(t)
	h := NewHistory(3)
	alice := Participant{ID: "connA", Username: "alice"}

	for _, text := range []string{"a", "b", "c", "d", "e"} {
		h.Append(text, alice)
	}

	all := h.All()
	req.Len(all, 3)
	req.Equal("c", all[0].Text)
	req.Equal("d", all[1].Text)
	req.Equal("e", all[2].Text)
}

func TestHistory_All_IsACopy(t *testing.T) {
	req := require.New(t)
	h := NewHistory(0)

	h.Append("hi", Participant{ID: "connA", Username: "alice"})
	all := h.All()
	all[0].Text = "tampered"

	req.Equal("hi", h.All()[0].Text)
}
