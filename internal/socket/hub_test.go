package socket

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func registerClient(h *Hub, adminID string) *Client {
	c := NewClient(h, adminID, nil)
	h.register <- c
	return c
}

// waitFor reads from the client until a message of the given type arrives.
func waitFor(t *testing.T, c *Client, msgType MessageType) Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case data, ok := <-c.Send:
			require.True(t, ok, "send channel closed before %s arrived", msgType)
			var msg Message
			require.NoError(t, json.Unmarshal(data, &msg))
			if msg.Type == msgType {
				return msg
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", msgType)
		}
	}
}

func TestHub_RegisterJoinsAdminRoom(t *testing.T) {
	h := startHub(t)
	c := registerClient(h, "admin-1")

	msg := waitFor(t, c, MessageAdminOnline)
	assert.Equal(t, "admin-1", msg.Payload["adminId"])
	assert.Equal(t, 1, h.GetConnectedClientsCount())
	assert.Equal(t, 1, h.GetRoomClients(RoomAdmin))
}

func TestBroadcaster_InterestReachesAdminRoom(t *testing.T) {
	h := startHub(t)
	b := NewBroadcaster(h)
	c := registerClient(h, "admin-1")
	waitFor(t, c, MessageAdminOnline)

	b.BroadcastInterestRecorded("E1", map[string]interface{}{
		"memberId":   "m-1",
		"eventTitle": "Mount Kenya Hiking Adventure",
	})

	msg := waitFor(t, c, MessageInterestRecorded)
	assert.Equal(t, "m-1", msg.Payload["memberId"])
	assert.Equal(t, "Mount Kenya Hiking Adventure", msg.Payload["eventTitle"])
}

func TestBroadcaster_EventRoomReceivesOwnEventOnly(t *testing.T) {
	h := startHub(t)
	b := NewBroadcaster(h)
	c := registerClient(h, "admin-1")
	waitFor(t, c, MessageAdminOnline)

	h.JoinRoom(c, EventRoom("E1"))
	assert.Equal(t, 1, h.GetRoomClients(EventRoom("E1")))

	b.BroadcastRegistrationCreated("E1", map[string]interface{}{"id": "reg-1"})
	waitFor(t, c, MessageRegistrationCreated)
	waitFor(t, c, MessageRegistrationCreated)

	h.LeaveRoom(c, EventRoom("E1"))
	assert.Equal(t, 0, h.GetRoomClients(EventRoom("E1")))
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	c := registerClient(h, "admin-1")
	waitFor(t, c, MessageAdminOnline)

	h.unregister <- c

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-c.Send:
			if !ok {
				assert.Equal(t, 0, h.GetConnectedClientsCount())
				return
			}
		case <-timeout:
			t.Fatal("send channel was not closed")
		}
	}
}

func TestValidRoom(t *testing.T) {
	assert.True(t, validRoom("event:E1"))
	assert.False(t, validRoom("event:"))
	assert.False(t, validRoom(RoomAdmin))
	assert.False(t, validRoom("user:1"))
}

type fakeValidator struct{}

func (fakeValidator) ValidateToken(token string) (*jwt.Token, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &jwt.Token{Valid: true}, nil
}

func (fakeValidator) GetAdminIDFromToken(*jwt.Token) (string, error) {
	return "admin-1", nil
}

func TestHandler_WebSocket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := startHub(t)

	router := gin.New()
	router.GET("/ws", NewHandler(h, fakeValidator{}, nil).HandleWebSocket)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	t.Run("rejects missing token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bad", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("accepts valid token", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token=good", nil)
		require.NoError(t, err)
		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, MessageAdminOnline, msg.Type)
		assert.Equal(t, "admin-1", msg.Payload["adminId"])
	})
}
