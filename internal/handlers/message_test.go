package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rente-dev/rente/db"
	"github.com/rente-dev/rente/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageAndConversationRoundTrip(t *testing.T) {
	r := setupTest(t)

	alice, aliceToken := createTestUser(t, "tenant", "alice@example.com")
	bob, bobToken := createTestUser(t, "landlord", "bob@example.com")

	w := performJSON(r, http.MethodPost, "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id":     bob.ID,
		"message_content": "Hello, is the house still available?",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID     uint   `json:"id"`
			ReadAt *string `json:"read_at"`
			Sender struct {
				FirstName string `json:"fname"`
			} `json:"sender"`
		} `json:"data"`
	}
	decodeBody(t, w, &created)
	assert.Nil(t, created.Data.ReadAt)
	assert.Equal(t, "Test", created.Data.Sender.FirstName)

	// The sender sees the message, and it stays unread.
	w = performJSON(r, http.MethodGet, fmt.Sprintf("/api/messages/conversation/%d", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var thread []struct {
		ID      uint    `json:"id"`
		Content string  `json:"message_content"`
		ReadAt  *string `json:"read_at"`
	}
	decodeBody(t, w, &thread)
	require.Len(t, thread, 1)
	assert.Equal(t, created.Data.ID, thread[0].ID)
	assert.Nil(t, thread[0].ReadAt)

	// The receiver opening the conversation marks it read.
	w = performJSON(r, http.MethodGet, fmt.Sprintf("/api/messages/conversation/%d", alice.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &thread)
	require.Len(t, thread, 1)

	var message models.Message
	require.NoError(t, db.DB.First(&message, created.Data.ID).Error)
	require.NotNil(t, message.ReadAt)
	firstReadAt := *message.ReadAt

	// Re-reading the conversation does not move the read timestamp.
	time.Sleep(10 * time.Millisecond)
	w = performJSON(r, http.MethodGet, fmt.Sprintf("/api/messages/conversation/%d", alice.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.DB.First(&message, created.Data.ID).Error)
	require.NotNil(t, message.ReadAt)
	assert.True(t, message.ReadAt.Equal(firstReadAt))
}

func TestSendMessageValidation(t *testing.T) {
	r := setupTest(t)

	alice, aliceToken := createTestUser(t, "tenant", "alice@example.com")

	// No sending to yourself.
	w := performJSON(r, http.MethodPost, "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id":     alice.ID,
		"message_content": "note to self",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Receiver must exist.
	w = performJSON(r, http.MethodPost, "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id":     uint(9999),
		"message_content": "hello?",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	bob, _ := createTestUser(t, "landlord", "bob@example.com")

	// Content is capped at 2000 characters.
	w = performJSON(r, http.MethodPost, "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id":     bob.ID,
		"message_content": strings.Repeat("a", 2001),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Content is required.
	w = performJSON(r, http.MethodPost, "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id": bob.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A referenced house must exist.
	w = performJSON(r, http.MethodPost, "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id":     bob.ID,
		"message_content": "about that house",
		"house_id":        uint(12345),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShowConversationWithSelf(t *testing.T) {
	r := setupTest(t)

	alice, aliceToken := createTestUser(t, "tenant", "alice@example.com")

	w := performJSON(r, http.MethodGet, fmt.Sprintf("/api/messages/conversation/%d", alice.ID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListConversationsUnreadCounts(t *testing.T) {
	r := setupTest(t)

	alice, aliceToken := createTestUser(t, "tenant", "alice@example.com")
	bob, bobToken := createTestUser(t, "landlord", "bob@example.com")
	carol, carolToken := createTestUser(t, "landlord", "carol@example.com")

	send := func(token string, receiverID uint, content string) {
		w := performJSON(r, http.MethodPost, "/api/messages", token, map[string]interface{}{
			"receiver_id":     receiverID,
			"message_content": content,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	send(bobToken, alice.ID, "first from bob")
	send(bobToken, alice.ID, "second from bob")
	send(carolToken, alice.ID, "hello from carol")

	w := performJSON(r, http.MethodGet, "/api/messages", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var conversations []struct {
		UserID        uint   `json:"user_id"`
		Email         string `json:"email"`
		LatestMessage string `json:"latest_message"`
		UnreadCount   int    `json:"unread_count"`
	}
	decodeBody(t, w, &conversations)
	require.Len(t, conversations, 2)

	// Carol messaged last, so her conversation leads.
	assert.Equal(t, carol.ID, conversations[0].UserID)
	assert.Equal(t, "hello from carol", conversations[0].LatestMessage)
	assert.Equal(t, 1, conversations[0].UnreadCount)

	assert.Equal(t, bob.ID, conversations[1].UserID)
	assert.Equal(t, "second from bob", conversations[1].LatestMessage)
	assert.Equal(t, 2, conversations[1].UnreadCount)
	assert.Equal(t, "bob@example.com", conversations[1].Email)

	// Opening the thread clears Bob's unread count but not Carol's.
	w = performJSON(r, http.MethodGet, fmt.Sprintf("/api/messages/conversation/%d", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(r, http.MethodGet, "/api/messages", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &conversations)
	require.Len(t, conversations, 2)

	for _, conversation := range conversations {
		switch conversation.UserID {
		case bob.ID:
			assert.Equal(t, 0, conversation.UnreadCount)
		case carol.ID:
			assert.Equal(t, 1, conversation.UnreadCount)
		}
	}
}

func TestMarkMessageAsRead(t *testing.T) {
	r := setupTest(t)

	_, aliceToken := createTestUser(t, "tenant", "alice@example.com")
	bob, bobToken := createTestUser(t, "landlord", "bob@example.com")

	w := performJSON(r, http.MethodPost, "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id":     bob.ID,
		"message_content": "please read this",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decodeBody(t, w, &created)

	path := fmt.Sprintf("/api/messages/%d/read", created.Data.ID)

	// Only the receiver may mark it read.
	w = performJSON(r, http.MethodPatch, path, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performJSON(r, http.MethodPatch, path, bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Already read.
	w = performJSON(r, http.MethodPatch, path, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var message models.Message
	require.NoError(t, db.DB.First(&message, created.Data.ID).Error)
	assert.NotNil(t, message.ReadAt)
}
