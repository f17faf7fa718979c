package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/rente-dev/rente/db"
	"github.com/rente-dev/rente/internal/models"
	"github.com/rente-dev/rente/internal/types"
	"github.com/rente-dev/rente/internal/utils"
	"gorm.io/gorm"
)

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Content    string `json:"message_content" binding:"required,max=2000"`
	HouseID    *uint  `json:"house_id"`
}

// ConversationSummary is one entry of the conversation list: the counterpart
// plus the latest message and how many of their messages are still unread.
type ConversationSummary struct {
	UserID            uint   `json:"user_id"`
	FirstName         string `json:"fname"`
	LastName          string `json:"lname"`
	Email             string `json:"email"`
	LatestMessage     string `json:"latest_message"`
	LatestMessageTime string `json:"latest_message_time"`
	UnreadCount       int    `json:"unread_count"`
}

type MessageResponse struct {
	ID         uint                `json:"id"`
	SenderID   uint                `json:"sender_id"`
	ReceiverID uint                `json:"receiver_id"`
	HouseID    *uint               `json:"house_id"`
	Content    string              `json:"message_content"`
	CreatedAt  time.Time           `json:"created_at"`
	ReadAt     *time.Time          `json:"read_at"`
	Sender     types.UserSummary   `json:"sender"`
	Receiver   types.UserSummary   `json:"receiver"`
	House      *types.HouseSummary `json:"house,omitempty"`
}

func messageResponse(message models.Message) MessageResponse {
	response := MessageResponse{
		ID:         message.ID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		HouseID:    message.HouseID,
		Content:    message.Content,
		CreatedAt:  message.CreatedAt,
		ReadAt:     message.ReadAt,
		Sender: types.UserSummary{
			ID:        message.Sender.ID,
			FirstName: message.Sender.FirstName,
			LastName:  message.Sender.LastName,
		},
		Receiver: types.UserSummary{
			ID:        message.Receiver.ID,
			FirstName: message.Receiver.FirstName,
			LastName:  message.Receiver.LastName,
		},
	}

	if message.House != nil {
		response.House = &types.HouseSummary{
			ID:       message.House.ID,
			Title:    message.House.Title,
			Location: message.House.Location,
		}
	}

	return response
}

// ListConversations folds the user's messages into one entry per
// counterpart. Conversations are never stored; the newest-first scan means
// the first message seen per counterpart is its latest, and the fold order
// doubles as the response order (latest message time descending).
func ListConversations(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var messages []models.Message

	if err := db.DB.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error; err != nil {
		log.Printf("Failed to list messages for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversations"})
		return
	}

	order := make([]uint, 0)
	summaries := make(map[uint]*ConversationSummary)

	for _, message := range messages {
		counterpartID := message.SenderID
		if counterpartID == userID {
			counterpartID = message.ReceiverID
		}

		summary, seen := summaries[counterpartID]

		if !seen {
			summary = &ConversationSummary{
				UserID:            counterpartID,
				LatestMessage:     message.Content,
				LatestMessageTime: humanize.Time(message.CreatedAt),
			}
			summaries[counterpartID] = summary
			order = append(order, counterpartID)
		}

		if message.ReceiverID == userID && message.ReadAt == nil {
			summary.UnreadCount++
		}
	}

	if len(order) > 0 {
		var counterparts []models.User

		if err := db.DB.Find(&counterparts, order).Error; err != nil {
			log.Printf("Failed to load conversation counterparts: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversations"})
			return
		}

		for _, counterpart := range counterparts {
			if summary, ok := summaries[counterpart.ID]; ok {
				summary.FirstName = counterpart.FirstName
				summary.LastName = counterpart.LastName
				summary.Email = counterpart.Email
			}
		}
	}

	response := make([]ConversationSummary, 0, len(order))

	for _, counterpartID := range order {
		response = append(response, *summaries[counterpartID])
	}

	ctx.JSON(http.StatusOK, response)
}

// ShowConversation returns both directions of the thread with one
// counterpart, oldest first, and stamps every unread inbound message as
// read. Re-running the call has no further effect.
func ShowConversation(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	otherID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	otherUserID := uint(otherID)

	if otherUserID == currentUser.ID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Cannot view conversation with self"})
		return
	}

	var otherUser models.User

	if err := db.DB.First(&otherUser, otherUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Failed to fetch user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversation"})
		}
		return
	}

	var messages []models.Message

	if err := db.DB.
		Where(
			db.DB.Where("sender_id = ? AND receiver_id = ?", currentUser.ID, otherUserID).
				Or("sender_id = ? AND receiver_id = ?", otherUserID, currentUser.ID),
		).
		Preload("Sender").
		Preload("Receiver").
		Preload("House").
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		log.Printf("Failed to load conversation between %d and %d: %v", currentUser.ID, otherUserID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversation"})
		return
	}

	// Mark the counterpart's messages as read. Idempotent bulk update.
	if err := db.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND read_at IS NULL", currentUser.ID, otherUserID).
		Update("read_at", time.Now()).Error; err != nil {
		log.Printf("Failed to mark conversation as read: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversation"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))

	for _, message := range messages {
		response = append(response, messageResponse(message))
	}

	ctx.JSON(http.StatusOK, response)
}

func SendMessage(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SendMessageRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.ReceiverID == currentUser.ID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send message to yourself"})
		return
	}

	var receiver models.User

	if err := db.DB.First(&receiver, req.ReceiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
		} else {
			log.Printf("Failed to fetch receiver: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		}
		return
	}

	if req.HouseID != nil {
		var house models.House

		if err := db.DB.First(&house, *req.HouseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "House not found"})
			} else {
				log.Printf("Failed to fetch house: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
			}
			return
		}
	}

	message := models.Message{
		SenderID:   currentUser.ID,
		ReceiverID: req.ReceiverID,
		HouseID:    req.HouseID,
		Content:    req.Content,
	}

	if err := db.DB.Create(&message).Error; err != nil {
		log.Printf("Failed to create message: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	if err := db.DB.
		Preload("Sender").
		Preload("Receiver").
		Preload("House").
		First(&message, message.ID).Error; err != nil {
		log.Printf("Failed to reload message %d: %v", message.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	NotifyUser(req.ReceiverID, "message")

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data":    messageResponse(message),
	})
}

func MarkMessageAsRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var message models.Message

	if err := db.DB.First(&message, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		} else {
			log.Printf("Failed to fetch message: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark message as read"})
		}
		return
	}

	if message.ReceiverID != userID || message.ReadAt != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized or message already read"})
		return
	}

	if err := db.DB.Model(&message).Update("read_at", time.Now()).Error; err != nil {
		log.Printf("Failed to mark message %d as read: %v", message.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark message as read"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Message marked as read"})
}
