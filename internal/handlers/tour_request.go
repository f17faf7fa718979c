package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rente-dev/rente/db"
	"github.com/rente-dev/rente/internal/models"
	"github.com/rente-dev/rente/internal/services"
	"github.com/rente-dev/rente/internal/types"
	"github.com/rente-dev/rente/internal/utils"
	"gorm.io/gorm"
)

type CreateTourRequestRequest struct {
	HouseID       uint   `json:"house_id" binding:"required"`
	PreferredDate string `json:"preferred_date" binding:"required,datetime=2006-01-02"`
	PreferredTime string `json:"preferred_time"`
	Message       string `json:"message"`
}

type TourRequestResponse struct {
	ID            uint               `json:"id"`
	HouseID       uint               `json:"house_id"`
	TenantID      uint               `json:"tenant_id"`
	LandlordID    uint               `json:"landlord_id"`
	PreferredDate string             `json:"preferred_date"`
	PreferredTime string             `json:"preferred_time,omitempty"`
	Message       string             `json:"message,omitempty"`
	Status        string             `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	House         types.HouseSummary `json:"house"`
	Tenant        *types.UserSummary `json:"tenant,omitempty"`
	Landlord      *types.UserSummary `json:"landlord,omitempty"`
}

func tourRequestResponse(request models.TourRequest) TourRequestResponse {
	return TourRequestResponse{
		ID:            request.ID,
		HouseID:       request.HouseID,
		TenantID:      request.TenantID,
		LandlordID:    request.LandlordID,
		PreferredDate: request.PreferredDate.Format(dateLayout),
		PreferredTime: request.PreferredTime,
		Message:       request.Message,
		Status:        request.Status,
		CreatedAt:     request.CreatedAt,
		House: types.HouseSummary{
			ID:       request.House.ID,
			Title:    request.House.Title,
			Location: request.House.Location,
			Price:    request.House.Price,
			Images:   request.House.Images,
		},
	}
}

func userSummary(user models.User) *types.UserSummary {
	return &types.UserSummary{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
	}
}

// CreateTourRequest records a tenant's request to view a house. The house's
// owning landlord is denormalized onto the record, and every new request
// starts out pending.
func CreateTourRequest(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateTourRequestRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var house models.House

	if err := db.DB.First(&house, req.HouseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "House not found"})
		} else {
			log.Printf("Failed to fetch house: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tour request"})
		}
		return
	}

	preferredDate, err := time.Parse(dateLayout, req.PreferredDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preferred date"})
		return
	}

	request := models.TourRequest{
		HouseID:       house.ID,
		TenantID:      currentUser.ID,
		LandlordID:    house.UserID,
		PreferredDate: preferredDate,
		PreferredTime: req.PreferredTime,
		Message:       req.Message,
		Status:        types.TourPending,
	}

	if err := db.DB.Create(&request).Error; err != nil {
		log.Printf("Failed to create tour request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tour request"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":      "Tour request submitted successfully",
		"tour_request": request,
	})
}

func ListTenantTourRequests(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var requests []models.TourRequest

	if err := db.DB.
		Where("tenant_id = ?", userID).
		Preload("House").
		Preload("Landlord").
		Order("created_at DESC, id DESC").
		Find(&requests).Error; err != nil {
		log.Printf("Failed to list tour requests for tenant %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tour requests"})
		return
	}

	response := make([]TourRequestResponse, 0, len(requests))

	for _, request := range requests {
		entry := tourRequestResponse(request)
		entry.Landlord = userSummary(request.Landlord)
		response = append(response, entry)
	}

	ctx.JSON(http.StatusOK, response)
}

// ListLandlordTourRequests double-filters on both the denormalized
// landlord_id and the landlord's actual house ids.
func ListLandlordTourRequests(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var houseIDs []uint

	if err := db.DB.Model(&models.House{}).Where("user_id = ?", userID).Pluck("id", &houseIDs).Error; err != nil {
		log.Printf("Failed to list houses for landlord %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tour requests"})
		return
	}

	if len(houseIDs) == 0 {
		ctx.JSON(http.StatusOK, []TourRequestResponse{})
		return
	}

	var requests []models.TourRequest

	if err := db.DB.
		Where("landlord_id = ? AND house_id IN ?", userID, houseIDs).
		Preload("House").
		Preload("Tenant").
		Order("created_at DESC, id DESC").
		Find(&requests).Error; err != nil {
		log.Printf("Failed to list tour requests for landlord %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tour requests"})
		return
	}

	response := make([]TourRequestResponse, 0, len(requests))

	for _, request := range requests {
		entry := tourRequestResponse(request)
		entry.Tenant = userSummary(request.Tenant)
		response = append(response, entry)
	}

	ctx.JSON(http.StatusOK, response)
}

func AcceptTourRequest(ctx *gin.Context) {
	decideTourRequest(ctx, types.TourAccepted, "accepted")
}

func RejectTourRequest(ctx *gin.Context) {
	decideTourRequest(ctx, types.TourRejected, "rejected")
}

// decideTourRequest moves a pending request to a terminal status. The
// transition is a single conditional update keyed on the current status, so
// two concurrent decisions cannot both pass the pending check.
func decideTourRequest(ctx *gin.Context, newStatus, verb string) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request models.TourRequest

	if err := db.DB.First(&request, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Tour request not found"})
		} else {
			log.Printf("Failed to fetch tour request: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tour request"})
		}
		return
	}

	if request.LandlordID != currentUser.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. You do not manage this request"})
		return
	}

	result := db.DB.Model(&models.TourRequest{}).
		Where("id = ? AND landlord_id = ? AND status = ?", request.ID, currentUser.ID, types.TourPending).
		Update("status", newStatus)

	if result.Error != nil {
		log.Printf("Failed to update tour request %d: %v", request.ID, result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tour request"})
		return
	}

	if result.RowsAffected == 0 {
		// Raced or already decided; report whatever the status is now.
		if err := db.DB.First(&request, request.ID).Error; err != nil {
			log.Printf("Failed to reload tour request %d: %v", request.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tour request"})
			return
		}

		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Tour request cannot be " + verb + ". Current status: " + request.Status,
		})
		return
	}

	request.Status = newStatus

	log.Printf("Tour request %d for house %d %s by landlord %d", request.ID, request.HouseID, verb, currentUser.ID)

	go func(request models.TourRequest) {
		var tenant models.User
		var house models.House

		if err := db.DB.First(&tenant, request.TenantID).Error; err != nil {
			log.Printf("Failed to load tenant %d for tour notification: %v", request.TenantID, err)
			return
		}

		if err := db.DB.First(&house, request.HouseID).Error; err != nil {
			log.Printf("Failed to load house %d for tour notification: %v", request.HouseID, err)
			return
		}

		if err := services.SendTourDecisionEmail(tenant, house, request.Status); err != nil {
			log.Printf("Failed to send tour decision email to %s: %v", tenant.Email, err)
		}
	}(request)

	ctx.JSON(http.StatusOK, gin.H{
		"message":      "Tour request " + verb + " successfully",
		"tour_request": request,
	})
}

// CancelTourRequest lets the requesting tenant withdraw a still-pending
// request. Same conditional-update guard as accept/reject.
func CancelTourRequest(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request models.TourRequest

	if err := db.DB.First(&request, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Tour request not found"})
		} else {
			log.Printf("Failed to fetch tour request: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel tour request"})
		}
		return
	}

	if request.TenantID != currentUser.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. This is not your request"})
		return
	}

	result := db.DB.Model(&models.TourRequest{}).
		Where("id = ? AND tenant_id = ? AND status = ?", request.ID, currentUser.ID, types.TourPending).
		Update("status", types.TourCancelled)

	if result.Error != nil {
		log.Printf("Failed to cancel tour request %d: %v", request.ID, result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel tour request"})
		return
	}

	if result.RowsAffected == 0 {
		if err := db.DB.First(&request, request.ID).Error; err != nil {
			log.Printf("Failed to reload tour request %d: %v", request.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel tour request"})
			return
		}

		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Tour request cannot be cancelled. Current status: " + request.Status,
		})
		return
	}

	request.Status = types.TourCancelled

	log.Printf("Tour request %d for house %d cancelled by tenant %d", request.ID, request.HouseID, currentUser.ID)

	ctx.JSON(http.StatusOK, gin.H{
		"message":      "Tour request cancelled successfully",
		"tour_request": request,
	})
}
