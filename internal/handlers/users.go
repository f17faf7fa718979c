package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rente-dev/rente/db"
	"github.com/rente-dev/rente/internal/models"
	"github.com/rente-dev/rente/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminUpdateUserRequest struct {
	FirstName string `json:"fname" binding:"required"`
	LastName  string `json:"lname" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Role      string `json:"role" binding:"required,oneof=tenant landlord agent admin"`
	Password  string `json:"password" binding:"omitempty,min=6"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio" binding:"omitempty,max=1000"`
}

func listUsersByRole(ctx *gin.Context, role string) {
	var users []models.User

	if err := db.DB.Where("role = ?", role).Order("id ASC").Find(&users).Error; err != nil {
		log.Printf("Failed to list %s users: %v", role, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, userResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}

func ListTenants(ctx *gin.Context) {
	listUsersByRole(ctx, types.RoleTenant)
}

func ListLandlords(ctx *gin.Context) {
	listUsersByRole(ctx, types.RoleLandlord)
}

func ShowUser(ctx *gin.Context) {
	var user models.User

	if err := db.DB.First(&user, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Failed to fetch user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	ctx.JSON(http.StatusOK, userResponse(user))
}

func UpdateUser(ctx *gin.Context) {
	var user models.User

	if err := db.DB.First(&user, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Failed to fetch user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	var req AdminUpdateUserRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	newEmail := strings.ToLower(strings.TrimSpace(req.Email))

	if newEmail != user.Email {
		var existingUser models.User
		err := db.DB.Where("email = ? AND id != ?", newEmail, user.ID).First(&existingUser).Error
		if err == nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Database error when checking existing email: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = newEmail
	user.Role = req.Role

	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if req.Bio != "" {
		user.Bio = req.Bio
	}

	if req.Password != "" {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash password: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		user.PasswordHash = string(passwordHash)
	}

	if err := db.DB.Save(&user).Error; err != nil {
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    userResponse(user),
	})
}

func DeleteUser(ctx *gin.Context) {
	var user models.User

	if err := db.DB.First(&user, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Failed to fetch user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	if err := db.DB.Delete(&user).Error; err != nil {
		log.Printf("Failed to delete user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
