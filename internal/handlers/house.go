package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rente-dev/rente/db"
	"github.com/rente-dev/rente/internal/models"
	"github.com/rente-dev/rente/internal/storage"
	"github.com/rente-dev/rente/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type HouseForm struct {
	Title         string  `form:"title" binding:"required,max=255"`
	Location      string  `form:"location" binding:"required,max=255"`
	Price         float64 `form:"price" binding:"required,gt=0"`
	Description   string  `form:"description"`
	Status        string  `form:"status" binding:"omitempty,oneof=available rented maintenance"`
	Bedrooms      int     `form:"bedrooms" binding:"omitempty,min=1"`
	Bathrooms     int     `form:"bathrooms" binding:"omitempty,min=1"`
	Size          *int    `form:"size" binding:"omitempty,min=0"`
	PropertyType  string  `form:"property_type"`
	AvailableFrom string  `form:"available_from" binding:"omitempty,datetime=2006-01-02"`

	ClearExistingImages bool `form:"clear_existing_images"`
}

const dateLayout = "2006-01-02"

// ListHouses is the public browse endpoint. All filters are optional and
// AND-combined; unknown or unparsable values are ignored. Results are
// ordered by id ascending for a stable contract.
func ListHouses(ctx *gin.Context) {
	query := db.DB.Model(&models.House{})

	if location := strings.TrimSpace(ctx.Query("location")); location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}

	if raw := ctx.Query("move_in_date"); raw != "" {
		if moveIn, err := time.Parse(dateLayout, raw); err == nil {
			// NULL available_from means available now.
			query = query.Where(db.DB.Where("available_from IS NULL").Or("available_from <= ?", moveIn))
		}
	}

	if raw := ctx.Query("min_price"); raw != "" {
		if minPrice, err := strconv.ParseFloat(raw, 64); err == nil {
			query = query.Where("price >= ?", minPrice)
		}
	}

	if raw := ctx.Query("max_price"); raw != "" {
		if maxPrice, err := strconv.ParseFloat(raw, 64); err == nil {
			query = query.Where("price <= ?", maxPrice)
		}
	}

	if propertyType := strings.TrimSpace(ctx.Query("property_type")); propertyType != "" {
		query = query.Where("property_type = ?", propertyType)
	}

	var houses []models.House

	if err := query.Order("id ASC").Find(&houses).Error; err != nil {
		log.Printf("Failed to search houses: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve houses"})
		return
	}

	ctx.JSON(http.StatusOK, houses)
}

func ShowHouse(ctx *gin.Context) {
	var house models.House

	if err := db.DB.First(&house, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "House not found"})
		} else {
			log.Printf("Failed to fetch house: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve house"})
		}
		return
	}

	ctx.JSON(http.StatusOK, house)
}

func MyHouses(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var houses []models.House

	if err := db.DB.Where("user_id = ?", userID).Order("id ASC").Find(&houses).Error; err != nil {
		log.Printf("Failed to list houses for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve houses"})
		return
	}

	ctx.JSON(http.StatusOK, houses)
}

func uploadImages(ctx *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	if storage.Images == nil {
		return nil, errors.New("image storage is not configured")
	}

	urls := make([]string, 0, len(files))

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		url, err := storage.Images.Upload(ctx.Request.Context(), header.Filename, data)
		if err != nil {
			return nil, err
		}

		urls = append(urls, url)
	}

	return urls, nil
}

func imagesJSON(urls []string) (datatypes.JSON, error) {
	encoded, err := json.Marshal(urls)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}

func CreateHouse(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var form HouseForm

	if err := ctx.ShouldBind(&form); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	house := models.House{
		UserID:       userID,
		Title:        form.Title,
		Location:     form.Location,
		Price:        form.Price,
		Description:  form.Description,
		Status:       form.Status,
		Bedrooms:     form.Bedrooms,
		Bathrooms:    form.Bathrooms,
		Size:         form.Size,
		PropertyType: form.PropertyType,
	}

	if form.AvailableFrom != "" {
		availableFrom, _ := time.Parse(dateLayout, form.AvailableFrom)
		house.AvailableFrom = &availableFrom
	}

	imageURLs := []string{}

	if multipartForm, err := ctx.MultipartForm(); err == nil && multipartForm != nil {
		if files := multipartForm.File["images"]; len(files) > 0 {
			imageURLs, err = uploadImages(ctx, files)
			if err != nil {
				log.Printf("Failed to upload house images: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload images"})
				return
			}
		}
	}

	images, err := imagesJSON(imageURLs)

	if err != nil {
		log.Printf("Failed to encode image list: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	house.Images = images

	if err := db.DB.Create(&house).Error; err != nil {
		log.Printf("Failed to create house: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create house"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "House created successfully",
		"house":   house,
	})
}

func UpdateHouse(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var house models.House

	if err := db.DB.First(&house, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "House not found"})
		} else {
			log.Printf("Failed to fetch house: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve house"})
		}
		return
	}

	if house.UserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. You do not own this house"})
		return
	}

	var form HouseForm

	if err := ctx.ShouldBind(&form); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	house.Title = form.Title
	house.Location = form.Location
	house.Price = form.Price
	house.Description = form.Description
	house.PropertyType = form.PropertyType

	if form.Status != "" {
		house.Status = form.Status
	}

	if form.Bedrooms != 0 {
		house.Bedrooms = form.Bedrooms
	}

	if form.Bathrooms != 0 {
		house.Bathrooms = form.Bathrooms
	}

	if form.Size != nil {
		house.Size = form.Size
	}

	if form.AvailableFrom != "" {
		availableFrom, _ := time.Parse(dateLayout, form.AvailableFrom)
		house.AvailableFrom = &availableFrom
	}

	// New uploads replace the image list; clear_existing_images empties it;
	// otherwise the existing list is kept.
	if multipartForm, err := ctx.MultipartForm(); err == nil && multipartForm != nil && len(multipartForm.File["images"]) > 0 {
		imageURLs, err := uploadImages(ctx, multipartForm.File["images"])
		if err != nil {
			log.Printf("Failed to upload house images: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload images"})
			return
		}

		images, err := imagesJSON(imageURLs)
		if err != nil {
			log.Printf("Failed to encode image list: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		house.Images = images
	} else if form.ClearExistingImages {
		images, err := imagesJSON([]string{})
		if err != nil {
			log.Printf("Failed to encode image list: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		house.Images = images
	}

	if err := db.DB.Save(&house).Error; err != nil {
		log.Printf("Failed to update house: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update house"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "House updated successfully",
		"house":   house,
	})
}

func DeleteHouse(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var house models.House

	if err := db.DB.First(&house, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "House not found"})
		} else {
			log.Printf("Failed to fetch house: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve house"})
		}
		return
	}

	if house.UserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. You do not own this house"})
		return
	}

	// Tour requests go with the house; messages keep their text but lose
	// the house reference.
	if err := db.DB.Where("house_id = ?", house.ID).Delete(&models.TourRequest{}).Error; err != nil {
		log.Printf("Failed to delete tour requests for house %d: %v", house.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete house"})
		return
	}

	if err := db.DB.Model(&models.Message{}).Where("house_id = ?", house.ID).Update("house_id", nil).Error; err != nil {
		log.Printf("Failed to detach messages for house %d: %v", house.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete house"})
		return
	}

	if err := db.DB.Delete(&house).Error; err != nil {
		log.Printf("Failed to delete house: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete house"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "House deleted successfully"})
}
