package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rente-dev/rente/db"
	"github.com/rente-dev/rente/internal/models"
	"github.com/rente-dev/rente/internal/types"
)

type OverviewStatsResponse struct {
	Users struct {
		Total     int64 `json:"total"`
		Tenants   int64 `json:"tenants"`
		Landlords int64 `json:"landlords"`
		Admins    int64 `json:"admins"`
	} `json:"users"`
	Properties struct {
		Total       int64 `json:"total"`
		Available   int64 `json:"available"`
		Rented      int64 `json:"rented"`
		Maintenance int64 `json:"maintenance"`
	} `json:"properties"`
	TourRequests struct {
		Total   int64 `json:"total"`
		Pending int64 `json:"pending"`
	} `json:"tour_requests"`
}

func GetOverviewStats(ctx *gin.Context) {
	var stats OverviewStatsResponse

	counts := []struct {
		query interface{}
		args  []interface{}
		dest  *int64
	}{
		{&models.User{}, nil, &stats.Users.Total},
		{&models.User{}, []interface{}{"role = ?", types.RoleTenant}, &stats.Users.Tenants},
		{&models.User{}, []interface{}{"role = ?", types.RoleLandlord}, &stats.Users.Landlords},
		{&models.User{}, []interface{}{"role = ?", types.RoleAdmin}, &stats.Users.Admins},
		{&models.House{}, nil, &stats.Properties.Total},
		{&models.House{}, []interface{}{"status = ?", types.HouseAvailable}, &stats.Properties.Available},
		{&models.House{}, []interface{}{"status = ?", types.HouseRented}, &stats.Properties.Rented},
		{&models.House{}, []interface{}{"status = ?", types.HouseMaintenance}, &stats.Properties.Maintenance},
		{&models.TourRequest{}, nil, &stats.TourRequests.Total},
		{&models.TourRequest{}, []interface{}{"status = ?", types.TourPending}, &stats.TourRequests.Pending},
	}

	for _, count := range counts {
		query := db.DB.Model(count.query)

		if count.args != nil {
			query = query.Where(count.args[0], count.args[1:]...)
		}

		if err := query.Count(count.dest).Error; err != nil {
			log.Printf("Failed to compute overview stats: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch overview stats"})
			return
		}
	}

	ctx.JSON(http.StatusOK, stats)
}
