package billing

import (
	"net/http"

	"contracts-app/database"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

func GetPaymentHistory(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		apperr.Write(c, apperr.Unauthorized("Unauthorized"))
		return
	}

	payments := []billing.Payment{}
	if err := database.DB.
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		apperr.Write(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payments})
}
