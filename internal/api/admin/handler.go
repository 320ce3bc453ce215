package admin

import (
	"net/http"
	"time"

	"contracts-app/database"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/billing"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID                uint       `json:"id"`
	Name              string     `json:"name"`
	Lastname          string     `json:"lastname"`
	Tel               string     `json:"tel"`
	Email             string     `json:"email"`
	Role              string     `json:"role"`
	IsVerified        bool       `json:"is_verified"`
	PlanName          *string    `json:"plan_name,omitempty"`
	StripeCustomerID  *string    `json:"stripe_customer_id,omitempty"`
	StripeSubID       *string    `json:"stripe_subscription_id,omitempty"`
	SubscriptionStart *time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd   *time.Time `json:"subscription_end,omitempty"`
}

type AdminPayment struct {
	ID         uint    `json:"id"`
	Email      string  `json:"email"`
	PlanName   *string `json:"plan_name,omitempty"`
	AmountEUR  float64 `json:"amount_eur"`
	Status     string  `json:"status"`
	InvoiceID  *string `json:"invoice_id,omitempty"`
	ReceiptURL *string `json:"receipt_url,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers    int            `json:"total_users"`
	TotalTeams    int            `json:"total_teams"`
	TotalRevenue  float64        `json:"total_revenue"`
	RecentRevenue float64        `json:"recent_revenue"`
	UsersPerPlan  map[string]int `json:"users_per_plan"`
	Contracts     int            `json:"contracts"`
	Documents     int            `json:"documents"`
	Extractions   map[string]int `json:"extractions"`
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.Preload("Plan").Order("id").Find(&all).Error; err != nil {
		apperr.Write(c, err)
		return
	}

	out := make([]AdminUser, 0, len(all))
	for _, u := range all {
		var planName *string
		if u.Plan != nil {
			planName = &u.Plan.Name
		}
		out = append(out, AdminUser{
			ID:                u.ID,
			Name:              u.Name,
			Lastname:          u.Lastname,
			Tel:               u.Tel,
			Email:             u.Email,
			Role:              u.Role,
			IsVerified:        u.IsVerified,
			PlanName:          planName,
			StripeCustomerID:  u.StripeCustomerID,
			StripeSubID:       u.SubscriptionId,
			SubscriptionStart: u.SubscriptionStart,
			SubscriptionEnd:   u.SubscriptionEnd,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

func ListAllPayments(c *gin.Context) {
	var payments []billing.Payment
	if err := database.DB.Preload("User").Preload("Plan").Order("created_at DESC").Find(&payments).Error; err != nil {
		apperr.Write(c, err)
		return
	}

	out := make([]AdminPayment, 0, len(payments))
	for _, p := range payments {
		var planName *string
		if p.Plan != nil {
			planName = &p.Plan.Name
		}
		out = append(out, AdminPayment{
			ID:         p.ID,
			Email:      p.User.Email,
			PlanName:   planName,
			AmountEUR:  p.AmountEUR,
			Status:     p.Status,
			InvoiceID:  p.InvoiceID,
			ReceiptURL: p.ReceiptURL,
			CreatedAt:  p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

func GetAdminStats(c *gin.Context) {
	db := database.DB
	var (
		totalUsers, totalTeams, contracts, documents int64
		totalRevenue, recentRevenue                  float64
	)

	steps := []error{
		db.Model(&users.User{}).Count(&totalUsers).Error,
		db.Model(&teams.Team{}).Count(&totalTeams).Error,
		db.Model(&records.Contract{}).Count(&contracts).Error,
		db.Model(&records.Document{}).Count(&documents).Error,
		db.Model(&billing.Payment{}).Where("status = ?", "paid").
			Select("COALESCE(SUM(amount_eur), 0)").Scan(&totalRevenue).Error,
		db.Model(&billing.Payment{}).
			Where("status = ? AND created_at >= ?", "paid", time.Now().AddDate(0, 0, -30)).
			Select("COALESCE(SUM(amount_eur), 0)").Scan(&recentRevenue).Error,
	}
	for _, err := range steps {
		if err != nil {
			apperr.Write(c, err)
			return
		}
	}

	var planCounts []struct {
		Name  *string
		Count int
	}
	if err := db.Table("users").
		Select("plans.name AS name, COUNT(users.id) AS count").
		Joins("LEFT JOIN plans ON users.plan_id = plans.id").
		Group("plans.name").
		Scan(&planCounts).Error; err != nil {
		apperr.Write(c, err)
		return
	}

	var extractionCounts []struct {
		Status string
		Count  int
	}
	if err := db.Model(&records.Document{}).
		Select("extraction_status AS status, COUNT(*) AS count").
		Group("extraction_status").
		Scan(&extractionCounts).Error; err != nil {
		apperr.Write(c, err)
		return
	}

	stats := AdminStats{
		TotalUsers:    int(totalUsers),
		TotalTeams:    int(totalTeams),
		TotalRevenue:  totalRevenue,
		RecentRevenue: recentRevenue,
		UsersPerPlan:  map[string]int{},
		Contracts:     int(contracts),
		Documents:     int(documents),
		Extractions:   map[string]int{},
	}
	for _, pc := range planCounts {
		name := "No Plan"
		if pc.Name != nil {
			name = *pc.Name
		}
		stats.UsersPerPlan[name] = pc.Count
	}
	for _, ec := range extractionCounts {
		stats.Extractions[ec.Status] = ec.Count
	}

	c.JSON(http.StatusOK, stats)
}

func GetUserDetails(c *gin.Context) {
	userID := c.Param("id")

	var user users.User
	if err := database.DB.Preload("Plan").First(&user, userID).Error; err != nil {
		apperr.Write(c, apperr.NotFound("User not found"))
		return
	}

	payments := []billing.Payment{}
	if err := database.DB.Preload("Plan").Where("user_id = ?", user.ID).Order("created_at DESC").Find(&payments).Error; err != nil {
		apperr.Write(c, err)
		return
	}

	var memberships []teams.Member
	if err := database.DB.Where("user_id = ?", user.ID).Find(&memberships).Error; err != nil {
		apperr.Write(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"payments": payments,
		"teams":    memberships,
	})
}
