package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"courtpro-backend/config"
	"courtpro-backend/models"
	"courtpro-backend/services"
	"courtpro-backend/utils"
)

// GetDashboardOverview returns the landing-page summary: headcounts, the
// payment status distribution, recent payments and pending reminder counts.
func GetDashboardOverview(c *gin.Context) {
	var totalMembers int64
	config.DB.Model(&models.Member{}).Count(&totalMembers)

	var activeChildren int64
	config.DB.Model(&models.Child{}).Where("is_active = ?", true).Count(&activeChildren)

	var members []models.Member
	if err := config.DB.Find(&members).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve members")
		return
	}

	today := time.Now()
	overdue, dueSoon, active := 0, 0, 0
	for _, m := range members {
		if m.LastPaymentDate.IsZero() {
			continue
		}
		nextDue := utils.NextDueDate(m.LastPaymentDate, m.Plan)
		switch utils.ClassifyStatus(utils.DaysRemaining(nextDue, today)) {
		case utils.StatusOverdue:
			overdue++
		case utils.StatusDueSoon:
			dueSoon++
		default:
			active++
		}
	}

	type recentPayment struct {
		MemberName  string    `json:"memberName"`
		Amount      float64   `json:"amount"`
		PaymentDate time.Time `json:"paymentDate"`
	}
	var recent []recentPayment
	config.DB.Model(&models.Payment{}).
		Select("members.name AS member_name, payments.amount, payments.payment_date").
		Joins("JOIN members ON members.id = payments.member_id").
		Order("payments.created_at DESC").Limit(5).
		Scan(&recent)

	svc := services.NewReminderService(config.DB)
	pendingMembers, err := svc.PendingReminders()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute pending reminders")
		return
	}
	pendingChildren, err := svc.PendingChildReminders()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute pending child reminders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalMembers":   totalMembers,
		"activeChildren": activeChildren,
		"paymentStatus": gin.H{
			"overdue": overdue,
			"dueSoon": dueSoon,
			"active":  active,
		},
		"recentPayments":         recent,
		"pendingReminders":       len(pendingMembers),
		"pendingChildReminders":  len(pendingChildren),
		"overduePendingReminder": len(services.OverdueOnly(pendingMembers)),
	})
}

// GetAnalytics returns revenue, membership and training-roster breakdowns
func GetAnalytics(c *gin.Context) {
	var totalRevenue float64
	config.DB.Model(&models.Payment{}).Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue)

	var kidsRevenue float64
	config.DB.Model(&models.ChildPayment{}).Select("COALESCE(SUM(amount), 0)").Scan(&kidsRevenue)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	var thisMonthRevenue float64
	config.DB.Model(&models.Payment{}).
		Where("payment_date >= ?", monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&thisMonthRevenue)

	var lastMonthRevenue float64
	config.DB.Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ?", lastMonthStart, monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&lastMonthRevenue)

	type planRevenue struct {
		Plan     string  `json:"plan"`
		Revenue  float64 `json:"revenue"`
		Payments int64   `json:"payments"`
	}
	var revenueByPlan []planRevenue
	config.DB.Model(&models.Payment{}).
		Select("members.plan, SUM(payments.amount) AS revenue, COUNT(payments.id) AS payments").
		Joins("JOIN members ON members.id = payments.member_id").
		Group("members.plan").Order("revenue DESC").
		Scan(&revenueByPlan)

	type planCount struct {
		Plan  string `json:"plan"`
		Count int64  `json:"count"`
	}
	var membershipDistribution []planCount
	config.DB.Model(&models.Member{}).
		Select("plan, COUNT(*) AS count").
		Group("plan").Order("count DESC").
		Scan(&membershipDistribution)

	var newMembersThisMonth int64
	config.DB.Model(&models.Member{}).
		Where("created_at >= ?", monthStart).Count(&newMembersThisMonth)

	type batchCount struct {
		BatchTime string `json:"batchTime"`
		Count     int64  `json:"count"`
	}
	var kidsByBatch []batchCount
	config.DB.Model(&models.Child{}).
		Select("batch_time, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("batch_time").Order("count DESC").
		Scan(&kidsByBatch)

	var averageAge float64
	config.DB.Model(&models.Child{}).
		Where("is_active = ?", true).
		Select("COALESCE(AVG(age), 0)").Scan(&averageAge)

	c.JSON(http.StatusOK, gin.H{
		"revenue": gin.H{
			"total":     totalRevenue,
			"kids":      kidsRevenue,
			"thisMonth": thisMonthRevenue,
			"lastMonth": lastMonthRevenue,
			"byPlan":    revenueByPlan,
		},
		"membership": gin.H{
			"distribution":        membershipDistribution,
			"newMembersThisMonth": newMembersThisMonth,
		},
		"kids": gin.H{
			"byBatch":    kidsByBatch,
			"averageAge": averageAge,
		},
	})
}
