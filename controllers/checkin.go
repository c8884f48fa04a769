package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"courtpro-backend/config"
	"courtpro-backend/models"
	"courtpro-backend/utils"
)

// CheckInInput defines the expected JSON structure
type CheckInInput struct {
	MemberID  uuid.UUID `json:"memberId" binding:"required"`
	UsageType string    `json:"usageType"`
	Notes     string    `json:"notes"`
}

// CheckInMember opens a court visit. A member with an open visit must
// check out first.
func CheckInMember(c *gin.Context) {
	var input CheckInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var member models.Member
	if err := config.DB.Where("id = ?", input.MemberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Member not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var open models.CheckIn
	if err := config.DB.Where("member_id = ? AND check_out_time IS NULL", member.ID).
		First(&open).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Member already checked in. Please check out first.")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	usageType := input.UsageType
	if usageType == "" {
		usageType = "General Play"
	}

	checkin := models.CheckIn{
		MemberID:    member.ID,
		MemberName:  member.Name,
		Phone:       member.Phone,
		CheckInTime: time.Now(),
		UsageType:   usageType,
		Notes:       utils.SanitizeInput(input.Notes),
	}

	if err := config.DB.Create(&checkin).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record check-in")
		return
	}

	c.JSON(http.StatusCreated, checkin)
}

// CheckOutMember closes the member's open visit and records the duration
func CheckOutMember(c *gin.Context) {
	memberUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid member ID format")
		return
	}

	var open models.CheckIn
	if err := config.DB.Where("member_id = ? AND check_out_time IS NULL", memberUUID).
		Order("check_in_time DESC").First(&open).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "No active check-in found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	now := time.Now()
	duration := int(now.Sub(open.CheckInTime).Minutes())
	open.CheckOutTime = &now
	open.DurationMinutes = &duration

	if err := config.DB.Save(&open).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record check-out")
		return
	}

	c.JSON(http.StatusOK, open)
}

// GetActiveCheckIns lists members currently on court
func GetActiveCheckIns(c *gin.Context) {
	var active []models.CheckIn
	if err := config.DB.Where("check_out_time IS NULL").
		Order("check_in_time DESC").Find(&active).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve active check-ins")
		return
	}

	c.JSON(http.StatusOK, active)
}

// GetCheckInHistory lists recent visits, optionally for one member
func GetCheckInHistory(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	query := config.DB.Model(&models.CheckIn{}).Order("check_in_time DESC").Limit(limit)
	if memberID := c.Query("memberId"); memberID != "" {
		memberUUID, err := uuid.Parse(memberID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid member ID format")
			return
		}
		query = query.Where("member_id = ?", memberUUID)
	}

	var history []models.CheckIn
	if err := query.Find(&history).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve check-in history")
		return
	}

	c.JSON(http.StatusOK, history)
}

type hourCount struct {
	Hour   int   `json:"hour"`
	Visits int64 `json:"visits"`
}

// peakHours buckets visits by hour of day. Bucketed in Go rather than SQL
// so the hour extraction behaves the same on postgres and sqlite.
func peakHours(cutoff time.Time) []hourCount {
	var checkins []models.CheckIn
	config.DB.Select("check_in_time").Where("check_in_time >= ?", cutoff).Find(&checkins)

	byHour := map[int]int64{}
	for _, ci := range checkins {
		byHour[ci.CheckInTime.Hour()]++
	}

	hours := make([]hourCount, 0, len(byHour))
	for hour, visits := range byHour {
		hours = append(hours, hourCount{Hour: hour, Visits: visits})
	}
	sort.Slice(hours, func(i, j int) bool {
		if hours[i].Visits != hours[j].Visits {
			return hours[i].Visits > hours[j].Visits
		}
		return hours[i].Hour < hours[j].Hour
	})
	if len(hours) > 3 {
		hours = hours[:3]
	}
	return hours
}

// GetCheckInAnalytics summarizes court usage over a trailing window
func GetCheckInAnalytics(c *gin.Context) {
	daysBack := 30
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			daysBack = n
		}
	}
	cutoff := time.Now().AddDate(0, 0, -daysBack)

	var totalVisits int64
	config.DB.Model(&models.CheckIn{}).Where("check_in_time >= ?", cutoff).Count(&totalVisits)

	var uniqueVisitors int64
	config.DB.Model(&models.CheckIn{}).Where("check_in_time >= ?", cutoff).
		Distinct("member_id").Count(&uniqueVisitors)

	var avgDuration float64
	config.DB.Model(&models.CheckIn{}).
		Where("check_in_time >= ? AND duration_minutes IS NOT NULL", cutoff).
		Select("COALESCE(AVG(duration_minutes), 0)").Scan(&avgDuration)

	type visitorRow struct {
		MemberName string `json:"memberName"`
		VisitCount int64  `json:"visitCount"`
	}
	var frequentVisitors []visitorRow
	config.DB.Model(&models.CheckIn{}).
		Select("member_name, COUNT(*) AS visit_count").
		Where("check_in_time >= ?", cutoff).
		Group("member_id").Group("member_name").
		Order("visit_count DESC").Limit(5).
		Scan(&frequentVisitors)

	c.JSON(http.StatusOK, gin.H{
		"totalVisits":      totalVisits,
		"uniqueVisitors":   uniqueVisitors,
		"averageDuration":  avgDuration,
		"peakHours":        peakHours(cutoff),
		"frequentVisitors": frequentVisitors,
	})
}
