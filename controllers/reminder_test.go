package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtpro-backend/config"
	"courtpro-backend/controllers"
	"courtpro-backend/models"
	"courtpro-backend/testutil"
)

func seedOverdueMember(t *testing.T, name, phone string) models.Member {
	t.Helper()
	m := models.Member{
		ID:              uuid.New(),
		Name:            name,
		Phone:           phone,
		Plan:            models.PlanMonthly,
		Amount:          1500,
		LastPaymentDate: time.Now().AddDate(0, 0, -40),
		ReminderDays:    15,
	}
	require.NoError(t, config.DB.Create(&m).Error)
	return m
}

type pendingResponse struct {
	Members []struct {
		MemberID    uuid.UUID `json:"memberId"`
		Name        string    `json:"name"`
		Kind        string    `json:"kind"`
		Message     string    `json:"message"`
		WhatsAppURL string    `json:"whatsappUrl"`
		Error       string    `json:"error"`
	} `json:"members"`
	Children []struct {
		ChildID uuid.UUID `json:"childId"`
		Kind    string    `json:"kind"`
		Message string    `json:"message"`
	} `json:"children"`
}

func TestGetPendingReminders(t *testing.T) {
	r := setupTest(t)
	testutil.SeedTemplates(t, config.DB)

	m := seedOverdueMember(t, "Anil", "+919876543210")

	k := models.Child{
		ID:          uuid.New(),
		Name:        "Diya",
		ParentName:  "Meera",
		ParentPhone: "+919876511111",
		MonthlyFee:  800,
		StartDate:   time.Now().AddDate(0, 0, -45),
		IsActive:    true,
	}
	require.NoError(t, config.DB.Create(&k).Error)

	w := doJSON(t, r, http.MethodGet, "/api/reminders/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp pendingResponse
	decode(t, w, &resp)

	require.Len(t, resp.Members, 1)
	assert.Equal(t, m.ID, resp.Members[0].MemberID)
	assert.Equal(t, models.KindOverdueReminder, resp.Members[0].Kind)
	assert.Contains(t, resp.Members[0].Message, "Anil")
	assert.Contains(t, resp.Members[0].WhatsAppURL, "https://wa.me/919876543210")

	require.Len(t, resp.Children, 1)
	assert.Equal(t, k.ID, resp.Children[0].ChildID)
	assert.Equal(t, models.KindChildPaymentReminder, resp.Children[0].Kind)
	assert.Contains(t, resp.Children[0].Message, "Diya")

	// Viewing the list must not write any logs.
	var count int64
	config.DB.Model(&models.ReminderLog{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSendReminders_PartialFailure(t *testing.T) {
	r := setupTest(t)
	testutil.SeedTemplates(t, config.DB)

	good := seedOverdueMember(t, "Anil", "+919876543210")
	bad := seedOverdueMember(t, "Bala", "+919876500000")

	fake := &fakeSender{failFor: map[string]bool{"+919876500000": true}}
	controllers.Messaging = fake

	w := doJSON(t, r, http.MethodPost, "/api/reminders/send", map[string]any{
		"memberIds": []string{good.ID.String(), bad.ID.String()},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sent    int                               `json:"sent"`
		Failed  int                               `json:"failed"`
		Results []controllers.SendReminderResult `json:"results"`
	}
	decode(t, w, &resp)

	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 2)

	require.Len(t, fake.sent, 1)
	assert.Equal(t, "+919876543210", fake.sent[0].To)

	// Every attempt is logged; only the failure carries an error message.
	var logs []models.ReminderLog
	require.NoError(t, config.DB.Find(&logs).Error)
	require.Len(t, logs, 2)

	// The failed member stays eligible on the next scan.
	w = doJSON(t, r, http.MethodGet, "/api/reminders/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var pending pendingResponse
	decode(t, w, &pending)
	require.Len(t, pending.Members, 1)
	assert.Equal(t, bad.ID, pending.Members[0].MemberID)
}

func TestSendReminders_IgnoresUnselectedCandidates(t *testing.T) {
	r := setupTest(t)
	testutil.SeedTemplates(t, config.DB)

	selected := seedOverdueMember(t, "Anil", "+919876543210")
	seedOverdueMember(t, "Bala", "+919876500000")

	w := doJSON(t, r, http.MethodPost, "/api/reminders/send", map[string]any{
		"memberIds": []string{selected.ID.String()},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	config.DB.Model(&models.ReminderLog{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetPendingReminders_BrokenTemplateSurfacesError(t *testing.T) {
	r := setupTest(t)
	testutil.SeedTemplates(t, config.DB)

	seedOverdueMember(t, "Anil", "+919876543210")

	require.NoError(t, config.DB.Model(&models.MessageTemplate{}).
		Where("kind = ?", models.KindOverdueReminder).
		Update("body", "Hello {member_nickname}").Error)

	w := doJSON(t, r, http.MethodGet, "/api/reminders/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp pendingResponse
	decode(t, w, &resp)

	require.Len(t, resp.Members, 1)
	assert.Empty(t, resp.Members[0].Message)
	assert.Empty(t, resp.Members[0].WhatsAppURL)
	assert.Contains(t, resp.Members[0].Error, "member_nickname")
}

func TestSendReminders_BrokenTemplate(t *testing.T) {
	r := setupTest(t)
	testutil.SeedTemplates(t, config.DB)

	m := seedOverdueMember(t, "Anil", "+919876543210")

	// Corrupt the stored template directly; the save endpoint would have
	// rejected it.
	require.NoError(t, config.DB.Model(&models.MessageTemplate{}).
		Where("kind = ?", models.KindOverdueReminder).
		Update("body", "Hello {member_nickname}").Error)

	w := doJSON(t, r, http.MethodPost, "/api/reminders/send", map[string]any{
		"memberIds": []string{m.ID.String()},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetReminderStats(t *testing.T) {
	r := setupTest(t)

	subject := uuid.New()
	for _, success := range []bool{true, false} {
		require.NoError(t, config.DB.Create(&models.ReminderLog{
			SubjectID: subject,
			Kind:      models.KindPaymentReminder,
			Success:   success,
			SentAt:    time.Now().AddDate(0, 0, -1),
		}).Error)
	}

	w := doJSON(t, r, http.MethodGet, "/api/reminders/stats?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats []struct {
		Kind       string `json:"kind"`
		TotalSent  int64  `json:"totalSent"`
		Successful int64  `json:"successful"`
		Failed     int64  `json:"failed"`
	}
	decode(t, w, &stats)

	require.Len(t, stats, 1)
	assert.Equal(t, int64(2), stats[0].TotalSent)
	assert.Equal(t, int64(1), stats[0].Successful)
	assert.Equal(t, int64(1), stats[0].Failed)
}

func TestUpdateTemplate_RejectsUnknownPlaceholder(t *testing.T) {
	r := setupTest(t)
	testutil.SeedTemplates(t, config.DB)

	w := doJSON(t, r, http.MethodPut, "/api/templates/"+models.KindPaymentReminder, map[string]any{
		"body": "Hi {member_nickname}",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/templates/"+models.KindPaymentReminder, map[string]any{
		"body": "Hi {member_name}, Rs.{amount} due {due_date}.",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var template models.MessageTemplate
	require.NoError(t, config.DB.Where("kind = ?", models.KindPaymentReminder).First(&template).Error)
	assert.Contains(t, template.Body, "{due_date}")
}
