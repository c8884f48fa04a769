package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtpro-backend/models"
)

func TestCheckInAndOut(t *testing.T) {
	r := setupTest(t)

	m := seedOverdueMember(t, "Anil", "+919876543210")

	w := doJSON(t, r, http.MethodPost, "/api/checkins", map[string]any{
		"memberId":  m.ID.String(),
		"usageType": "Coaching",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var checkin models.CheckIn
	decode(t, w, &checkin)
	assert.Equal(t, "Anil", checkin.MemberName)
	assert.Equal(t, "Coaching", checkin.UsageType)
	assert.Nil(t, checkin.CheckOutTime)

	// A second check-in while one is open is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/checkins", map[string]any{
		"memberId": m.ID.String(),
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var active []models.CheckIn
	w = doJSON(t, r, http.MethodGet, "/api/checkins/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &active)
	require.Len(t, active, 1)

	w = doJSON(t, r, http.MethodPost, "/api/members/"+m.ID.String()+"/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var closed models.CheckIn
	decode(t, w, &closed)
	require.NotNil(t, closed.CheckOutTime)
	require.NotNil(t, closed.DurationMinutes)

	w = doJSON(t, r, http.MethodGet, "/api/checkins/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &active)
	assert.Empty(t, active)
}

func TestCheckOut_NoOpenVisit(t *testing.T) {
	r := setupTest(t)

	m := seedOverdueMember(t, "Anil", "+919876543210")

	w := doJSON(t, r, http.MethodPost, "/api/members/"+m.ID.String()+"/checkout", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckIn_UnknownMember(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/api/checkins", map[string]any{
		"memberId": "6f1e4c7a-0000-0000-0000-000000000000",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckInHistory_FiltersByMember(t *testing.T) {
	r := setupTest(t)

	first := seedOverdueMember(t, "Anil", "+919876543210")
	second := seedOverdueMember(t, "Bala", "+919876500000")

	for _, m := range []models.Member{first, second} {
		w := doJSON(t, r, http.MethodPost, "/api/checkins", map[string]any{"memberId": m.ID.String()})
		require.Equal(t, http.StatusCreated, w.Code)
		w = doJSON(t, r, http.MethodPost, "/api/members/"+m.ID.String()+"/checkout", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var history []models.CheckIn
	w := doJSON(t, r, http.MethodGet, "/api/checkins/history?memberId="+first.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &history)
	require.Len(t, history, 1)
	assert.Equal(t, first.ID, history[0].MemberID)

	w = doJSON(t, r, http.MethodGet, "/api/checkins/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &history)
	assert.Len(t, history, 2)
}

func TestCheckInAnalytics(t *testing.T) {
	r := setupTest(t)

	first := seedOverdueMember(t, "Anil", "+919876543210")
	second := seedOverdueMember(t, "Bala", "+919876500000")

	for _, m := range []models.Member{first, second} {
		w := doJSON(t, r, http.MethodPost, "/api/checkins", map[string]any{"memberId": m.ID.String()})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/checkins/analytics?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalVisits    int64 `json:"totalVisits"`
		UniqueVisitors int64 `json:"uniqueVisitors"`
		PeakHours      []struct {
			Hour   int   `json:"hour"`
			Visits int64 `json:"visits"`
		} `json:"peakHours"`
	}
	decode(t, w, &resp)

	assert.Equal(t, int64(2), resp.TotalVisits)
	assert.Equal(t, int64(2), resp.UniqueVisitors)
	require.Len(t, resp.PeakHours, 1)
	assert.Equal(t, int64(2), resp.PeakHours[0].Visits)
}
