package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtpro-backend/models"
	"courtpro-backend/testutil"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func member(name string, plan string, lastPayment time.Time, leadDays int) models.Member {
	return models.Member{
		ID:              uuid.New(),
		Name:            name,
		Phone:           "+919876543210",
		Plan:            plan,
		Amount:          1500,
		LastPaymentDate: lastPayment,
		ReminderDays:    leadDays,
	}
}

func TestPendingMemberReminders_WithinLeadWindow(t *testing.T) {
	m := member("Anil", models.PlanMonthly, date(2024, 1, 1), 15)
	today := date(2024, 1, 20)

	got := PendingMemberReminders([]models.Member{m}, nil, today)

	require.Len(t, got, 1)
	assert.Equal(t, m.ID, got[0].MemberID)
	assert.Equal(t, date(2024, 1, 31), got[0].NextDueDate)
	assert.Equal(t, 11, got[0].DaysRemaining)
	assert.Equal(t, models.KindPaymentReminder, got[0].Kind)
	assert.Equal(t, 15, got[0].ReminderDays)
}

func TestPendingMemberReminders_Overdue(t *testing.T) {
	m := member("Anil", models.PlanMonthly, date(2024, 1, 1), 15)
	today := date(2024, 2, 5)

	got := PendingMemberReminders([]models.Member{m}, nil, today)

	require.Len(t, got, 1)
	assert.Equal(t, -5, got[0].DaysRemaining)
	assert.Equal(t, models.KindOverdueReminder, got[0].Kind)
}

func TestPendingMemberReminders_OutsideLeadWindow(t *testing.T) {
	m := member("Anil", models.PlanMonthly, date(2024, 1, 1), 15)
	today := date(2024, 1, 10) // 21 days remaining, lead window is 15

	got := PendingMemberReminders([]models.Member{m}, nil, today)
	assert.Empty(t, got)
}

func TestPendingMemberReminders_LeadWindowIsPerMember(t *testing.T) {
	short := member("Anil", models.PlanMonthly, date(2024, 1, 1), 15)
	long := member("Bala", models.PlanMonthly, date(2024, 1, 1), 30)
	today := date(2024, 1, 10) // 21 days remaining

	got := PendingMemberReminders([]models.Member{short, long}, nil, today)

	require.Len(t, got, 1)
	assert.Equal(t, long.ID, got[0].MemberID)
}

func TestPendingMemberReminders_CooldownSuppressesSameKind(t *testing.T) {
	m := member("Anil", models.PlanMonthly, date(2024, 1, 1), 15)
	today := date(2024, 1, 20)

	lastSuccess := map[ReminderKey]time.Time{
		{SubjectID: m.ID, Kind: models.KindPaymentReminder}: today.AddDate(0, 0, -1),
	}

	got := PendingMemberReminders([]models.Member{m}, lastSuccess, today)
	assert.Empty(t, got)
}

func TestPendingMemberReminders_CooldownExpires(t *testing.T) {
	m := member("Anil", models.PlanMonthly, date(2024, 1, 1), 15)
	today := date(2024, 1, 20)

	lastSuccess := map[ReminderKey]time.Time{
		{SubjectID: m.ID, Kind: models.KindPaymentReminder}: today.AddDate(0, 0, -4),
	}

	got := PendingMemberReminders([]models.Member{m}, lastSuccess, today)
	require.Len(t, got, 1)
}

func TestPendingMemberReminders_KindCrossoverNotSuppressed(t *testing.T) {
	// A payment_reminder sent while due-soon must not silence the
	// overdue_reminder once the member crosses the due date.
	m := member("Anil", models.PlanMonthly, date(2024, 1, 1), 15)
	today := date(2024, 2, 2)

	lastSuccess := map[ReminderKey]time.Time{
		{SubjectID: m.ID, Kind: models.KindPaymentReminder}: today.AddDate(0, 0, -1),
	}

	got := PendingMemberReminders([]models.Member{m}, lastSuccess, today)

	require.Len(t, got, 1)
	assert.Equal(t, models.KindOverdueReminder, got[0].Kind)
}

func TestPendingMemberReminders_SkipsMissingPaymentDate(t *testing.T) {
	broken := member("Anil", models.PlanMonthly, time.Time{}, 15)
	ok := member("Bala", models.PlanMonthly, date(2024, 1, 1), 15)
	today := date(2024, 1, 20)

	got := PendingMemberReminders([]models.Member{broken, ok}, nil, today)

	require.Len(t, got, 1)
	assert.Equal(t, ok.ID, got[0].MemberID)
}

func TestPendingMemberReminders_OrderedByName(t *testing.T) {
	today := date(2024, 2, 5)
	members := []models.Member{
		member("Chitra", models.PlanMonthly, date(2024, 1, 1), 15),
		member("Anil", models.PlanMonthly, date(2024, 1, 1), 15),
		member("Bala", models.PlanMonthly, date(2024, 1, 1), 15),
	}

	got := PendingMemberReminders(members, nil, today)

	require.Len(t, got, 3)
	assert.Equal(t, "Anil", got[0].Name)
	assert.Equal(t, "Bala", got[1].Name)
	assert.Equal(t, "Chitra", got[2].Name)

	// Input slice is left untouched.
	assert.Equal(t, "Chitra", members[0].Name)
}

func TestPendingMemberReminders_Idempotent(t *testing.T) {
	today := date(2024, 1, 20)
	members := []models.Member{
		member("Anil", models.PlanMonthly, date(2024, 1, 1), 15),
		member("Bala", models.PlanQuarterly, date(2023, 11, 1), 30),
	}

	first := PendingMemberReminders(members, nil, today)
	second := PendingMemberReminders(members, nil, today)
	assert.Equal(t, first, second)
}

func child(name string, start time.Time) models.Child {
	return models.Child{
		ID:          uuid.New(),
		Name:        name,
		ParentName:  "Parent of " + name,
		ParentPhone: "+919876543210",
		MonthlyFee:  800,
		StartDate:   start,
		IsActive:    true,
	}
}

func TestPendingChildReminders_NoPaymentsUsesStartDateBaseline(t *testing.T) {
	k := child("Diya", date(2024, 3, 1))
	today := date(2024, 3, 25)

	got := PendingChildReminders([]models.Child{k}, nil, nil, today)

	require.Len(t, got, 1)
	assert.Equal(t, date(2024, 3, 31), got[0].NextDueDate)
	assert.Equal(t, 6, got[0].DaysRemaining)
	assert.Equal(t, models.KindChildPaymentReminder, got[0].Kind)
}

func TestPendingChildReminders_LastPaymentMovesBaseline(t *testing.T) {
	k := child("Diya", date(2024, 1, 1))
	today := date(2024, 3, 25)

	lastPayment := map[uuid.UUID]time.Time{k.ID: date(2024, 3, 10)}

	got := PendingChildReminders([]models.Child{k}, lastPayment, nil, today)

	require.Len(t, got, 1)
	assert.Equal(t, date(2024, 4, 9), got[0].NextDueDate)
	assert.Equal(t, 15, got[0].DaysRemaining)
}

func TestPendingChildReminders_OutsideWindow(t *testing.T) {
	k := child("Diya", date(2024, 3, 1))
	today := date(2024, 3, 14) // due Mar 31, 17 days out

	got := PendingChildReminders([]models.Child{k}, nil, nil, today)
	assert.Empty(t, got)
}

func TestPendingChildReminders_Cooldown(t *testing.T) {
	k := child("Diya", date(2024, 3, 1))
	today := date(2024, 3, 25)

	lastSuccess := map[ReminderKey]time.Time{
		{SubjectID: k.ID, Kind: models.KindChildPaymentReminder}: today.AddDate(0, 0, -2),
	}

	got := PendingChildReminders([]models.Child{k}, nil, lastSuccess, today)
	assert.Empty(t, got)
}

func TestFilters(t *testing.T) {
	candidates := []ReminderCandidate{
		{DaysRemaining: -3},
		{DaysRemaining: 2},
		{DaysRemaining: 9},
	}

	assert.Len(t, OverdueOnly(candidates), 1)
	assert.Len(t, DueSoonOnly(candidates, 7), 1)
	assert.Len(t, DueSoonOnly(candidates, 10), 2)
}

func TestReminderService_PendingReminders_BatchedCooldownLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)

	overdue := member("Anil", models.PlanMonthly, time.Now().AddDate(0, 0, -40), 15)
	dueSoon := member("Bala", models.PlanMonthly, time.Now().AddDate(0, 0, -20), 15)
	dueSoon.Phone = "+919876500000"
	require.NoError(t, db.Create(&overdue).Error)
	require.NoError(t, db.Create(&dueSoon).Error)

	// A recent successful overdue_reminder suppresses Anil; Bala's kind
	// differs so his candidacy survives.
	require.NoError(t, db.Create(&models.ReminderLog{
		SubjectID: overdue.ID,
		Kind:      models.KindOverdueReminder,
		Success:   true,
		SentAt:    time.Now().AddDate(0, 0, -1),
	}).Error)

	got, err := NewReminderService(db).PendingReminders()
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, dueSoon.ID, got[0].MemberID)
	assert.Equal(t, models.KindPaymentReminder, got[0].Kind)
}

func TestReminderService_FailedSendDoesNotSuppress(t *testing.T) {
	db := testutil.SetupTestDB(t)

	m := member("Anil", models.PlanMonthly, time.Now().AddDate(0, 0, -40), 15)
	require.NoError(t, db.Create(&m).Error)

	require.NoError(t, db.Create(&models.ReminderLog{
		SubjectID:    m.ID,
		Kind:         models.KindOverdueReminder,
		Success:      false,
		ErrorMessage: "provider rejected",
		SentAt:       time.Now(),
	}).Error)

	got, err := NewReminderService(db).PendingReminders()
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestReminderService_Statistics(t *testing.T) {
	db := testutil.SetupTestDB(t)

	subject := uuid.New()
	for _, success := range []bool{true, true, false} {
		require.NoError(t, db.Create(&models.ReminderLog{
			SubjectID: subject,
			Kind:      models.KindPaymentReminder,
			Success:   success,
			SentAt:    time.Now().AddDate(0, 0, -1),
		}).Error)
	}

	stats, err := NewReminderService(db).Statistics(30)
	require.NoError(t, err)

	require.Len(t, stats, 1)
	assert.Equal(t, models.KindPaymentReminder, stats[0].Kind)
	assert.Equal(t, int64(3), stats[0].TotalSent)
	assert.Equal(t, int64(2), stats[0].Successful)
	assert.Equal(t, int64(1), stats[0].Failed)
	assert.InDelta(t, 66.6, stats[0].SuccessRate, 0.1)
}
