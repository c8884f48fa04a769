// services/reminder_service.go
package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"courtpro-backend/models"
	"courtpro-backend/utils"
)

// CooldownDays is the minimum gap between two successful reminders of the
// same kind to the same subject.
const CooldownDays = 3

// ChildReminderLeadDays is the fixed eligibility window for training fees.
const ChildReminderLeadDays = 15

// childBillingDays: training fees are billed monthly regardless of the
// member plans.
const childBillingDays = 30

// ReminderKey identifies a (subject, kind) pair in the cooldown lookup.
type ReminderKey struct {
	SubjectID uuid.UUID
	Kind      string
}

// ReminderCandidate is a computed, not-yet-sent reminder awaiting operator
// action.
type ReminderCandidate struct {
	MemberID        uuid.UUID `json:"memberId"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Plan            string    `json:"plan"`
	Amount          float64   `json:"amount"`
	LastPaymentDate time.Time `json:"lastPaymentDate"`
	NextDueDate     time.Time `json:"nextDueDate"`
	DaysRemaining   int       `json:"daysRemaining"`
	Kind            string    `json:"kind"`
	ReminderDays    int       `json:"reminderDays"`
}

// ChildReminderCandidate is the training-roster counterpart.
type ChildReminderCandidate struct {
	ChildID       uuid.UUID `json:"childId"`
	ChildName     string    `json:"childName"`
	ParentName    string    `json:"parentName"`
	Phone         string    `json:"phone"`
	Amount        float64   `json:"amount"`
	NextDueDate   time.Time `json:"nextDueDate"`
	DaysRemaining int       `json:"daysRemaining"`
	Kind          string    `json:"kind"`
}

// PendingMemberReminders computes the reminder candidate list for a scan.
// Pure: it reads its inputs and nothing else, and leaves them unchanged.
// lastSuccess maps (subject, kind) to the most recent successful send and
// is expected to be pre-filtered to the cooldown horizon by the caller.
//
// A member whose last payment date is missing is skipped for the scan
// rather than failing the batch.
func PendingMemberReminders(members []models.Member, lastSuccess map[ReminderKey]time.Time, today time.Time) []ReminderCandidate {
	ordered := make([]models.Member, len(members))
	copy(ordered, members)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	candidates := make([]ReminderCandidate, 0, len(ordered))

	for _, m := range ordered {
		if m.LastPaymentDate.IsZero() {
			continue
		}

		nextDue := utils.NextDueDate(m.LastPaymentDate, m.Plan)
		daysRemaining := utils.DaysRemaining(nextDue, today)

		var kind string
		switch {
		case daysRemaining < 0:
			kind = models.KindOverdueReminder
		case daysRemaining <= m.ReminderDays:
			kind = models.KindPaymentReminder
		default:
			continue
		}

		// Suppression is strictly per-kind: a recent payment_reminder does
		// not silence a newly eligible overdue_reminder.
		if suppressed(lastSuccess, m.ID, kind, today) {
			continue
		}

		candidates = append(candidates, ReminderCandidate{
			MemberID:        m.ID,
			Name:            m.Name,
			Phone:           m.Phone,
			Plan:            m.Plan,
			Amount:          m.Amount,
			LastPaymentDate: m.LastPaymentDate,
			NextDueDate:     nextDue,
			DaysRemaining:   daysRemaining,
			Kind:            kind,
			ReminderDays:    m.ReminderDays,
		})
	}

	return candidates
}

// PendingChildReminders computes training-fee candidates. A child with no
// recorded payment falls back to enrollment start + 30 days as the due
// baseline; a child with no usable date at all is skipped.
func PendingChildReminders(children []models.Child, lastPayment map[uuid.UUID]time.Time, lastSuccess map[ReminderKey]time.Time, today time.Time) []ChildReminderCandidate {
	ordered := make([]models.Child, len(children))
	copy(ordered, children)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	candidates := make([]ChildReminderCandidate, 0, len(ordered))

	for _, k := range ordered {
		baseline := lastPayment[k.ID]
		if baseline.IsZero() {
			baseline = k.StartDate
		}
		if baseline.IsZero() {
			continue
		}

		nextDue := utils.BeginningOfDay(baseline).AddDate(0, 0, childBillingDays)
		daysRemaining := utils.DaysRemaining(nextDue, today)

		if daysRemaining > ChildReminderLeadDays {
			continue
		}
		if suppressed(lastSuccess, k.ID, models.KindChildPaymentReminder, today) {
			continue
		}

		candidates = append(candidates, ChildReminderCandidate{
			ChildID:       k.ID,
			ChildName:     k.Name,
			ParentName:    k.ParentName,
			Phone:         k.ParentPhone,
			Amount:        k.MonthlyFee,
			NextDueDate:   nextDue,
			DaysRemaining: daysRemaining,
			Kind:          models.KindChildPaymentReminder,
		})
	}

	return candidates
}

func suppressed(lastSuccess map[ReminderKey]time.Time, subjectID uuid.UUID, kind string, now time.Time) bool {
	sentAt, ok := lastSuccess[ReminderKey{SubjectID: subjectID, Kind: kind}]
	if !ok {
		return false
	}
	return sentAt.After(now.AddDate(0, 0, -CooldownDays))
}

// OverdueOnly filters a candidate list down to overdue members.
func OverdueOnly(candidates []ReminderCandidate) []ReminderCandidate {
	out := make([]ReminderCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.DaysRemaining < 0 {
			out = append(out, c)
		}
	}
	return out
}

// DueSoonOnly filters a candidate list to members due within daysAhead.
func DueSoonOnly(candidates []ReminderCandidate, daysAhead int) []ReminderCandidate {
	out := make([]ReminderCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.DaysRemaining >= 0 && c.DaysRemaining <= daysAhead {
			out = append(out, c)
		}
	}
	return out
}

// ReminderService assembles engine inputs from storage. The computation
// itself stays in the pure functions above.
type ReminderService struct {
	db *gorm.DB
}

func NewReminderService(db *gorm.DB) *ReminderService {
	return &ReminderService{db: db}
}

func (s *ReminderService) PendingReminders() ([]ReminderCandidate, error) {
	var members []models.Member
	if err := s.db.Order("name").Find(&members).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	lastSuccess, err := s.recentSuccesses(now.AddDate(0, 0, -CooldownDays))
	if err != nil {
		return nil, err
	}

	return PendingMemberReminders(members, lastSuccess, now), nil
}

func (s *ReminderService) PendingChildReminders() ([]ChildReminderCandidate, error) {
	var children []models.Child
	if err := s.db.Where("is_active = ?", true).Order("name").Find(&children).Error; err != nil {
		return nil, err
	}

	lastPayment, err := s.lastChildPayments()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	lastSuccess, err := s.recentSuccesses(now.AddDate(0, 0, -CooldownDays))
	if err != nil {
		return nil, err
	}

	return PendingChildReminders(children, lastPayment, lastSuccess, now), nil
}

// recentSuccesses builds the cooldown lookup from one batched query
// instead of one log query per member. The fold to the most recent
// timestamp per (subject, kind) happens here.
func (s *ReminderService) recentSuccesses(since time.Time) (map[ReminderKey]time.Time, error) {
	var rows []models.ReminderLog
	err := s.db.Select("subject_id, kind, sent_at").
		Where("success = ? AND sent_at >= ?", true, since).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	lookup := make(map[ReminderKey]time.Time, len(rows))
	for _, r := range rows {
		key := ReminderKey{SubjectID: r.SubjectID, Kind: r.Kind}
		if r.SentAt.After(lookup[key]) {
			lookup[key] = r.SentAt
		}
	}
	return lookup, nil
}

func (s *ReminderService) lastChildPayments() (map[uuid.UUID]time.Time, error) {
	var rows []models.ChildPayment
	err := s.db.Select("child_id, payment_date").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	lookup := make(map[uuid.UUID]time.Time, len(rows))
	for _, r := range rows {
		if r.PaymentDate.After(lookup[r.ChildID]) {
			lookup[r.ChildID] = r.PaymentDate
		}
	}
	return lookup, nil
}

// ReminderStats summarizes dispatch outcomes per kind over a trailing
// window.
type ReminderStats struct {
	Kind        string  `json:"kind"`
	TotalSent   int64   `json:"totalSent"`
	Successful  int64   `json:"successful"`
	Failed      int64   `json:"failed"`
	SuccessRate float64 `json:"successRate"`
}

func (s *ReminderService) Statistics(daysBack int) ([]ReminderStats, error) {
	cutoff := time.Now().AddDate(0, 0, -daysBack)

	var rows []struct {
		Kind       string
		Total      int64
		Successful int64
	}

	err := s.db.Model(&models.ReminderLog{}).
		Select("kind, COUNT(*) AS total, SUM(CASE WHEN success THEN 1 ELSE 0 END) AS successful").
		Where("sent_at >= ?", cutoff).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]ReminderStats, 0, len(rows))
	for _, r := range rows {
		st := ReminderStats{
			Kind:       r.Kind,
			TotalSent:  r.Total,
			Successful: r.Successful,
			Failed:     r.Total - r.Successful,
		}
		if r.Total > 0 {
			st.SuccessRate = float64(r.Successful) / float64(r.Total) * 100
		}
		stats = append(stats, st)
	}
	return stats, nil
}
