package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtpro-backend/config"
	"courtpro-backend/models"
)

func templateData(nextDue, today time.Time) TemplateData {
	return TemplateData{
		MemberName:   "Anil Kumar",
		Amount:       1500,
		Plan:         models.PlanMonthly,
		NextDueDate:  nextDue,
		Today:        today,
		CourtName:    "KJ Badminton Academy",
		ContactPhone: "+91-9876543210",
	}
}

func TestRenderTemplate_SubstitutesAllPlaceholders(t *testing.T) {
	text := "Hi {member_name}, {membership_type} fee Rs.{amount} due {due_date}. {court_name} {phone}"

	got, err := RenderTemplate(text, templateData(date(2024, 1, 31), date(2024, 1, 20)))
	require.NoError(t, err)

	assert.Equal(t, "Hi Anil Kumar, Monthly fee Rs.1500.00 due 31-01-2024. KJ Badminton Academy +91-9876543210", got)
}

func TestRenderTemplate_OverdueDays(t *testing.T) {
	text := "overdue by {overdue_days} days"

	got, err := RenderTemplate(text, templateData(date(2024, 1, 31), date(2024, 2, 5)))
	require.NoError(t, err)
	assert.Equal(t, "overdue by 5 days", got)

	// Not yet due: the count clamps to zero instead of going negative.
	got, err = RenderTemplate(text, templateData(date(2024, 1, 31), date(2024, 1, 20)))
	require.NoError(t, err)
	assert.Equal(t, "overdue by 0 days", got)
}

func TestRenderTemplate_UnknownPlaceholder(t *testing.T) {
	_, err := RenderTemplate("Hello {member_nickname}", templateData(date(2024, 1, 31), date(2024, 1, 20)))
	require.Error(t, err)

	var templateErr *TemplateError
	require.True(t, errors.As(err, &templateErr))
	assert.Equal(t, "member_nickname", templateErr.Placeholder)
}

func TestValidateTemplate_DefaultsAreValid(t *testing.T) {
	for kind, body := range models.DefaultTemplates {
		assert.NoError(t, ValidateTemplate(body), "default template %s", kind)
	}
}

func TestEstimateCost(t *testing.T) {
	svc := NewMessageService(&config.Config{})

	sms := svc.EstimateCost(100, ChannelSMS)
	assert.Equal(t, 100, sms.Recipients)
	assert.Equal(t, ChannelSMS, sms.Channel)
	assert.InDelta(t, 0.0075, sms.CostPerMessage, 1e-9)
	assert.InDelta(t, 0.75, sms.TotalCost, 1e-9)
	assert.Equal(t, "USD", sms.Currency)

	wa := svc.EstimateCost(100, ChannelWhatsApp)
	assert.InDelta(t, 0.005, wa.CostPerMessage, 1e-9)
	assert.InDelta(t, 0.5, wa.TotalCost, 1e-9)

	// Unknown channels fall back to the SMS rate.
	other := svc.EstimateCost(10, "carrier-pigeon")
	assert.Equal(t, ChannelSMS, other.Channel)
	assert.InDelta(t, 0.075, other.TotalCost, 1e-9)
}

func TestSend_WithoutCredentials(t *testing.T) {
	svc := NewMessageService(&config.Config{})
	err := svc.Send("+919876543210", "hello", ChannelSMS)
	require.Error(t, err)

	ok, detail := svc.TestConnection()
	assert.False(t, ok)
	assert.Contains(t, detail, "not configured")
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("+919876543210", "Payment due on 31-01-2024")
	assert.Equal(t, "https://wa.me/919876543210?text=Payment+due+on+31-01-2024", link)
}
