// services/message_service.go
package services

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"courtpro-backend/config"
	"courtpro-backend/utils"
)

// Delivery channels.
const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// Fixed per-message USD rates used for pre-send budgeting.
const (
	defaultSMSRate      = 0.0075
	defaultWhatsAppRate = 0.005
)

// Sender is the outbound-provider boundary. Controllers and the scheduler
// depend on it rather than on Twilio directly.
type Sender interface {
	Send(to, body, channel string) error
	TestConnection() (bool, string)
}

// MessageService is the Twilio-backed Sender.
type MessageService struct {
	client     *twilio.RestClient
	accountSID string
	smsFrom    string
	waFrom     string

	smsRate float64
	waRate  float64
}

func NewMessageService(cfg *config.Config) *MessageService {
	s := &MessageService{
		accountSID: cfg.TwilioAccountSID,
		smsFrom:    cfg.TwilioPhoneNumber,
		waFrom:     cfg.TwilioWhatsAppNumber,
		smsRate:    cfg.SMSRate,
		waRate:     cfg.WhatsAppRate,
	}
	if s.smsRate == 0 {
		s.smsRate = defaultSMSRate
	}
	if s.waRate == 0 {
		s.waRate = defaultWhatsAppRate
	}

	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		s.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	return s
}

func (s *MessageService) Send(to, body, channel string) error {
	if s.client == nil {
		return errors.New("twilio client not configured")
	}

	from := s.smsFrom
	if channel == ChannelWhatsApp {
		if !strings.HasPrefix(to, "whatsapp:") {
			to = "whatsapp:" + to
		}
		from = "whatsapp:" + s.waFrom
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	_, err := s.client.Api.CreateMessage(params)
	return err
}

func (s *MessageService) TestConnection() (bool, string) {
	if s.client == nil {
		return false, "Twilio credentials not configured"
	}

	account, err := s.client.Api.FetchAccount(s.accountSID)
	if err != nil {
		return false, "Connection failed: " + err.Error()
	}

	name := s.accountSID
	if account.FriendlyName != nil {
		name = *account.FriendlyName
	}
	return true, "Connected to Twilio account: " + name
}

// CostEstimate is a pre-send budgeting figure; no provider call involved.
type CostEstimate struct {
	Recipients     int     `json:"recipients"`
	Channel        string  `json:"channel"`
	CostPerMessage float64 `json:"costPerMessage"`
	TotalCost      float64 `json:"totalCost"`
	Currency       string  `json:"currency"`
}

func (s *MessageService) EstimateCost(recipients int, channel string) CostEstimate {
	rate := s.smsRate
	if channel == ChannelWhatsApp {
		rate = s.waRate
	} else {
		channel = ChannelSMS
	}

	return CostEstimate{
		Recipients:     recipients,
		Channel:        channel,
		CostPerMessage: rate,
		TotalCost:      float64(recipients) * rate,
		Currency:       "USD",
	}
}

// WhatsAppLink builds a wa.me deep link carrying the rendered message, for
// the manual send flow where the operator taps through per recipient.
func WhatsAppLink(phone, message string) string {
	return "https://wa.me/" + strings.TrimPrefix(phone, "+") + "?text=" + url.QueryEscape(message)
}

// TemplateError reports a placeholder outside the supported set, so the
// operator can fix the template instead of getting a half-substituted
// message.
type TemplateError struct {
	Placeholder string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template references unknown placeholder {%s}", e.Placeholder)
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_]+)\}`)

// TemplateData carries every field a template may reference.
type TemplateData struct {
	MemberName   string
	Amount       float64
	Plan         string
	NextDueDate  time.Time
	Today        time.Time
	CourtName    string
	ContactPhone string
}

// RenderTemplate substitutes the named placeholders into the template body.
// overdue_days is today minus the due date when positive, else zero.
func RenderTemplate(text string, data TemplateData) (string, error) {
	overdueDays := utils.DaysBetween(data.NextDueDate, data.Today)
	if overdueDays < 0 {
		overdueDays = 0
	}

	values := map[string]string{
		"member_name":     data.MemberName,
		"amount":          strconv.FormatFloat(data.Amount, 'f', 2, 64),
		"due_date":        data.NextDueDate.Format("02-01-2006"),
		"membership_type": data.Plan,
		"overdue_days":    strconv.Itoa(overdueDays),
		"court_name":      data.CourtName,
		"phone":           data.ContactPhone,
	}

	if err := ValidateTemplate(text); err != nil {
		return "", err
	}

	rendered := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		return values[name]
	})
	return rendered, nil
}

// ValidateTemplate rejects any placeholder outside the supported set. Used
// both at render time and when the operator saves a template.
func ValidateTemplate(text string) error {
	known := map[string]bool{
		"member_name":     true,
		"amount":          true,
		"due_date":        true,
		"membership_type": true,
		"overdue_days":    true,
		"court_name":      true,
		"phone":           true,
	}

	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if !known[match[1]] {
			return &TemplateError{Placeholder: match[1]}
		}
	}
	return nil
}
