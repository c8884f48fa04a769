package config

import (
	"github.com/spf13/viper"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string
	DatabaseURL string

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioPhoneNumber    string
	TwilioWhatsAppNumber string

	// Academy identity used in rendered messages.
	AcademyName  string
	ContactPhone string

	// Calling code prepended to 10-digit local numbers.
	DefaultCountryCode string

	// Per-message USD rates for the cost estimator.
	SMSRate      float64
	WhatsAppRate float64

	// When true, the cron scheduler dispatches due reminders daily.
	AutoReminders bool
}

var C *Config

func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ACADEMY_NAME", "KJ Badminton Academy")
	v.SetDefault("CONTACT_PHONE", "+91-9876543210")
	v.SetDefault("DEFAULT_COUNTRY_CODE", "91")
	v.SetDefault("SMS_RATE", 0.0075)
	v.SetDefault("WHATSAPP_RATE", 0.005)
	v.SetDefault("AUTO_REMINDERS", false)

	C = &Config{
		Port:                 v.GetString("PORT"),
		DatabaseURL:          v.GetString("DB_URL"),
		TwilioAccountSID:     v.GetString("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      v.GetString("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber:    v.GetString("TWILIO_PHONE_NUMBER"),
		TwilioWhatsAppNumber: v.GetString("TWILIO_WHATSAPP_NUMBER"),
		AcademyName:          v.GetString("ACADEMY_NAME"),
		ContactPhone:         v.GetString("CONTACT_PHONE"),
		DefaultCountryCode:   v.GetString("DEFAULT_COUNTRY_CODE"),
		SMSRate:              v.GetFloat64("SMS_RATE"),
		WhatsAppRate:         v.GetFloat64("WHATSAPP_RATE"),
		AutoReminders:        v.GetBool("AUTO_REMINDERS"),
	}
	return C
}
