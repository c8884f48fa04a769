// controllers/export.go
package controllers

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"courtpro-backend/config"
	"courtpro-backend/models"
	"courtpro-backend/utils"
)

const exportDateFormat = "2006-01-02"

type csvTable struct {
	name   string
	header []string
	rows   [][]string
}

func membersTable() (csvTable, error) {
	var members []models.Member
	if err := config.DB.Order("name").Find(&members).Error; err != nil {
		return csvTable{}, err
	}

	today := time.Now()
	table := csvTable{
		name:   "members",
		header: []string{"id", "name", "phone", "email", "plan", "amount", "last_payment_date", "reminder_days", "notes", "status"},
	}
	for _, m := range members {
		status := utils.StatusActive
		if !m.LastPaymentDate.IsZero() {
			nextDue := utils.NextDueDate(m.LastPaymentDate, m.Plan)
			status = utils.ClassifyStatus(utils.DaysRemaining(nextDue, today))
		}
		table.rows = append(table.rows, []string{
			m.ID.String(), m.Name, m.Phone, m.Email, m.Plan,
			strconv.FormatFloat(m.Amount, 'f', 2, 64),
			m.LastPaymentDate.Format(exportDateFormat),
			strconv.Itoa(m.ReminderDays), m.Notes, status,
		})
	}
	return table, nil
}

func paymentsTable() (csvTable, error) {
	type row struct {
		ID          string
		MemberName  string
		MemberPhone string
		Amount      float64
		PaymentDate time.Time
		Method      string
		Notes       string
	}
	var rows []row
	err := config.DB.Model(&models.Payment{}).
		Select("payments.id, members.name AS member_name, members.phone AS member_phone, payments.amount, payments.payment_date, payments.method, payments.notes").
		Joins("JOIN members ON members.id = payments.member_id").
		Order("payments.payment_date DESC").
		Scan(&rows).Error
	if err != nil {
		return csvTable{}, err
	}

	table := csvTable{
		name:   "payment_history",
		header: []string{"id", "member_name", "member_phone", "amount", "payment_date", "method", "notes"},
	}
	for _, r := range rows {
		table.rows = append(table.rows, []string{
			r.ID, r.MemberName, r.MemberPhone,
			strconv.FormatFloat(r.Amount, 'f', 2, 64),
			r.PaymentDate.Format(exportDateFormat), r.Method, r.Notes,
		})
	}
	return table, nil
}

func childrenTable() (csvTable, error) {
	var children []models.Child
	if err := config.DB.Order("name").Find(&children).Error; err != nil {
		return csvTable{}, err
	}

	table := csvTable{
		name:   "kids_training",
		header: []string{"id", "name", "parent_name", "parent_phone", "age", "batch_time", "monthly_fee", "start_date", "emergency_contact", "medical_notes", "status"},
	}
	for _, k := range children {
		status := "Active"
		if !k.IsActive {
			status = "Inactive"
		}
		table.rows = append(table.rows, []string{
			k.ID.String(), k.Name, k.ParentName, k.ParentPhone,
			strconv.Itoa(k.Age), k.BatchTime,
			strconv.FormatFloat(k.MonthlyFee, 'f', 2, 64),
			k.StartDate.Format(exportDateFormat),
			k.EmergencyContact, k.MedicalNotes, status,
		})
	}
	return table, nil
}

func childPaymentsTable() (csvTable, error) {
	type row struct {
		ID          string
		ChildName   string
		ParentName  string
		ParentPhone string
		Amount      float64
		PaymentDate time.Time
		Method      string
		Notes       string
	}
	var rows []row
	err := config.DB.Model(&models.ChildPayment{}).
		Select("child_payments.id, children.name AS child_name, children.parent_name, children.parent_phone, child_payments.amount, child_payments.payment_date, child_payments.method, child_payments.notes").
		Joins("JOIN children ON children.id = child_payments.child_id").
		Order("child_payments.payment_date DESC").
		Scan(&rows).Error
	if err != nil {
		return csvTable{}, err
	}

	table := csvTable{
		name:   "kids_payment_history",
		header: []string{"id", "child_name", "parent_name", "parent_phone", "amount", "payment_date", "method", "notes"},
	}
	for _, r := range rows {
		table.rows = append(table.rows, []string{
			r.ID, r.ChildName, r.ParentName, r.ParentPhone,
			strconv.FormatFloat(r.Amount, 'f', 2, 64),
			r.PaymentDate.Format(exportDateFormat), r.Method, r.Notes,
		})
	}
	return table, nil
}

func checkinsTable() (csvTable, error) {
	var checkins []models.CheckIn
	if err := config.DB.Order("check_in_time DESC").Find(&checkins).Error; err != nil {
		return csvTable{}, err
	}

	table := csvTable{
		name:   "checkins",
		header: []string{"id", "member_name", "phone", "check_in_time", "check_out_time", "duration_minutes", "usage_type", "notes", "status"},
	}
	for _, ci := range checkins {
		checkOut, duration, status := "", "", "Active"
		if ci.CheckOutTime != nil {
			checkOut = ci.CheckOutTime.Format(time.RFC3339)
			status = "Completed"
		}
		if ci.DurationMinutes != nil {
			duration = strconv.Itoa(*ci.DurationMinutes)
		}
		table.rows = append(table.rows, []string{
			ci.ID.String(), ci.MemberName, ci.Phone,
			ci.CheckInTime.Format(time.RFC3339), checkOut, duration,
			ci.UsageType, ci.Notes, status,
		})
	}
	return table, nil
}

func reminderLogsTable() (csvTable, error) {
	var logs []models.ReminderLog
	if err := config.DB.Order("sent_at DESC").Find(&logs).Error; err != nil {
		return csvTable{}, err
	}

	table := csvTable{
		name:   "reminder_logs",
		header: []string{"id", "subject_id", "kind", "channel", "success", "error_message", "sent_at"},
	}
	for _, l := range logs {
		table.rows = append(table.rows, []string{
			l.ID.String(), l.SubjectID.String(), l.Kind, l.Channel,
			strconv.FormatBool(l.Success), l.ErrorMessage,
			l.SentAt.Format(time.RFC3339),
		})
	}
	return table, nil
}

func bulkMessagesTable() (csvTable, error) {
	var logs []models.BulkMessageLog
	if err := config.DB.Order("sent_at DESC").Find(&logs).Error; err != nil {
		return csvTable{}, err
	}

	table := csvTable{
		name:   "bulk_messages",
		header: []string{"id", "message", "recipient_count", "kind", "sent_by", "sent_at"},
	}
	for _, l := range logs {
		table.rows = append(table.rows, []string{
			l.ID.String(), l.Message, strconv.Itoa(l.RecipientCount),
			l.Kind, l.SentBy, l.SentAt.Format(time.RFC3339),
		})
	}
	return table, nil
}

var exportTables = map[string]func() (csvTable, error){
	"members":       membersTable,
	"payments":      paymentsTable,
	"children":      childrenTable,
	"kid-payments":  childPaymentsTable,
	"checkins":      checkinsTable,
	"reminder-logs": reminderLogsTable,
	"bulk-messages": bulkMessagesTable,
}

// ExportCSV streams one table as a CSV download
func ExportCSV(c *gin.Context) {
	build, ok := exportTables[c.Param("table")]
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Unknown export table")
		return
	}

	table, err := build()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build export")
		return
	}

	data, err := encodeCSV(table)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to encode export")
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", table.name, time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportBackupZIP bundles every table's CSV plus a summary into one archive
func ExportBackupZIP(c *gin.Context) {
	timestamp := time.Now().Format("20060102_150405")
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	names := []string{"members", "payments", "children", "kid-payments", "checkins", "reminder-logs", "bulk-messages"}
	counts := make(map[string]int, len(names))

	for _, name := range names {
		table, err := exportTables[name]()
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build backup")
			return
		}
		counts[table.name] = len(table.rows)

		data, err := encodeCSV(table)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to encode backup")
			return
		}

		w, err := zw.Create(fmt.Sprintf("%s_%s.csv", table.name, timestamp))
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build archive")
			return
		}
		if _, err := w.Write(data); err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build archive")
			return
		}
	}

	summary := fmt.Sprintf("%s - Database Backup\nGenerated: %s\n\nRecord counts:\n",
		config.C.AcademyName, time.Now().Format("02-01-2006 15:04:05"))
	for _, name := range []string{"members", "payment_history", "kids_training", "kids_payment_history", "checkins", "reminder_logs", "bulk_messages"} {
		summary += fmt.Sprintf("  %s: %d\n", name, counts[name])
	}

	w, err := zw.Create(fmt.Sprintf("backup_summary_%s.txt", timestamp))
	if err == nil {
		_, err = w.Write([]byte(summary))
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build archive")
		return
	}

	if err := zw.Close(); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to finalize archive")
		return
	}

	filename := fmt.Sprintf("academy_backup_%s.zip", timestamp)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

func encodeCSV(table csvTable) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	if err := w.Write(table.header); err != nil {
		return nil, err
	}
	for _, row := range table.rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
