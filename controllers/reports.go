package controllers

import (
	"calendartasking_go/database"
	"calendartasking_go/models"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ReportController struct{}

// GetMonthlyReport streams the month's sessions and payment totals as an
// xlsx workbook.
func (rc *ReportController) GetMonthlyReport(c *fiber.Ctx) error {
	calendarID, err := strconv.ParseUint(c.Query("calendar_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "calendar_id is required",
		})
	}

	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))

	summary, validationError := buildMonthlySummary(uint(calendarID), year, month)
	if validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationError,
		})
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEndExclusive := monthStart.AddDate(0, 1, 0)

	var sessions []models.PrivateClassSession
	if err := database.DB.
		Where("calendar_id = ? AND session_start_utc >= ? AND session_start_utc < ?",
			uint(calendarID), monthStart, monthEndExclusive).
		Order("session_start_utc").
		Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch sessions",
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sessions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Student", "Start (UTC)", "End (UTC)", "Status", "Amount", "Currency", "Paid", "Paid At (UTC)", "Method"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, session := range sessions {
		paidAt := ""
		if session.PaidAtUtc != nil {
			paidAt = session.PaidAtUtc.Format(time.RFC3339)
		}
		method := ""
		if session.PaymentMethod != nil {
			method = *session.PaymentMethod
		}

		values := []interface{}{
			session.StudentName,
			session.SessionStartUtc.Format(time.RFC3339),
			session.SessionEndUtc.Format(time.RFC3339),
			session.Status,
			session.PriceAmount.StringFixed(2),
			session.CurrencyCode,
			session.IsPaid,
			paidAt,
			method,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	// Summary block below the listing
	summaryStart := len(sessions) + 3
	summaryRows := [][]interface{}{
		{"Total sessions", summary.TotalSessions},
		{"Paid sessions", summary.PaidSessions},
		{"Unpaid sessions", summary.UnpaidSessions},
		{"Total paid amount", summary.TotalPaidAmount.StringFixed(2)},
		{"Total scheduled amount", summary.TotalScheduledAmount.StringFixed(2)},
	}
	for i, pair := range summaryRows {
		labelCell, _ := excelize.CoordinatesToCellName(1, summaryStart+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, summaryStart+i)
		f.SetCellValue(sheet, labelCell, pair[0])
		f.SetCellValue(sheet, valueCell, pair[1])
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build report",
		})
	}

	fileName := fmt.Sprintf("sessions-%d-%02d.xlsx", year, month)
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	return c.Send(buffer.Bytes())
}
