package salary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/document"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/numwords"
	"github.com/shopspring/decimal"
)

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func rupees(d decimal.Decimal) string {
	return "Rs. " + numwords.Grouped(d)
}

func slipTitle(r salary.Record) string {
	return fmt.Sprintf("Salary Slip - %s - %s", str(r.UserName), r.Month.Format("January 2006"))
}

func slipURL(id string) string {
	return "/api/v1/salaries/" + id + "/slip"
}

func slipValues(r salary.Record, now time.Time) map[string]string {
	return map[string]string{
		"month":                     r.Month.Format("January 2006"),
		"name":                      str(r.UserName),
		"employee_code":             str(r.EmployeeCode),
		"designation":               str(r.Designation),
		"office":                    str(r.OfficeName),
		"basic_salary":              rupees(r.BasicSalary),
		"per_day_pay":               rupees(r.PerDayPay),
		"present_days":              fmt.Sprint(r.PresentDays),
		"sundays":                   fmt.Sprint(r.Sundays),
		"holidays":                  fmt.Sprint(r.Holidays),
		"extra_days":                fmt.Sprint(r.ExtraDays),
		"worked_days":               fmt.Sprint(r.WorkedDays),
		"gross_salary":              rupees(r.GrossSalary),
		"previous_month_carry_over": rupees(r.PreviousMonthCarryOver),
		"deduction":                 rupees(r.Deduction),
		"net_salary":                rupees(r.NetSalary),
		"loan_balance":              rupees(r.LoanBalance),
		"final_payable":             rupees(r.FinalPayable),
		"final_payable_words":       numwords.Rupees(r.FinalPayable),
		"status":                    string(r.Status),
		"date":                      now.Format("02 January 2006"),
	}
}

// Slip implements salary.SalaryService.
func (s *SalaryServiceImpl) Slip(ctx context.Context, id string) (document.File, error) {
	r, err := s.getVisible(ctx, id)
	if err != nil {
		return document.File{}, err
	}
	return s.documents.RenderKind(ctx, document.KindSalarySlip, slipTitle(r), slipValues(r, s.now().In(s.location)))
}

// announcePaid notifies the employee in-app and by email. Neither failure
// affects the payment.
func (s *SalaryServiceImpl) announcePaid(ctx context.Context, r salary.Record) {
	month := r.Month.Format("January 2006")

	s.notifier.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID: r.UserID,
		Type:        notification.TypeSalaryPaid,
		Title:       "Salary paid",
		Message:     fmt.Sprintf("Your salary for %s (%s) has been paid.", month, rupees(r.FinalPayable)),
		Data: map[string]any{
			"salary_id": r.ID,
			"month":     r.Month.Format("2006-01"),
			"slip_url":  slipURL(r.ID),
		},
	})

	if r.UserEmail == nil || *r.UserEmail == "" {
		return
	}
	to := *r.UserEmail
	data := email.SalarySlip{
		Name:         str(r.UserName),
		Month:        month,
		FinalPayable: rupees(r.FinalPayable),
		SlipURL:      slipURL(r.ID),
	}
	go func() {
		if err := s.mailer.SendSalarySlip(to, data); err != nil {
			slog.Error("Failed to send salary slip email", "salary_id", r.ID, "to", to, "error", err)
		}
	}()
}
