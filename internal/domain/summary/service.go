package summary

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
)

type SummaryService interface {
	// Summarize loads one employee's records and holidays and classifies the range
	Summarize(ctx context.Context, employeeID string, start, end time.Time) (Summary, error)

	GetMonthly(ctx context.Context, session auth.Session, q MonthQuery) (SummaryResponse, error)
	GetDailyReport(ctx context.Context, q DateQuery) (DailyReportResponse, error)
	GetAbsenteeList(ctx context.Context, q RangeQuery) (AbsenteeListResponse, error)
	ExportMonthly(ctx context.Context, session auth.Session, q MonthQuery) (ExportFile, error)
}
