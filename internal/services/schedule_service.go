package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/nmoreau/argus-soc/internal/models"
)

// ScheduleServiceProvider defines the interface for report schedule services.
type ScheduleServiceProvider interface {
	CreateSchedule(schedule models.ReportSchedule) (models.ReportSchedule, error)
	GetSchedulesForClient(clientID string) ([]models.ReportSchedule, error)
	GetScheduleByID(id string) (models.ReportSchedule, error)
	GetAllActiveSchedules() ([]models.ReportSchedule, error)
	UpdateSchedule(id string, schedule models.ReportSchedule) (models.ReportSchedule, error)
	DeleteSchedule(id string) error
	UpdateScheduleRunTimes(id string, lastRun, nextRun time.Time) error
	UpdateScheduleNextRun(id string, nextRun time.Time) error
}

// ScheduleService provides business logic for recurring report generation.
type ScheduleService struct {
	db *sql.DB
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(db *sql.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

const scheduleColumns = `id, client_id, name, cron_expression, window_days, active, last_run_at, next_run_at, created_at`

// CreateSchedule validates the cron expression and stores the schedule with
// its first run time.
func (s *ScheduleService) CreateSchedule(schedule models.ReportSchedule) (models.ReportSchedule, error) {
	cronSchedule, err := cron.ParseStandard(schedule.CronExpression)
	if err != nil {
		return models.ReportSchedule{}, fmt.Errorf("invalid cron expression: %w", err)
	}
	if schedule.WindowDays <= 0 {
		schedule.WindowDays = 7
	}

	schedule.ID = uuid.New().String()
	nextRun := cronSchedule.Next(time.Now())
	schedule.NextRunAt = &nextRun

	stmt, err := s.db.Prepare(`
		INSERT INTO report_schedules (id, client_id, name, cron_expression, window_days, active, next_run_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.ReportSchedule{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(schedule.ID, schedule.ClientID, schedule.Name, schedule.CronExpression,
		schedule.WindowDays, schedule.Active, schedule.NextRunAt)
	if err != nil {
		return models.ReportSchedule{}, err
	}
	return s.GetScheduleByID(schedule.ID)
}

// GetSchedulesForClient retrieves all schedules for one tenant.
func (s *ScheduleService) GetSchedulesForClient(clientID string) ([]models.ReportSchedule, error) {
	rows, err := s.db.Query(
		"SELECT "+scheduleColumns+" FROM report_schedules WHERE client_id = ? ORDER BY created_at DESC", clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

// GetScheduleByID retrieves a single schedule.
func (s *ScheduleService) GetScheduleByID(id string) (models.ReportSchedule, error) {
	row := s.db.QueryRow("SELECT "+scheduleColumns+" FROM report_schedules WHERE id = ?", id)
	schedule, err := scanSchedule(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ReportSchedule{}, fmt.Errorf("schedule with ID %s not found", id)
		}
		return models.ReportSchedule{}, err
	}
	return schedule, nil
}

// GetAllActiveSchedules retrieves every active schedule across tenants.
func (s *ScheduleService) GetAllActiveSchedules() ([]models.ReportSchedule, error) {
	rows, err := s.db.Query("SELECT " + scheduleColumns + " FROM report_schedules WHERE active = 1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

// UpdateSchedule updates an existing schedule and recomputes its next run.
func (s *ScheduleService) UpdateSchedule(id string, schedule models.ReportSchedule) (models.ReportSchedule, error) {
	cronSchedule, err := cron.ParseStandard(schedule.CronExpression)
	if err != nil {
		return models.ReportSchedule{}, fmt.Errorf("invalid cron expression: %w", err)
	}
	if _, err := s.GetScheduleByID(id); err != nil {
		return models.ReportSchedule{}, err
	}

	nextRun := cronSchedule.Next(time.Now())
	_, err = s.db.Exec(`
		UPDATE report_schedules SET name = ?, cron_expression = ?, window_days = ?, active = ?, next_run_at = ?
		WHERE id = ?`,
		schedule.Name, schedule.CronExpression, schedule.WindowDays, schedule.Active, nextRun, id)
	if err != nil {
		return models.ReportSchedule{}, err
	}
	return s.GetScheduleByID(id)
}

// DeleteSchedule removes a schedule.
func (s *ScheduleService) DeleteSchedule(id string) error {
	_, err := s.db.Exec("DELETE FROM report_schedules WHERE id = ?", id)
	return err
}

// UpdateScheduleRunTimes records when a schedule last ran and when it runs next.
func (s *ScheduleService) UpdateScheduleRunTimes(id string, lastRun, nextRun time.Time) error {
	_, err := s.db.Exec("UPDATE report_schedules SET last_run_at = ?, next_run_at = ? WHERE id = ?",
		lastRun, nextRun, id)
	return err
}

// UpdateScheduleNextRun sets only the next run time, leaving last_run_at
// untouched. The scheduler uses it to backfill rows that never had one.
func (s *ScheduleService) UpdateScheduleNextRun(id string, nextRun time.Time) error {
	_, err := s.db.Exec("UPDATE report_schedules SET next_run_at = ? WHERE id = ?", nextRun, id)
	return err
}

func scanSchedules(rows *sql.Rows) ([]models.ReportSchedule, error) {
	var schedules []models.ReportSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, rows.Err()
}

func scanSchedule(row rowScanner) (models.ReportSchedule, error) {
	var sc models.ReportSchedule
	err := row.Scan(&sc.ID, &sc.ClientID, &sc.Name, &sc.CronExpression, &sc.WindowDays,
		&sc.Active, &sc.LastRunAt, &sc.NextRunAt, &sc.CreatedAt)
	if err != nil {
		return models.ReportSchedule{}, err
	}
	return sc, nil
}
