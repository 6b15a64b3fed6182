package monitoring

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/models"
	"github.com/nmoreau/argus-soc/internal/services"
	ws "github.com/nmoreau/argus-soc/internal/websocket"
)

// Scheduler generates recurring client reports. Every minute it loads the
// active schedules, runs the due ones, writes the PDF to the output directory
// and notifies subscribed dashboard sessions.
type Scheduler struct {
	scheduleSvc services.ScheduleServiceProvider
	reportSvc   services.ReportServiceProvider
	hub         *ws.Hub
	outputDir   string
	ticker      *time.Ticker
	done        chan bool
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(scheduleSvc services.ScheduleServiceProvider, reportSvc services.ReportServiceProvider, hub *ws.Hub, outputDir string) *Scheduler {
	return &Scheduler{
		scheduleSvc: scheduleSvc,
		reportSvc:   reportSvc,
		hub:         hub,
		outputDir:   outputDir,
		done:        make(chan bool),
	}
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	log.Info().Msg("Starting report scheduler...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	// Run once immediately on start
	s.checkAndRunSchedules()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping report scheduler.")
			return
		case <-s.ticker.C:
			s.checkAndRunSchedules()
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// checkAndRunSchedules queries for due schedules and executes them.
func (s *Scheduler) checkAndRunSchedules() {
	schedules, err := s.scheduleSvc.GetAllActiveSchedules()
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: failed to retrieve active schedules")
		return
	}

	for _, schedule := range schedules {
		cronSchedule, err := cron.ParseStandard(schedule.CronExpression)
		if err != nil {
			log.Error().Err(err).Str("schedule_id", schedule.ID).Msg("Scheduler: invalid cron expression")
			continue
		}

		now := time.Now()
		if schedule.NextRunAt == nil {
			// Rows written outside CreateSchedule may lack a next run; backfill
			// it so the schedule is picked up on a later tick.
			nextRun := cronSchedule.Next(now)
			if err := s.scheduleSvc.UpdateScheduleNextRun(schedule.ID, nextRun); err != nil {
				log.Error().Err(err).Str("schedule_id", schedule.ID).Msg("Scheduler: failed to set next run time")
			}
			continue
		}

		if now.After(*schedule.NextRunAt) {
			go s.generateReport(schedule) // Run in a goroutine to not block the loop

			nextRun := cronSchedule.Next(now)
			if err := s.scheduleSvc.UpdateScheduleRunTimes(schedule.ID, now, nextRun); err != nil {
				log.Error().Err(err).Str("schedule_id", schedule.ID).Msg("Scheduler: failed to update run times")
			}
		}
	}
}

// generateReport produces the scheduled PDF over the trailing window.
func (s *Scheduler) generateReport(schedule models.ReportSchedule) {
	now := time.Now()
	window := models.ReportWindow{
		From: now.AddDate(0, 0, -schedule.WindowDays),
		To:   now,
	}

	filename, doc, err := s.reportSvc.GenerateReportPDF(schedule.ClientID, window)
	if err != nil {
		log.Error().Err(err).Str("schedule_id", schedule.ID).Str("client_id", schedule.ClientID).
			Msg("Scheduler: report generation failed")
		return
	}

	path := filepath.Join(s.outputDir, filename)
	if err := os.WriteFile(path, doc, 0644); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Scheduler: failed to write report file")
		return
	}

	log.Info().Str("client_id", schedule.ClientID).Str("path", path).Msg("Scheduled report generated")
	s.hub.BroadcastTo(schedule.ClientID, ws.NewReportGeneratedMessage(map[string]string{
		"clientId": schedule.ClientID,
		"filename": filename,
	}))
}
