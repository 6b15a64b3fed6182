package monitoring

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/argus-soc/internal/models"
	ws "github.com/nmoreau/argus-soc/internal/websocket"
)

type fakeScheduleService struct {
	mu        sync.Mutex
	schedules []models.ReportSchedule
	nextRuns  map[string]time.Time
	runTimes  map[string]time.Time
}

func newFakeScheduleService(schedules ...models.ReportSchedule) *fakeScheduleService {
	return &fakeScheduleService{
		schedules: schedules,
		nextRuns:  make(map[string]time.Time),
		runTimes:  make(map[string]time.Time),
	}
}

func (f *fakeScheduleService) CreateSchedule(schedule models.ReportSchedule) (models.ReportSchedule, error) {
	return schedule, nil
}
func (f *fakeScheduleService) GetSchedulesForClient(clientID string) ([]models.ReportSchedule, error) {
	return f.schedules, nil
}
func (f *fakeScheduleService) GetScheduleByID(id string) (models.ReportSchedule, error) {
	return models.ReportSchedule{}, nil
}
func (f *fakeScheduleService) GetAllActiveSchedules() ([]models.ReportSchedule, error) {
	return f.schedules, nil
}
func (f *fakeScheduleService) UpdateSchedule(id string, schedule models.ReportSchedule) (models.ReportSchedule, error) {
	return schedule, nil
}
func (f *fakeScheduleService) DeleteSchedule(id string) error { return nil }
func (f *fakeScheduleService) UpdateScheduleRunTimes(id string, lastRun, nextRun time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runTimes[id] = nextRun
	return nil
}
func (f *fakeScheduleService) UpdateScheduleNextRun(id string, nextRun time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextRuns[id] = nextRun
	return nil
}

type fakeReportService struct {
	generated chan string
}

func (f *fakeReportService) GenerateReport(clientID string, window models.ReportWindow) (models.ReportData, error) {
	return models.ReportData{}, nil
}
func (f *fakeReportService) GenerateReportPDF(clientID string, window models.ReportWindow) (string, []byte, error) {
	f.generated <- clientID
	return "", nil, errors.New("no documents in this test")
}

func TestBackfillsMissingNextRun(t *testing.T) {
	scheduleSvc := newFakeScheduleService(models.ReportSchedule{
		ID: "s1", ClientID: "c1", CronExpression: "0 6 * * *", WindowDays: 7, Active: true,
	})
	reportSvc := &fakeReportService{generated: make(chan string, 1)}
	scheduler := NewScheduler(scheduleSvc, reportSvc, ws.NewHub(), t.TempDir())

	scheduler.checkAndRunSchedules()

	next, ok := scheduleSvc.nextRuns["s1"]
	require.True(t, ok, "a schedule without a next run time must get one")
	assert.True(t, next.After(time.Now()))
	assert.Empty(t, scheduleSvc.runTimes)
	select {
	case <-reportSvc.generated:
		t.Fatal("backfilling must not generate a report")
	default:
	}
}

func TestRunsDueSchedule(t *testing.T) {
	due := time.Now().Add(-time.Minute)
	scheduleSvc := newFakeScheduleService(models.ReportSchedule{
		ID: "s1", ClientID: "c1", CronExpression: "0 6 * * *", WindowDays: 7, Active: true,
		NextRunAt: &due,
	})
	reportSvc := &fakeReportService{generated: make(chan string, 1)}
	scheduler := NewScheduler(scheduleSvc, reportSvc, ws.NewHub(), t.TempDir())

	scheduler.checkAndRunSchedules()

	select {
	case clientID := <-reportSvc.generated:
		assert.Equal(t, "c1", clientID)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a report generation for the due schedule")
	}

	scheduleSvc.mu.Lock()
	defer scheduleSvc.mu.Unlock()
	assert.True(t, scheduleSvc.runTimes["s1"].After(time.Now()),
		"the next run must be pushed past the current tick")
}

func TestSkipsInvalidCronExpression(t *testing.T) {
	next := time.Now().Add(-time.Minute)
	scheduleSvc := newFakeScheduleService(models.ReportSchedule{
		ID: "s1", ClientID: "c1", CronExpression: "not a cron line", Active: true,
		NextRunAt: &next,
	})
	reportSvc := &fakeReportService{generated: make(chan string, 1)}
	scheduler := NewScheduler(scheduleSvc, reportSvc, ws.NewHub(), t.TempDir())

	scheduler.checkAndRunSchedules()

	select {
	case <-reportSvc.generated:
		t.Fatal("an invalid schedule must not run")
	default:
	}
	assert.Empty(t, scheduleSvc.runTimes)
	assert.Empty(t, scheduleSvc.nextRuns)
}
