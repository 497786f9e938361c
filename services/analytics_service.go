package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pupcare/models"
	"pupcare/utils"
)

// AnalyticsService loads day logs and runs the metrics over them.
type AnalyticsService struct {
	days    *DayLogService
	health  *HealthService
	puppies *PuppyService
	loc     *time.Location
	now     func() time.Time
}

func NewAnalyticsService(days *DayLogService, health *HealthService, puppies *PuppyService, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsService{days: days, health: health, puppies: puppies, loc: loc, now: time.Now}
}

// Today is the current calendar date in the service timezone.
func (s *AnalyticsService) Today() time.Time {
	return utils.DayStart(s.now().In(s.loc))
}

// ---------- Day ----------

func (s *AnalyticsService) Day(ctx context.Context, puppyID uint, date string) (*DaySummary, error) {
	log, err := s.days.Get(ctx, puppyID, date)
	if err != nil {
		return nil, err
	}
	if log.ID == 0 {
		log = nil
	}
	out := SummarizeDay(date, log)
	return &out, nil
}

// ---------- Range ----------

func (s *AnalyticsService) rangeDates(ctx context.Context, puppyID uint, key RangeKey) ([]string, error) {
	var recorded []string
	if key == RangeAll {
		var err error
		if recorded, err = s.days.RecordedDates(ctx, puppyID); err != nil {
			return nil, err
		}
	}
	return ExpandRange(key, s.Today(), recorded), nil
}

func (s *AnalyticsService) Summary(ctx context.Context, puppyID uint, key RangeKey) (*RangeSummary, error) {
	dates, err := s.rangeDates(ctx, puppyID, key)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, puppyID, key, dates)
}

// Week summarizes the Monday-to-Sunday week containing weekStart.
func (s *AnalyticsService) Week(ctx context.Context, puppyID uint, weekStart time.Time) (*RangeSummary, error) {
	from := startOfWeek(weekStart.In(s.loc))
	return s.summarize(ctx, puppyID, "week", DatesBetween(from, from.AddDate(0, 0, 6)))
}

func (s *AnalyticsService) summarize(ctx context.Context, puppyID uint, key RangeKey, dates []string) (*RangeSummary, error) {
	logs, err := s.days.IndexByDate(ctx, puppyID, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}
	out := SummarizeRange(key, dates, logs)
	return &out, nil
}

// ---------- Schedule ----------

func (s *AnalyticsService) Schedule(ctx context.Context, puppyID uint, key RangeKey, kind ChartKind) (*ScheduleChart, error) {
	dates, err := s.rangeDates(ctx, puppyID, key)
	if err != nil {
		return nil, err
	}
	from := dates[0]
	if kind == ChartSleep {
		// the first night starts on the evening before the first row
		if d, ok := utils.ParseDate(from, s.loc); ok {
			from = d.AddDate(0, 0, -1).Format(utils.DateLayout)
		}
	}
	logs, err := s.days.IndexByDate(ctx, puppyID, from, dates[len(dates)-1])
	if err != nil {
		return nil, err
	}
	out := BuildSchedule(kind, dates, logs, s.loc)
	return &out, nil
}

// ---------- Text digest ----------

// TextSummary renders the puppy profile, range totals, per-day lines and
// recent health records as plain text for the chat assistant.
func (s *AnalyticsService) TextSummary(ctx context.Context, puppyID uint, key RangeKey) (string, error) {
	puppy, err := s.puppies.Get(ctx, puppyID)
	if err != nil {
		return "", err
	}
	sum, err := s.Summary(ctx, puppyID, key)
	if err != nil {
		return "", err
	}
	var weights []models.WeightEntry
	if weights, err = s.puppies.ListWeights(ctx, puppyID); err != nil {
		return "", err
	}
	var records []models.HealthRecord
	if s.health != nil {
		if records, err = s.health.Recent(ctx, puppyID, sum.To, 10); err != nil {
			return "", err
		}
	}
	return RenderTextSummary(puppy, weights, records, sum, s.Today()), nil
}

func RenderTextSummary(p *models.Puppy, weights []models.WeightEntry, records []models.HealthRecord, sum *RangeSummary, today time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Puppy: %s", p.Name)
	if p.Breed != "" {
		fmt.Fprintf(&b, " (%s)", p.Breed)
	}
	if p.BirthDate != nil {
		fmt.Fprintf(&b, ", born %s, %d weeks old", p.BirthDate.Format(utils.DateLayout), utils.AgeInWeeks(p.BirthDate, today))
	}
	b.WriteString("\n")
	if n := len(weights); n > 0 {
		last := weights[n-1]
		fmt.Fprintf(&b, "Latest weight: %.1f lbs on %s\n", last.Weight, last.Date)
	}

	fmt.Fprintf(&b, "Range: %s to %s (%d days, %d with logs)\n", sum.From, sum.To, len(sum.Days), sum.DaysLogged)
	fmt.Fprintf(&b, "Potty: %d breaks, %d outcomes, %d accidents, success rate %s, bell rung %d times\n",
		sum.Potty.Breaks, sum.Potty.Events, sum.Potty.Accidents, formatRate(sum.SuccessRate), sum.Potty.BellRung)
	fmt.Fprintf(&b, "Food: %.0f kcal total, %.0f kcal per logged day\n", sum.TotalCalories, sum.AvgCalories)
	fmt.Fprintf(&b, "Naps: %d minutes total, %.0f minutes per logged day; night wakes: %d\n",
		sum.TotalNapMinutes, sum.AvgNapMinutes, sum.NightWakes)

	b.WriteString("Daily log:\n")
	for _, d := range sum.Days {
		if !d.Logged {
			continue
		}
		fmt.Fprintf(&b, "- %s: potty %d (%d accidents, rate %s); meals %d + %d snacks = %.0f kcal; naps %d (%d min)",
			d.Date, d.Potty.Breaks, d.Potty.Accidents, formatRate(d.SuccessRate), d.Meals, d.Snacks, d.Calories, d.Naps, d.NapMinutes)
		if d.MorningWake != "" {
			fmt.Fprintf(&b, "; woke %s", d.MorningWake)
		}
		if d.NightWakes > 0 {
			fmt.Fprintf(&b, "; night wakes %d", d.NightWakes)
		}
		if d.BedTime != "" {
			fmt.Fprintf(&b, "; bed %s", d.BedTime)
		}
		b.WriteString("\n")
	}

	if len(records) > 0 {
		b.WriteString("Health records:\n")
		for _, r := range records {
			fmt.Fprintf(&b, "- %s %s: %s", r.Date, r.Category, r.Title)
			if r.Clinic != "" {
				fmt.Fprintf(&b, " at %s", r.Clinic)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatRate(r *int) string {
	if r == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", *r)
}

func startOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return utils.DayStart(t).AddDate(0, 0, -(wd - 1)) // Monday
}
