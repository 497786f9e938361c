package services

import (
	"math"
	"sort"
	"time"

	"pupcare/models"
	"pupcare/utils"
)

const (
	CaloriesPerCup   = 409.0
	CaloriesPerSnack = 4.0
)

// ---------- Potty ----------

// PottyTally counts outcome events. A break contributes up to two events,
// one for pee and one for poop.
type PottyTally struct {
	Breaks    int `json:"breaks"`
	Events    int `json:"events"`
	Accidents int `json:"accidents"`
	BellRung  int `json:"bell_rung"`
}

func TallyPotty(breaks []models.PottyBreak) PottyTally {
	var t PottyTally
	for _, b := range breaks {
		t.Breaks++
		if b.BellRung {
			t.BellRung++
		}
		for _, o := range []models.Outcome{b.Pee, b.Poop} {
			switch o {
			case models.OutcomeGood:
				t.Events++
			case models.OutcomeAccident:
				t.Events++
				t.Accidents++
			}
		}
	}
	return t
}

func (t PottyTally) Add(o PottyTally) PottyTally {
	return PottyTally{
		Breaks:    t.Breaks + o.Breaks,
		Events:    t.Events + o.Events,
		Accidents: t.Accidents + o.Accidents,
		BellRung:  t.BellRung + o.BellRung,
	}
}

// SuccessRate is nil when no outcome was logged.
func (t PottyTally) SuccessRate() *int {
	if t.Events == 0 {
		return nil
	}
	rate := int(math.Round(100 * float64(t.Events-t.Accidents) / float64(t.Events)))
	return &rate
}

func PottySuccessRate(breaks []models.PottyBreak) *int {
	return TallyPotty(breaks).SuccessRate()
}

// ---------- Calories ----------

func MealCalories(m models.Meal) float64 {
	return utils.ParseCups(m.Given) * utils.ParseEatenFraction(m.Eaten) * CaloriesPerCup
}

func DayCalories(meals []models.Meal, snacks int) float64 {
	var total float64
	for _, m := range meals {
		total += MealCalories(m)
	}
	if snacks > 0 {
		total += float64(snacks) * CaloriesPerSnack
	}
	return total
}

// ---------- Naps ----------

// NapMinutes is end-start on the same clock day; naps that are unparsable or
// do not end after they start count as zero.
func NapMinutes(n models.Nap) int {
	start, ok := utils.ParseClock(n.Start)
	if !ok {
		return 0
	}
	end, ok := utils.ParseClock(n.End)
	if !ok || end <= start {
		return 0
	}
	return end - start
}

func TotalNapMinutes(naps []models.Nap) int {
	total := 0
	for _, n := range naps {
		total += NapMinutes(n)
	}
	return total
}

// ---------- Date ranges ----------

type RangeKey string

const (
	Range7Days  RangeKey = "7d"
	Range30Days RangeKey = "30d"
	RangeYTD    RangeKey = "ytd"
	RangeAll    RangeKey = "all"
)

func ParseRange(s string) (RangeKey, bool) {
	switch k := RangeKey(s); k {
	case Range7Days, Range30Days, RangeYTD, RangeAll:
		return k, true
	case "":
		return Range7Days, true
	}
	return "", false
}

// ExpandRange lists every calendar date of the range, oldest first, ending on
// today's date. recorded holds dates that have data; it only matters for
// RangeAll, which starts at the earliest of them.
func ExpandRange(key RangeKey, today time.Time, recorded []string) []string {
	end := utils.DayStart(today)
	var start time.Time
	switch key {
	case Range30Days:
		start = end.AddDate(0, 0, -29)
	case RangeYTD:
		start = time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, end.Location())
	case RangeAll:
		start = end
		for _, r := range recorded {
			if d, ok := utils.ParseDate(r, end.Location()); ok && d.Before(start) {
				start = d
			}
		}
	default:
		start = end.AddDate(0, 0, -6)
	}
	return DatesBetween(start, end)
}

// DatesBetween is inclusive on both ends.
func DatesBetween(from, to time.Time) []string {
	var dates []string
	for d := utils.DayStart(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(utils.DateLayout))
	}
	return dates
}

// ---------- Summaries ----------

type DaySummary struct {
	Date        string     `json:"date"`
	Logged      bool       `json:"logged"`
	Potty       PottyTally `json:"potty"`
	SuccessRate *int       `json:"success_rate"`
	Meals       int        `json:"meals"`
	Snacks      int        `json:"snacks"`
	Calories    float64    `json:"calories"`
	Naps        int        `json:"naps"`
	NapMinutes  int        `json:"nap_minutes"`
	NightWakes  int        `json:"night_wakes"`
	MorningWake string     `json:"morning_wake,omitempty"`
	BedTime     string     `json:"bed_time,omitempty"`
}

// SummarizeDay is total: a nil log yields a zero-filled summary for date.
func SummarizeDay(date string, log *models.DayLog) DaySummary {
	s := DaySummary{Date: date}
	if log == nil {
		return s
	}
	s.Logged = true
	s.Potty = TallyPotty(log.PottyBreaks)
	s.SuccessRate = s.Potty.SuccessRate()
	s.Meals = len(log.Meals)
	s.Snacks = log.Snacks
	s.Calories = round2(DayCalories(log.Meals, log.Snacks))
	s.Naps = len(log.Naps)
	s.NapMinutes = TotalNapMinutes(log.Naps)
	for _, w := range log.WakeEvents {
		switch w.Label {
		case models.NightWake:
			s.NightWakes++
		case models.MorningWake:
			if s.MorningWake == "" {
				s.MorningWake = w.Time
			}
		}
	}
	if log.BedTime != nil {
		s.BedTime = *log.BedTime
	}
	return s
}

type RangeSummary struct {
	Range      RangeKey     `json:"range"`
	From       string       `json:"from"`
	To         string       `json:"to"`
	Days       []DaySummary `json:"days"`
	DaysLogged int          `json:"days_logged"`

	Potty       PottyTally `json:"potty"`
	SuccessRate *int       `json:"success_rate"`

	TotalCalories   float64 `json:"total_calories"`
	AvgCalories     float64 `json:"avg_calories"`
	TotalNapMinutes int     `json:"total_nap_minutes"`
	AvgNapMinutes   float64 `json:"avg_nap_minutes"`
	NightWakes      int     `json:"night_wakes"`
}

// SummarizeRange zero-fills every date in dates. Averages are taken over
// logged days only so empty days do not drag them to zero.
func SummarizeRange(key RangeKey, dates []string, logs map[string]*models.DayLog) RangeSummary {
	out := RangeSummary{Range: key, Days: make([]DaySummary, 0, len(dates))}
	if len(dates) > 0 {
		out.From, out.To = dates[0], dates[len(dates)-1]
	}
	for _, d := range dates {
		ds := SummarizeDay(d, logs[d])
		out.Days = append(out.Days, ds)
		if !ds.Logged {
			continue
		}
		out.DaysLogged++
		out.Potty = out.Potty.Add(ds.Potty)
		out.TotalCalories += ds.Calories
		out.TotalNapMinutes += ds.NapMinutes
		out.NightWakes += ds.NightWakes
	}
	out.SuccessRate = out.Potty.SuccessRate()
	out.TotalCalories = round2(out.TotalCalories)
	out.AvgCalories = avg(out.TotalCalories, out.DaysLogged)
	out.AvgNapMinutes = avg(float64(out.TotalNapMinutes), out.DaysLogged)
	return out
}

// ---------- Schedule chart ----------

type ChartKind string

const (
	ChartPotty ChartKind = "potty"
	ChartNap   ChartKind = "nap"
	ChartSleep ChartKind = "sleep"
)

func ParseChartKind(s string) (ChartKind, bool) {
	switch k := ChartKind(s); k {
	case ChartPotty, ChartNap, ChartSleep:
		return k, true
	}
	return "", false
}

func (k ChartKind) Window() utils.ClockWindow {
	if k == ChartSleep {
		return utils.OvernightWindow
	}
	return utils.DayWindow
}

type ScheduleMark struct {
	Kind        string   `json:"kind"` // potty|nap|bed|wake
	Label       string   `json:"label,omitempty"`
	Time        string   `json:"time"`
	Position    float64  `json:"position"`
	End         string   `json:"end,omitempty"`
	EndPosition *float64 `json:"end_position,omitempty"`
	Accident    bool     `json:"accident,omitempty"`
	SourceDate  string   `json:"source_date,omitempty"`
}

type ScheduleRow struct {
	Date  string         `json:"date"`
	Marks []ScheduleMark `json:"marks"`
}

type ScheduleChart struct {
	Kind        ChartKind     `json:"kind"`
	WindowStart string        `json:"window_start"`
	WindowEnd   string        `json:"window_end"`
	Rows        []ScheduleRow `json:"rows"`
}

// BuildSchedule positions events inside the chart window, one row per date.
// Events with an unparsable clock time are skipped. For the sleep chart an
// event at or after the overnight window start (18:00) belongs to the next
// date's row: that night ends on the following morning.
func BuildSchedule(kind ChartKind, dates []string, logs map[string]*models.DayLog, loc *time.Location) ScheduleChart {
	w := kind.Window()
	out := ScheduleChart{Kind: kind, Rows: make([]ScheduleRow, 0, len(dates))}
	out.WindowStart, out.WindowEnd = w.Bounds()

	rows := make(map[string]*ScheduleRow, len(dates))
	for _, d := range dates {
		out.Rows = append(out.Rows, ScheduleRow{Date: d, Marks: []ScheduleMark{}})
	}
	for i := range out.Rows {
		rows[out.Rows[i].Date] = &out.Rows[i]
	}

	add := func(rowDate string, m ScheduleMark) {
		if r, ok := rows[rowDate]; ok {
			r.Marks = append(r.Marks, m)
		}
	}

	switch kind {
	case ChartPotty:
		for _, d := range dates {
			log := logs[d]
			if log == nil {
				continue
			}
			for _, b := range log.PottyBreaks {
				at, ok := utils.ParseClock(b.Time)
				if !ok {
					continue
				}
				add(d, ScheduleMark{
					Kind:     "potty",
					Label:    pottyLabel(b),
					Time:     b.Time,
					Position: round4(w.Position(at)),
					Accident: b.Pee == models.OutcomeAccident || b.Poop == models.OutcomeAccident,
				})
			}
		}
	case ChartNap:
		for _, d := range dates {
			log := logs[d]
			if log == nil {
				continue
			}
			for _, n := range log.Naps {
				start, ok := utils.ParseClock(n.Start)
				if !ok {
					continue
				}
				m := ScheduleMark{Kind: "nap", Time: n.Start, Position: round4(w.Position(start))}
				if end, ok := utils.ParseClock(n.End); ok && end > start {
					p := round4(w.Position(end))
					m.End, m.EndPosition = n.End, &p
				}
				add(d, m)
			}
		}
	case ChartSleep:
		// Events from the evening before the first row land in that row too.
		source := append([]string{}, dates...)
		if len(dates) > 0 {
			if first, ok := utils.ParseDate(dates[0], loc); ok {
				source = append([]string{first.AddDate(0, 0, -1).Format(utils.DateLayout)}, source...)
			}
		}
		for _, d := range source {
			log := logs[d]
			if log == nil {
				continue
			}
			if log.BedTime != nil {
				if at, ok := utils.ParseClock(*log.BedTime); ok {
					add(overnightRow(d, at, w, loc), ScheduleMark{
						Kind: "bed", Time: *log.BedTime, Position: round4(w.Position(at)), SourceDate: d,
					})
				}
			}
			for _, e := range log.WakeEvents {
				at, ok := utils.ParseClock(e.Time)
				if !ok {
					continue
				}
				add(overnightRow(d, at, w, loc), ScheduleMark{
					Kind: "wake", Label: string(e.Label), Time: e.Time, Position: round4(w.Position(at)), SourceDate: d,
				})
			}
		}
	}

	for i := range out.Rows {
		marks := out.Rows[i].Marks
		sort.SliceStable(marks, func(a, b int) bool { return marks[a].Position < marks[b].Position })
	}
	return out
}

func overnightRow(date string, minute int, w utils.ClockWindow, loc *time.Location) string {
	if minute < w.Start {
		return date
	}
	d, ok := utils.ParseDate(date, loc)
	if !ok {
		return date
	}
	return d.AddDate(0, 0, 1).Format(utils.DateLayout)
}

func pottyLabel(b models.PottyBreak) string {
	switch {
	case b.Pee != models.OutcomeUnset && b.Poop != models.OutcomeUnset:
		return "pee+poop"
	case b.Pee != models.OutcomeUnset:
		return "pee"
	case b.Poop != models.OutcomeUnset:
		return "poop"
	}
	return ""
}

// ---------- internals ----------

func avg(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return round2(sum / float64(n))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
