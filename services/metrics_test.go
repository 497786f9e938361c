package services

import (
	"testing"
	"time"

	"pupcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestPottySuccessRate(t *testing.T) {
	assert.Nil(t, PottySuccessRate(nil))
	assert.Nil(t, PottySuccessRate([]models.PottyBreak{{Time: "07:00"}}), "no outcomes means no rate")

	breaks := []models.PottyBreak{
		{Pee: models.OutcomeGood, Poop: models.OutcomeGood},
		{Pee: models.OutcomeAccident},
		{Poop: models.OutcomeGood, BellRung: true},
	}
	tally := TallyPotty(breaks)
	assert.Equal(t, PottyTally{Breaks: 3, Events: 4, Accidents: 1, BellRung: 1}, tally)

	rate := PottySuccessRate(breaks)
	require.NotNil(t, rate)
	assert.Equal(t, 75, *rate)
}

func TestPottySuccessRateRounds(t *testing.T) {
	breaks := []models.PottyBreak{
		{Pee: models.OutcomeGood},
		{Pee: models.OutcomeGood},
		{Pee: models.OutcomeAccident},
	}
	rate := PottySuccessRate(breaks)
	require.NotNil(t, rate)
	assert.Equal(t, 67, *rate)

	all := PottySuccessRate([]models.PottyBreak{{Pee: models.OutcomeAccident, Poop: models.OutcomeAccident}})
	require.NotNil(t, all)
	assert.Equal(t, 0, *all)
}

func TestDayCalories(t *testing.T) {
	meals := []models.Meal{{Given: "1 cup", Eaten: "All of it"}}
	assert.InDelta(t, 417, DayCalories(meals, 2), 1e-9)

	meals = []models.Meal{
		{Given: "1/2 cup", Eaten: "3/4"},
		{Given: "a scoop", Eaten: "All"},
		{Given: "1 cup", Eaten: "None"},
	}
	assert.InDelta(t, 0.5*0.75*409, DayCalories(meals, 0), 1e-9)
	assert.Equal(t, 0.0, DayCalories(nil, -3))
}

func TestNapMinutes(t *testing.T) {
	assert.Equal(t, 90, NapMinutes(models.Nap{Start: "13:00", End: "14:30"}))
	assert.Equal(t, 0, NapMinutes(models.Nap{Start: "14:30", End: "13:00"}))
	assert.Equal(t, 0, NapMinutes(models.Nap{Start: "13:00", End: "13:00"}))
	assert.Equal(t, 0, NapMinutes(models.Nap{Start: "later", End: "14:00"}))

	total := TotalNapMinutes([]models.Nap{
		{Start: "09:00", End: "09:45"},
		{Start: "13:00", End: "14:30"},
	})
	assert.Equal(t, 135, total)
}

func TestExpandRange(t *testing.T) {
	today := time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)

	week := ExpandRange(Range7Days, today, nil)
	assert.Equal(t, []string{
		"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07",
		"2024-03-08", "2024-03-09", "2024-03-10",
	}, week)

	month := ExpandRange(Range30Days, today, nil)
	require.Len(t, month, 30)
	assert.Equal(t, "2024-02-10", month[0])
	assert.Equal(t, "2024-03-10", month[29])

	ytd := ExpandRange(RangeYTD, today, nil)
	assert.Equal(t, "2024-01-01", ytd[0])
	assert.Len(t, ytd, 31+29+10)

	all := ExpandRange(RangeAll, today, []string{"2024-03-08", "2024-02-28", "garbage"})
	assert.Equal(t, "2024-02-28", all[0])
	assert.Equal(t, "2024-03-10", all[len(all)-1])

	assert.Equal(t, []string{"2024-03-10"}, ExpandRange(RangeAll, today, nil))
}

func TestParseRange(t *testing.T) {
	k, ok := ParseRange("")
	assert.True(t, ok)
	assert.Equal(t, Range7Days, k)

	k, ok = ParseRange("ytd")
	assert.True(t, ok)
	assert.Equal(t, RangeYTD, k)

	_, ok = ParseRange("90d")
	assert.False(t, ok)
}

func TestSummarizeRangeZeroFills(t *testing.T) {
	dates := []string{"2024-03-01", "2024-03-02", "2024-03-03"}
	logs := map[string]*models.DayLog{
		"2024-03-01": {
			Date:        "2024-03-01",
			Snacks:      2,
			Meals:       []models.Meal{{Given: "1 cup", Eaten: "All of it"}},
			PottyBreaks: []models.PottyBreak{{Pee: models.OutcomeGood}, {Pee: models.OutcomeAccident}},
			Naps:        []models.Nap{{Start: "13:00", End: "14:30"}},
			WakeEvents: []models.WakeEvent{
				{Time: "02:10", Label: models.NightWake},
				{Time: "06:30", Label: models.MorningWake},
			},
			BedTime: strp("21:30"),
		},
		"2024-03-03": {
			Date:        "2024-03-03",
			PottyBreaks: []models.PottyBreak{{Pee: models.OutcomeGood, Poop: models.OutcomeGood}},
			Naps:        []models.Nap{{Start: "10:00", End: "10:30"}},
		},
	}

	sum := SummarizeRange(Range7Days, dates, logs)
	require.Len(t, sum.Days, 3)
	assert.Equal(t, "2024-03-01", sum.From)
	assert.Equal(t, "2024-03-03", sum.To)
	assert.Equal(t, 2, sum.DaysLogged)

	first := sum.Days[0]
	assert.True(t, first.Logged)
	assert.Equal(t, 417.0, first.Calories)
	assert.Equal(t, 1, first.NightWakes)
	assert.Equal(t, "06:30", first.MorningWake)
	assert.Equal(t, "21:30", first.BedTime)
	require.NotNil(t, first.SuccessRate)
	assert.Equal(t, 50, *first.SuccessRate)

	empty := sum.Days[1]
	assert.False(t, empty.Logged)
	assert.Nil(t, empty.SuccessRate)
	assert.Equal(t, 0.0, empty.Calories)

	assert.Equal(t, PottyTally{Breaks: 3, Events: 4, Accidents: 1}, sum.Potty)
	require.NotNil(t, sum.SuccessRate)
	assert.Equal(t, 75, *sum.SuccessRate)
	assert.Equal(t, 417.0, sum.TotalCalories)
	assert.Equal(t, 208.5, sum.AvgCalories)
	assert.Equal(t, 120, sum.TotalNapMinutes)
	assert.Equal(t, 60.0, sum.AvgNapMinutes)
}

func TestBuildSchedulePotty(t *testing.T) {
	dates := []string{"2024-03-01"}
	logs := map[string]*models.DayLog{
		"2024-03-01": {PottyBreaks: []models.PottyBreak{
			{Time: "13:30", Pee: models.OutcomeAccident},
			{Time: "05:00", Pee: models.OutcomeGood},
			{Time: "bogus", Pee: models.OutcomeGood},
			{Time: "22:15", Poop: models.OutcomeGood},
		}},
	}
	chart := BuildSchedule(ChartPotty, dates, logs, time.UTC)
	assert.Equal(t, "06:00", chart.WindowStart)
	assert.Equal(t, "21:00", chart.WindowEnd)
	require.Len(t, chart.Rows, 1)

	marks := chart.Rows[0].Marks
	require.Len(t, marks, 3)
	assert.Equal(t, 0.0, marks[0].Position)
	assert.Equal(t, 0.5, marks[1].Position)
	assert.True(t, marks[1].Accident)
	assert.Equal(t, "pee", marks[1].Label)
	assert.Equal(t, 1.0, marks[2].Position)
}

func TestBuildScheduleNap(t *testing.T) {
	logs := map[string]*models.DayLog{
		"2024-03-01": {Naps: []models.Nap{{Start: "09:00", End: "10:30"}, {Start: "15:00", End: "14:00"}}},
	}
	chart := BuildSchedule(ChartNap, []string{"2024-03-01", "2024-03-02"}, logs, time.UTC)
	require.Len(t, chart.Rows, 2)
	assert.Empty(t, chart.Rows[1].Marks)

	marks := chart.Rows[0].Marks
	require.Len(t, marks, 2)
	assert.Equal(t, 0.2, marks[0].Position)
	require.NotNil(t, marks[0].EndPosition)
	assert.Equal(t, 0.3, *marks[0].EndPosition)
	assert.Nil(t, marks[1].EndPosition)
}

func TestBuildScheduleSleepCarriesEveningToNextRow(t *testing.T) {
	dates := []string{"2024-03-02", "2024-03-03"}
	logs := map[string]*models.DayLog{
		// evening before the first row
		"2024-03-01": {BedTime: strp("21:00")},
		"2024-03-02": {
			BedTime: strp("18:00"),
			WakeEvents: []models.WakeEvent{
				{Time: "03:00", Label: models.NightWake},
				{Time: "09:00", Label: models.MorningWake},
			},
		},
		"2024-03-03": {
			WakeEvents: []models.WakeEvent{{Time: "06:00", Label: models.MorningWake}},
		},
	}
	chart := BuildSchedule(ChartSleep, dates, logs, time.UTC)
	assert.Equal(t, "18:00", chart.WindowStart)
	assert.Equal(t, "09:00", chart.WindowEnd)
	require.Len(t, chart.Rows, 2)

	row1 := chart.Rows[0].Marks
	require.Len(t, row1, 3)
	assert.Equal(t, "bed", row1[0].Kind)
	assert.Equal(t, "2024-03-01", row1[0].SourceDate)
	assert.Equal(t, 0.2, row1[0].Position)
	assert.Equal(t, 0.6, row1[1].Position)
	assert.Equal(t, 1.0, row1[2].Position)

	row2 := chart.Rows[1].Marks
	require.Len(t, row2, 2)
	assert.Equal(t, "bed", row2[0].Kind)
	assert.Equal(t, 0.0, row2[0].Position)
	assert.Equal(t, "Morning Wake", row2[1].Label)
	assert.Equal(t, 0.8, row2[1].Position)
}

func TestBuildSchedulePositionsInBounds(t *testing.T) {
	var breaks []models.PottyBreak
	var wakes []models.WakeEvent
	for h := 0; h < 24; h++ {
		clock := time.Date(2024, 1, 1, h, 17, 0, 0, time.UTC).Format("15:04")
		breaks = append(breaks, models.PottyBreak{Time: clock, Pee: models.OutcomeGood})
		wakes = append(wakes, models.WakeEvent{Time: clock, Label: models.NightWake})
	}
	logs := map[string]*models.DayLog{"2024-03-01": {PottyBreaks: breaks, WakeEvents: wakes}}

	for _, kind := range []ChartKind{ChartPotty, ChartSleep} {
		chart := BuildSchedule(kind, []string{"2024-03-01", "2024-03-02"}, logs, time.UTC)
		for _, row := range chart.Rows {
			for _, m := range row.Marks {
				assert.GreaterOrEqual(t, m.Position, 0.0)
				assert.LessOrEqual(t, m.Position, 1.0)
			}
		}
	}
}
