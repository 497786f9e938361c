package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pupcare/models"
	"pupcare/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// earliestLogDate bounds writes for puppies without a birth date.
const earliestLogDate = "2000-01-01"

// DayLogService writes and reads per-date care logs. A log is created on the
// first write for its date and is never deleted; child entries are removed
// one at a time.
type DayLogService struct {
	db   *gorm.DB
	feed *ChangeFeed
	loc  *time.Location
	now  func() time.Time
}

func NewDayLogService(db *gorm.DB, feed *ChangeFeed, loc *time.Location) *DayLogService {
	if loc == nil {
		loc = time.Local
	}
	return &DayLogService{db: db, feed: feed, loc: loc, now: time.Now}
}

type EntryKind string

const (
	EntryPotty EntryKind = "potty"
	EntryMeal  EntryKind = "meals"
	EntryNap   EntryKind = "naps"
	EntryWake  EntryKind = "wakes"
)

type DayDetailsInput struct {
	BedTime *string `json:"bed_time"` // "" clears it
	Snacks  *int    `json:"snacks"`
	Skills  *string `json:"skills"`
	Notes   *string `json:"notes"`
}

type PottyInput struct {
	Time     string `json:"time" binding:"required"`
	Pee      string `json:"pee"`
	Poop     string `json:"poop"`
	BellRung bool   `json:"bell_rung"`
	Notes    string `json:"notes"`
}

type MealInput struct {
	Time  string `json:"time" binding:"required"`
	Given string `json:"given"`
	Eaten string `json:"eaten"`
	Notes string `json:"notes"`
}

type NapInput struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
	Notes string `json:"notes"`
}

type WakeInput struct {
	Time  string `json:"time" binding:"required"`
	Label string `json:"label" binding:"required"`
	Notes string `json:"notes"`
}

// Get returns the log for date, or an empty unsaved log when nothing was
// recorded that day.
func (s *DayLogService) Get(ctx context.Context, puppyID uint, date string) (*models.DayLog, error) {
	if err := s.checkDate(date); err != nil {
		return nil, err
	}
	var log models.DayLog
	err := preloadEntries(s.db.WithContext(ctx)).
		Where("puppy_id = ? AND date = ?", puppyID, date).
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return emptyLog(puppyID, date), nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// List returns the saved logs between from and to inclusive, oldest first.
func (s *DayLogService) List(ctx context.Context, puppyID uint, from, to string) ([]models.DayLog, error) {
	if err := s.checkDate(from); err != nil {
		return nil, err
	}
	if err := s.checkDate(to); err != nil {
		return nil, err
	}
	if to < from {
		return nil, invalid("`to` must be on/after `from`")
	}
	var logs []models.DayLog
	err := preloadEntries(s.db.WithContext(ctx)).
		Where("puppy_id = ? AND date >= ? AND date <= ?", puppyID, from, to).
		Order("date ASC").
		Find(&logs).Error
	return logs, err
}

// IndexByDate loads logs between from and to keyed by date.
func (s *DayLogService) IndexByDate(ctx context.Context, puppyID uint, from, to string) (map[string]*models.DayLog, error) {
	logs, err := s.List(ctx, puppyID, from, to)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]*models.DayLog, len(logs))
	for i := range logs {
		idx[logs[i].Date] = &logs[i]
	}
	return idx, nil
}

// RecordedDates lists every date that has a saved log, oldest first.
func (s *DayLogService) RecordedDates(ctx context.Context, puppyID uint) ([]string, error) {
	var dates []string
	err := s.db.WithContext(ctx).
		Model(&models.DayLog{}).
		Where("puppy_id = ?", puppyID).
		Order("date ASC").
		Pluck("date", &dates).Error
	return dates, err
}

func (s *DayLogService) UpdateDetails(ctx context.Context, puppyID, actorID uint, date string, in DayDetailsInput) (*models.DayLog, error) {
	if err := s.checkDate(date); err != nil {
		return nil, err
	}
	var bedTime string
	if in.BedTime != nil && *in.BedTime != "" {
		var err error
		if bedTime, err = normalizeClock("bed_time", *in.BedTime); err != nil {
			return nil, err
		}
	}
	if in.Snacks != nil && *in.Snacks < 0 {
		return nil, invalid("snacks must not be negative")
	}

	return s.write(ctx, puppyID, actorID, date, "details", func(tx *gorm.DB, log *models.DayLog) error {
		if in.BedTime != nil {
			if *in.BedTime == "" {
				log.BedTime = nil
			} else {
				log.BedTime = &bedTime
			}
		}
		if in.Snacks != nil {
			log.Snacks = *in.Snacks
		}
		if in.Skills != nil {
			log.Skills = *in.Skills
		}
		if in.Notes != nil {
			log.Notes = *in.Notes
		}
		return tx.Model(log).Updates(map[string]any{
			"bed_time": log.BedTime,
			"snacks":   log.Snacks,
			"skills":   log.Skills,
			"notes":    log.Notes,
		}).Error
	})
}

func (s *DayLogService) AddPotty(ctx context.Context, puppyID, actorID uint, date string, in PottyInput) (*models.PottyBreak, error) {
	if err := s.checkDate(date); err != nil {
		return nil, err
	}
	pee, poop := models.Outcome(strings.ToLower(in.Pee)), models.Outcome(strings.ToLower(in.Poop))
	if !pee.Valid() || !poop.Valid() {
		return nil, invalid("outcome must be good, accident or empty")
	}
	at, err := normalizeClock("time", in.Time)
	if err != nil {
		return nil, err
	}

	b := &models.PottyBreak{
		ID: uuid.NewString(), Time: at, Pee: pee, Poop: poop,
		BellRung: in.BellRung, Notes: in.Notes,
	}
	_, err = s.write(ctx, puppyID, actorID, date, "potty.added", func(tx *gorm.DB, log *models.DayLog) error {
		b.DayLogID = log.ID
		return tx.Create(b).Error
	})
	if err != nil {
		return nil, err
	}
	if pee == models.OutcomeAccident || poop == models.OutcomeAccident {
		s.feed.AccidentLogged(ctx, puppyID, actorID, date, *b)
	}
	return b, nil
}

func (s *DayLogService) AddMeal(ctx context.Context, puppyID, actorID uint, date string, in MealInput) (*models.Meal, error) {
	if err := s.checkDate(date); err != nil {
		return nil, err
	}
	at, err := normalizeClock("time", in.Time)
	if err != nil {
		return nil, err
	}
	m := &models.Meal{ID: uuid.NewString(), Time: at, Given: in.Given, Eaten: in.Eaten, Notes: in.Notes}
	_, err = s.write(ctx, puppyID, actorID, date, "meal.added", func(tx *gorm.DB, log *models.DayLog) error {
		m.DayLogID = log.ID
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// AddNap requires both ends to be valid clock times. An end at or before the
// start is stored as entered and simply counts as zero minutes.
func (s *DayLogService) AddNap(ctx context.Context, puppyID, actorID uint, date string, in NapInput) (*models.Nap, error) {
	if err := s.checkDate(date); err != nil {
		return nil, err
	}
	start, err := normalizeClock("start", in.Start)
	if err != nil {
		return nil, err
	}
	end, err := normalizeClock("end", in.End)
	if err != nil {
		return nil, err
	}
	n := &models.Nap{ID: uuid.NewString(), Start: start, End: end, Notes: in.Notes}
	_, err = s.write(ctx, puppyID, actorID, date, "nap.added", func(tx *gorm.DB, log *models.DayLog) error {
		n.DayLogID = log.ID
		return tx.Create(n).Error
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *DayLogService) AddWake(ctx context.Context, puppyID, actorID uint, date string, in WakeInput) (*models.WakeEvent, error) {
	if err := s.checkDate(date); err != nil {
		return nil, err
	}
	at, err := normalizeClock("time", in.Time)
	if err != nil {
		return nil, err
	}
	label := models.WakeLabel(in.Label)
	if label != models.MorningWake && label != models.NightWake {
		return nil, invalid("label must be %q or %q", models.MorningWake, models.NightWake)
	}
	w := &models.WakeEvent{ID: uuid.NewString(), Time: at, Label: label, Notes: in.Notes}
	_, err = s.write(ctx, puppyID, actorID, date, "wake.added", func(tx *gorm.DB, log *models.DayLog) error {
		w.DayLogID = log.ID
		return tx.Create(w).Error
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// RemoveEntry deletes one child entry from the date's log.
func (s *DayLogService) RemoveEntry(ctx context.Context, puppyID, actorID uint, date string, kind EntryKind, entryID string) error {
	if err := s.checkDate(date); err != nil {
		return err
	}
	var model any
	switch kind {
	case EntryPotty:
		model = &models.PottyBreak{}
	case EntryMeal:
		model = &models.Meal{}
	case EntryNap:
		model = &models.Nap{}
	case EntryWake:
		model = &models.WakeEvent{}
	default:
		return invalid("unknown entry kind %q", kind)
	}

	var log models.DayLog
	if err := s.db.WithContext(ctx).Where("puppy_id = ? AND date = ?", puppyID, date).First(&log).Error; err != nil {
		return notFound(err, "day log")
	}
	res := s.db.WithContext(ctx).Where("id = ? AND day_log_id = ?", entryID, log.ID).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("entry %w", ErrNotFound)
	}

	if fresh, err := s.Get(ctx, puppyID, date); err == nil {
		s.feed.DayLogChanged(ctx, puppyID, actorID, fresh, string(kind)+".removed")
	}
	return nil
}

// write runs fn against the date's log inside a transaction, creating the log
// first if needed, then reloads it and notifies the change feed.
func (s *DayLogService) write(ctx context.Context, puppyID, actorID uint, date, change string, fn func(tx *gorm.DB, log *models.DayLog) error) (*models.DayLog, error) {
	if err := s.checkWriteDate(ctx, puppyID, date); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		log, err := ensureDayLog(tx, puppyID, date)
		if err != nil {
			return err
		}
		return fn(tx, log)
	})
	if err != nil {
		return nil, err
	}

	fresh, err := s.Get(ctx, puppyID, date)
	if err != nil {
		return nil, err
	}
	s.feed.DayLogChanged(ctx, puppyID, actorID, fresh, change)
	return fresh, nil
}

func (s *DayLogService) checkDate(date string) error {
	if _, ok := utils.ParseDate(date, s.loc); !ok {
		return invalid("date %q, use YYYY-MM-DD", date)
	}
	return nil
}

// checkWriteDate keeps logs between the puppy's birth date (or
// earliestLogDate) and tomorrow.
func (s *DayLogService) checkWriteDate(ctx context.Context, puppyID uint, date string) error {
	d, ok := utils.ParseDate(date, s.loc)
	if !ok {
		return invalid("date %q, use YYYY-MM-DD", date)
	}
	latest := utils.DayStart(s.now().In(s.loc)).AddDate(0, 0, 1)
	if d.After(latest) {
		return invalid("date %s is in the future", date)
	}

	earliest := earliestLogDate
	var p models.Puppy
	if err := s.db.WithContext(ctx).Select("id", "birth_date").First(&p, puppyID).Error; err != nil {
		return notFound(err, "puppy")
	}
	if p.BirthDate != nil {
		if born := p.BirthDate.In(s.loc).Format(utils.DateLayout); born > earliest {
			earliest = born
		}
	}
	if d.Format(utils.DateLayout) < earliest {
		return invalid("date %s is before %s", date, earliest)
	}
	return nil
}

// ensureDayLog inserts the (puppy, date) row unless it exists and loads it.
// A concurrent first write loses the insert quietly and reads the winner's row.
func ensureDayLog(tx *gorm.DB, puppyID uint, date string) (*models.DayLog, error) {
	log := models.DayLog{PuppyID: puppyID, Date: date}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&log)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		return &log, nil
	}
	var existing models.DayLog
	if err := tx.Where("puppy_id = ? AND date = ?", puppyID, date).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// normalizeClock validates v and returns it as zero-padded HH:MM so stored
// times sort in clock order.
func normalizeClock(field, v string) (string, error) {
	m, ok := utils.ParseClock(v)
	if !ok {
		return "", invalid("%s %q, use HH:MM", field, v)
	}
	return utils.FormatClock(m), nil
}

func emptyLog(puppyID uint, date string) *models.DayLog {
	return &models.DayLog{
		PuppyID:     puppyID,
		Date:        date,
		PottyBreaks: []models.PottyBreak{},
		Meals:       []models.Meal{},
		Naps:        []models.Nap{},
		WakeEvents:  []models.WakeEvent{},
	}
}

func preloadEntries(db *gorm.DB) *gorm.DB {
	byClock := func(col string) func(*gorm.DB) *gorm.DB {
		return func(db *gorm.DB) *gorm.DB { return db.Order(col + " ASC, created_at ASC") }
	}
	return db.
		Preload("PottyBreaks", byClock("time")).
		Preload("Meals", byClock("time")).
		Preload("Naps", byClock("start_time")).
		Preload("WakeEvents", byClock("time"))
}
