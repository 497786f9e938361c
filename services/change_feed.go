package services

import (
	"context"
	"fmt"

	"pupcare/models"

	"go.uber.org/zap"
)

// DaySink receives the recomputed summary of a day after each write.
type DaySink interface {
	PublishDay(puppyID uint, summary DaySummary) error
}

// ChangeFeed fans successful writes out to websocket subscribers, member
// alerts and the day-summary sink. Every step is best-effort: failures are
// logged, never returned. A nil *ChangeFeed is a no-op.
type ChangeFeed struct {
	hub    *RealtimeHub
	alerts *AlertBus
	sink   DaySink
	log    *zap.Logger
}

func NewChangeFeed(hub *RealtimeHub, alerts *AlertBus, sink DaySink, log *zap.Logger) *ChangeFeed {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChangeFeed{hub: hub, alerts: alerts, sink: sink, log: log}
}

type ChangeEvent struct {
	Kind    string `json:"kind"`
	PuppyID uint   `json:"puppy_id"`
	ActorID uint   `json:"actor_id,omitempty"`
	Date    string `json:"date,omitempty"`
	Change  string `json:"change,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (f *ChangeFeed) broadcast(ev ChangeEvent) {
	if f.hub != nil {
		f.hub.Broadcast(ev.PuppyID, ev)
	}
}

// DayLogChanged is called after any write to a day log.
func (f *ChangeFeed) DayLogChanged(ctx context.Context, puppyID, actorID uint, log *models.DayLog, change string) {
	if f == nil || log == nil {
		return
	}
	summary := SummarizeDay(log.Date, log)
	f.broadcast(ChangeEvent{
		Kind: "daylog.updated", PuppyID: puppyID, ActorID: actorID,
		Date: log.Date, Change: change, Data: summary,
	})
	if f.sink != nil {
		if err := f.sink.PublishDay(puppyID, summary); err != nil {
			f.log.Warn("day summary publish failed", zap.Uint("puppy_id", puppyID), zap.Error(err))
		}
	}
}

func (f *ChangeFeed) AccidentLogged(ctx context.Context, puppyID, actorID uint, date string, b models.PottyBreak) {
	if f == nil {
		return
	}
	msg := fmt.Sprintf("Potty accident logged on %s at %s", date, b.Time)
	f.emit(ctx, puppyID, actorID, "warning", msg)
}

func (f *ChangeFeed) HealthRecordChanged(ctx context.Context, puppyID, actorID uint, rec *models.HealthRecord, change string) {
	if f == nil || rec == nil {
		return
	}
	f.broadcast(ChangeEvent{Kind: "health.updated", PuppyID: puppyID, ActorID: actorID, Date: rec.Date, Change: change, Data: rec})
	if change == "created" {
		f.emit(ctx, puppyID, actorID, "info", fmt.Sprintf("New %s record: %s", rec.Category, rec.Title))
	}
}

func (f *ChangeFeed) MembersChanged(ctx context.Context, puppyID, actorID uint, message string) {
	if f == nil {
		return
	}
	f.broadcast(ChangeEvent{Kind: "members.updated", PuppyID: puppyID, ActorID: actorID})
	if message != "" {
		f.emit(ctx, puppyID, actorID, "info", message)
	}
}

func (f *ChangeFeed) emit(ctx context.Context, puppyID, actorID uint, typ, msg string) {
	f.alerts.Emit(ctx, puppyID, actorID, typ, msg)
	f.broadcast(ChangeEvent{Kind: "alert.created", PuppyID: puppyID, ActorID: actorID, Change: typ, Data: msg})
}
