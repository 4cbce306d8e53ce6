package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/billing"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/store"
)

// Defaults used when the corresponding setting is unset.
const (
	defaultEventLeadMinutes = 30
	defaultBillLeadDays     = 3
)

// sentRetention bounds the dedup table; anything older can never fire again.
const sentRetention = 60 * 24 * time.Hour

// Scheduler periodically checks for reminders to send: event start
// reminders and bill due/overdue notices.
type Scheduler struct {
	mu       sync.RWMutex
	service  *Service
	push     *store.PushStore
	events   *store.EventStore
	bills    *store.BillStore
	settings *store.SettingsStore
	logger   *slog.Logger
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewScheduler creates a reminder scheduler.
func NewScheduler(svc *Service, pushStore *store.PushStore, eventStore *store.EventStore, billStore *store.BillStore, settingsStore *store.SettingsStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:  svc,
		push:     pushStore,
		events:   eventStore,
		bills:    billStore,
		settings: settingsStore,
		logger:   logger,
		interval: 60 * time.Second,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick() {
	now := time.Now().UTC()
	s.checkEventReminders(now)
	s.checkBills(now)

	// Hourly housekeeping.
	if now.Minute() == 0 {
		if err := s.push.CleanupSent(now.Add(-sentRetention)); err != nil {
			s.logger.Warn("cleanup sent notifications", "error", err)
		}
	}
}

// settingInt reads a numeric setting with a fallback.
func (s *Scheduler) settingInt(key string, fallback int) int {
	raw := s.settings.GetOrDefault(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// checkEventReminders notifies for events whose start time is exactly one
// lead window away, within this tick's interval.
func (s *Scheduler) checkEventReminders(now time.Time) {
	lead := time.Duration(s.settingInt("reminder_event_lead_minutes", defaultEventLeadMinutes)) * time.Minute

	from := now.Add(lead)
	events, err := s.events.ListUpcoming(from, from.Add(s.interval))
	if err != nil {
		s.logger.Error("list upcoming events", "error", err)
		return
	}

	for _, event := range events {
		refID := fmt.Sprintf("event-%d-%s", event.ID, event.StartTime.UTC().Format(time.RFC3339))
		sent, err := s.push.WasSent(model.NotifTypeEventReminder, refID)
		if err != nil {
			s.logger.Error("check sent notification", "error", err)
			continue
		}
		if sent {
			continue
		}

		minutes := int(time.Until(event.StartTime).Round(time.Minute) / time.Minute)
		payload := Payload{
			Title: "Upcoming Event",
			Body:  fmt.Sprintf("%s starts in %d minutes", event.Title, minutes),
			URL:   "/calendar",
			Tag:   fmt.Sprintf("event-%d", event.ID),
		}
		s.sendToAssignees(event.AssignedTo, payload)

		if err := s.push.RecordSent(model.NotifTypeEventReminder, refID); err != nil {
			s.logger.Error("record sent notification", "error", err)
		}
	}
}

// checkBills projects each active bill's next due date; a bill coming due
// inside the lead window gets one notice, an unpaid past-due bill another.
func (s *Scheduler) checkBills(now time.Time) {
	// Bills move on day granularity; checking more often is wasted work.
	if now.Minute() != 0 {
		return
	}

	leadDays := s.settingInt("reminder_bill_lead_days", defaultBillLeadDays)

	bills, err := s.bills.ListActive()
	if err != nil {
		s.logger.Error("list active bills", "error", err)
		return
	}
	payments, err := s.bills.ListAllPayments()
	if err != nil {
		s.logger.Error("list bill payments", "error", err)
		return
	}

	if _, err := s.bills.MarkOverduePayments(now); err != nil {
		s.logger.Error("mark overdue payments", "error", err)
	}

	for _, bill := range bills {
		projection, status := billing.NextStatus(bill, payments, now)
		if status == model.PaymentPaid {
			continue
		}

		dueKey := projection.DueDate.Format("2006-01-02")

		if status == model.PaymentOverdue {
			refID := fmt.Sprintf("bill-%d-%s", bill.ID, dueKey)
			s.notifyOnce(model.NotifTypeBillOverdue, refID, Payload{
				Title: "Bill Overdue",
				Body:  fmt.Sprintf("%s is overdue", bill.Name),
				URL:   "/bills",
				Tag:   fmt.Sprintf("bill-%d", bill.ID),
			})
			continue
		}

		if projection.DaysUntilDue <= leadDays {
			refID := fmt.Sprintf("bill-%d-%s", bill.ID, dueKey)
			body := fmt.Sprintf("%s is due in %d days", bill.Name, projection.DaysUntilDue)
			if projection.DaysUntilDue == 0 {
				body = fmt.Sprintf("%s is due today", bill.Name)
			} else if projection.DaysUntilDue == 1 {
				body = fmt.Sprintf("%s is due tomorrow", bill.Name)
			}
			s.notifyOnce(model.NotifTypeBillDue, refID, Payload{
				Title: "Bill Due Soon",
				Body:  body,
				URL:   "/bills",
				Tag:   fmt.Sprintf("bill-%d", bill.ID),
			})
		}
	}
}

// notifyOnce sends the payload to every subscription, at most once per
// (type, refID) pair.
func (s *Scheduler) notifyOnce(notifType, refID string, payload Payload) {
	sent, err := s.push.WasSent(notifType, refID)
	if err != nil {
		s.logger.Error("check sent notification", "error", err)
		return
	}
	if sent {
		return
	}

	subs, err := s.push.List()
	if err != nil {
		s.logger.Error("list push subscriptions", "error", err)
		return
	}
	for i := range subs {
		s.deliver(&subs[i], payload)
	}

	if err := s.push.RecordSent(notifType, refID); err != nil {
		s.logger.Error("record sent notification", "error", err)
	}
}

// sendToAssignees notifies the assigned members' subscriptions plus any
// device-level subscriptions. An event with no assignees goes to everyone.
func (s *Scheduler) sendToAssignees(memberIDs []int64, payload Payload) {
	seen := make(map[int64]bool)
	var targets []model.PushSubscription

	if len(memberIDs) == 0 {
		subs, err := s.push.List()
		if err != nil {
			s.logger.Error("list push subscriptions", "error", err)
			return
		}
		targets = subs
	} else {
		for _, mid := range memberIDs {
			subs, err := s.push.ListForMember(mid)
			if err != nil {
				s.logger.Error("list push subscriptions for member", "member_id", mid, "error", err)
				continue
			}
			for _, sub := range subs {
				if seen[sub.ID] {
					continue
				}
				seen[sub.ID] = true
				targets = append(targets, sub)
			}
		}
	}

	for i := range targets {
		s.deliver(&targets[i], payload)
	}
}

func (s *Scheduler) deliver(sub *model.PushSubscription, payload Payload) {
	if err := s.service.Send(sub, payload); err != nil {
		if errors.Is(err, ErrExpired) {
			if err := s.push.DeleteByEndpoint(sub.Endpoint); err != nil {
				s.logger.Warn("delete expired subscription", "error", err)
			}
			return
		}
		s.logger.Warn("send push notification", "error", err)
	}
}
