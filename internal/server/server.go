package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/backup"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/handler"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/middleware"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/push"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/store"
	ws "github.com/stefandinca/FamilyCommandCenter-sub000/internal/websocket"
)

// PushConfig holds the VAPID key pair for web push notifications.
type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	memberH       *handler.FamilyMemberHandler
	eventH        *handler.EventHandler
	noteH         *handler.NoteHandler
	mealH         *handler.MealHandler
	budgetH       *handler.BudgetHandler
	expenseH      *handler.ExpenseHandler
	billH         *handler.BillHandler
	settingsH     *handler.SettingsHandler
	backupH       *handler.BackupHandler
	pushH         *handler.PushHandler
	eventStore    *store.EventStore
	pushStore     *store.PushStore
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	pushScheduler *push.Scheduler
	logger        *slog.Logger
}

func New(db *sql.DB, backupCfg backup.Config, pushCfg PushConfig, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	rateLimiter := middleware.NewRateLimiter()

	memberStore := store.NewFamilyMemberStore(db)
	eventStore := store.NewEventStore(db)
	noteStore := store.NewNoteStore(db)
	mealStore := store.NewMealStore(db)
	budgetStore := store.NewBudgetStore(db)
	expenseStore := store.NewExpenseStore(db)
	billStore := store.NewBillStore(db)
	settingsStore := store.NewSettingsStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	backupMgr := backup.NewManager(backupCfg, db, backupStore, logger.With("component", "backup"), func(st backup.Status) {
		hub.Broadcast(ws.Message{
			Type:   "backup_status",
			Entity: "backup",
			Action: string(st.State),
			Extra: map[string]any{
				"in_progress": st.InProgress,
				"error":       st.Error,
			},
		})
	})

	var pushSvc *push.Service
	var pushSched *push.Scheduler
	var pushH *handler.PushHandler
	if pushCfg.VAPIDPublicKey != "" && pushCfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(pushCfg.VAPIDPublicKey, pushCfg.VAPIDPrivateKey, pushCfg.Subscriber)
		pushSched = push.NewScheduler(pushSvc, pushStore, eventStore, billStore, settingsStore, logger.With("component", "push"))
		pushH = handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler"))
	}

	return &Server{
		db:            db,
		hub:           hub,
		memberH:       handler.NewFamilyMemberHandler(memberStore, hub, rateLimiter, logger.With("component", "member")),
		eventH:        handler.NewEventHandler(eventStore, hub, logger.With("component", "event")),
		noteH:         handler.NewNoteHandler(noteStore, hub, logger.With("component", "note")),
		mealH:         handler.NewMealHandler(mealStore, hub, logger.With("component", "meal")),
		budgetH:       handler.NewBudgetHandler(budgetStore, expenseStore, hub, logger.With("component", "budget")),
		expenseH:      handler.NewExpenseHandler(expenseStore, hub, logger.With("component", "expense")),
		billH:         handler.NewBillHandler(billStore, hub, logger.With("component", "bill")),
		settingsH:     handler.NewSettingsHandler(settingsStore, hub, logger.With("component", "settings")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup_handler")),
		pushH:         pushH,
		eventStore:    eventStore,
		pushStore:     pushStore,
		rateLimiter:   rateLimiter,
		backupManager: backupMgr,
		pushScheduler: pushSched,
		logger:        logger,
	}
}

// EventStore returns the event store for the tombstone purge task.
func (s *Server) EventStore() *store.EventStore {
	return s.eventStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// PushScheduler returns the push notification scheduler, nil when push is
// not configured.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Family members
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("GET /api/members/{id}", s.memberH.Get)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)
	mux.HandleFunc("PUT /api/members/sort", s.memberH.UpdateSortOrder)
	mux.HandleFunc("POST /api/members/{id}/pin", s.memberH.SetPIN)
	mux.HandleFunc("DELETE /api/members/{id}/pin", s.memberH.ClearPIN)
	mux.HandleFunc("POST /api/members/{id}/pin/verify", s.memberH.VerifyPIN)

	// Calendar events
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("POST /api/events/conflicts", s.eventH.CheckConflicts)
	mux.HandleFunc("GET /api/events/{id}", s.eventH.Get)
	mux.HandleFunc("PUT /api/events/{id}", s.eventH.Update)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)
	mux.HandleFunc("POST /api/events/{id}/restore", s.eventH.Restore)
	mux.HandleFunc("POST /api/events/{id}/checklist", s.eventH.AddChecklistItem)
	mux.HandleFunc("POST /api/events/{id}/checklist/{itemID}/toggle", s.eventH.ToggleChecklistItem)
	mux.HandleFunc("DELETE /api/events/{id}/checklist/{itemID}", s.eventH.DeleteChecklistItem)

	// Notes and shopping lists
	mux.HandleFunc("GET /api/notes", s.noteH.List)
	mux.HandleFunc("POST /api/notes", s.noteH.Create)
	mux.HandleFunc("GET /api/notes/{id}", s.noteH.Get)
	mux.HandleFunc("PUT /api/notes/{id}", s.noteH.Update)
	mux.HandleFunc("DELETE /api/notes/{id}", s.noteH.Delete)
	mux.HandleFunc("POST /api/notes/{id}/pin", s.noteH.TogglePinned)
	mux.HandleFunc("POST /api/notes/{id}/items", s.noteH.AddItem)
	mux.HandleFunc("POST /api/notes/{id}/items/{itemID}/toggle", s.noteH.ToggleItem)
	mux.HandleFunc("DELETE /api/notes/{id}/items/{itemID}", s.noteH.DeleteItem)
	mux.HandleFunc("POST /api/notes/{id}/clear-completed", s.noteH.ClearCompleted)

	// Meals
	mux.HandleFunc("GET /api/meals", s.mealH.List)
	mux.HandleFunc("POST /api/meals", s.mealH.Create)
	mux.HandleFunc("GET /api/meals/{id}", s.mealH.Get)
	mux.HandleFunc("PUT /api/meals/{id}", s.mealH.Update)
	mux.HandleFunc("DELETE /api/meals/{id}", s.mealH.Delete)
	mux.HandleFunc("POST /api/meals/{id}/favorite", s.mealH.ToggleFavorite)

	// Budgets and expenses
	mux.HandleFunc("GET /api/budgets", s.budgetH.List)
	mux.HandleFunc("POST /api/budgets", s.budgetH.Create)
	mux.HandleFunc("GET /api/budgets/{id}", s.budgetH.Get)
	mux.HandleFunc("PUT /api/budgets/{id}", s.budgetH.Update)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.budgetH.Delete)
	mux.HandleFunc("GET /api/budgets/{id}/summary", s.budgetH.Summary)
	mux.HandleFunc("POST /api/budgets/{id}/categories", s.budgetH.AddCategory)
	mux.HandleFunc("DELETE /api/budgets/{id}/categories/{categoryID}", s.budgetH.DeleteCategory)

	mux.HandleFunc("GET /api/expenses", s.expenseH.List)
	mux.HandleFunc("POST /api/expenses", s.expenseH.Create)
	mux.HandleFunc("PUT /api/expenses/{id}", s.expenseH.Update)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.expenseH.Delete)

	// Bills
	mux.HandleFunc("GET /api/bills", s.billH.List)
	mux.HandleFunc("POST /api/bills", s.billH.Create)
	mux.HandleFunc("GET /api/bills/upcoming", s.billH.Upcoming)
	mux.HandleFunc("GET /api/bills/{id}", s.billH.Get)
	mux.HandleFunc("PUT /api/bills/{id}", s.billH.Update)
	mux.HandleFunc("DELETE /api/bills/{id}", s.billH.Delete)
	mux.HandleFunc("GET /api/bills/{id}/payments", s.billH.ListPayments)
	mux.HandleFunc("POST /api/bills/{id}/pay", s.billH.Pay)

	// Settings
	mux.HandleFunc("GET /api/settings", s.settingsH.GetAll)
	mux.HandleFunc("PUT /api/settings", s.settingsH.Update)

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backups/run", s.backupH.Run)
	mux.HandleFunc("POST /api/backups/restore", s.backupH.Restore)

	// Push notifications
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	}

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
