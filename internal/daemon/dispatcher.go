package daemon

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/adamavenir/huddle/internal/caughtup"
	"github.com/adamavenir/huddle/internal/conversations"
	"github.com/adamavenir/huddle/internal/core"
	"github.com/adamavenir/huddle/internal/db"
	"github.com/adamavenir/huddle/internal/events"
	"github.com/adamavenir/huddle/internal/notify"
)

// Config wires the dispatcher's collaborators.
type Config struct {
	Sender notify.Sender
	Muter  *notify.Muter
	Logger *slog.Logger
}

// SyncResult describes one pass over the event log.
type SyncResult struct {
	Applied  int
	Skipped  int
	Notified bool
	Offset   int64
}

// Dispatcher feeds events, one at a time and in log order, into the
// conversation map and the caught-up tracker, and persists the results.
// It is not safe for concurrent use; the watcher calls it from one goroutine.
type Dispatcher struct {
	project       core.Project
	database      *sql.DB
	sender        notify.Sender
	muter         *notify.Muter
	logger        *slog.Logger
	conversations *conversations.Map
	caughtUp      *caughtup.State
}

// NewDispatcher loads the persisted state of the project.
func NewDispatcher(project core.Project, database *sql.DB, cfg Config) (*Dispatcher, error) {
	if cfg.Logger == nil {
		cfg.Logger = core.DiscardLogger()
	}
	convs, err := db.LoadConversations(database)
	if err != nil {
		return nil, fmt.Errorf("load conversations: %w", err)
	}
	state, err := db.LoadCaughtUp(database)
	if err != nil {
		return nil, fmt.Errorf("load caught-up state: %w", err)
	}
	return &Dispatcher{
		project:       project,
		database:      database,
		sender:        cfg.Sender,
		muter:         cfg.Muter,
		logger:        cfg.Logger,
		conversations: convs,
		caughtUp:      state,
	}, nil
}

// Conversations returns the current conversation map.
func (d *Dispatcher) Conversations() *conversations.Map {
	return d.conversations
}

// CaughtUp returns the current caught-up state.
func (d *Dispatcher) CaughtUp() *caughtup.State {
	return d.caughtUp
}

// Apply applies a single event and persists whatever changed. On error the
// in-memory state is left as it was.
func (d *Dispatcher) Apply(ev events.Event) error {
	prevConvs, prevState := d.conversations, d.caughtUp
	alert, err := d.apply(ev)
	if err != nil {
		return err
	}
	if err := d.persist(prevConvs, prevState, nil); err != nil {
		d.conversations, d.caughtUp = prevConvs, prevState
		return err
	}
	if alert {
		d.notify()
	}
	return nil
}

// Sync applies every log entry past the stored cursor. Malformed lines and
// events that fail to apply are logged and skipped so one bad event cannot
// hold back the rest. The state and the cursor are saved together; if the
// pass is cancelled or the save fails nothing is kept and the same entries
// are read again next time.
func (d *Dispatcher) Sync(ctx context.Context) (SyncResult, error) {
	offset, err := db.GetCursor(d.database, db.EventLogCursor)
	if err != nil {
		return SyncResult{}, err
	}
	entries, next, err := events.ReadFrom(d.project.EventsPath(), offset)
	if err != nil {
		return SyncResult{}, fmt.Errorf("read event log: %w", err)
	}

	result := SyncResult{Offset: next}
	prevConvs, prevState := d.conversations, d.caughtUp
	rollback := func() {
		d.conversations, d.caughtUp = prevConvs, prevState
		result = SyncResult{Offset: offset}
	}
	alert := false
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			rollback()
			return result, err
		}
		if entry.Err != nil {
			d.logger.Warn("skipping malformed event", "offset", entry.Offset, "error", entry.Err)
			result.Skipped++
			continue
		}
		added, err := d.apply(entry.Event)
		if err != nil {
			d.logger.Warn("skipping event", "id", entry.Event.ID, "type", entry.Event.Type, "error", err)
			result.Skipped++
			continue
		}
		alert = alert || added
		result.Applied++
	}

	var cursor *int64
	if next != offset {
		cursor = &next
	}
	if err := d.persist(prevConvs, prevState, cursor); err != nil {
		rollback()
		return result, err
	}
	if alert {
		result.Notified = d.notify()
	}
	d.logger.Debug("event log synced", "applied", result.Applied, "skipped", result.Skipped, "offset", next)
	return result, nil
}

// apply reduces one event into the in-memory state. It reports whether a
// message that should alert the user was added.
func (d *Dispatcher) apply(ev events.Event) (bool, error) {
	switch ev.Type {
	case events.KindMessage:
		next, err := conversations.Add(d.conversations, *ev.Message)
		if err != nil {
			return false, err
		}
		d.conversations = next
		key, _ := core.ConversationKey(*ev.Message)
		return !d.muter.Muted(key), nil
	case events.KindRemove:
		d.conversations = conversations.Remove(d.conversations, ev.RemoveEvent())
		return false, nil
	case events.KindClear:
		d.conversations = conversations.Clear(d.conversations)
		return false, nil
	default:
		action, ok := ev.Action()
		if !ok {
			return false, fmt.Errorf("%w %q", events.ErrUnknownEventType, ev.Type)
		}
		d.caughtUp = caughtup.Reduce(d.caughtUp, action)
		return false, nil
	}
}

func (d *Dispatcher) persist(prevConvs *conversations.Map, prevState *caughtup.State, cursor *int64) error {
	update := db.SyncUpdate{Cursor: cursor}
	if d.conversations != prevConvs {
		update.Conversations = d.conversations
	}
	if d.caughtUp != prevState {
		update.CaughtUp = d.caughtUp
	}
	return db.SaveSync(d.database, update)
}

func (d *Dispatcher) notify() bool {
	if d.sender == nil {
		return false
	}
	n := notify.Build(d.conversations)
	if n.Empty() {
		return false
	}
	if err := d.sender.Send(n); err != nil {
		d.logger.Warn("notification failed", "error", err)
		return false
	}
	return true
}
