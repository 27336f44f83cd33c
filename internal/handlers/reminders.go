package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Hitpatel02/HPFP-sub000/internal/chat"
	"github.com/Hitpatel02/HPFP-sub000/internal/database"
	"github.com/Hitpatel02/HPFP-sub000/internal/models"
	"github.com/Hitpatel02/HPFP-sub000/internal/reminder"
	"github.com/Hitpatel02/HPFP-sub000/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// API carries the scheduler and chat session into the handlers that
// need them, instead of hiding them behind package globals.
type API struct {
	Sched *reminder.Scheduler
	Chat  *chat.Client
}

func NewAPI(sched *reminder.Scheduler, chatClient *chat.Client) *API {
	return &API{Sched: sched, Chat: chatClient}
}

// RunNow triggers one channel immediately. The clock is bypassed, the
// reminder-day gate is not: on a day with nothing due the run reports
// zero tasks. Email and chat runs happen in the background; the report
// is posted synchronously.
func (a *API) RunNow(c *gin.Context) {
	channel := c.Query("channel")
	switch channel {
	case "email", "chat":
		go func() {
			if _, err := a.Sched.RunNow(context.Background(), channel); err != nil {
				zlog.Error("manual run failed", zap.String("channel", channel), zap.Error(err))
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": fmt.Sprintf("%s run started", channel)})
	case "report":
		if _, err := a.Sched.RunNow(c.Request.Context(), channel); err != nil {
			handleError(c, http.StatusBadGateway, "Report failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "report posted"})
	default:
		handleError(c, http.StatusBadRequest, "Unknown channel, expected email, chat or report",
			fmt.Errorf("channel %q", channel))
	}
}

// GetStatus reports the schedule and last run summary
func (a *API) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, a.Sched.Status())
}

// Reload re-reads settings and recomputes the daily timer
func (a *API) Reload(c *gin.Context) {
	if err := a.Sched.Reload(); err != nil {
		handleError(c, http.StatusInternalServerError, "Reload failed", err)
		return
	}
	c.JSON(http.StatusOK, a.Sched.Status())
}

// StopChat cancels any pending reconnect and releases the chat session
func (a *API) StopChat(c *gin.Context) {
	a.Chat.Stop()
	c.JSON(http.StatusOK, gin.H{"message": "chat session stopped"})
}

// ConnectChat starts (or restarts) the chat session
func (a *API) ConnectChat(c *gin.Context) {
	a.Chat.Connect()
	c.JSON(http.StatusAccepted, gin.H{"message": "chat session connecting"})
}

// GetEvents queries the reminder audit log
func (a *API) GetEvents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		limit = 100
	}

	events := store.NewEventStore(database.GetDB())
	list, err := events.List(c.Query("month"), limit)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch events", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetSettings returns the active settings snapshot
func (a *API) GetSettings(c *gin.Context) {
	settings, err := store.NewSettingsStore(database.GetDB()).Active()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch settings", err)
		return
	}
	if settings == nil {
		handleError(c, http.StatusNotFound, "No settings configured", fmt.Errorf("settings table empty"))
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings inserts a new settings row (replacement, never
// in-place mutation) and reschedules the daily job from it
func (a *API) UpdateSettings(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		handleError(c, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()), err)
		return
	}
	if settings.DispatchHour == 0 {
		settings.DispatchHour = 10
	}
	if settings.DispatchMeridiem == "" {
		settings.DispatchMeridiem = "AM"
	}
	if _, _, err := settings.DispatchClock(); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid dispatch time", err)
		return
	}

	if err := store.NewSettingsStore(database.GetDB()).Save(&settings); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}

	if err := a.Sched.Reload(); err != nil {
		zlog.Warn("settings saved but reschedule failed", zap.Error(err))
	}

	c.JSON(http.StatusCreated, settings)
}

// ResetReminders clears every tier-sent flag for the active month so a
// changed schedule can re-fire. Received flags stay as they are.
func (a *API) ResetReminders(c *gin.Context) {
	settingsStore := store.NewSettingsStore(database.GetDB())
	settings, err := settingsStore.Active()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch settings", err)
		return
	}
	if settings == nil {
		handleError(c, http.StatusNotFound, "No settings configured", fmt.Errorf("settings table empty"))
		return
	}

	affected, err := settingsStore.ResetTierSentFlags(settings.ActiveMonth)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to reset reminders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": settings.ActiveMonth, "records_reset": affected})
}
