package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/database"
	"github.com/Hitpatel02/HPFP-sub000/internal/models"
	"github.com/Hitpatel02/HPFP-sub000/internal/reminder"
	"github.com/Hitpatel02/HPFP-sub000/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// GetRecords lists the month's document records with their clients
func GetRecords(c *gin.Context) {
	month := c.DefaultQuery("month", reminder.MonthLabel(time.Now()))

	ledger := store.NewLedgerStore(database.GetDB())
	entries, err := ledger.MonthEntries(month)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch records", err)
		return
	}

	type row struct {
		ClientID   uint                  `json:"client_id"`
		ClientName string                `json:"client_name"`
		Record     models.DocumentRecord `json:"record"`
	}
	rows := make([]row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, row{ClientID: entry.Client.ID, ClientName: entry.Client.Name, Record: entry.Record})
	}

	c.JSON(http.StatusOK, gin.H{"month": month, "records": rows})
}

// updateReceivedRequest marks one document type received or not for a record
type updateReceivedRequest struct {
	DocumentType models.DocumentType `json:"document_type" binding:"required"`
	Received     bool                `json:"received"`
	ReceivedDate string              `json:"received_date"` // "2006-01-02", optional
}

// UpdateReceived sets a record's received flag for one document type.
// Client-submission territory: the reminder engine never writes these.
func UpdateReceived(c *gin.Context) {
	var request updateReceivedRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()), err)
		return
	}
	if !request.DocumentType.Valid() {
		handleError(c, http.StatusBadRequest, "Unknown document type", fmt.Errorf("document type %q", request.DocumentType))
		return
	}

	db := database.GetDB()
	var rec models.DocumentRecord
	if err := db.Where("id = ?", c.Param("record_id")).First(&rec).Error; err != nil {
		handleError(c, http.StatusNotFound, "Record not found", err)
		return
	}

	updates := map[string]interface{}{
		models.ReceivedColumns[request.DocumentType]: request.Received,
	}
	atCol := models.ReceivedAtColumns[request.DocumentType]
	if !request.Received {
		updates[atCol] = nil
	} else if request.ReceivedDate != "" {
		parsed, err := time.Parse("2006-01-02", request.ReceivedDate)
		if err != nil {
			handleError(c, http.StatusBadRequest, "Invalid received_date, expected YYYY-MM-DD", err)
			return
		}
		updates[atCol] = datatypes.Date(parsed)
	} else {
		updates[atCol] = datatypes.Date(time.Now())
	}

	if err := db.Model(&rec).Updates(updates).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update record", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record updated"})
}

// RolloverRecords creates the month's records for every client that
// lacks one. Normally fired by the scheduler; exposed for operators.
func RolloverRecords(c *gin.Context) {
	month := c.DefaultQuery("month", reminder.MonthLabel(time.Now()))

	ledger := store.NewLedgerStore(database.GetDB())
	created, err := ledger.CreateMonthRecords(month)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Rollover failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": month, "created": created})
}

// DedupeRecords removes duplicate records, keeping the newest row per
// (client, month)
func DedupeRecords(c *gin.Context) {
	ledger := store.NewLedgerStore(database.GetDB())
	removed, err := ledger.Dedupe()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Cleanup failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
