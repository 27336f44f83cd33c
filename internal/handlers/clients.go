package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Hitpatel02/HPFP-sub000/internal/database"
	"github.com/Hitpatel02/HPFP-sub000/internal/models"
	"github.com/Hitpatel02/HPFP-sub000/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateClient registers a new client and opens their record for the
// active month
func CreateClient(c *gin.Context) {
	var request models.CreateClientRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()), err)
		return
	}

	client := models.Client{
		Name:                    request.Name,
		Code:                    request.Code,
		Emails:                  request.Emails,
		ChatTarget:              request.ChatTarget,
		TaxFilingApplicable:     boolOrDefault(request.TaxFilingApplicable, true),
		BankStatementApplicable: boolOrDefault(request.BankStatementApplicable, true),
		WithholdingApplicable:   boolOrDefault(request.WithholdingApplicable, true),
		Notes:                   request.Notes,
	}

	db := database.GetDB()
	if err := db.Create(&client).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create client", err)
		return
	}

	// Open the client's record for the active tracking period so they
	// enter the reminder cycle without waiting for the next rollover
	settings, err := store.NewSettingsStore(db).Active()
	if err == nil && settings != nil {
		rec := models.DocumentRecord{ClientID: client.ID, Month: settings.ActiveMonth}
		if err := db.Create(&rec).Error; err != nil {
			zlog.Warn("failed to open month record for new client",
				zap.Uint("client_id", client.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients lists clients with simple pagination
func GetClients(c *gin.Context) {
	db := database.GetDB()
	var clients []models.Client

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	query := db.Order("name").Limit(limit).Offset(offset)
	if name := c.Query("name"); name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}
	if err := query.Find(&clients).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch clients", err)
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClient fetches a single client by id
func GetClient(c *gin.Context) {
	db := database.GetDB()

	var client models.Client
	if err := db.Where("id = ?", c.Param("client_id")).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Client not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch client", err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient replaces a client's editable fields
func UpdateClient(c *gin.Context) {
	var request models.CreateClientRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()), err)
		return
	}

	db := database.GetDB()
	var client models.Client
	if err := db.Where("id = ?", c.Param("client_id")).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Client not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch client", err)
		return
	}

	client.Name = request.Name
	client.Code = request.Code
	client.Emails = request.Emails
	client.ChatTarget = request.ChatTarget
	client.TaxFilingApplicable = boolOrDefault(request.TaxFilingApplicable, client.TaxFilingApplicable)
	client.BankStatementApplicable = boolOrDefault(request.BankStatementApplicable, client.BankStatementApplicable)
	client.WithholdingApplicable = boolOrDefault(request.WithholdingApplicable, client.WithholdingApplicable)
	client.Notes = request.Notes

	if err := db.Save(&client).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update client", err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient soft-deletes a client; their historical records remain
func DeleteClient(c *gin.Context) {
	db := database.GetDB()

	var client models.Client
	if err := db.Where("id = ?", c.Param("client_id")).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Client not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch client", err)
		return
	}

	if err := db.Delete(&client).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete client", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}

func boolOrDefault(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
