package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"mandira-backend/internal/database"
	"mandira-backend/internal/models"
)

type LogOptions struct {
	BranchID    *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		BranchID:    opts.BranchID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

// UndoLog - Bir audit log'u undo et
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log bulunamadı: %w", err)
	}

	// Zaten undo edilmiş mi?
	if log.IsUndone {
		return fmt.Errorf("bu işlem zaten geri alınmış")
	}

	switch log.Action {
	case models.AuditActionCreate:
		// Create ise entity'yi sil
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("entity silinemedi: %w", err)
		}

	case models.AuditActionUpdate:
		// Update ise önceki haline geri döndür
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri yüklenemedi: %w", err)
		}

	case models.AuditActionDelete:
		// Delete ise entity'yi geri oluştur
		if err := recreateEntity(log.EntityType, log.AfterData); err != nil {
			return fmt.Errorf("entity geri oluşturulamadı: %w", err)
		}

	default:
		return fmt.Errorf("bu işlem türü geri alınamaz")
	}

	// Log'u işaretle
	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log güncellenemedi: %w", err)
	}

	// Undo işlemi için yeni bir log oluştur
	undoLog := models.AuditLog{
		BranchID:    log.BranchID,
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Geri alındı: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log kaydedilemedi: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "milk_collection":
		return database.DB.Delete(&models.MilkCollection{}, "id = ?", entityID).Error
	case "sale":
		return database.DB.Delete(&models.Sale{}, "id = ?", entityID).Error
	case "farmer_payment":
		return database.DB.Delete(&models.FarmerPayment{}, "id = ?", entityID).Error
	case "customer_payment":
		return database.DB.Delete(&models.CustomerPayment{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

// recreateEntity - Silinen entity'yi geri oluştur
func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "milk_collection":
		var col models.MilkCollection
		if err := json.Unmarshal([]byte(dataJSON), &col); err != nil {
			return err
		}
		col.ID = 0 // Yeni entity oluştur
		return database.DB.Create(&col).Error

	case "sale":
		var sale models.Sale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		sale.ID = 0
		return database.DB.Create(&sale).Error

	case "farmer_payment":
		var payment models.FarmerPayment
		if err := json.Unmarshal([]byte(dataJSON), &payment); err != nil {
			return err
		}
		payment.ID = 0
		return database.DB.Create(&payment).Error

	case "customer_payment":
		var payment models.CustomerPayment
		if err := json.Unmarshal([]byte(dataJSON), &payment); err != nil {
			return err
		}
		payment.ID = 0
		return database.DB.Create(&payment).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

// restoreEntity - Entity'yi önceki haline geri yükle (update)
func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "milk_collection":
		var col models.MilkCollection
		if err := json.Unmarshal([]byte(dataJSON), &col); err != nil {
			return err
		}
		return database.DB.Model(&models.MilkCollection{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id":   col.BranchID,
			"farmer_id":   col.FarmerID,
			"shift_id":    col.ShiftID,
			"employee_id": col.EmployeeID,
			"date":        col.Date,
			"quantity_lt": col.QuantityLt,
			"fat_rate":    col.FatRate,
			"unit_price":  col.UnitPrice,
			"total_price": col.TotalPrice,
			"note":        col.Note,
		}).Error

	case "sale":
		var sale models.Sale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		return database.DB.Model(&models.Sale{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id":   sale.BranchID,
			"customer_id": sale.CustomerID,
			"shift_id":    sale.ShiftID,
			"employee_id": sale.EmployeeID,
			"date":        sale.Date,
			"product":     sale.Product,
			"quantity_lt": sale.QuantityLt,
			"unit_price":  sale.UnitPrice,
			"total_price": sale.TotalPrice,
			"note":        sale.Note,
		}).Error

	case "farmer_payment":
		var payment models.FarmerPayment
		if err := json.Unmarshal([]byte(dataJSON), &payment); err != nil {
			return err
		}
		return database.DB.Model(&models.FarmerPayment{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id": payment.BranchID,
			"farmer_id": payment.FarmerID,
			"date":      payment.Date,
			"amount":    payment.Amount,
			"method":    payment.Method,
			"note":      payment.Note,
		}).Error

	case "customer_payment":
		var payment models.CustomerPayment
		if err := json.Unmarshal([]byte(dataJSON), &payment); err != nil {
			return err
		}
		return database.DB.Model(&models.CustomerPayment{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id":   payment.BranchID,
			"customer_id": payment.CustomerID,
			"date":        payment.Date,
			"amount":      payment.Amount,
			"method":      payment.Method,
			"note":        payment.Note,
		}).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}
