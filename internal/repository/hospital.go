package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/model"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"gorm.io/gorm"
)

type HospitalRepository struct {
	db *gorm.DB
}

func NewHospitalRepository(db *gorm.DB) *HospitalRepository {
	return &HospitalRepository{db: db}
}

// FindByEmail expects an already normalized email.
func (r *HospitalRepository) FindByEmail(ctx context.Context, email string) (*model.Hospital, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "HospitalFindByEmail")

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var hospital model.Hospital
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&hospital)
	duration := time.Since(start)

	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Failed to get hospital by email").
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "Hospital retrieved by email").
		Uint("hospital_id", hospital.ID).
		String("status", string(hospital.Status)).
		Duration(duration).
		Log()

	return &hospital, nil
}

func (r *HospitalRepository) FindByID(ctx context.Context, id uint) (*model.Hospital, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "HospitalFindByID")

	start := time.Now()
	var hospital model.Hospital
	err := r.db.WithContext(ctx).First(&hospital, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Failed to get hospital by ID").
				Uint("hospital_id", id).
				Duration(time.Since(start)).
				Err(err).
				Log()
		}
		return nil, err
	}
	return &hospital, nil
}

func (r *HospitalRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "HospitalExistsByEmail")

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Hospital{}).Where("email = ?", email).Count(&count).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to check hospital email").
			Err(err).
			Log()
		return false, err
	}
	return count > 0, nil
}

// Create inserts the hospital and its registration audit row in one transaction.
func (r *HospitalRepository) Create(ctx context.Context, hospital *model.Hospital, audit *model.AuditLog) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "HospitalCreate")

	logger.DebugWithContext(ctx, "Creating new hospital").
		String("email", hospital.Email).
		String("hospital_name", hospital.HospitalName).
		Log()

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(hospital).Error; err != nil {
			return err
		}
		if audit == nil {
			return nil
		}
		audit.EntityID = hospital.ID
		if audit.UserID == 0 {
			audit.UserID = hospital.ID
		}
		return tx.Create(audit).Error
	})
	duration := time.Since(start)

	if err != nil {
		if isUniqueViolation(err) {
			logger.WarnWithContext(ctx, "Hospital email already exists").
				String("email", hospital.Email).
				Duration(duration).
				Log()
			return ErrDuplicateEmail
		}
		logger.ErrorWithContext(ctx, "Failed to create hospital").
			String("email", hospital.Email).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Hospital created successfully").
		Uint("hospital_id", hospital.ID).
		Duration(duration).
		Log()

	return nil
}

func (r *HospitalRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "HospitalUpdateLastLogin")

	result := r.db.WithContext(ctx).Model(&model.Hospital{}).Where("id = ?", id).Update("last_login", at)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update last login").
			Uint("hospital_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *HospitalRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "HospitalUpdatePasswordHash")

	result := r.db.WithContext(ctx).Model(&model.Hospital{}).Where("id = ?", id).Update("password_hash", hash)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update hospital password hash").
			Uint("hospital_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListPending returns active hospitals awaiting a decision, oldest first.
func (r *HospitalRepository) ListPending(ctx context.Context) ([]model.Hospital, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "HospitalListPending")

	start := time.Now()
	var hospitals []model.Hospital
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_active = ?", model.HospitalStatusPending, true).
		Order("created_at ASC").
		Find(&hospitals).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list pending hospitals").
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Pending hospitals retrieved").
		Int("returned_count", len(hospitals)).
		Duration(duration).
		Log()

	return hospitals, nil
}

// List pages through hospitals, newest first. An empty status means all.
func (r *HospitalRepository) List(ctx context.Context, status string, limit, offset int) ([]model.Hospital, int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "HospitalList")

	logger.DebugWithContext(ctx, "Listing hospitals").
		String("status", status).
		Int("limit", limit).
		Int("offset", offset).
		Log()

	start := time.Now()
	var (
		hospitals []model.Hospital
		total     int64
	)

	query := r.db.WithContext(ctx).Model(&model.Hospital{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count hospitals").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&hospitals).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch hospitals").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.InfoWithContext(ctx, "Hospitals retrieved successfully").
		Int64("total", total).
		Int("returned_count", len(hospitals)).
		Duration(time.Since(start)).
		Log()

	return hospitals, total, nil
}

// CountByStatus returns the number of hospitals in each status.
func (r *HospitalRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Hospital{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{
		string(model.HospitalStatusPending):  0,
		string(model.HospitalStatusApproved): 0,
		string(model.HospitalStatusRejected): 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Approve moves a pending hospital to approved and appends the audit row in
// the same transaction. Returns gorm.ErrRecordNotFound for an unknown id and
// ErrAlreadyProcessed when the hospital is no longer pending.
func (r *HospitalRepository) Approve(ctx context.Context, id, adminID uint, at time.Time, audit *model.AuditLog) (*model.Hospital, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "HospitalApprove")
	return r.decide(ctx, id, map[string]interface{}{
		"status":      model.HospitalStatusApproved,
		"approved_by": adminID,
		"approved_at": at,
	}, audit)
}

// Reject moves a pending hospital to rejected. The deciding admin and time
// are recorded in approved_by/approved_at as for approvals.
func (r *HospitalRepository) Reject(ctx context.Context, id, adminID uint, reason *string, at time.Time, audit *model.AuditLog) (*model.Hospital, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "HospitalReject")
	return r.decide(ctx, id, map[string]interface{}{
		"status":           model.HospitalStatusRejected,
		"approved_by":      adminID,
		"approved_at":      at,
		"rejection_reason": reason,
	}, audit)
}

func (r *HospitalRepository) decide(ctx context.Context, id uint, updates map[string]interface{}, audit *model.AuditLog) (*model.Hospital, error) {
	logger.DebugWithContext(ctx, "Applying hospital decision").
		Uint("hospital_id", id).
		Any("status", updates["status"]).
		Log()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var hospital model.Hospital
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The status guard in WHERE makes concurrent decisions race safely:
		// only one of them sees an affected row.
		result := tx.Model(&model.Hospital{}).
			Where("id = ? AND status = ?", id, model.HospitalStatusPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Hospital{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrAlreadyProcessed
		}

		if audit != nil {
			audit.EntityID = id
			if err := tx.Create(audit).Error; err != nil {
				return err
			}
		}

		return tx.First(&hospital, id).Error
	})
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) || errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Hospital decision refused").
				Uint("hospital_id", id).
				Duration(duration).
				Err(err).
				Log()
			return nil, err
		}
		logger.ErrorWithContext(ctx, "Failed to apply hospital decision").
			Uint("hospital_id", id).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	logger.InfoWithContext(ctx, "Hospital decision applied").
		Uint("hospital_id", id).
		String("status", string(hospital.Status)).
		Duration(duration).
		Log()

	return &hospital, nil
}
