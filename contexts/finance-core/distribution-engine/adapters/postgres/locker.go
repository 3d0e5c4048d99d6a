package postgresadapter

import (
	"context"
	"strings"
	"time"

	domainerrors "copany/contexts/finance-core/distribution-engine/domain/errors"

	"gorm.io/gorm"
)

// Locker serializes recompute runs per copany through a lease row. A lease
// that outlives its expiry is treated as abandoned and stolen.
type Locker struct {
	db       *gorm.DB
	leaseTTL time.Duration
}

func NewLocker(db *gorm.DB, leaseTTL time.Duration) *Locker {
	if leaseTTL <= 0 {
		leaseTTL = 5 * time.Minute
	}
	return &Locker{db: db, leaseTTL: leaseTTL}
}

type distributionLeaseModel struct {
	CopanyID   string    `gorm:"column:copany_id;primaryKey"`
	AcquiredAt time.Time `gorm:"column:acquired_at"`
	ExpiresAt  time.Time `gorm:"column:expires_at"`
}

func (distributionLeaseModel) TableName() string {
	return "distribution_leases"
}

func (l *Locker) Acquire(ctx context.Context, copanyID string) (func(), error) {
	copanyID = strings.TrimSpace(copanyID)
	now := time.Now().UTC()
	lease := distributionLeaseModel{
		CopanyID:   copanyID,
		AcquiredAt: now,
		ExpiresAt:  now.Add(l.leaseTTL),
	}

	// Expired leases from crashed runs are swept before the insert so the
	// unique key reflects only live holders.
	if err := l.db.WithContext(ctx).
		Where("copany_id = ?", copanyID).
		Where("expires_at <= ?", now).
		Delete(&distributionLeaseModel{}).
		Error; err != nil {
		return nil, err
	}

	if err := l.db.WithContext(ctx).Create(&lease).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domainerrors.ErrRecomputeLocked
		}
		return nil, err
	}

	release := func() {
		_ = l.db.
			Where("copany_id = ?", copanyID).
			Where("acquired_at = ?", lease.AcquiredAt).
			Delete(&distributionLeaseModel{}).
			Error
	}
	return release, nil
}
