package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/tidynest/service-booking/internal/domain/booking"
	"github.com/tidynest/service-booking/internal/domain/pricing"
	"github.com/tidynest/service-booking/internal/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber       string          `gorm:"uniqueIndex;not null;size:20"`
	IdempotencyKey      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Status              string          `gorm:"not null;size:30;index"`
	Contact             json.RawMessage `gorm:"type:jsonb;not null"`
	Property            json.RawMessage `gorm:"type:jsonb;not null"`
	Service             json.RawMessage `gorm:"type:jsonb;not null"`
	ScheduleDate        string          `gorm:"not null;size:10;index"`
	ScheduleTimeSlot    string          `gorm:"not null;size:20"`
	ZoneName            string          `gorm:"size:50"`
	ZoneMultiplier      float64         `gorm:"not null;default:1"`
	Quote               json.RawMessage `gorm:"type:jsonb;not null"`
	CRMReference        string          `gorm:"size:100;index"`
	SpecialInstructions string          `gorm:"size:1000"`
	CancelNote          string          `gorm:"size:500"`
	ConfirmedAt         *time.Time      `gorm:""`
	StartedAt           *time.Time      `gorm:""`
	CompletedAt         *time.Time      `gorm:""`
	CancelledAt         *time.Time      `gorm:""`
	Version             int64           `gorm:"not null;default:1"`
	CreatedAt           time.Time       `gorm:"not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByIdempotencyKey retrieves the booking created for a wizard submission
// key, if one exists.
func (r *GormBookingRepository) FindByIdempotencyKey(ctx context.Context, key uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", key.String())
		}
		return nil, fmt.Errorf("failed to find booking by idempotency key: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByDate retrieves all bookings scheduled on an ISO date, earliest slot
// first.
func (r *GormBookingRepository) FindByDate(ctx context.Context, isoDate string) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("schedule_date = ?", isoDate).
		Order("schedule_time_slot ASC, created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by date: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// Optimistic locking: only update if the version matches (current version - 1 since IncrementVersion was called)
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":               model.Status,
			"contact":              model.Contact,
			"property":             model.Property,
			"service":              model.Service,
			"schedule_date":        model.ScheduleDate,
			"schedule_time_slot":   model.ScheduleTimeSlot,
			"zone_name":            model.ZoneName,
			"zone_multiplier":      model.ZoneMultiplier,
			"quote":                model.Quote,
			"crm_reference":        model.CRMReference,
			"special_instructions": model.SpecialInstructions,
			"cancel_note":          model.CancelNote,
			"confirmed_at":         model.ConfirmedAt,
			"started_at":           model.StartedAt,
			"completed_at":         model.CompletedAt,
			"cancelled_at":         model.CancelledAt,
			"version":              model.Version,
			"updated_at":           model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}

	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	contactJSON, err := json.Marshal(bk.Contact())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contact: %w", err)
	}

	propertyJSON, err := json.Marshal(bk.Property())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal property: %w", err)
	}

	serviceJSON, err := json.Marshal(bk.Service())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal service details: %w", err)
	}

	quoteJSON, err := json.Marshal(bk.Quote())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quote: %w", err)
	}

	return &BookingModel{
		ID:                  bk.ID(),
		BookingNumber:       bk.BookingNumber(),
		IdempotencyKey:      bk.IdempotencyKey(),
		Status:              string(bk.Status()),
		Contact:             contactJSON,
		Property:            propertyJSON,
		Service:             serviceJSON,
		ScheduleDate:        bk.Schedule().Date,
		ScheduleTimeSlot:    bk.Schedule().TimeSlot,
		ZoneName:            bk.ZoneName(),
		ZoneMultiplier:      bk.ZoneMultiplier(),
		Quote:               quoteJSON,
		CRMReference:        bk.CRMReference(),
		SpecialInstructions: bk.SpecialInstructions(),
		CancelNote:          bk.CancelNote(),
		ConfirmedAt:         bk.ConfirmedAt(),
		StartedAt:           bk.StartedAt(),
		CompletedAt:         bk.CompletedAt(),
		CancelledAt:         bk.CancelledAt(),
		Version:             bk.Version(),
		CreatedAt:           bk.CreatedAt(),
		UpdatedAt:           bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var contact bookingDomain.Contact
	if err := json.Unmarshal(m.Contact, &contact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact: %w", err)
	}

	var property bookingDomain.PropertySpec
	if err := json.Unmarshal(m.Property, &property); err != nil {
		return nil, fmt.Errorf("failed to unmarshal property: %w", err)
	}

	var service bookingDomain.ServiceDetails
	if err := json.Unmarshal(m.Service, &service); err != nil {
		return nil, fmt.Errorf("failed to unmarshal service details: %w", err)
	}

	var quote pricing.PriceQuote
	if err := json.Unmarshal(m.Quote, &quote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote: %w", err)
	}

	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		m.IdempotencyKey,
		status,
		contact,
		property,
		service,
		bookingDomain.Schedule{Date: m.ScheduleDate, TimeSlot: m.ScheduleTimeSlot},
		m.ZoneName,
		m.ZoneMultiplier,
		quote,
		m.CRMReference,
		m.SpecialInstructions,
		m.CancelNote,
		m.ConfirmedAt,
		m.StartedAt,
		m.CompletedAt,
		m.CancelledAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
