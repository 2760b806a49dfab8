// Package profiles stores user profiles, pro access and play statistics in
// the Supabase Postgres database.
package profiles

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"PartyHub/models/postgres"
	"PartyHub/utils/apperror"
)

const (
	maxDisplayName = 50
	maxReason      = 500
	defaultName    = "Player"
)

var (
	ErrProfileNotFound    = apperror.NotFound("profile_not_found", "Profile not found")
	ErrInvalidDisplayName = apperror.BadRequest("invalid_display_name", "Display name must be between 1 and 50 characters")
	ErrInvalidGame        = apperror.BadRequest("invalid_game", "Game name is required")
	ErrInvalidGrant       = apperror.BadRequest("invalid_grant", "A grant needs a reason and a future expiry")
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*postgres.Profile, error) {
	var p postgres.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UserByStripeCustomer finds the profile a Stripe customer was stored on at
// checkout.
func (s *Service) UserByStripeCustomer(ctx context.Context, stripeCustomerID string) (uuid.UUID, error) {
	if stripeCustomerID == "" {
		return uuid.Nil, ErrProfileNotFound
	}
	var p postgres.Profile
	err := s.db.WithContext(ctx).Select("id").Where("stripe_customer_id = ?", stripeCustomerID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrProfileNotFound
		}
		return uuid.Nil, err
	}
	return p.ID, nil
}

// EnsureProfile returns the profile of an auth user, creating it on first
// sight. The display name starts as the local part of the email.
func (s *Service) EnsureProfile(ctx context.Context, id uuid.UUID, email string) (*postgres.Profile, error) {
	p := postgres.Profile{ID: id}
	err := s.db.WithContext(ctx).
		Where(postgres.Profile{ID: id}).
		Attrs(postgres.Profile{Email: email, DisplayName: nameFromEmail(email)}).
		FirstOrCreate(&p).Error
	if err != nil {
		return nil, err
	}

	if email != "" && p.Email != email {
		if err := s.db.WithContext(ctx).Model(&p).Update("email", email).Error; err != nil {
			return nil, err
		}
		p.Email = email
	}
	return &p, nil
}

// IsAdmin reports whether id belongs to an admin. Unknown users are not.
func (s *Service) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := s.GetProfile(ctx, id)
	if errors.Is(err, ErrProfileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.IsAdmin, nil
}

func (s *Service) UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) (*postgres.Profile, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > maxDisplayName {
		return nil, ErrInvalidDisplayName
	}

	res := s.db.WithContext(ctx).Model(&postgres.Profile{}).Where("id = ?", id).Update("display_name", name)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrProfileNotFound
	}
	return s.GetProfile(ctx, id)
}

// GetStats returns the stats of id; a user who never played gets zeros.
func (s *Service) GetStats(ctx context.Context, id uuid.UUID) (*postgres.UserStats, error) {
	var st postgres.UserStats
	err := s.db.WithContext(ctx).Where("user_id = ?", id).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &postgres.UserStats{UserID: id, PerGame: datatypes.JSON("{}")}, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

type GameResult struct {
	Game   string
	Won    bool
	Points int
}

// RecordGame adds a finished game to the user's stats. The stats row is
// locked for the read-modify-write so concurrent games don't lose updates.
func (s *Service) RecordGame(ctx context.Context, id uuid.UUID, r GameResult) (*postgres.UserStats, error) {
	r.Game = strings.TrimSpace(r.Game)
	if r.Game == "" {
		return nil, ErrInvalidGame
	}

	var st postgres.UserStats
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", id).First(&st).Error
		created := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !created {
			return err
		}
		if created {
			st = postgres.UserStats{UserID: id}
		}

		if err := st.Record(r.Game, r.Won, r.Points, s.now()); err != nil {
			return err
		}

		if created {
			return tx.Create(&st).Error
		}
		return tx.Save(&st).Error
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

type GrantInput struct {
	GrantedBy uuid.UUID
	GrantedTo uuid.UUID
	Reason    string
	ExpiresAt *time.Time
}

// GrantPro records an admin grant and turns pro on for the grantee in one
// transaction. A grant never shortens access the grantee already has.
func (s *Service) GrantPro(ctx context.Context, in GrantInput) (*postgres.ProGrant, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	now := s.now()
	if in.Reason == "" || utf8.RuneCountInString(in.Reason) > maxReason {
		return nil, ErrInvalidGrant
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return nil, ErrInvalidGrant
	}

	grant := postgres.ProGrant{
		GrantedTo: in.GrantedTo,
		Reason:    in.Reason,
		ExpiresAt: in.ExpiresAt,
	}
	if in.GrantedBy != uuid.Nil {
		by := in.GrantedBy
		grant.GrantedBy = &by
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.extendPro(tx, in.GrantedTo, in.ExpiresAt, "", now); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&grant).Error
	})
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

func (s *Service) ListGrants(ctx context.Context, limit int) ([]postgres.ProGrant, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	grants := []postgres.ProGrant{}
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&grants).Error
	return grants, err
}

// ActivatePro turns pro on after a purchase. A nil expiresAt is lifetime
// access.
func (s *Service) ActivatePro(ctx context.Context, userID uuid.UUID, expiresAt *time.Time, stripeCustomerID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.extendPro(tx, userID, expiresAt, stripeCustomerID, s.now())
	})
}

func (s *Service) extendPro(tx *gorm.DB, userID uuid.UUID, expiresAt *time.Time, customerID string, now time.Time) error {
	var p postgres.Profile
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProfileNotFound
	}
	if err != nil {
		return err
	}

	updates := map[string]any{
		"is_pro":         true,
		"pro_expires_at": laterExpiry(&p, expiresAt, now),
	}
	if customerID != "" {
		updates["stripe_customer_id"] = customerID
	}
	return tx.Model(&p).Updates(updates).Error
}

// laterExpiry picks whichever of the current and the new access lasts
// longer. nil means no expiry.
func laterExpiry(p *postgres.Profile, next *time.Time, now time.Time) *time.Time {
	if !p.HasActivePro(now) {
		return next
	}
	if p.ProExpiresAt == nil || next == nil {
		return nil
	}
	if next.After(*p.ProExpiresAt) {
		return next
	}
	return p.ProExpiresAt
}

func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.TrimSpace(local)
	if local == "" {
		return defaultName
	}
	if utf8.RuneCountInString(local) > maxDisplayName {
		local = string([]rune(local)[:maxDisplayName])
	}
	return local
}
