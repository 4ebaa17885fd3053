package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ErrCognitionProfileNotFound is returned when no profile row exists.
var ErrCognitionProfileNotFound = errors.New("cognition profile not found")

// CognitionProfile holds the decimal fields the cognition rules evaluate.
// Nil fields are unknown; rules over unknown fields evaluate false.
type CognitionProfile struct {
	RunwayMonths        *decimal.Decimal `json:"runway_months,omitempty"`
	MonthlyBurn         *decimal.Decimal `json:"monthly_burn,omitempty"`
	RevenueGrowthPct    *decimal.Decimal `json:"revenue_growth_pct,omitempty"`
	ChurnRatePct        *decimal.Decimal `json:"churn_rate_pct,omitempty"`
	GrossMarginPct      *decimal.Decimal `json:"gross_margin_pct,omitempty"`
	CACPaybackMonths    *decimal.Decimal `json:"cac_payback_months,omitempty"`
	FounderHoursPerWeek *decimal.Decimal `json:"founder_hours_per_week,omitempty"`
	Headcount           *decimal.Decimal `json:"headcount,omitempty"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// UpsertCognitionProfile stores the decimal profile for a user.
func (db *DB) UpsertCognitionProfile(ctx context.Context, userID string, p *CognitionProfile) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO cognition_profiles (
			user_id,
			runway_months,
			monthly_burn,
			revenue_growth_pct,
			churn_rate_pct,
			gross_margin_pct,
			cac_payback_months,
			founder_hours_per_week,
			headcount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			runway_months = EXCLUDED.runway_months,
			monthly_burn = EXCLUDED.monthly_burn,
			revenue_growth_pct = EXCLUDED.revenue_growth_pct,
			churn_rate_pct = EXCLUDED.churn_rate_pct,
			gross_margin_pct = EXCLUDED.gross_margin_pct,
			cac_payback_months = EXCLUDED.cac_payback_months,
			founder_hours_per_week = EXCLUDED.founder_hours_per_week,
			headcount = EXCLUDED.headcount,
			updated_at = now()
	`, toUUID(userID),
		toNumericPtr(p.RunwayMonths), toNumericPtr(p.MonthlyBurn),
		toNumericPtr(p.RevenueGrowthPct), toNumericPtr(p.ChurnRatePct),
		toNumericPtr(p.GrossMarginPct), toNumericPtr(p.CACPaybackMonths),
		toNumericPtr(p.FounderHoursPerWeek), toNumericPtr(p.Headcount))
	if err != nil {
		return fmt.Errorf("upsert cognition profile: %w", err)
	}

	return nil
}

// GetCognitionProfile loads the decimal profile for a user.
func (db *DB) GetCognitionProfile(ctx context.Context, userID string) (*CognitionProfile, error) {
	var (
		runway    pgtype.Numeric
		burn      pgtype.Numeric
		growth    pgtype.Numeric
		churn     pgtype.Numeric
		margin    pgtype.Numeric
		payback   pgtype.Numeric
		hours     pgtype.Numeric
		headcount pgtype.Numeric
		updated   pgtype.Timestamptz
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT runway_months,
		       monthly_burn,
		       revenue_growth_pct,
		       churn_rate_pct,
		       gross_margin_pct,
		       cac_payback_months,
		       founder_hours_per_week,
		       headcount,
		       updated_at
		FROM cognition_profiles
		WHERE user_id = $1
	`, toUUID(userID)).Scan(&runway, &burn, &growth, &churn, &margin, &payback, &hours, &headcount, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCognitionProfileNotFound
		}

		return nil, fmt.Errorf("get cognition profile: %w", err)
	}

	return &CognitionProfile{
		RunwayMonths:        fromNumericPtr(runway),
		MonthlyBurn:         fromNumericPtr(burn),
		RevenueGrowthPct:    fromNumericPtr(growth),
		ChurnRatePct:        fromNumericPtr(churn),
		GrossMarginPct:      fromNumericPtr(margin),
		CACPaybackMonths:    fromNumericPtr(payback),
		FounderHoursPerWeek: fromNumericPtr(hours),
		Headcount:           fromNumericPtr(headcount),
		UpdatedAt:           fromTimestamptz(updated),
	}, nil
}

// DeleteCognitionProfile removes the profile row.
func (db *DB) DeleteCognitionProfile(ctx context.Context, userID string) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM cognition_profiles
		WHERE user_id = $1
	`, toUUID(userID))
	if err != nil {
		return fmt.Errorf("delete cognition profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrCognitionProfileNotFound
	}

	return nil
}

func toNumericPtr(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{Valid: false}
	}

	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumericPtr(n pgtype.Numeric) *decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return nil
	}

	d := decimal.NewFromBigInt(n.Int, n.Exp)

	return &d
}
