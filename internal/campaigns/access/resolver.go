package access

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
)

// campaignScoped is implemented by models filtered through a campaign FK.
type campaignScoped interface {
	CampaignIDColumn() string
}

// Result is the resolved visibility for a principal. When Restricted is
// false the principal sees every campaign in their team.
type Result struct {
	Restricted  bool
	CampaignIDs []uuid.UUID
	TeamID      uuid.UUID
}

// Resolver runs the policy chain. The first policy that applies wins;
// principals no policy claims get full team visibility.
type Resolver struct {
	policies []Policy
}

// NewResolver builds the default policy chain.
func NewResolver() *Resolver {
	return &Resolver{
		policies: []Policy{
			rosterMemberPolicy{},
			guestBrandPolicy{},
		},
	}
}

// NewResolverWithPolicies builds a resolver with a custom chain, first match wins.
func NewResolverWithPolicies(policies ...Policy) *Resolver {
	return &Resolver{policies: policies}
}

// Resolve computes the campaign visibility for the principal.
func (r *Resolver) Resolve(ctx context.Context, tx *gorm.DB, principal Principal) (*Result, error) {
	for _, policy := range r.policies {
		ids, applies, err := policy.Resolve(ctx, tx, principal)
		if err != nil {
			return nil, err
		}
		if applies {
			return &Result{
				Restricted:  true,
				CampaignIDs: ids,
				TeamID:      principal.TeamID,
			}, nil
		}
	}
	return &Result{Restricted: false, TeamID: principal.TeamID}, nil
}

// Scope returns a GORM scope enforcing the result against the queried model.
// Campaign rows filter on their primary key; campaign-scoped models filter on
// their campaign FK. A restricted principal querying a model the resolver
// does not understand sees nothing rather than everything.
func (res *Result) Scope(model any) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("team_id = ?", res.TeamID)
		if !res.Restricted {
			return db
		}
		if len(res.CampaignIDs) == 0 {
			return db.Where("1 = 0")
		}
		switch m := model.(type) {
		case *models.Campaign, models.Campaign:
			return db.Where("id IN ?", res.CampaignIDs)
		case campaignScoped:
			return db.Where(m.CampaignIDColumn()+" IN ?", res.CampaignIDs)
		default:
			return db.Where("1 = 0")
		}
	}
}
