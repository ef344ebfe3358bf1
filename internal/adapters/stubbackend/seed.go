package stubbackend

import (
	"github.com/Overland-East-Bay/front-desk/internal/adapters/memory/backend"
	"github.com/Overland-East-Bay/front-desk/internal/domain"
)

// DemoMembers is the roster a local stub backend starts with.
// It covers every billing case the check-in gate distinguishes.
func DemoMembers() []domain.MemberIdentity {
	return []domain.MemberIdentity{
		{ID: 1, FirstName: "Ana", LastName: "Lima", CheckInCode: "4821", Phone: "+55 11 90000-0001", LatestBillingStatus: domain.NewBillingStatus("paid")},
		{ID: 2, FirstName: "Anabel", LastName: "Costa", CheckInCode: "1007", Phone: "+55 11 90000-0002", LatestBillingStatus: domain.NewBillingStatus("overdue")},
		{ID: 3, FirstName: "Mariana", LastName: "Souza", CheckInCode: "3300", Phone: "+55 11 90000-0003", LatestBillingStatus: domain.NewBillingStatus("pending")},
		{ID: 4, FirstName: "Bruno", LastName: "Alves", CheckInCode: "0042", Phone: "+55 11 90000-0004", LatestBillingStatus: domain.NewBillingStatus("PAID")},
		{ID: 5, FirstName: "Carla", LastName: "Dias", CheckInCode: "5150", Phone: "+55 11 90000-0005"},
	}
}

// Seed loads DemoMembers into b for centerID.
func Seed(b *backend.Backend, centerID domain.FitnessCenterID) error {
	for _, m := range DemoMembers() {
		if err := b.AddMember(centerID, m); err != nil {
			return err
		}
	}
	return nil
}
