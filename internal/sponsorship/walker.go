package sponsorship

import (
	"errors"

	"gorm.io/gorm"
)

// MaxTiers bounds every upline walk. Revenue share never reaches past
// the fifth sponsor.
const MaxTiers = 5

// SponsorLookup answers "who sponsors agent X". A nil pointer means the
// agent is a root with no sponsor.
type SponsorLookup interface {
	SponsorOf(db *gorm.DB, agentID uint) (*uint, error)
}

// ChildrenLookup answers "who does agent X directly sponsor".
type ChildrenLookup interface {
	ChildrenOf(db *gorm.DB, sponsorID uint) ([]uint, error)
}

// Walker traverses the sponsorship forest through parent pointers.
type Walker struct {
	Lookup SponsorLookup
}

func NewWalker(lookup SponsorLookup) *Walker {
	return &Walker{Lookup: lookup}
}

// UplineChain returns the ordered sponsor ids of an agent, nearest first,
// excluding the agent itself. The walk stops at a root agent, a missing
// record, or maxDepth steps. The depth bound and the seen set make the
// walk terminate even if the graph accidentally contains a cycle.
func (w *Walker) UplineChain(db *gorm.DB, agentID uint, maxDepth int) ([]uint, error) {
	if maxDepth <= 0 || maxDepth > MaxTiers {
		maxDepth = MaxTiers
	}

	chain := make([]uint, 0, maxDepth)
	seen := map[uint]bool{agentID: true}
	current := agentID

	for i := 0; i < maxDepth; i++ {
		sponsorID, err := w.Lookup.SponsorOf(db, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		if sponsorID == nil || seen[*sponsorID] {
			break
		}
		chain = append(chain, *sponsorID)
		seen[*sponsorID] = true
		current = *sponsorID
	}
	return chain, nil
}

// DownlineIDs collects every agent id in the downline of root up to
// maxDepth levels, breadth-first, excluding root itself. Used by the
// dashboard surface, not by revenue share computation.
func DownlineIDs(db *gorm.DB, lookup ChildrenLookup, root uint, maxDepth int) ([]uint, error) {
	var out []uint
	seen := map[uint]bool{root: true}
	frontier := []uint{root}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []uint
		for _, id := range frontier {
			children, err := lookup.ChildrenOf(db, id)
			if err != nil {
				return nil, err
			}
			for _, c := range children {
				if seen[c] {
					continue
				}
				seen[c] = true
				out = append(out, c)
				next = append(next, c)
			}
		}
		frontier = next
	}
	return out, nil
}
