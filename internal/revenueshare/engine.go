package revenueshare

import (
	"errors"
	"sync"
	"time"

	"github.com/CrestwoodRealty/api-brokerage/internal/agent"
	"github.com/CrestwoodRealty/api-brokerage/internal/sponsorship"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Engine computes and persists the tiered revenue share fan-out of a
// transaction. Regeneration is all-or-nothing: the delete of prior shares
// and the insert of the recomputed set run inside one database transaction,
// so a persistence failure rolls the whole fan-out back and leaves the
// previous state untouched. A missing sponsor mid-chain is not a failure;
// that tier is skipped and logged.
type Engine struct {
	Shares *Repository
	Agents agent.Repository
	Walker *sponsorship.Walker
	Log    *logrus.Logger

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewEngine(shares *Repository, agents agent.Repository, log *logrus.Logger) *Engine {
	return &Engine{
		Shares: shares,
		Agents: agents,
		Walker: sponsorship.NewWalker(agents),
		Log:    log,
		locks:  make(map[uint]*sync.Mutex),
	}
}

// lockFor serializes regenerations of the same transaction id. Two
// concurrent delete-then-insert sequences for one transaction would
// otherwise race into duplicate or missing rows.
func (e *Engine) lockFor(transactionID uint) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[transactionID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[transactionID] = l
	}
	return l
}

// Regenerate drops every existing share of the transaction and recomputes
// the fan-out from its current company GCI, atomically.
func (e *Engine) Regenerate(db *gorm.DB, transactionID, sourceAgentID uint, companyGCI float64) error {
	l := e.lockFor(transactionID)
	l.Lock()
	defer l.Unlock()

	return db.Transaction(func(tx *gorm.DB) error {
		if err := e.Shares.WithDB(tx).DeleteByTransaction(transactionID); err != nil {
			return err
		}
		return e.process(tx, transactionID, sourceAgentID, companyGCI)
	})
}

// process assumes prior shares for the transaction are already gone.
func (e *Engine) process(tx *gorm.DB, transactionID, sourceAgentID uint, companyGCI float64) error {
	// Non-positive GCI yields zero shares, not an error.
	if companyGCI <= 0 {
		return nil
	}

	// Orphaned transaction: kept, but produces no shares.
	if _, err := e.Agents.FindByID(tx, sourceAgentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.Log.WithFields(logrus.Fields{
				"transactionId": transactionID,
				"agentId":       sourceAgentID,
			}).Warn("source agent missing, no revenue shares generated")
			return nil
		}
		return err
	}

	chain, err := e.Walker.UplineChain(tx, sourceAgentID, sponsorship.MaxTiers)
	if err != nil {
		return err
	}
	if len(chain) == 0 {
		// Root agent: nobody upline is owed anything.
		return nil
	}

	shares := e.Shares.WithDB(tx)
	gci := decimal.NewFromFloat(companyGCI)
	yearStart := StartOfYear(time.Now())

	for i, sponsorID := range chain {
		tier := i + 1

		sponsor, err := e.Agents.FindByID(tx, sponsorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Sponsor deleted out from under us; skip the tier.
				e.Log.WithFields(logrus.Fields{
					"transactionId": transactionID,
					"sponsorId":     sponsorID,
					"tier":          tier,
				}).Warn("sponsor missing, skipping tier")
				continue
			}
			return err
		}

		raw := gci.Mul(RateFor(sponsor.AgentType))

		alreadyPaid, err := shares.SumForPair(sponsor.ID, sourceAgentID, yearStart)
		if err != nil {
			return err
		}
		remaining := decimal.NewFromFloat(CapFor(sponsor.AgentType, sponsor.CapType)).
			Sub(decimal.NewFromFloat(alreadyPaid))
		if remaining.Sign() <= 0 {
			continue
		}

		amount := decimal.Min(raw, remaining)
		if amount.Sign() <= 0 {
			continue
		}

		rs := &RevenueShare{
			TransactionID:    transactionID,
			SourceAgentID:    sourceAgentID,
			RecipientAgentID: sponsor.ID,
			Tier:             tier,
			Amount:           amount.InexactFloat64(),
		}
		if err := shares.Create(rs); err != nil {
			return err
		}
	}
	return nil
}
