package revenueshare_test

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/CrestwoodRealty/api-brokerage/internal/agent"
	"github.com/CrestwoodRealty/api-brokerage/internal/revenueshare"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Named shared-memory database: one fresh DB per test, stable across
	// the pooled connections gorm opens.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, agent.Migrate(db))
	require.NoError(t, revenueshare.Migrate(db))
	return db
}

func newEngine(db *gorm.DB) *revenueshare.Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return revenueshare.NewEngine(revenueshare.NewRepository(db), agent.NewRepository(), log)
}

func mustCreateAgent(t *testing.T, db *gorm.DB, agentType agent.AgentType, capType *agent.CapType, sponsorID *uint) *agent.Agent {
	t.Helper()
	a := &agent.Agent{
		FirstName: "Test",
		LastName:  "Agent",
		Email:     uniqueEmail(t),
		AgentType: agentType,
		CapType:   capType,
		SponsorID: sponsorID,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

var emailSeq int

func uniqueEmail(t *testing.T) string {
	t.Helper()
	emailSeq++
	return fmt.Sprintf("agent%d@crestwood.test", emailSeq)
}

func capPtr(c agent.CapType) *agent.CapType { return &c }

func sharesFor(t *testing.T, db *gorm.DB, transactionID uint) []revenueshare.RevenueShare {
	t.Helper()
	list, err := revenueshare.NewRepository(db).ListByTransaction(transactionID)
	require.NoError(t, err)
	return list
}

func TestThreeTierChain(t *testing.T) {
	db := setupDB(t)
	e := newEngine(db)

	// A (principal) sponsors B (principal, standard); B sponsors C (support).
	a := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), nil)
	b := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), &a.ID)
	c := mustCreateAgent(t, db, agent.TypeSupport, nil, &b.ID)

	require.NoError(t, e.Regenerate(db, 1, c.ID, 10000))

	shares := sharesFor(t, db, 1)
	require.Len(t, shares, 2)

	assert.Equal(t, b.ID, shares[0].RecipientAgentID)
	assert.Equal(t, 1, shares[0].Tier)
	assert.Equal(t, 1250.0, shares[0].Amount)
	assert.Equal(t, c.ID, shares[0].SourceAgentID)

	assert.Equal(t, a.ID, shares[1].RecipientAgentID)
	assert.Equal(t, 2, shares[1].Tier)
	assert.Equal(t, 1250.0, shares[1].Amount)
}

func TestSupportSponsorRate(t *testing.T) {
	db := setupDB(t)
	e := newEngine(db)

	sponsor := mustCreateAgent(t, db, agent.TypeSupport, nil, nil)
	src := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), &sponsor.ID)

	require.NoError(t, e.Regenerate(db, 1, src.ID, 10000))

	shares := sharesFor(t, db, 1)
	require.Len(t, shares, 1)
	assert.Equal(t, 200.0, shares[0].Amount)
}

func TestRootAgentProducesNoShares(t *testing.T) {
	db := setupDB(t)
	e := newEngine(db)

	root := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), nil)

	require.NoError(t, e.Regenerate(db, 1, root.ID, 10000))
	assert.Empty(t, sharesFor(t, db, 1))
}

func TestMissingSourceAgentIsNoop(t *testing.T) {
	db := setupDB(t)
	e := newEngine(db)

	require.NoError(t, e.Regenerate(db, 1, 9999, 10000))
	assert.Empty(t, sharesFor(t, db, 1))
}

func TestNonPositiveGCIProducesNoShares(t *testing.T) {
	db := setupDB(t)
	e := newEngine(db)

	sponsor := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), nil)
	src := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), &sponsor.ID)

	require.NoError(t, e.Regenerate(db, 1, src.ID, 0))
	require.NoError(t, e.Regenerate(db, 2, src.ID, -500))
	assert.Empty(t, sharesFor(t, db, 1))
	assert.Empty(t, sharesFor(t, db, 2))
}

func TestCapExhaustionClampsPayout(t *testing.T) {
	db := setupDB(t)
	e := newEngine(db)

	sponsor := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), nil)
	src := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), &sponsor.ID)

	// 1900 already paid this year for this (recipient, source) pair.
	require.NoError(t, db.Create(&revenueshare.RevenueShare{
		TransactionID:    999,
		SourceAgentID:    src.ID,
		RecipientAgentID: sponsor.ID,
		Tier:             1,
		Amount:           1900,
	}).Error)

	// Raw share would be 2400 * 0.125 = 300; only 100 remains under the cap.
	require.NoError(t, e.Regenerate(db, 1, src.ID, 2400))

	shares := sharesFor(t, db, 1)
	require.Len(t, shares, 1)
	assert.Equal(t, 100.0, shares[0].Amount)
}

func TestCapFullyExhaustedSkipsRow(t *testing.T) {
	db := setupDB(t)
	e := newEngine(db)

	sponsor := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapTeam), nil)
	src := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), &sponsor.ID)

	require.NoError(t, db.Create(&revenueshare.RevenueShare{
		TransactionID:    999,
		SourceAgentID:    src.ID,
		RecipientAgentID: sponsor.ID,
		Tier:             1,
		Amount:           1000, // team cap already reached
	}).Error)

	require.NoError(t, e.Regenerate(db, 1, src.ID, 10000))
	assert.Empty(t, sharesFor(t, db, 1))
}

func TestAnnualCapNeverExceeded(t *testing.T) {
	db := setupDB(t)
	e := newEngine(db)

	sponsor := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), nil)
	src := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), &sponsor.ID)

	// Each transaction would pay 750 raw; the third and fourth must clamp.
	for txn := uint(1); txn <= 4; txn++ {
		require.NoError(t, e.Regenerate(db, txn, src.ID, 6000))
	}

	repo := revenueshare.NewRepository(db)
	total, err := repo.SumForPair(sponsor.ID, src.ID, revenueshare.StartOfYear(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 2000.0, total)
}

func TestRegenerationIsIdempotent(t *testing.T) {
	db := setupDB(t)
	e := newEngine(db)

	a := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), nil)
	b := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), &a.ID)
	src := mustCreateAgent(t, db, agent.TypeSupport, nil, &b.ID)

	require.NoError(t, e.Regenerate(db, 1, src.ID, 8000))
	first := sharesFor(t, db, 1)

	require.NoError(t, e.Regenerate(db, 1, src.ID, 8000))
	second := sharesFor(t, db, 1)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].RecipientAgentID, second[i].RecipientAgentID)
		assert.Equal(t, first[i].Tier, second[i].Tier)
		assert.Equal(t, first[i].Amount, second[i].Amount)
	}
}

func TestGCIChangeReplacesShares(t *testing.T) {
	db := setupDB(t)
	e := newEngine(db)

	a := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), nil)
	b := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), &a.ID)
	src := mustCreateAgent(t, db, agent.TypeSupport, nil, &b.ID)

	require.NoError(t, e.Regenerate(db, 1, src.ID, 10000))
	before := sharesFor(t, db, 1)
	require.Len(t, before, 2)
	assert.Equal(t, 1250.0, before[0].Amount)

	require.NoError(t, e.Regenerate(db, 1, src.ID, 12000))
	after := sharesFor(t, db, 1)
	require.Len(t, after, 2)
	for _, rs := range after {
		assert.Equal(t, 1500.0, rs.Amount)
	}
}

func TestChainDeeperThanFiveTiersStopsAtFive(t *testing.T) {
	db := setupDB(t)
	e := newEngine(db)

	// Seven-agent chain; only five ancestors of the source get paid.
	var prev *uint
	ids := make([]uint, 0, 7)
	for i := 0; i < 7; i++ {
		ag := mustCreateAgent(t, db, agent.TypePrincipal, capPtr(agent.CapStandard), prev)
		ids = append(ids, ag.ID)
		prev = &ids[len(ids)-1]
	}
	src := ids[len(ids)-1]

	require.NoError(t, e.Regenerate(db, 1, src, 8000))
	shares := sharesFor(t, db, 1)
	require.Len(t, shares, 5)
	assert.Equal(t, 5, shares[len(shares)-1].Tier)
}
