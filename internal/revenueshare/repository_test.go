package revenueshare_test

import (
	"testing"
	"time"

	"github.com/CrestwoodRealty/api-brokerage/internal/revenueshare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumForPairBucketsByCalendarYear(t *testing.T) {
	db := setupDB(t)
	repo := revenueshare.NewRepository(db)

	now := time.Now()
	lastYear := now.AddDate(-1, 0, 0)

	// Last year's payout must not count against this year's cap.
	require.NoError(t, db.Create(&revenueshare.RevenueShare{
		TransactionID: 1, SourceAgentID: 10, RecipientAgentID: 20,
		Tier: 1, Amount: 1800, CreatedAt: lastYear,
	}).Error)
	require.NoError(t, db.Create(&revenueshare.RevenueShare{
		TransactionID: 2, SourceAgentID: 10, RecipientAgentID: 20,
		Tier: 1, Amount: 300, CreatedAt: now,
	}).Error)
	// Different source agent: separate relationship, separate ledger.
	require.NoError(t, db.Create(&revenueshare.RevenueShare{
		TransactionID: 3, SourceAgentID: 11, RecipientAgentID: 20,
		Tier: 1, Amount: 500, CreatedAt: now,
	}).Error)

	total, err := repo.SumForPair(20, 10, revenueshare.StartOfYear(now))
	require.NoError(t, err)
	assert.Equal(t, 300.0, total)

	allTime, err := repo.SumForPair(20, 10, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2100.0, allTime)
}

func TestSumForPairEmptyIsZero(t *testing.T) {
	db := setupDB(t)
	repo := revenueshare.NewRepository(db)

	total, err := repo.SumForPair(1, 2, revenueshare.StartOfYear(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestDeleteByTransactionLeavesOthersAlone(t *testing.T) {
	db := setupDB(t)
	repo := revenueshare.NewRepository(db)

	require.NoError(t, db.Create(&revenueshare.RevenueShare{
		TransactionID: 1, SourceAgentID: 10, RecipientAgentID: 20, Tier: 1, Amount: 100,
	}).Error)
	require.NoError(t, db.Create(&revenueshare.RevenueShare{
		TransactionID: 2, SourceAgentID: 10, RecipientAgentID: 20, Tier: 1, Amount: 200,
	}).Error)

	require.NoError(t, repo.DeleteByTransaction(1))

	gone, err := repo.ListByTransaction(1)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := repo.ListByTransaction(2)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, 200.0, kept[0].Amount)
}

func TestTotalReceivedSince(t *testing.T) {
	db := setupDB(t)
	repo := revenueshare.NewRepository(db)

	now := time.Now()
	require.NoError(t, db.Create(&revenueshare.RevenueShare{
		TransactionID: 1, SourceAgentID: 10, RecipientAgentID: 20,
		Tier: 1, Amount: 250, CreatedAt: now.AddDate(-2, 0, 0),
	}).Error)
	require.NoError(t, db.Create(&revenueshare.RevenueShare{
		TransactionID: 2, SourceAgentID: 11, RecipientAgentID: 20,
		Tier: 2, Amount: 400, CreatedAt: now,
	}).Error)

	ytd, err := repo.TotalReceivedSince(20, revenueshare.StartOfYear(now))
	require.NoError(t, err)
	assert.Equal(t, 400.0, ytd)

	all, err := repo.TotalReceived(20)
	require.NoError(t, err)
	assert.Equal(t, 650.0, all)
}
