package core

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
)

var rankingStart = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func rankedBid(bidder string, amount float64, offset time.Duration) BidRecord {
	return NewBidRecord(1, bidder, Money(amount), rankingStart.Add(offset))
}

func TestRankItemBids_Integration(t *testing.T) {
	bids := []BidRecord{
		rankedBid("bidder_a", 60, 0),
		rankedBid("bidder_b", 70, time.Second),
		rankedBid("bidder_c", 80, 2*time.Second),
	}

	ranking := RankItemBids(bids)

	check.Equal(t, 3, len(ranking.SortedBidders))
	check.Equal(t, "bidder_c", ranking.SortedBidders[0]) // Highest (80)
	check.Equal(t, "bidder_b", ranking.SortedBidders[1]) // Middle (70)
	check.Equal(t, "bidder_a", ranking.SortedBidders[2]) // Lowest (60)

	check.Equal(t, 1, ranking.Ranks["bidder_c"])
	check.Equal(t, 3, ranking.Ranks["bidder_a"])
	check.True(t, ranking.HighestBids["bidder_b"].Amount.Equal(Money(70)))
}

func TestRankItemBids_SingleBid(t *testing.T) {
	ranking := RankItemBids([]BidRecord{rankedBid("bidder_a", 20, 0)})

	check.Equal(t, 1, len(ranking.SortedBidders))
	check.Equal(t, "bidder_a", ranking.SortedBidders[0])
}

func TestRankItemBids_EmptyBids(t *testing.T) {
	ranking := RankItemBids([]BidRecord{})

	check.NotNil(t, ranking)
	check.Equal(t, 0, len(ranking.SortedBidders))
	check.Equal(t, 0, len(ranking.HighestBids))
	check.Equal(t, 0, len(ranking.Ranks))
}

func TestRankItemBids_HighestBidPerBidder(t *testing.T) {
	bids := []BidRecord{
		rankedBid("bidder_a", 51, 0),
		rankedBid("bidder_b", 55, time.Second),
		rankedBid("bidder_a", 60, 2*time.Second),
		rankedBid("bidder_b", 65, 3*time.Second),
	}

	ranking := RankItemBids(bids)

	check.Equal(t, []string{"bidder_b", "bidder_a"}, ranking.SortedBidders)
	check.True(t, ranking.HighestBids["bidder_a"].Amount.Equal(Money(60)))
	check.True(t, ranking.HighestBids["bidder_b"].Amount.Equal(Money(65)))
}

func TestRankItemBids_TieGoesToEarlierBid(t *testing.T) {
	bids := []BidRecord{
		rankedBid("bidder_late", 40, 5*time.Second),
		rankedBid("bidder_early", 40, time.Second),
	}

	ranking := RankItemBids(bids)

	check.Equal(t, "bidder_early", ranking.SortedBidders[0])
	check.Equal(t, "bidder_late", ranking.SortedBidders[1])
}

func TestRankItemBids_PreservesInput(t *testing.T) {
	bids := []BidRecord{
		rankedBid("bidder_a", 10, 0),
		rankedBid("bidder_b", 30, time.Second),
	}

	RankItemBids(bids)

	check.Equal(t, "bidder_a", bids[0].Bidder)
	check.Equal(t, "bidder_b", bids[1].Bidder)
}
