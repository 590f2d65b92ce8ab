package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/domain"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/provider/dexscreener"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/provider/jupiter"
)

var mergeInstant = time.UnixMilli(1_700_000_000_000)

func f64(v float64) *float64 { return &v }

func dexPair(address, symbol string) dexscreener.Pair {
	return dexscreener.Pair{
		Address:   address,
		BaseToken: dexscreener.BaseToken{Name: symbol + " Token", Symbol: symbol},
	}
}

func jupToken(address, symbol string) jupiter.Token {
	return jupiter.Token{
		Address: address,
		Name:    symbol + " Token",
		Symbol:  symbol,
	}
}

func TestMergeSeedsFromDexScreener(t *testing.T) {
	pair := dexPair("X", "FOO")
	pair.PriceUsd = "1.50"
	pair.Volume = &dexscreener.Volume{H24: f64(1000)}

	merged := Merge([]dexscreener.Pair{pair}, nil, mergeInstant)

	require.Contains(t, merged, "X")
	record := merged["X"]
	assert.Equal(t, 1.50, record.Price)
	require.NotNil(t, record.Volume[domain.TimeframeDay])
	assert.Equal(t, 1000.0, *record.Volume[domain.TimeframeDay])
	assert.Nil(t, record.Volume[domain.TimeframeHour])
	assert.Nil(t, record.Volume[domain.TimeframeWeek], "DexScreener never reports 7d slots")
	assert.Nil(t, record.PriceChange[domain.TimeframeWeek])
}

func TestMergeJupiterPriceOverrides(t *testing.T) {
	pair := dexPair("X", "FOO")
	pair.PriceUsd = "1.50"
	pair.Volume = &dexscreener.Volume{H24: f64(1000)}

	token := jupToken("X", "FOO")
	token.Info.PriceInfo = &jupiter.PriceInfo{PricePerToken: f64(1.55)}

	merged := Merge([]dexscreener.Pair{pair}, []jupiter.Token{token}, mergeInstant)

	record := merged["X"]
	assert.Equal(t, 1.55, record.Price, "Jupiter price overrides when present")
	require.NotNil(t, record.Volume[domain.TimeframeDay])
	assert.Equal(t, 1000.0, *record.Volume[domain.TimeframeDay], "volume untouched by a price-only overlay")
}

func TestMergeJupiterPriceFallsBackWhenAbsent(t *testing.T) {
	pair := dexPair("X", "FOO")
	pair.PriceUsd = "1.50"

	merged := Merge([]dexscreener.Pair{pair}, []jupiter.Token{jupToken("X", "FOO")}, mergeInstant)
	assert.Equal(t, 1.50, merged["X"].Price)

	merged = Merge(nil, []jupiter.Token{jupToken("Y", "BAR")}, mergeInstant)
	assert.Equal(t, 0.0, merged["Y"].Price, "price defaults to 0 when neither provider reports it")
}

func TestMergeNonPriceFieldsPreferExisting(t *testing.T) {
	pair := dexPair("X", "FOO")
	pair.PriceChange = &dexscreener.PriceChange{H24: "5"}
	pair.FDV = f64(100000)
	pair.Volume = &dexscreener.Volume{H24: f64(1000)}

	token := jupToken("X", "FOO")
	token.Info.PriceInfo = &jupiter.PriceInfo{
		PriceChange: &jupiter.PriceChange{Hour: f64(3), Day: f64(9), Week: f64(12)},
	}
	token.Info.MarketCap = f64(999999)
	token.Info.DailyVolume = f64(2000)

	merged := Merge([]dexscreener.Pair{pair}, []jupiter.Token{token}, mergeInstant)
	record := merged["X"]

	// DexScreener reported these, so Jupiter's values are ignored.
	assert.Equal(t, 5.0, *record.PriceChange[domain.TimeframeDay])
	assert.Equal(t, 100000.0, *record.MarketCap)
	assert.Equal(t, 1000.0, *record.Volume[domain.TimeframeDay])

	// DexScreener left these empty, so Jupiter fills the gaps.
	assert.Equal(t, 3.0, *record.PriceChange[domain.TimeframeHour])
	assert.Equal(t, 12.0, *record.PriceChange[domain.TimeframeWeek])
}

func TestMergeSourceIDsUnion(t *testing.T) {
	pair := dexPair("X", "FOO")
	pair.DexID = "raydium"

	merged := Merge([]dexscreener.Pair{pair}, []jupiter.Token{jupToken("X", "FOO")}, mergeInstant)
	assert.Equal(t, []string{"raydium", "jupiter"}, merged["X"].SourceIDs)

	merged = Merge(nil, []jupiter.Token{jupToken("Y", "BAR"), jupToken("Y", "BAR")}, mergeInstant)
	assert.Equal(t, []string{"jupiter"}, merged["Y"].SourceIDs, "duplicate overlays must not duplicate source ids")
}

func TestMergeSkipsPairsWithoutSymbol(t *testing.T) {
	pair := dexscreener.Pair{Address: "X", PriceUsd: "2.0"}

	merged := Merge([]dexscreener.Pair{pair}, nil, mergeInstant)
	assert.Empty(t, merged)
}

func TestMergeAddressFallsBackToSymbol(t *testing.T) {
	pair := dexPair("", "FOO")

	merged := Merge([]dexscreener.Pair{pair}, nil, mergeInstant)
	require.Contains(t, merged, "FOO")
	assert.Equal(t, "FOO", merged["FOO"].Address)
}

func TestMergeMalformedNumericStringsAreAbsent(t *testing.T) {
	pair := dexPair("X", "FOO")
	pair.PriceUsd = "not-a-number"
	pair.PriceChange = &dexscreener.PriceChange{H1: ""}

	merged := Merge([]dexscreener.Pair{pair}, nil, mergeInstant)
	record := merged["X"]
	assert.Equal(t, 0.0, record.Price)
	assert.Nil(t, record.PriceChange[domain.TimeframeHour])
}

func TestMergeTimestamps(t *testing.T) {
	seeded := dexPair("A", "AAA")
	seeded.PairCreatedAt = 1_600_000_000_000
	touched := dexPair("B", "BBB")
	touched.PairCreatedAt = 1_600_000_000_000

	merged := Merge(
		[]dexscreener.Pair{seeded, touched},
		[]jupiter.Token{jupToken("B", "BBB")},
		mergeInstant,
	)

	assert.Equal(t, int64(1_600_000_000_000), merged["A"].LastUpdated, "untouched records keep the provider timestamp")
	assert.Equal(t, mergeInstant.UnixMilli(), merged["B"].LastUpdated, "overlaid records carry the merge instant")
}

func TestMergeTransactionCount(t *testing.T) {
	pair := dexPair("X", "FOO")
	pair.Txns = &dexscreener.Txns{H1: &dexscreener.TxnWindow{Buys: 7, Sells: 5}}

	merged := Merge([]dexscreener.Pair{pair}, nil, mergeInstant)
	require.NotNil(t, merged["X"].Transactions)
	assert.Equal(t, int64(12), *merged["X"].Transactions)
}

func TestMergeDeterministic(t *testing.T) {
	pairs := []dexscreener.Pair{dexPair("A", "AAA"), dexPair("B", "BBB"), dexPair("C", "CCC")}
	tokens := []jupiter.Token{jupToken("B", "BBB"), jupToken("D", "DDD")}

	first := Merge(pairs, tokens, mergeInstant)

	reversedPairs := []dexscreener.Pair{pairs[2], pairs[1], pairs[0]}
	reversedTokens := []jupiter.Token{tokens[1], tokens[0]}
	second := Merge(reversedPairs, reversedTokens, mergeInstant)

	assert.Equal(t, first, second)
}
