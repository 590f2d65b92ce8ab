package aggregator

import (
	"slices"
	"strconv"
	"time"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/domain"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/provider/dexscreener"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/provider/jupiter"
)

// Merge reconciles one refresh cycle's raw provider results into canonical
// records keyed by address.
//
// DexScreener seeds the map and is authoritative for every field it reports.
// Jupiter fills gaps only, with one exception: its price, when present,
// overrides DexScreener's.
//
// Same inputs and instant always produce the same map.
func Merge(pairs []dexscreener.Pair, tokens []jupiter.Token, now time.Time) map[string]domain.TokenRecord {
	merged := make(map[string]domain.TokenRecord, len(pairs)+len(tokens))

	for _, pair := range pairs {
		if pair.BaseToken.Symbol == "" {
			continue
		}

		address := pair.Address
		if address == "" {
			address = pair.BaseToken.Symbol
		}

		record := domain.TokenRecord{
			Address: address,
			Name:    pair.BaseToken.Name,
			Symbol:  pair.BaseToken.Symbol,
			Price:   0,
			PriceChange: map[domain.Timeframe]*float64{
				domain.TimeframeHour: nil,
				domain.TimeframeDay:  nil,
				domain.TimeframeWeek: nil,
			},
			Volume: map[domain.Timeframe]*float64{
				domain.TimeframeHour: nil,
				domain.TimeframeDay:  nil,
				domain.TimeframeWeek: nil,
			},
			SourceIDs:   []string{},
			LastUpdated: now.UnixMilli(),
		}

		if price := parseNumeric(pair.PriceUsd); price != nil {
			record.Price = *price
		}
		if pair.PriceChange != nil {
			record.PriceChange[domain.TimeframeHour] = parseNumeric(pair.PriceChange.H1)
			record.PriceChange[domain.TimeframeDay] = parseNumeric(pair.PriceChange.H24)
		}
		if pair.Volume != nil {
			record.Volume[domain.TimeframeHour] = pair.Volume.H1
			record.Volume[domain.TimeframeDay] = pair.Volume.H24
		}
		if pair.Liquidity != nil {
			record.Liquidity = pair.Liquidity.USD
		}
		record.MarketCap = pair.FDV
		if pair.Txns != nil && pair.Txns.H1 != nil {
			total := pair.Txns.H1.Buys + pair.Txns.H1.Sells
			record.Transactions = &total
		}
		if pair.DexID != "" {
			dexID := pair.DexID
			record.Protocol = &dexID
			record.SourceIDs = []string{dexID}
		}
		if pair.PairCreatedAt != 0 {
			record.LastUpdated = pair.PairCreatedAt
		}

		merged[address] = record
	}

	for _, token := range tokens {
		record, ok := merged[token.Address]
		if !ok {
			record = domain.TokenRecord{
				Address: token.Address,
				PriceChange: map[domain.Timeframe]*float64{
					domain.TimeframeHour: nil,
					domain.TimeframeDay:  nil,
					domain.TimeframeWeek: nil,
				},
				Volume: map[domain.Timeframe]*float64{
					domain.TimeframeHour: nil,
					domain.TimeframeDay:  nil,
					domain.TimeframeWeek: nil,
				},
				SourceIDs: []string{},
			}
		}

		if record.Name == "" {
			record.Name = token.Name
		}
		if record.Symbol == "" {
			record.Symbol = token.Symbol
		}

		info := token.Info
		if info.PriceInfo != nil && info.PriceInfo.PricePerToken != nil {
			record.Price = *info.PriceInfo.PricePerToken
		}
		if info.PriceInfo != nil && info.PriceInfo.PriceChange != nil {
			change := info.PriceInfo.PriceChange
			record.PriceChange[domain.TimeframeHour] = fallback(record.PriceChange[domain.TimeframeHour], change.Hour)
			record.PriceChange[domain.TimeframeDay] = fallback(record.PriceChange[domain.TimeframeDay], change.Day)
			record.PriceChange[domain.TimeframeWeek] = fallback(record.PriceChange[domain.TimeframeWeek], change.Week)
		}
		record.Volume[domain.TimeframeDay] = fallback(record.Volume[domain.TimeframeDay], info.DailyVolume)
		record.MarketCap = fallback(record.MarketCap, info.MarketCap)

		if !slices.Contains(record.SourceIDs, jupiter.SourceID) {
			record.SourceIDs = append(record.SourceIDs, jupiter.SourceID)
		}
		record.LastUpdated = now.UnixMilli()

		merged[token.Address] = record
	}

	return merged
}

// fallback keeps the already-merged value and only fills a gap.
func fallback(existing, incoming *float64) *float64 {
	if existing != nil {
		return existing
	}
	return incoming
}

// parseNumeric converts a provider's string-typed number. Empty or malformed
// strings count as absent.
func parseNumeric(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
