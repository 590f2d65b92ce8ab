package domain

// Timeframe is a supported lookback window for volume and price-change data.
type Timeframe string

const (
	TimeframeHour Timeframe = "1h"
	TimeframeDay  Timeframe = "24h"
	TimeframeWeek Timeframe = "7d"
)

// Timeframes lists every supported window, in ascending span order.
var Timeframes = []Timeframe{TimeframeHour, TimeframeDay, TimeframeWeek}

func ParseTimeframe(s string) (Timeframe, bool) {
	switch Timeframe(s) {
	case TimeframeHour, TimeframeDay, TimeframeWeek:
		return Timeframe(s), true
	}
	return "", false
}

// Metric is a rankable token attribute.
type Metric string

const (
	MetricVolume      Metric = "volume"
	MetricPriceChange Metric = "priceChange"
	MetricMarketCap   Metric = "marketCap"
)

// Metrics lists every rankable metric.
var Metrics = []Metric{MetricVolume, MetricPriceChange, MetricMarketCap}

func ParseMetric(s string) (Metric, bool) {
	switch Metric(s) {
	case MetricVolume, MetricPriceChange, MetricMarketCap:
		return Metric(s), true
	}
	return "", false
}

// SortDir is the requested ranking order.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

func ParseSortDir(s string) (SortDir, bool) {
	switch SortDir(s) {
	case SortAsc, SortDesc:
		return SortDir(s), true
	}
	return "", false
}

// TokenRecord is the canonical, reconciled view of one token after merging
// every provider's data for a refresh cycle. Pointer fields are nil when no
// provider reported the value; they are never fabricated as zero.
type TokenRecord struct {
	Address      string                 `json:"address"`
	Name         string                 `json:"name"`
	Symbol       string                 `json:"symbol"`
	Protocol     *string                `json:"protocol"`
	Price        float64                `json:"price"`
	PriceChange  map[Timeframe]*float64 `json:"priceChange"`
	Volume       map[Timeframe]*float64 `json:"volume"`
	Liquidity    *float64               `json:"liquidity"`
	MarketCap    *float64               `json:"marketCap"`
	Transactions *int64                 `json:"transactions"`
	SourceIDs    []string               `json:"sourceIds"`
	LastUpdated  int64                  `json:"lastUpdated"`
}

// Score returns the ranking score of the record for a metric and timeframe.
// Absent values score 0, so an unknown value ranks alongside a known zero.
func (t TokenRecord) Score(metric Metric, period Timeframe) float64 {
	switch metric {
	case MetricVolume:
		if v := t.Volume[period]; v != nil {
			return *v
		}
	case MetricPriceChange:
		if v := t.PriceChange[period]; v != nil {
			return *v
		}
	case MetricMarketCap:
		if t.MarketCap != nil {
			return *t.MarketCap
		}
	}
	return 0
}

// ListQuery describes one ranked, paginated read.
type ListQuery struct {
	SortBy  Metric
	SortDir SortDir
	Period  Timeframe
	Limit   int
	Cursor  string
}

// ListResult is one page of ranked records. NextCursor is empty on the last
// page.
type ListResult struct {
	Items      []TokenRecord `json:"items"`
	NextCursor string        `json:"nextCursor,omitempty"`
}
