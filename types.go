package carteira

import (
	"fmt"
	"strings"
)

// Market is the kind of asset a ticker belongs to.
type Market int

const (
	Stock Market = iota
	ETF
	FII // real estate investment fund
	BDR // brazilian depositary receipt
	FixedIncome
	Treasury // Tesouro Direto
	Custody  // custody and account fees, no tradable asset
)

var marketNames = []string{"stock", "etf", "fii", "bdr", "fixed-income", "treasury", "custody"}

func (m Market) String() string {
	if m < 0 || int(m) >= len(marketNames) {
		return fmt.Sprintf("Market(%d)", int(m))
	}
	return marketNames[m]
}

// ParseMarket parses a market name, case insensitive.
func ParseMarket(s string) (Market, error) {
	i, err := parseEnum("market", marketNames, s)
	return Market(i), err
}

func (m Market) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Market) UnmarshalText(text []byte) (err error) {
	*m, err = ParseMarket(string(text))
	return err
}

// Operation is the kind of ledger event.
type Operation int

const (
	Buy Operation = iota
	Sell
	Income   // dividends and interest on equity (JCP)
	Transfer // custody transfer between brokers
	Redeem   // fixed-income redemption or maturity
	Charge   // fees and taxes not attached to a trade
)

var operationNames = []string{"buy", "sell", "income", "transfer", "redeem", "charge"}

func (o Operation) String() string {
	if o < 0 || int(o) >= len(operationNames) {
		return fmt.Sprintf("Operation(%d)", int(o))
	}
	return operationNames[o]
}

// IsTrade reports whether the operation moves quantity, that is Buy or Sell.
func (o Operation) IsTrade() bool { return o == Buy || o == Sell }

// ParseOperation parses an operation name, case insensitive.
func ParseOperation(s string) (Operation, error) {
	i, err := parseEnum("operation", operationNames, s)
	return Operation(i), err
}

func (o Operation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Operation) UnmarshalText(text []byte) (err error) {
	*o, err = ParseOperation(string(text))
	return err
}

// IndexerType is how a fixed-income contract rate is indexed.
type IndexerType int

const (
	NoIndexer IndexerType = iota
	Prefixed
	IPCA  // contracted rate is a spread over inflation
	SELIC // contracted rate is a multiplier of the policy rate
	CDI   // contracted rate is a multiplier of the interbank rate
)

var indexerNames = []string{"none", "prefixed", "ipca", "selic", "cdi"}

func (t IndexerType) String() string {
	if t < 0 || int(t) >= len(indexerNames) {
		return fmt.Sprintf("IndexerType(%d)", int(t))
	}
	return indexerNames[t]
}

// Series returns the name of the indexer series used by t, if any.
func (t IndexerType) Series() (string, bool) {
	switch t {
	case IPCA, SELIC, CDI:
		return strings.ToUpper(t.String()), true
	default:
		return "", false
	}
}

// ParseIndexerType parses an indexer type name, case insensitive. An empty
// string is NoIndexer.
func ParseIndexerType(s string) (IndexerType, error) {
	if s == "" {
		return NoIndexer, nil
	}
	i, err := parseEnum("indexer", indexerNames, s)
	return IndexerType(i), err
}

func (t IndexerType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *IndexerType) UnmarshalText(text []byte) (err error) {
	*t, err = ParseIndexerType(string(text))
	return err
}

// MarketGroup is a set of markets reported together in the wallet.
type MarketGroup int

const (
	Equities MarketGroup = iota
	FixedIncomeGroup
	TreasuryGroup
)

func (g MarketGroup) String() string {
	switch g {
	case Equities:
		return "equities"
	case FixedIncomeGroup:
		return "fixed income"
	case TreasuryGroup:
		return "treasury"
	default:
		return fmt.Sprintf("MarketGroup(%d)", int(g))
	}
}

// GroupOf returns the wallet group of a market. Custody has no group.
func GroupOf(m Market) (MarketGroup, bool) {
	switch m {
	case Stock, ETF, FII, BDR:
		return Equities, true
	case FixedIncome:
		return FixedIncomeGroup, true
	case Treasury:
		return TreasuryGroup, true
	default:
		return 0, false
	}
}

func parseEnum(kind string, names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q: %w", kind, s, ErrInvalidArgument)
}
