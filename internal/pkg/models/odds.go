package models

import "strconv"

// OddsMinute is the time_of_match tag on a raw odds sample: either an
// in-match minute or the pre-match sentinel (empty/non-numeric in the feed).
type OddsMinute struct {
	Minute   int
	PreMatch bool
}

// ParseOddsMinute interprets the raw time_of_match field. Empty strings,
// nulls and anything non-numeric count as pre-match.
func ParseOddsMinute(raw string) OddsMinute {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return OddsMinute{PreMatch: true}
	}
	return OddsMinute{Minute: n}
}

func (m OddsMinute) String() string {
	if m.PreMatch {
		return "pre-match"
	}
	return strconv.Itoa(m.Minute)
}

// MoneylineSample is one raw 1X2 price row in decimal (European) encoding.
type MoneylineSample struct {
	Time OddsMinute
	Home float64
	Draw float64
	Away float64
}

// SpreadSample is one raw Asian-handicap row in Hong Kong encoding.
// Handicap is a points value, not a price.
type SpreadSample struct {
	Time     OddsMinute
	Home     float64
	Handicap float64
	Away     float64
}

// TotalsSample is one raw over/under row in Hong Kong encoding.
// Line is the published points total, not a price.
type TotalsSample struct {
	Time  OddsMinute
	Over  float64
	Line  float64
	Under float64
}

// RawOdds is everything the odds-history endpoint returned for one match,
// prices still in their source encodings.
type RawOdds struct {
	Moneyline []MoneylineSample
	Spread    []SpreadSample
	Totals    []TotalsSample
}

// MoneylineQuote is the selected moneyline sample converted to canonical
// American odds.
type MoneylineQuote struct {
	Time    OddsMinute
	HomeWin int
	Draw    int
	AwayWin int
}

// SpreadQuote is the selected Asian-handicap sample, prices converted,
// handicap kept raw.
type SpreadQuote struct {
	Time     OddsMinute
	HomeWin  int
	Handicap float64
	AwayWin  int
}

// TotalsQuote is the selected over/under sample, prices converted, line
// kept raw.
type TotalsQuote struct {
	Time  OddsMinute
	Over  int
	Line  float64
	Under int
}

// OddsSnapshot is the canonical per-match odds view: at most one selected
// quote per market. A nil market means "no data", never "zero price".
type OddsSnapshot struct {
	Moneyline *MoneylineQuote
	Spread    *SpreadQuote
	Totals    *TotalsQuote
}

// Empty reports whether no market produced a quote.
func (s *OddsSnapshot) Empty() bool {
	return s == nil || (s.Moneyline == nil && s.Spread == nil && s.Totals == nil)
}
