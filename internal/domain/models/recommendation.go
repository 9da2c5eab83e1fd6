package models

import "encoding/json"

// RecommendationKind discriminates the Recommendation variants on the wire.
type RecommendationKind string

const (
	KindNoTrade RecommendationKind = "NO_TRADE"
	KindFourLeg RecommendationKind = "FOUR_LEG"
	KindTwoLeg  RecommendationKind = "TWO_LEG"
)

// Direction of a two-leg credit spread.
type Direction string

const (
	Bullish Direction = "BULLISH" // bull put spread
	Bearish Direction = "BEARISH" // bear call spread
)

// Recommendation is the single outcome of an analysis run. The set of
// implementations is closed: NoTrade, FourLegStructure and TwoLegStructure.
type Recommendation interface {
	Kind() RecommendationKind
	recommendation()
}

// NoTrade means the engine advises staying flat.
type NoTrade struct {
	Reason string
}

func (NoTrade) Kind() RecommendationKind { return KindNoTrade }
func (NoTrade) recommendation()          {}

func (n NoTrade) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   RecommendationKind `json:"kind"`
		Reason string             `json:"reason"`
	}{KindNoTrade, n.Reason})
}

// FourLegStructure is an iron condor: short call spread plus short put spread.
type FourLegStructure struct {
	Levels    LevelSet
	Contracts int
}

func (FourLegStructure) Kind() RecommendationKind { return KindFourLeg }
func (FourLegStructure) recommendation()          {}

func (f FourLegStructure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      RecommendationKind `json:"kind"`
		Levels    LevelSet           `json:"levels"`
		Contracts int                `json:"contracts"`
	}{KindFourLeg, f.Levels, f.Contracts})
}

// TwoLegStructure is a single directional credit spread.
type TwoLegStructure struct {
	Direction   Direction
	ShortStrike float64
	LongStrike  float64
	Width       float64
	Contracts   int
}

func (TwoLegStructure) Kind() RecommendationKind { return KindTwoLeg }
func (TwoLegStructure) recommendation()          {}

func (t TwoLegStructure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind        RecommendationKind `json:"kind"`
		Direction   Direction          `json:"direction"`
		ShortStrike float64            `json:"short_strike"`
		LongStrike  float64            `json:"long_strike"`
		Width       float64            `json:"width"`
		Contracts   int                `json:"contracts"`
	}{KindTwoLeg, t.Direction, t.ShortStrike, t.LongStrike, t.Width, t.Contracts})
}
