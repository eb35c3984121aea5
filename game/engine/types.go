package engine

// Expeditions is the number of expedition slots every player is scored on.
const Expeditions = 5

// Players is the number of players on a scoresheet.
const Players = 2

// MaxMultiplier is the highest multiplier offered by the selection control.
const MaxMultiplier = 3

// ExpeditionNames labels the expedition slots in display order.
var ExpeditionNames = [Expeditions]string{"Yellow", "Blue", "White", "Green", "Red"}

// Default scoring parameter values.
const (
	DefaultBaseValue      = 20
	DefaultBonusThreshold = 8
	DefaultBonusValue     = 20
)

// ScoringParameters are the rule values shared by both players
type ScoringParameters struct {
	BaseValue      int `json:"base_value" toml:"base_value"`
	BonusThreshold int `json:"bonus_threshold" toml:"bonus_threshold"`
	BonusValue     int `json:"bonus_value" toml:"bonus_value"`
}

// Player holds one player's per-expedition data
type Player struct {
	Name        string             `json:"name"`
	Multipliers [Expeditions]int   `json:"multipliers"`
	CardSets    [Expeditions][]int `json:"card_sets"`
}

// AppState is the complete scoresheet
type AppState struct {
	ScoringParameters ScoringParameters `json:"scoring_parameters"`
	Players           [Players]Player   `json:"players"`
}

// NewScoringParameters returns the standard rule values
func NewScoringParameters() ScoringParameters {
	return ScoringParameters{
		BaseValue:      DefaultBaseValue,
		BonusThreshold: DefaultBonusThreshold,
		BonusValue:     DefaultBonusValue,
	}
}

// NewPlayer returns an empty player with the given name
func NewPlayer(name string) Player {
	p := Player{Name: name}
	for i := range p.CardSets {
		p.CardSets[i] = []int{}
	}
	return p
}

// DefaultPlayerNames returns the names used when none are supplied
func DefaultPlayerNames() [Players]string {
	return [Players]string{"Player 1", "Player 2"}
}

// NewAppState creates a fresh scoresheet
func NewAppState(params ScoringParameters, names [Players]string) AppState {
	var s AppState
	s.ScoringParameters = params
	for i, name := range names {
		s.Players[i] = NewPlayer(name)
	}
	return s
}
