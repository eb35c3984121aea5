package engine

import "fmt"

// CardSetScore returns the score of a single expedition
func CardSetScore(params ScoringParameters, multiplier int, cardSet []int) int {
	// An expedition that was never started
	if multiplier == 0 && len(cardSet) == 0 {
		return 0
	}

	total := 0
	for _, card := range cardSet {
		total += card
	}
	total -= params.BaseValue
	total *= multiplier + 1

	if multiplier+len(cardSet) >= params.BonusThreshold {
		total += params.BonusValue
	}

	return total
}

// PlayerScore returns the sum of the player's expedition scores
func PlayerScore(params ScoringParameters, player Player) int {
	score := 0
	for i := 0; i < Expeditions; i++ {
		score += CardSetScore(params, player.Multipliers[i], player.CardSets[i])
	}
	return score
}

// ExpeditionScores returns the score of each expedition slot in order
func ExpeditionScores(params ScoringParameters, player Player) [Expeditions]int {
	var scores [Expeditions]int
	for i := range scores {
		scores[i] = CardSetScore(params, player.Multipliers[i], player.CardSets[i])
	}
	return scores
}

// Scores returns both players' totals
func (s AppState) Scores() [Players]int {
	var scores [Players]int
	for i, p := range s.Players {
		scores[i] = PlayerScore(s.ScoringParameters, p)
	}
	return scores
}

// ResultText describes the outcome of the scoresheet
func (s AppState) ResultText() string {
	scores := s.Scores()
	return ResultText(s.Players[0].Name, scores[0], s.Players[1].Name, scores[1])
}

// ResultText names the higher-scoring player first, or reports a tie
func ResultText(name1 string, score1 int, name2 string, score2 int) string {
	switch {
	case score1 > score2:
		return fmt.Sprintf("%s wins! %d to %d", name1, score1, score2)
	case score2 > score1:
		return fmt.Sprintf("%s wins! %d to %d", name2, score2, score1)
	default:
		return fmt.Sprintf("Its a tie! %d to %d", score1, score2)
	}
}

// Winner returns the index of the leading player, or -1 on a tie
func (s AppState) Winner() int {
	scores := s.Scores()
	switch {
	case scores[0] > scores[1]:
		return 0
	case scores[1] > scores[0]:
		return 1
	default:
		return -1
	}
}
