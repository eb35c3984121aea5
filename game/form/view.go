package form

import (
	"slices"

	"github.com/wricardo/lost-cities-scorer/game/engine"
)

// View is everything the render surface displays
type View struct {
	Parameters engine.ScoringParameters  `json:"parameters"`
	Players    [engine.Players]PlayerView `json:"players"`
	Result     string                     `json:"result"`
	Winner     int                        `json:"winner"` // -1 on a tie
	Version    uint64                     `json:"version"`
}

// PlayerView is the display of one player
type PlayerView struct {
	Name        string                             `json:"name"`
	Score       int                                `json:"score"`
	Expeditions [engine.Expeditions]ExpeditionView `json:"expeditions"`
}

// ExpeditionView is the display of one expedition row
type ExpeditionView struct {
	Multiplier int    `json:"multiplier"`
	Cards      []int  `json:"cards"`
	Text       string `json:"text"`
	Score      int    `json:"score"`
}

// View derives the current display from the scoresheet
func (c *Controller) View() View {
	v := Render(c.state)
	v.Version = c.version
	for i := range v.Players {
		for j := range v.Players[i].Expeditions {
			v.Players[i].Expeditions[j].Text = c.fields[i][j].Display
		}
	}
	return v
}

// Render derives a display from a scoresheet, showing card lists in
// canonical form
func Render(state engine.AppState) View {
	params := state.ScoringParameters
	scores := state.Scores()

	v := View{
		Parameters: params,
		Result:     state.ResultText(),
		Winner:     state.Winner(),
	}
	for i, p := range state.Players {
		pv := PlayerView{Name: p.Name, Score: scores[i]}
		expeditionScores := engine.ExpeditionScores(params, p)
		for j := range pv.Expeditions {
			cards := slices.Clone(p.CardSets[j])
			if cards == nil {
				cards = []int{}
			}
			pv.Expeditions[j] = ExpeditionView{
				Multiplier: p.Multipliers[j],
				Cards:      cards,
				Text:       FormatCardList(cards),
				Score:      expeditionScores[j],
			}
		}
		v.Players[i] = pv
	}
	return v
}
