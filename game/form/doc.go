// Package form provides the form state controller for the Lost Cities scorekeeper.
//
// The controller owns one scoresheet (engine.AppState) and turns raw text
// typed into the form into state updates:
//   - Parameter and multiplier fields are parsed as integers, falling back to 0
//   - Card-list fields accept only digits and whitespace; anything else is ignored
//   - Every accepted edit replaces the affected record (copy-on-write)
//   - Every read derives scores and the result text from the current state
//
// Card-List Buffering:
//
// Each card-list field is a CardListField: the committed numeric list plus the
// text currently displayed. The displayed text may differ from the canonical
// rendering ("2  3 " vs "2 3") until the committed list changes for another
// reason, such as a reset, at which point the text is rewritten.
//
// Usage:
//
//	c := form.NewController(engine.NewScoringParameters(), engine.DefaultPlayerNames())
//
//	c.SetMultiplier(0, 0, "1")
//	c.SetCardSetText(0, 0, "2 3 9")
//
//	view := c.View()
//	fmt.Println(view.Result) // Player 2 wins! 0 to -12
//
// A Controller is not safe for concurrent use; callers serialize access.
package form
