// Command lostcities scores Lost Cities hands from the command line and
// checks scoring preset files.
//
//	lostcities score --p1 "1:2 3 9" --p2 ":4 5 6 7"
//	lostcities score --preset no_bonus --name1 Ana --p1 "2:2 3 4 5 6 7 8 9 10"
//	lostcities presets list
//	lostcities presets validate configs/standard.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/lost-cities-scorer/game/config"
	"github.com/wricardo/lost-cities-scorer/game/engine"
	"github.com/wricardo/lost-cities-scorer/game/form"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config-dir",
		Usage:   "directory containing scoring presets",
		Value:   "configs",
		Sources: cli.EnvVars("CONFIG_DIR"),
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "lostcities",
		Usage: "Lost Cities score calculator",
		Commands: []*cli.Command{
			{
				Name:      "score",
				Usage:     "score two players",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					configDirFlag(),
					&cli.StringFlag{Name: "preset", Usage: "scoring preset to start from"},
					&cli.IntFlag{Name: "base-value", Usage: "expedition cost subtracted from the card sum", Value: engine.DefaultBaseValue},
					&cli.IntFlag{Name: "bonus-threshold", Usage: "multiplier plus card count that earns the bonus", Value: engine.DefaultBonusThreshold},
					&cli.IntFlag{Name: "bonus-value", Usage: "points added when the threshold is reached", Value: engine.DefaultBonusValue},
					&cli.StringFlag{Name: "name1", Usage: "first player name"},
					&cli.StringFlag{Name: "name2", Usage: "second player name"},
					&cli.StringSliceFlag{Name: "p1", Usage: `first player expedition as "multiplier:cards", repeat once per expedition`},
					&cli.StringSliceFlag{Name: "p2", Usage: `second player expedition as "multiplier:cards", repeat once per expedition`},
					&cli.BoolFlag{Name: "json", Usage: "print the result as JSON"},
				},
				Action: scoreAction,
			},
			{
				Name:  "presets",
				Usage: "inspect scoring presets",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "list the presets in the config directory",
						Flags:  []cli.Flag{configDirFlag()},
						Action: listPresetsAction,
					},
					{
						Name:      "validate",
						Usage:     "validate preset files (all files in the config directory by default)",
						ArgsUsage: "[file...]",
						Flags:     []cli.Flag{configDirFlag()},
						Action:    validatePresetsAction,
					},
				},
			},
		},
	}
}

// scoreParameters resolves the parameters for a score command: the preset
// (if any) first, then explicitly set flags
func scoreParameters(cmd *cli.Command) (engine.ScoringParameters, []string, error) {
	params := engine.NewScoringParameters()
	var names []string

	if name := cmd.String("preset"); name != "" {
		manager, err := config.NewManager(cmd.String("config-dir"))
		if err != nil {
			return params, nil, err
		}
		preset, err := manager.LoadPreset(name)
		if err != nil {
			return params, nil, fmt.Errorf("preset %q: %w", name, err)
		}
		params = preset.Parameters
		names = preset.PlayerNames
	}

	if cmd.IsSet("base-value") {
		params.BaseValue = int(cmd.Int("base-value"))
	}
	if cmd.IsSet("bonus-threshold") {
		params.BonusThreshold = int(cmd.Int("bonus-threshold"))
	}
	if cmd.IsSet("bonus-value") {
		params.BonusValue = int(cmd.Int("bonus-value"))
	}
	return params, names, nil
}

func scoreAction(ctx context.Context, cmd *cli.Command) error {
	params, presetNames, err := scoreParameters(cmd)
	if err != nil {
		return err
	}

	names := engine.ResolvePlayerNames(presetNames)
	if n := strings.TrimSpace(cmd.String("name1")); n != "" {
		names[0] = n
	}
	if n := strings.TrimSpace(cmd.String("name2")); n != "" {
		names[1] = n
	}

	state := engine.NewAppState(params, names)
	for i, flagName := range []string{"p1", "p2"} {
		player, err := form.ParsePlayer(names[i], cmd.StringSlice(flagName))
		if err != nil {
			return fmt.Errorf("--%s: %w", flagName, err)
		}
		if state, err = state.WithPlayer(i, player); err != nil {
			return err
		}
	}

	view := form.Render(state)
	out := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	printView(out, view)
	return nil
}

func printView(w io.Writer, view form.View) {
	p := view.Parameters
	fmt.Fprintf(w, "Base value %d, bonus +%d at %d cards\n\n", p.BaseValue, p.BonusValue, p.BonusThreshold)

	for _, player := range view.Players {
		fmt.Fprintf(w, "%s: %d\n", player.Name, player.Score)
		for slot, exp := range player.Expeditions {
			if exp.Multiplier == 0 && len(exp.Cards) == 0 {
				continue
			}
			fmt.Fprintf(w, "  %-6s x%d  %-24s %4d\n",
				engine.ExpeditionNames[slot], exp.Multiplier, exp.Text, exp.Score)
		}
	}

	fmt.Fprintf(w, "\n%s\n", view.Result)
}

func listPresetsAction(ctx context.Context, cmd *cli.Command) error {
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	presets, err := manager.ListPresets()
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if len(presets) == 0 {
		fmt.Fprintf(out, "No presets in %s\n", manager.Dir())
		return nil
	}
	for _, p := range presets {
		fmt.Fprintf(out, "%-20s base %d, bonus +%d at %d  %s\n", p.PresetID,
			p.Parameters.BaseValue, p.Parameters.BonusValue, p.Parameters.BonusThreshold, p.Description)
	}
	return nil
}

func validatePresetsAction(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		dir := cmd.String("config-dir")
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read config directory: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && config.IsPresetFile(entry.Name()) {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
	}

	out := cmd.Root().Writer
	invalid := 0
	for _, file := range files {
		preset, err := config.ReadPresetFile(file)
		if err != nil {
			invalid++
			fmt.Fprintf(out, "INVALID %s: %v\n", filepath.Base(file), err)
			continue
		}
		fmt.Fprintf(out, "VALID   %s (%s)\n", filepath.Base(file), preset.Name)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d presets are invalid", invalid, len(files))
	}
	fmt.Fprintf(out, "All %d presets are valid\n", len(files))
	return nil
}
