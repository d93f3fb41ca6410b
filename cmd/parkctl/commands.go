package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/VirEgo/park-tycoon/internal/economy"
	"github.com/VirEgo/park-tycoon/internal/engine"
)

// coordArgs parses "x y" positional arguments.
func coordArgs(args []string) (int, int, error) {
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("y: %w", err)
	}
	return x, y, nil
}

// printResult reports a command outcome; failed game commands exit non-zero.
func printResult(res engine.Result) error {
	if !res.Success {
		color.Red("✗ %s (%s)", res.Message, res.Code)
		return fmt.Errorf("command failed: %s", res.Code)
	}
	if res.Cost > 0 {
		color.Green("✓ %s, cost %s", res.Message, economy.Format(res.Cost))
	} else {
		color.Green("✓ %s", res.Message)
	}
	return nil
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the park overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newClient().Status(cmd.Context())
			if err != nil {
				return err
			}
			state := "open"
			switch {
			case st.Paused:
				state = "paused"
			case st.Closed:
				state = "closed"
			}

			color.New(color.FgCyan, color.Bold).Printf("%s (%s)\n\n", st.Time, state)
			table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader([]string{"Metric", "Value"}))
			rows := [][]string{
				{"Money", economy.Format(st.Money)},
				{"Visitors", fmt.Sprintf("%d / %d", st.Visitors, st.Capacity)},
				{"Workers", strconv.Itoa(st.Workers)},
				{"Rating", fmt.Sprintf("%.1f ★", st.Rating)},
				{"Happiness", fmt.Sprintf("%.0f%%", st.Happiness)},
				{"Broken", fmt.Sprintf("%d (%d queued, %d in repair)", st.Broken, st.RepairQ, st.Repairing)},
				{"Casino bank", economy.Format(st.CasinoBank)},
				{"Size", fmt.Sprintf("%dx%d, %d plots owned", st.Width, st.Height, st.Plots)},
				{"Yesterday", fmt.Sprintf("+%s / -%s", economy.Format(st.Yesterday.Income), economy.Format(st.Yesterday.Expenses))},
			}
			cats := make([]string, 0, len(st.Buildings))
			for c := range st.Buildings {
				cats = append(cats, c)
			}
			sort.Strings(cats)
			for _, c := range cats {
				rows = append(rows, []string{"Buildings: " + c, humanize.Comma(int64(st.Buildings[c]))})
			}
			for _, row := range rows {
				_ = table.Append(row)
			}
			return table.Render()
		},
	}
}

func buildingsCmd() *cobra.Command {
	var brokenOnly bool
	cmd := &cobra.Command{
		Use:   "buildings",
		Short: "List placed buildings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := newClient().Buildings(cmd.Context())
			if err != nil {
				return err
			}
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Building", "At", "Level", "Theme", "Visits", "Income", "State"}),
			)
			for _, b := range list {
				if brokenOnly && !b.Broken {
					continue
				}
				state := "ok"
				if b.Broken {
					state = "broken, repair " + economy.Format(b.RepairCost)
				}
				if b.Bank != nil {
					state += ", bank " + economy.Format(*b.Bank)
				}
				_ = table.Append([]string{
					b.Name,
					fmt.Sprintf("%d,%d", b.X, b.Y),
					strconv.Itoa(b.Level),
					b.Theme,
					fmt.Sprintf("%d/%d (%s total)", b.Visits, b.MaxVisits, humanize.Comma(int64(b.Total))),
					economy.Format(b.Income),
					state,
				})
			}
			return table.Render()
		},
	}
	cmd.Flags().BoolVarP(&brokenOnly, "broken", "b", false, "Show only broken buildings")
	return cmd
}

func plotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plots",
		Short: "List land plots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plots, err := newClient().Plots(cmd.Context())
			if err != nil {
				return err
			}
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Plot", "Terrain", "Size", "Price", "Owned"}),
			)
			for _, p := range plots {
				owned := ""
				if p.Purchased {
					owned = "yes"
				}
				_ = table.Append([]string{
					p.ID, p.Terrain.String(), fmt.Sprintf("%dx%d", p.Width, p.Height), economy.Format(p.Price), owned,
				})
			}
			return table.Render()
		},
	}
}

func placeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place <building> <x> <y>",
		Short: "Build at a position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := coordArgs(args[1:])
			if err != nil {
				return err
			}
			res, err := newClient().Place(cmd.Context(), args[0], x, y)
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}
}

// coordCommand builds a subcommand that takes "x y" and sends one command.
func coordCommand(use, short string, send func(c *cobra.Command, x, y int) (engine.Result, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <x> <y>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := coordArgs(args)
			if err != nil {
				return err
			}
			res, err := send(cmd, x, y)
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}
}

func demolishCmd() *cobra.Command {
	return coordCommand("demolish", "Remove the building at a position", func(c *cobra.Command, x, y int) (engine.Result, error) {
		return newClient().Demolish(c.Context(), x, y)
	})
}

func upgradeCmd() *cobra.Command {
	return coordCommand("upgrade", "Raise a building one level", func(c *cobra.Command, x, y int) (engine.Result, error) {
		return newClient().Upgrade(c.Context(), x, y)
	})
}

func repairCmd() *cobra.Command {
	return coordCommand("repair", "Repair one broken building", func(c *cobra.Command, x, y int) (engine.Result, error) {
		return newClient().Repair(c.Context(), x, y)
	})
}

func themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme <x> <y> <theme>",
		Short: "Apply a theme to a building",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := coordArgs(args[:2])
			if err != nil {
				return err
			}
			res, err := newClient().Theme(cmd.Context(), x, y, args[2])
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}
}

func repairAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair-all",
		Short: "Repair every broken building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newClient().RepairAll(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}
}

func pauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Toggle the simulation pause",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paused, err := newClient().TogglePause(cmd.Context())
			if err != nil {
				return err
			}
			if paused {
				color.Yellow("⏸ paused")
			} else {
				color.Green("▶ running")
			}
			return nil
		},
	}
}

func gateCmd(use string, open bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: "Set the park gates " + use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().SetOpen(cmd.Context(), open); err != nil {
				return err
			}
			color.Green("✓ park %s", map[bool]string{true: "opened", false: "closed"}[open])
			return nil
		},
	}
}

func buyPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy-plot <plot-id>",
		Short: "Purchase a land plot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newClient().BuyPlot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}
}

func saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Persist the park now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newClient().Save(cmd.Context())
			if err != nil {
				return err
			}
			color.Green("✓ saved %s (day %d)", res.ID, res.Day)
			if res.Snapshot != "" {
				fmt.Println("  snapshot:", res.Snapshot)
			}
			return nil
		},
	}
}
