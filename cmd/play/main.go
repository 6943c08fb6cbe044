// Command play runs an interactive console game of Knister. It is intended
// for debugging and manual verification of the game logic.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/knister-game/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:  "play",
		Usage: "Play Knister on the console",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a variant JSON file (defaults to classic rules)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			config := engine.DefaultGameConfig()
			if path := cmd.String("config"); path != "" {
				loaded, err := engine.LoadGameConfig(path)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				config = loaded
			}

			eng, err := engine.NewEngine(config)
			if err != nil {
				return err
			}

			return playGame(eng, os.Stdin, os.Stdout)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// playGame runs one full game loop, reading placement choices from in and
// writing the board to out.
func playGame(eng engine.Engine, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	eng.NewGame()

	fmt.Fprintln(out, "Welcome to Knister!")
	fmt.Fprintln(out, "Fill the 5x5 grid by placing each dice total into a free cell.")

	for !eng.HasFinished() {
		printGrid(out, eng.Grid())
		fmt.Fprintf(out, "Last reward: %d\n", eng.LastReward())
		fmt.Fprintf(out, "Total score: %d\n\n", eng.TotalReward())

		action, err := askAction(reader, out, eng)
		if err != nil {
			return err
		}

		if err := eng.ChooseAction(action); err != nil {
			fmt.Fprintf(out, "Placement failed: %v\n", err)
		}
	}

	fmt.Fprintf(out, "Last reward: %d\n", eng.LastReward())
	fmt.Fprintln(out, "\nGame over!")
	printGrid(out, eng.Grid())
	fmt.Fprintf(out, "Final score: %d\n", eng.TotalReward())
	return nil
}

// askAction prompts until the user enters a free cell, as a flat index 0-24
// or as 1-based "row,col". Returns io.EOF if input runs out.
func askAction(reader *bufio.Reader, out io.Writer, eng engine.Engine) (int, error) {
	avail := eng.AvailableActions()
	roll, _ := eng.CurrentRoll()

	fmt.Fprintf(out, "Current dice total: %d\n", roll)
	fmt.Fprintf(out, "Free cells left: %d\n", len(avail))

	for {
		fmt.Fprint(out, "Choose a cell (index 0-24 or 'row,col' with 1-5): ")

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return 0, err
		}

		action, perr := parseAction(strings.TrimSpace(line))
		if perr != nil {
			fmt.Fprintf(out, "%v\n", perr)
			continue
		}

		if !contains(avail, action) {
			fmt.Fprintln(out, "That cell is already taken, try again.")
			continue
		}

		return action, nil
	}
}

// parseAction converts user input to a flat cell index. Accepts "12" or
// 1-based "3,3".
func parseAction(s string) (int, error) {
	if strings.Contains(s, ",") {
		parts := strings.SplitN(s, ",", 2)
		row, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		col, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return 0, fmt.Errorf("invalid format, try something like 2,3")
		}
		if row < 1 || row > engine.GridSize || col < 1 || col > engine.GridSize {
			return 0, fmt.Errorf("row/column out of range (1-%d)", engine.GridSize)
		}
		return (row-1)*engine.GridSize + (col - 1), nil
	}

	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid input, enter a number")
	}
	if idx < 0 || idx >= engine.CellCount {
		return 0, fmt.Errorf("index out of range (0-%d)", engine.CellCount-1)
	}
	return idx, nil
}

// printGrid renders the board with 1-based row and column headers.
func printGrid(out io.Writer, grid [][]int) {
	fmt.Fprintln(out, "\nCURRENT GRID:")
	fmt.Fprintln(out, "    1   2   3   4   5")
	fmt.Fprintln(out, "  +---+---+---+---+---+")
	for r, row := range grid {
		cells := make([]string, len(row))
		for c, val := range row {
			if val == 0 {
				cells[c] = "  "
			} else {
				cells[c] = fmt.Sprintf("%2d", val)
			}
		}
		fmt.Fprintf(out, "%d |%s |\n", r+1, strings.Join(cells, " |"))
		fmt.Fprintln(out, "  +---+---+---+---+---+")
	}
	fmt.Fprintln(out)
}

func contains(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
