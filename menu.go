package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Menu is the interactive text front end over an Updater.
type Menu struct {
	updater *Updater
	in      *bufio.Scanner
	out     io.Writer
}

func NewMenu(updater *Updater, in io.Reader, out io.Writer) *Menu {
	return &Menu{updater: updater, in: bufio.NewScanner(in), out: out}
}

const menuText = `
Stock Dataset Updater
=====================
[1] Refresh ALL stocks (no change to last_updated)
[2] Add/Update SINGLE ticker (no change to last_updated; keeps a non-empty industry)
[3] Set ONLY target price (updates last_updated to today)
[4] Set/Update last_updated manually
[5] Set/Update industry manually (no change to last_updated)
[6] Set/Update strategy (updates last_updated to today)
[7] Set/Update rating (no change to last_updated)
[8] Exit
`

// errInputEnded aborts an action whose prompts ran out of input.
var errInputEnded = errors.New("input ended")

// Run loops until the operator exits or input ends. A failed action is
// reported and the loop continues; input ending inside an action abandons it
// without writing.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprint(m.out, menuText)
		choice, ok := m.prompt("Select an option [1/2/3/4/5/6/7/8]: ")
		if !ok {
			fmt.Fprintln(m.out, "Exiting.")
			return m.in.Err()
		}
		if choice == "8" {
			fmt.Fprintln(m.out, "Exiting.")
			return nil
		}

		err := m.dispatch(ctx, choice)
		if errors.Is(err, errInputEnded) {
			fmt.Fprintln(m.out, "\nInput ended; action cancelled. Exiting.")
			return m.in.Err()
		}
		if err != nil {
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		summary, err := m.updater.RefreshAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Refreshed %s\n", summary)

	case "2":
		ticker, err := m.ask("Enter ticker (e.g., AAPL): ")
		if err != nil {
			return err
		}
		confirm, err := m.ask("Update target_price here? (does NOT change last_updated) [y/N]: ")
		if err != nil {
			return err
		}
		var opts UpsertOptions
		if strings.EqualFold(confirm, "y") {
			tp, err := m.ask("Enter target price (e.g., 250): ")
			if err != nil {
				return err
			}
			opts.TargetPrice = &tp
		}
		rec, err := m.updater.UpsertTicker(ctx, ticker, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Upserted %s\n", rec.Ticker)

	case "3":
		answers, err := m.askAll("Enter ticker (e.g., AAPL): ", "Enter target price (e.g., 250): ")
		if err != nil {
			return err
		}
		return m.report(m.updater.SetTargetPrice(answers[0], answers[1]))

	case "4":
		answers, err := m.askAll("Enter ticker (e.g., AAPL): ",
			`Enter date YYYY-MM-DD, enter "delete" to clear, or press Enter for today: `)
		if err != nil {
			return err
		}
		action, err := ParseLastUpdatedArg(answers[1])
		if err != nil {
			return err
		}
		return m.report(m.updater.SetLastUpdated(answers[0], action))

	case "5":
		answers, err := m.askAll("Enter ticker (e.g., AAPL): ", "Enter industry (leave empty to clear): ")
		if err != nil {
			return err
		}
		return m.report(m.updater.SetIndustry(answers[0], answers[1]))

	case "6":
		answers, err := m.askAll("Ticker: ", "Strategy (e.g., Swing, LT, Momentum): ")
		if err != nil {
			return err
		}
		return m.report(m.updater.SetStrategy(answers[0], answers[1]))

	case "7":
		answers, err := m.askAll("Ticker: ", "Rating (e.g., Buy, Hold, Sell, A/B/C): ")
		if err != nil {
			return err
		}
		return m.report(m.updater.SetRating(answers[0], answers[1]))

	default:
		fmt.Fprintln(m.out, "No action selected.")
	}
	return nil
}

func (m *Menu) report(rec StockRecord, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Updated %s (last_updated %q)\n", rec.Ticker, rec.LastUpdated)
	return nil
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// ask is prompt for a question inside an action. An empty line is a valid
// answer; end of input is errInputEnded.
func (m *Menu) ask(label string) (string, error) {
	s, ok := m.prompt(label)
	if !ok {
		return "", errInputEnded
	}
	return s, nil
}

func (m *Menu) askAll(labels ...string) ([]string, error) {
	answers := make([]string, 0, len(labels))
	for _, label := range labels {
		s, err := m.ask(label)
		if err != nil {
			return nil, err
		}
		answers = append(answers, s)
	}
	return answers, nil
}
