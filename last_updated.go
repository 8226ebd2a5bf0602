package main

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// deleteKeyword clears last_updated when given as the date argument.
const deleteKeyword = "delete"

type LastUpdatedKind int

const (
	LastUpdatedToday LastUpdatedKind = iota
	LastUpdatedClear
	LastUpdatedSet
)

// LastUpdatedAction is what SetLastUpdated does to the field: stamp today,
// clear it, or set an explicit date.
type LastUpdatedAction struct {
	Kind LastUpdatedKind
	Date string
}

func UseToday() LastUpdatedAction {
	return LastUpdatedAction{Kind: LastUpdatedToday}
}

func ClearLastUpdated() LastUpdatedAction {
	return LastUpdatedAction{Kind: LastUpdatedClear}
}

func SetLastUpdatedTo(date string) (LastUpdatedAction, error) {
	a := LastUpdatedAction{Kind: LastUpdatedSet, Date: date}
	if err := a.Validate(); err != nil {
		return LastUpdatedAction{}, err
	}
	return a, nil
}

// ParseLastUpdatedArg maps operator input to an action: "" is today,
// "delete" clears, anything else must be a YYYY-MM-DD date.
func ParseLastUpdatedArg(arg string) (LastUpdatedAction, error) {
	arg = strings.TrimSpace(arg)
	switch arg {
	case "":
		return UseToday(), nil
	case deleteKeyword:
		return ClearLastUpdated(), nil
	}
	return SetLastUpdatedTo(arg)
}

func (a LastUpdatedAction) Validate() error {
	switch a.Kind {
	case LastUpdatedToday, LastUpdatedClear:
		return nil
	case LastUpdatedSet:
		if !validDate(a.Date) {
			return fmt.Errorf("%w, %q to clear, or empty for today: got %q", ErrInvalidDate, deleteKeyword, a.Date)
		}
		return nil
	}
	return fmt.Errorf("unknown last_updated action %d", a.Kind)
}

// Resolve returns the value last_updated takes given today's date.
func (a LastUpdatedAction) Resolve(today string) string {
	switch a.Kind {
	case LastUpdatedToday:
		return today
	case LastUpdatedSet:
		return a.Date
	}
	return ""
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
