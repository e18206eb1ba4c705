// Package travel holds planned travel times from reference towns to the
// Sigtuna course venue.
package travel

import (
	"fmt"
	"sort"
	"strings"
)

// VenueTown is the town the travel table measures against.
const VenueTown = "Sigtuna"

// Unknown is returned for any town and mode the table does not cover.
// It exceeds every realistic budget, so unknown combinations never pass.
const Unknown = 9999

// Mode is a way of travelling.
type Mode string

const (
	ModeCar     Mode = "car"
	ModeTransit Mode = "transit"
)

// ParseMode accepts English and Swedish names.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "car", "bil":
		return ModeCar, nil
	case "transit", "kollektivt", "kollektivtrafik", "public":
		return ModeTransit, nil
	}
	return "", fmt.Errorf("unknown travel mode %q", s)
}

// Table maps a town and mode to minutes.
type Table map[string]map[Mode]int

// Default is the planned travel time to Sigtuna from the reference towns.
var Default = Table{
	"stockholm": {ModeCar: 45, ModeTransit: 60},
	"uppsala":   {ModeCar: 40, ModeTransit: 55},
	"enköping":  {ModeCar: 50, ModeTransit: 90},
	"norrtälje": {ModeCar: 70, ModeTransit: 120},
}

// Minutes returns the travel time from town by mode, or Unknown.
func (t Table) Minutes(from string, mode Mode) int {
	modes, ok := t[normalizeTown(from)]
	if !ok {
		return Unknown
	}
	if m, ok := modes[mode]; ok {
		return m
	}
	return Unknown
}

// Towns lists the reference towns, title-cased and sorted.
func (t Table) Towns() []string {
	out := make([]string, 0, len(t))
	for town := range t {
		out = append(out, strings.ToUpper(town[:1])+town[1:])
	}
	sort.Strings(out)
	return out
}

func normalizeTown(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
