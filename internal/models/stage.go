// Package models defines the core data types shared across Attune.
package models

import "strings"

// Stage represents one named energy center in the balancing catalog.
type Stage struct {
	// Name is the unique display name of the stage.
	Name string `json:"name"`

	// Frequency is the resonant frequency in Hz.
	Frequency int `json:"frequency"`

	// Color is the display color as a hex string.
	Color string `json:"color"`

	// Position is the relative vertical display position (0 = top).
	Position int `json:"position"`
}

// stageCatalog is the canonical, ordered stage catalog (root to crown).
// It is process-wide constant configuration and must never be mutated.
var stageCatalog = [7]Stage{
	{Name: "Root", Frequency: 396, Color: "#E53935", Position: 90},
	{Name: "Sacral", Frequency: 417, Color: "#FB8C00", Position: 76},
	{Name: "Solar Plexus", Frequency: 528, Color: "#FDD835", Position: 62},
	{Name: "Heart", Frequency: 639, Color: "#43A047", Position: 48},
	{Name: "Throat", Frequency: 741, Color: "#1E88E5", Position: 34},
	{Name: "Third Eye", Frequency: 852, Color: "#5E35B1", Position: 20},
	{Name: "Crown", Frequency: 963, Color: "#8E24AA", Position: 6},
}

// StageCount is the number of stages in the catalog.
const StageCount = len(stageCatalog)

// Catalog returns the full stage catalog in canonical order.
// The returned slice is a copy; callers may not mutate the catalog.
func Catalog() []Stage {
	stages := make([]Stage, StageCount)
	copy(stages[:], stageCatalog[:])
	return stages
}

// StageByName looks up a catalog stage by name, case-insensitively.
func StageByName(name string) (Stage, bool) {
	for _, stage := range stageCatalog {
		if strings.EqualFold(stage.Name, strings.TrimSpace(name)) {
			return stage, true
		}
	}
	return Stage{}, false
}

// StageIndex returns the canonical position of a stage name in the
// catalog, or -1 if the name is unknown.
func StageIndex(name string) int {
	for i, stage := range stageCatalog {
		if strings.EqualFold(stage.Name, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}
