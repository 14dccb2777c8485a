package service

import (
	"sort"

	"cluster_fan/internal/models"
)

// Aggregate reduces one cycle's readings to a control signal: the hottest
// successful reading governs. With no successes the signal is invalid.
// Ties go to the lexically smallest node name so the source is stable.
func Aggregate(readings map[string]models.Reading) models.ControlSignal {
	names := make([]string, 0, len(readings))
	for name := range readings {
		names = append(names, name)
	}
	sort.Strings(names)

	var sig models.ControlSignal
	for _, name := range names {
		r := readings[name]
		if !r.OK() {
			sig.Failed++
			continue
		}
		sig.Succeeded++
		if !sig.Valid || r.TemperatureC > sig.TemperatureC {
			sig.TemperatureC = r.TemperatureC
			sig.Source = name
			sig.Valid = true
		}
	}
	return sig
}
