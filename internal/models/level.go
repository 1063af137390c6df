package models

import "math"

// LevelFor returns floor((sqrt(2500 + 200*exp) - 50) / 100).
func LevelFor(experience int) int {
	return (int(math.Sqrt(float64(2500+200*experience))) - 50) / 100
}

// UntilNextLevel returns the experience still missing to reach level+1.
func UntilNextLevel(level, experience int) int {
	return 50*(level+1)*(level+2) - experience
}
