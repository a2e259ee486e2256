// @focus: #sys { term } #render { map }
// Package terminal renders a running simulation on a tcell screen.
//
// Features:
//   - Road network drawn once from the simulation layout, scaled to the screen
//   - Vehicles as heading arrows, barriers coloured by blocking state
//   - HUD with coins, fleet unlock level, spawn bounds and live metrics
//   - Notice feed for toll rewards, signal changes and unlocks
//   - Digit keys press stop controls, p pauses, q quits
package terminal
