// Package automation scripts the directional input of headless runs, turns
// press-only key events into held keys, and expands parameter sweeps into
// ensemble cases.
package automation
