// Package analysis characterises a recorded run of the cart pendulum.
//
//   - [Spectrum] and [DominantFrequency]: oscillation content of a signal
//   - [SettlingTime]: when a signal enters and stays in a band
//   - [PhasePortrait]: angle against angular velocity as text
//   - [Analyze]: a [Report] for a whole recording
//
// Signals are sampled once per tick. The sample rate comes from the recorded
// tick interval, not the wall-clock timestamps, so headless runs analyse the
// same as real-time ones.
package analysis
