// Package plot draws recorded signals, as text for the terminal and as PNG
// images.
package plot
