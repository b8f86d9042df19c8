// Package ui provides the shared terminal presentation pieces of viewerator:
// numeric formatting for sensor and rate values, the health color palette,
// status symbols, sparklines and the device summary table.
//
// # Numeric Formatting
//
//	FormatRate    - fixed width 7, scaled with K/M/G suffixes, "*******" out of range
//	FormatSensor  - width 8 with three decimals for [0,1000), raw float otherwise
//
// # Health Palette
//
// Each health level has a background color pair, matching what operators
// know from the minerator web page:
//
//	critical      white on red
//	slowDecrease  white on magenta
//	hold          black on yellow
//	slowIncrease  black on cyan
//	rampUp        black on green
//
// Colors are ANSI codes for broad terminal compatibility.
package ui
