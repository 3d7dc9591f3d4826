// Package io provides the I/O devices of the i8080 emulator.
// The Console is a character terminal reached through the CPU's IN and OUT
// ports, and the Rom is a firmware image overlaid onto memory at reset.
package io
