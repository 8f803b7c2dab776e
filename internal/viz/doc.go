// Package viz hosts a particle field in the terminal.
//
// A [BrailleSurface] implements field.Surface on a braille [Canvas], two by
// four dots per cell. [Model] is a Bubble Tea program that mounts a field on
// that surface, flushes its frame queue on every tick and forwards terminal
// resizes to the field's viewport.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	T     - Cycle color themes
//	?     - Toggle full help
//	Q     - Unmount and quit
package viz
