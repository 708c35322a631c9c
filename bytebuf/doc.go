// Package bytebuf provides a growable, position-tracked byte container used to
// assemble wire payloads without knowing their total length up front.
//
// Writes land at the current position, overwriting existing bytes and growing
// the buffer once the position reaches the end. ReadBytes always rewinds to
// the start before reading, so
//
//	buf.ReadBytes(buf.Len())
//
// returns everything written so far regardless of where the position was.
package bytebuf
