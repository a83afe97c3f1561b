// Package io provides JSON import and export for fern point sequences.
//
// # Overview
//
// A generated [fern.Sequence] can be written to disk and rendered again later
// without re-running the chaos game. The same format is used by the pipeline
// cache, by "barnsley export", and by "barnsley plot".
//
// # JSON Format
//
//	{
//	  "points": [[0, 0], [0, 0.16], [0.0, 1.76]],
//	  "transforms": [-1, 0, 1]
//	}
//
// points holds [x, y] pairs in generation order and must start at the origin.
// transforms holds, for each point, the index of the rule that produced it;
// the origin records -1. An optional "rules" array stores a custom transform
// set; without it the standard Barnsley table is assumed.
//
// # Import
//
// Use [ImportJSON] to read a sequence from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	seq, err := io.ImportJSON("fern.json")
//
// Malformed documents fail with the INVALID_INPUT error code.
//
// # Export
//
// Use [ExportJSON] to write a sequence to a file, or [WriteJSON] to write to
// any io.Writer.
package io
