// Package dataset turns raw collection-point spreadsheets into solvable
// routing problems.
//
// The intake side reads xlsx workbooks (one row per collection point),
// normalizes headers, validates coordinates, and deduplicates points. The
// assembly side groups rows by dispatch location and produces either one
// global multi-depot problem (BuildGlobal) or one single-depot problem
// per dispatch group (SplitByDispatch), fetching the road-distance matrix
// from a pluggable MatrixSource — typically the osrm client, or the
// built-in haversine fallback for offline work.
//
// Depot coordinates and per-depot fleets come from YAML config files.
// Names are matched with a sorted-word key ("Dahid Bmc" and "BMC DAHID"
// are the same depot), because the source spreadsheets never spell a
// depot the same way twice.
package dataset
