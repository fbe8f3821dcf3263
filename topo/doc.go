// Package topo computes the zero-impedance closure of a record set: the
// graph-connectivity reduction that merges nodes connected through closed
// switches or other zero-impedance branches into single calculation nodes.
//
// The reduction is an explicit union-find over an arena of integer-keyed
// nodes; raw identifiers map through an index table, never through pointer
// aliasing. Two raw ids resolve to the same canonical id iff a zero-impedance
// path connects them; ordinary branches never merge nodes.
//
// The canonical representative of a merged group is the lexicographically
// smallest raw id in the group — deterministic and independent of record
// order.
//
// Nodes unreachable from every slack over the full branch graph (bridges and
// ordinary branches alike) are retained but flagged with warning messages.
//
// Errors:
//
//	ErrMissingEndpoint - a branch omits one of its node ids.
package topo
