// Package matcher implements playlist-name lookup: a case-insensitive
// substring filter and, for queries that match nothing, approximate
// suggestions ranked by difflib similarity ratio.
package matcher
