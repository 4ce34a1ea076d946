// Package textutil compares display titles, mostly to decide whether a
// series found on one provider is the one tracked under another.
//
// Titles are folded first (case folded, accents stripped, whitespace
// collapsed). TitleSimilarity then takes the better of word overlap and
// normalised Levenshtein similarity.
package textutil
