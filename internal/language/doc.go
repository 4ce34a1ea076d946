// Package language canonicalizes the metadata language sent to providers.
//
// Input may be a BCP 47 tag in any case or separator style ("en_us",
// "PT-br") or an English language name ("german"). Output is the canonical
// tag TMDB expects, such as "en-US".
package language
