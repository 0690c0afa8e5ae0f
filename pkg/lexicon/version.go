// Package lexicon holds release metadata for the Lexicon module.
package lexicon

// Version is the semantic version of the module.
const Version = "0.3.0"
