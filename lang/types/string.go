package types

// DefaultStringType is the type assigned to a String literal, per spec §4.2.
// Strings lower to a word-sized pointer, per spec §4.3's aggregate/pointer
// sizing rule.
var DefaultStringType = TString
