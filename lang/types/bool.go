package types

// DefaultBoolType is the type assigned to a Bool literal, per spec §4.2. Bool
// lowers to a single byte holding 0 or 1, per spec §4.3.
var DefaultBoolType = TBool
