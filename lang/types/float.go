package types

// FloatKinds lists the floating-point kinds, in increasing width order.
var FloatKinds = []Kind{F32, F64}

// DefaultFloatType is the type assigned to a Float literal, per spec §4.2.
var DefaultFloatType = TF64
