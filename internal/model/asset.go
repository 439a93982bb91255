package model

// Asset pairs a symbol with its kind so callers can resolve the
// provider-specific query key and native currency.
type Asset struct {
	Symbol string
	Kind   AssetKind
}
