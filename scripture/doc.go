// Package scripture loads Bible translation datasets and resolves verse
// references against them.
//
// Datasets are plain JSON files keyed book -> chapter -> verse -> text.
// Lookups never fail with an error: an unknown translation resolves to
// "Invalid Bible version" and any other miss resolves to "Text not found",
// so a bad reference degrades to a readable placeholder instead of
// breaking an in-flight stream.
package scripture
