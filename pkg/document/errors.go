// Package document composes the succinct structures into the public
// read API: a frozen Document and lightweight Node handles over it.
package document

import "errors"

var (
	// ErrMalformedInput indicates an ill-nested event stream. The build
	// attempt is discarded; no Document is produced.
	ErrMalformedInput = errors.New("document: malformed event stream")

	// ErrBuilderFinalized indicates events after Finalize or a second
	// Finalize call on the same Builder.
	ErrBuilderFinalized = errors.New("document: builder already finalized")

	// ErrReservedByte indicates a text run carrying a byte below 0x02;
	// those code points are reserved for index sentinels (and are not
	// legal XML character data).
	ErrReservedByte = errors.New("document: text run contains reserved byte")
)
