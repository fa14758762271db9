// Package xnb implements a decoder and encoder for the XNA content binary
// (XNB) container format, with the content readers used by Superfighters
// Deluxe assets.
//
// The easiest way to decode and encode files is through Decoder.Decode and
// Encoder.Encode, which convert between byte streams and Document
// structures specified by the xnbfile package.
package xnb
