package extract

// Package extract turns a scanned answer into a transcript. A coordinator
// fans the scan out to every available recognition engine in parallel, each
// against preprocessing variants tuned to it, keeps the best output per
// engine, fuses the survivors line-by-line with confidence-weighted word
// voting, and applies deterministic cleanup for known recognition
// confusions. PDF inputs are split into pages first; pages with a usable
// embedded text layer bypass recognition entirely.
