package recognize

// Package recognize defines abstraction layers for plugging text-recognition
// engines (for example, Tesseract or cloud vision services) into the answer
// extraction pipeline. The interfaces are intentionally small and
// transport-agnostic so engines can be backed by native libraries or remote
// APIs without leaking provider-specific concerns into callers.
