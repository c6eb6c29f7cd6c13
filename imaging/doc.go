package imaging

// Package imaging produces backend-tailored preprocessed copies of a source
// scan. Each recognition engine sees the variants tuned to its strengths
// (hard binarization for print-oriented engines, contrast normalization for
// layout-oriented ones), and a full catalog of strategies backs the
// single-engine fallback mode. Variants are derived, disposable and never
// persisted; their lifetime is one extraction call.
