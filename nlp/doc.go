package nlp

// Package nlp derives normalized keyword sets from transcripts and measures
// fuzzy set coverage between a model answer's keywords and a student's.
// Normalization is deterministic (lowercasing, stopword removal, suffix
// lemmatization) so the same transcript always yields the same keyword set.
