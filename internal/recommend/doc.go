// Package recommend ranks hotel listings against a traveler's preferences.
//
// Each hotel is scored on six dimensions (price, star rating, amenities,
// location, reviews, availability). Every sub-score is normalized to [0, 1]
// and combined with a fixed set of weights into a composite score. For a
// full recommendation the engine also picks the best-fit room, decides
// whether a linked tour package beats the hotel-only price, and writes a
// short template-based explanation.
//
// Missing inventory data never fails a score: absent fields fall back to a
// neutral value so sparsely populated hotels still rank sensibly. Only
// caller contract violations (non-positive group size or trip length, an
// inverted budget) are reported as errors.
//
// The engine holds no mutable state and performs no I/O, so a single Engine
// can score a whole candidate set concurrently.
//
//	eng, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	rec, err := eng.Recommend(hotel, packages, prefs, 3)
package recommend
