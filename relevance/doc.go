// Package relevance scores normalized records against a free-text query and
// selects which of them to surface.
//
// It is deliberately small: there is no index and nothing is cached. Each
// query scores the handful of candidates an upstream API returned, then
// [Select] decides how many to keep.
//
// # Scoring
//
// [MatchScore] is the primitive. It lowercases both sides, splits the query on
// whitespace and drops tokens of two characters or fewer. A text earns:
//
//   - an exact-phrase bonus when the whole query appears verbatim
//   - min(occurrences, cap) for every token it contains
//   - a coverage bonus when it contains every token
//
// [ScoreBill] and [ScoreDocument] combine MatchScore over the fields of a
// record with per-field multipliers and flat bonuses for subject tags and
// agency names. Missing fields contribute zero, so every well-formed record
// has a defined score.
//
// All constants live in [Weights]. [DefaultWeights] returns the tuned values;
// they are empirical and should be recalibrated against real queries rather
// than changed in isolation.
//
// # Selection
//
// [Select] sorts scored candidates by descending score (stable, so upstream
// order breaks ties). When at least limit candidates clear the high-relevance
// threshold it returns the best limit of them; otherwise it falls back to the
// best limit overall so marginal matches still produce a page of results.
//
//	scored := make([]relevance.Scored[record.Bill], 0, len(bills))
//	for _, b := range bills {
//	    scored = append(scored, relevance.Scored[record.Bill]{
//	        Item:  b,
//	        Key:   b.Key().String(),
//	        Score: relevance.ScoreBill(b, query),
//	    })
//	}
//	top := relevance.Select(scored, 10, relevance.DefaultWeights().Threshold)
//
// # Thread Safety
//
// All functions are pure. A [Scorer] is immutable after construction and safe
// for concurrent use.
package relevance
