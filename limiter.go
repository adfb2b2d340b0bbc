package fulltext

// sanitizeK clamps k to [1, maxResults]; k <= 0 selects maxResults.
func sanitizeK(k, maxResults int) int {
	if k <= 0 || k > maxResults {
		return maxResults
	}
	return k
}

// limitResults returns the first k results.
func limitResults(results []SearchResult, k int) []SearchResult {
	return results[:sanitizeK(k, len(results))]
}

// autocutResults cuts ranked results at a natural break in their scores.
// A cutoff of -1 returns the results unchanged.
//
// Usage:
//
//	return autocutResults(results, 1)  // cut before the first extremum
//	return autocutResults(results, -1) // no-op
func autocutResults(results []SearchResult, cutoff int) []SearchResult {
	if cutoff == -1 || len(results) == 0 {
		return results
	}
	scores := make([]float32, len(results))
	for i, r := range results {
		scores[i] = float32(r.Score)
	}
	return results[:Autocut(scores, cutoff)]
}

// Autocut determines the cutoff point in a sorted score distribution.
//
// It compares the normalized scores against a straight line from the first
// to the last score and returns the index before the cutOff-th local maximum
// of the difference. Flat distributions are never cut.
func Autocut(yValues []float32, cutOff int) int {
	n := len(yValues)
	if n <= 1 {
		return n
	}
	span := yValues[n-1] - yValues[0]
	if span == 0 {
		return n
	}

	diff := make([]float32, n)
	step := 1 / float32(n-1)
	for i, y := range yValues {
		diff[i] = (y-yValues[0])/span - float32(i)*step
	}

	extrema := 0
	for i := 1; i < n; i++ {
		var peak bool
		if i == n-1 {
			// the last point has no successor
			peak = diff[i] > diff[i-1] && (i < 2 || diff[i] > diff[i-2])
		} else {
			peak = diff[i] > diff[i-1] && diff[i] > diff[i+1]
		}
		if peak {
			extrema++
			if extrema >= cutOff {
				return i
			}
		}
	}
	return n
}
