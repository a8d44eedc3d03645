// Package featureselect implements the filter feature selectors the
// boosted ensemble uses to pick an initial feature subset: CFS
// (correlation-based, greedy best-first), FCBF (fast correlation-based
// filter), and IWSS (incremental wrapper-free subset selection). All three
// share a symmetrical-uncertainty cache over a metrics.Metrics instance.
package featureselect

import (
	"math"
	"sort"

	"github.com/invertedv/bayesnet/metrics"
	"github.com/pkg/errors"
)

// suCache memoizes symmetrical uncertainty scores -- each feature's SU to
// the class, and every feature pair's SU to each other -- so the greedy
// search in CFS/IWSS never recomputes the same weighted histogram twice.
type suCache struct {
	m        *metrics.Metrics
	w        []float64
	classSU  map[int]float64
	pairSU   map[[2]int]float64
}

func newSUCache(m *metrics.Metrics, w []float64) *suCache {
	return &suCache{m: m, w: w, classSU: map[int]float64{}, pairSU: map[[2]int]float64{}}
}

func (c *suCache) classScore(i int) float64 {
	if v, ok := c.classSU[i]; ok {
		return v
	}
	v := c.m.SymmetricalUncertainty(i, -1, c.w)
	c.classSU[i] = v
	return v
}

func (c *suCache) pairScore(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	key := [2]int{i, j}
	if v, ok := c.pairSU[key]; ok {
		return v
	}
	v := c.m.SymmetricalUncertainty(i, j, c.w)
	c.pairSU[key] = v
	return v
}

// merit computes Hall's CFS merit for the candidate feature subset set:
// k*rcf / sqrt(k + k(k-1)*rff), where rcf is the average SU to the class
// and rff is the average pairwise SU between selected features.
func merit(c *suCache, set []int) float64 {
	k := len(set)
	if k == 0 {
		return 0
	}
	rcf := 0.0
	for _, i := range set {
		rcf += c.classScore(i)
	}
	rcf /= float64(k)
	if k == 1 {
		return rcf
	}
	rff, pairs := 0.0, 0
	for a := 0; a < len(set); a++ {
		for b := a + 1; b < len(set); b++ {
			rff += c.pairScore(set[a], set[b])
			pairs++
		}
	}
	rff /= float64(pairs)
	denom := math.Sqrt(float64(k) + float64(k*(k-1))*rff)
	if denom == 0 {
		return 0
	}
	return float64(k) * rcf / denom
}

// Selector is the shared contract for CFS/FCBF/IWSS: fit over a metrics
// instance and per-sample weights, then report the selected feature
// indices (in the order chosen) and their per-feature scores.
type Selector interface {
	Fit(m *metrics.Metrics, w []float64) error
	GetFeatures() ([]int, error)
	GetScores() ([]float64, error)
}

type base struct {
	fitted   bool
	features []int
	scores   []float64
}

func (b *base) GetFeatures() ([]int, error) {
	if !b.fitted {
		return nil, errors.Wrap(ErrRuntimeError, "GetFeatures called before Fit")
	}
	return append([]int(nil), b.features...), nil
}

func (b *base) GetScores() ([]float64, error) {
	if !b.fitted {
		return nil, errors.Wrap(ErrRuntimeError, "GetScores called before Fit")
	}
	return append([]float64(nil), b.scores...), nil
}

// CFSSelector runs Hall's correlation-based feature selection: greedy
// best-first search maximizing merit, terminating after five consecutive
// non-improving expansions.
type CFSSelector struct {
	base
	MaxFeatures int // 0 means "no cap beyond n_features"
}

// Fit runs the CFS search over m's features.
func (s *CFSSelector) Fit(m *metrics.Metrics, w []float64) error {
	cache := newSUCache(m, w)
	n := m.NumFeatures()
	maxFeatures := s.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > n {
		maxFeatures = n
	}

	remaining := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		remaining[i] = true
	}

	// Seed with the single highest SU-to-class feature.
	seed, seedScore := -1, -1.0
	for i := 0; i < n; i++ {
		if sc := cache.classScore(i); sc > seedScore {
			seed, seedScore = i, sc
		}
	}
	current := []int{seed}
	delete(remaining, seed)

	bestSet := append([]int(nil), current...)
	bestMerit := merit(cache, current)
	noImprove := 0

	for len(current) < maxFeatures && len(remaining) > 0 && noImprove < 5 {
		bestCand, bestCandMerit := -1, -1.0
		for cand := range remaining {
			trial := append(append([]int(nil), current...), cand)
			if mv := merit(cache, trial); mv > bestCandMerit {
				bestCand, bestCandMerit = cand, mv
			}
		}
		if bestCand == -1 {
			break
		}
		current = append(current, bestCand)
		delete(remaining, bestCand)

		if bestCandMerit > bestMerit {
			bestMerit = bestCandMerit
			bestSet = append([]int(nil), current...)
			noImprove = 0
		} else {
			noImprove++
		}
	}

	s.features = bestSet
	s.scores = make([]float64, len(bestSet))
	for i, f := range bestSet {
		s.scores[i] = cache.classScore(f)
	}
	s.fitted = true
	return nil
}

// FCBFSelector keeps features whose SU to the class clears threshold,
// sorts them descending, then drops any feature dominated by an
// earlier-kept feature (SU(kept, dominated) >= SU(dominated, class)).
type FCBFSelector struct {
	base
	Threshold float64
}

// Fit runs the FCBF filter over m's features.
func (s *FCBFSelector) Fit(m *metrics.Metrics, w []float64) error {
	if s.Threshold < 1e-7 {
		return errors.Wrap(ErrInvalidArgument, "FCBF threshold must be >= 1e-7")
	}
	cache := newSUCache(m, w)
	n := m.NumFeatures()

	type scored struct {
		idx   int
		score float64
	}
	var candidates []scored
	for i := 0; i < n; i++ {
		if sc := cache.classScore(i); sc >= s.Threshold {
			candidates = append(candidates, scored{idx: i, score: sc})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	alive := make([]bool, len(candidates))
	for i := range alive {
		alive[i] = true
	}
	for p := 0; p < len(candidates); p++ {
		if !alive[p] {
			continue
		}
		for q := p + 1; q < len(candidates); q++ {
			if !alive[q] {
				continue
			}
			if cache.pairScore(candidates[p].idx, candidates[q].idx) >= candidates[q].score {
				alive[q] = false
			}
		}
	}

	for i, c := range candidates {
		if alive[i] {
			s.features = append(s.features, c.idx)
			s.scores = append(s.scores, c.score)
		}
	}
	s.fitted = true
	return nil
}

// IWSSSelector runs incremental wrapper-free subset selection: seed with
// the top-SU feature, add the best-merit partner, then keep adding
// SU-ranked candidates whose merit improves or whose relative
// deterioration stays under threshold.
type IWSSSelector struct {
	base
	Threshold float64
}

// Fit runs the IWSS search over m's features.
func (s *IWSSSelector) Fit(m *metrics.Metrics, w []float64) error {
	if s.Threshold < 0 || s.Threshold > 0.5 {
		return errors.Wrap(ErrInvalidArgument, "IWSS threshold must be in [0, 0.5]")
	}
	cache := newSUCache(m, w)
	n := m.NumFeatures()
	if n == 0 {
		s.fitted = true
		return nil
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, n)
	for i := 0; i < n; i++ {
		ranked[i] = scored{idx: i, score: cache.classScore(i)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	selected := []int{ranked[0].idx}
	if n == 1 {
		s.features, s.scores = selected, []float64{ranked[0].score}
		s.fitted = true
		return nil
	}

	used := map[int]bool{ranked[0].idx: true}
	bestPartner, bestPartnerMerit := -1, -1.0
	for _, r := range ranked[1:] {
		trial := append(append([]int(nil), selected...), r.idx)
		if mv := merit(cache, trial); mv > bestPartnerMerit {
			bestPartner, bestPartnerMerit = r.idx, mv
		}
	}
	selected = append(selected, bestPartner)
	used[bestPartner] = true
	currentMerit := bestPartnerMerit

	for _, r := range ranked {
		if used[r.idx] {
			continue
		}
		trial := append(append([]int(nil), selected...), r.idx)
		newMerit := merit(cache, trial)
		improve := newMerit > currentMerit
		relDeterioration := 0.0
		if currentMerit != 0 {
			relDeterioration = math.Abs(newMerit-currentMerit) / math.Abs(currentMerit)
		}
		if improve || relDeterioration < s.Threshold {
			selected = append(selected, r.idx)
			used[r.idx] = true
			currentMerit = newMerit
		}
	}

	s.features = selected
	s.scores = make([]float64, len(selected))
	for i, f := range selected {
		s.scores[i] = cache.classScore(f)
	}
	s.fitted = true
	return nil
}
