package outcomes

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
)

// Source fornece o conjunto fixo de outcomes e sorteia um id por giro
type Source interface {
	Outcomes() *domain.OutcomeSet
	Draw() string
}

const (
	PolicyUniform  = "uniform"
	PolicyWeighted = "weighted"
)

// lockedRand: *rand.Rand não é seguro para uso concorrente
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// NewRand cria o gerador; seed 0 usa o relógio
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// UniformSource sorteia com a mesma probabilidade cada casa
type UniformSource struct {
	set *domain.OutcomeSet
	ids []string
	rng *lockedRand
}

func NewUniform(set *domain.OutcomeSet, rng *rand.Rand) *UniformSource {
	items := set.Outcomes()
	ids := make([]string, len(items))
	for i, o := range items {
		ids[i] = o.ID
	}
	return &UniformSource{set: set, ids: ids, rng: &lockedRand{r: rng}}
}

func (s *UniformSource) Outcomes() *domain.OutcomeSet { return s.set }

func (s *UniformSource) Draw() string {
	return s.ids[s.rng.intn(len(s.ids))]
}

// WeightedSource sorteia proporcional ao Weight de cada segmento
type WeightedSource struct {
	set        *domain.OutcomeSet
	ids        []string
	cumulative []int
	total      int
	rng        *lockedRand
}

func NewWeighted(set *domain.OutcomeSet, rng *rand.Rand) (*WeightedSource, error) {
	s := &WeightedSource{set: set, rng: &lockedRand{r: rng}}
	for _, o := range set.Outcomes() {
		if o.Weight == 0 {
			continue
		}
		s.total += o.Weight
		s.ids = append(s.ids, o.ID)
		s.cumulative = append(s.cumulative, s.total)
	}
	if s.total == 0 {
		return nil, fmt.Errorf("weighted source: all weights are zero")
	}
	return s, nil
}

func (s *WeightedSource) Outcomes() *domain.OutcomeSet { return s.set }

func (s *WeightedSource) Draw() string {
	n := s.rng.intn(s.total)
	for i, c := range s.cumulative {
		if n < c {
			return s.ids[i]
		}
	}
	return s.ids[len(s.ids)-1]
}

// New resolve OUTCOME_POLICY
func New(policy string, set *domain.OutcomeSet, rng *rand.Rand) (Source, error) {
	switch policy {
	case "", PolicyUniform:
		return NewUniform(set, rng), nil
	case PolicyWeighted:
		s, err := NewWeighted(set, rng)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown outcome policy %q", policy)
	}
}
