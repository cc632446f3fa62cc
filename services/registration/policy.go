package registration

import (
	"math/big"
	"math/rand"
	"strings"
	"sync"

	"bikereg/models"

	"github.com/google/uuid"
)

// FailurePolicy decides whether a valid registration is rejected.
type FailurePolicy interface {
	ShouldFail(rec models.RegistrationRecord) bool
}

// FailurePolicyFunc adapts a function to FailurePolicy.
type FailurePolicyFunc func(rec models.RegistrationRecord) bool

func (f FailurePolicyFunc) ShouldFail(rec models.RegistrationRecord) bool { return f(rec) }

// NeverFail accepts every valid registration.
var NeverFail = FailurePolicyFunc(func(models.RegistrationRecord) bool { return false })

// SimulatedFailures rejects registrations whose email contains a marker
// substring, and otherwise a seeded random fraction of them.
type SimulatedFailures struct {
	mu        sync.Mutex
	rng       *rand.Rand
	rate      float64
	forceFail string
}

func NewSimulatedFailures(rate float64, seed int64, forceFail string) *SimulatedFailures {
	return &SimulatedFailures{
		rng:       rand.New(rand.NewSource(seed)),
		rate:      rate,
		forceFail: forceFail,
	}
}

func (p *SimulatedFailures) ShouldFail(rec models.RegistrationRecord) bool {
	if p.forceFail != "" && strings.Contains(rec.Email, p.forceFail) {
		return true
	}
	if p.rate <= 0 {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() < p.rate
}

const registrationIDLength = 7

// NewRegistrationID returns "REG-" followed by 7 uppercase base36 characters.
func NewRegistrationID() string {
	u := uuid.New()
	s := strings.ToUpper(new(big.Int).SetBytes(u[:]).Text(36))
	if len(s) < registrationIDLength {
		s = strings.Repeat("0", registrationIDLength-len(s)) + s
	}
	return "REG-" + s[len(s)-registrationIDLength:]
}
