package komerce

import (
	"errors"
	"sync/atomic"
)

// Credential is one upstream API secret with its fixed priority order.
type Credential struct {
	Secret  string
	Ordinal int
}

// Pool is an ordered list of interchangeable upstream credentials. The list
// is immutable after construction; the only mutable state is the process-local
// last-known-good hint, which is advisory telemetry and never affects which
// credential a request tries first.
type Pool struct {
	creds    []Credential
	lastGood atomic.Int32
}

// NewPool builds a pool from ordered secrets. Empty or blank secrets are
// rejected, the ordinal order is the slice order.
func NewPool(secrets []string) (*Pool, error) {
	if len(secrets) == 0 {
		return nil, errors.New("at least one API credential is required")
	}

	creds := make([]Credential, 0, len(secrets))
	for i, secret := range secrets {
		if secret == "" {
			return nil, errors.New("blank API credential in pool")
		}
		creds = append(creds, Credential{Secret: secret, Ordinal: i})
	}

	return &Pool{creds: creds}, nil
}

func (p *Pool) Len() int {
	return len(p.creds)
}

func (p *Pool) At(ordinal int) Credential {
	return p.creds[ordinal]
}

// MarkGood records the ordinal of a credential that just succeeded.
// Unsynchronized races only affect the reported hint, never correctness.
func (p *Pool) MarkGood(ordinal int) {
	p.lastGood.Store(int32(ordinal))
}

// LastKnownGood returns the ordinal of the most recently successful
// credential, 0 before any success.
func (p *Pool) LastKnownGood() int {
	return int(p.lastGood.Load())
}
