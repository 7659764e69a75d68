// Package drafts holds the wizard draft encoding shared by the persistent
// repositories, plus the in-memory repository.
package drafts

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"encoding/json"
	"fmt"
)

// Codec turns a draft into bytes for storage. With a SecurityPort the
// password fields are sealed before they leave the process.
type Codec struct {
	sec ports.SecurityPort
}

// NewCodec returns a codec; sec may be nil to store passwords as-is.
func NewCodec(sec ports.SecurityPort) *Codec {
	return &Codec{sec: sec}
}

func (c *Codec) Encode(s *domain.RegistrationSession) ([]byte, error) {
	out := s.Clone()
	if c.sec != nil {
		var err error
		if out.Teacher.Password, err = c.seal(out.Teacher.Password); err != nil {
			return nil, err
		}
		if out.School.Password, err = c.seal(out.School.Password); err != nil {
			return nil, err
		}
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("could not encode draft: %w", err)
	}
	return b, nil
}

func (c *Codec) Decode(b []byte) (*domain.RegistrationSession, error) {
	s := domain.NewRegistrationSession()
	if err := json.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("could not decode draft: %w", err)
	}
	if c.sec != nil {
		var err error
		if s.Teacher.Password, err = c.open(s.Teacher.Password); err != nil {
			return nil, err
		}
		if s.School.Password, err = c.open(s.School.Password); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (c *Codec) seal(v string) (string, error) {
	if v == "" {
		return "", nil
	}
	sealed, err := c.sec.Seal(v)
	if err != nil {
		return "", fmt.Errorf("could not seal draft password: %w", err)
	}
	return sealed, nil
}

func (c *Codec) open(v string) (string, error) {
	if v == "" {
		return "", nil
	}
	plain, err := c.sec.Open(v)
	if err != nil {
		return "", fmt.Errorf("could not open draft password: %w", err)
	}
	return plain, nil
}
