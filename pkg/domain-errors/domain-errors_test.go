package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// These are the error primitives used at every trust boundary; the tests pin
// down invariants like "wrapped domain errors preserve the original code" and
// "errors.Is matches by code".
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "tenant not found"}
		s.Equal("tenant not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("not_found", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("connection refused")
		err := &Error{Code: CodeUnavailable, Message: "database unavailable", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeNotFound, Message: "not found"}
		s.Nil(err.Unwrap())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeNotFound, Message: "tenant not found"}
		err2 := &Error{Code: CodeNotFound, Message: "settings not found"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeNotFound}
		err2 := &Error{Code: CodeInternal}
		s.False(err1.Is(err2))
	})

	s.Run("works with errors.Is through chain", func() {
		inner := &Error{Code: CodeConflict, Message: "original"}
		wrapped := &Error{Code: CodeInternal, Message: "wrapped", Err: inner}
		target := &Error{Code: CodeConflict}
		s.True(errors.Is(wrapped, target))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves existing domain code", func() {
		inner := New(CodeConflict, "duplicate email")
		wrapped := Wrap(inner, CodeInternal, "failed to create tenant")
		s.True(HasCode(wrapped, CodeConflict))
		s.Equal("failed to create tenant", wrapped.Error())
	})

	s.Run("applies code to plain errors", func() {
		inner := errors.New("write failed")
		wrapped := Wrap(inner, CodeInternal, "failed to update tenant")
		s.True(HasCode(wrapped, CodeInternal))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.False(HasCode(nil, CodeNotFound))
	s.False(HasCode(errors.New("plain"), CodeNotFound))
	s.True(HasCode(New(CodeValidation, "name is required"), CodeValidation))
}
