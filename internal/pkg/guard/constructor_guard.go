// Package guard marks domain objects as constructed.
//
// Value objects and entities in this codebase validate their inputs in their
// constructors. A zero-value struct skips that validation, so every guarded
// type embeds a ConstructorGuard and checks it before use: the guard is set
// only by the constructor, which makes a zero value detectable.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a
// nil validation error, so an unconstructed object always fails with a message.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard detects domain objects that were never run through their
// constructor. A zero-value guard reports the object as unconstructed; only
// NewConstructorGuard produces a passing one, and only constructors call it.
//
// Embed the guard as a private field and check it first in Validate:
//
//	var ErrPhoneNotConstructed = errors.New("Phone must be created via NewPhone")
//
//	type Phone struct {
//	    number string
//	    guard  guard.ConstructorGuard
//	}
//
//	func NewPhone(number string) (Phone, error) {
//	    if number == "" {
//	        return Phone{}, errors.New("number is required")
//	    }
//	    return Phone{number: number, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (p Phone) Validate() error {
//	    return p.guard.Validate(ErrPhoneNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that reports its owner as constructed.
// Call it from the owning type's constructor and nowhere else.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the owner was built by its constructor. For a
// zero-value guard it returns validationError, or ErrDefaultConstructorGuard
// when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
