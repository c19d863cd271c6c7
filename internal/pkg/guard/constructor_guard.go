package guard

import "errors"

// ErrDefaultConstructorGuard is the default error returned by ConstructorGuard.Validate()
// when a nil error is passed as the validation error. This ensures that validation
// always fails with a meaningful message even if no specific error is provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures value objects and entities are only created through
// their designated constructor functions. It prevents direct struct initialization
// from slipping past validation rules.
//
// By embedding a ConstructorGuard in a struct, you can detect whether the struct
// was properly initialized through its constructor or created as a zero value.
// The guard maintains an internal flag that is only set when the object is created
// through the proper constructor function; a zero-value struct fails validation.
//
// Example usage:
//
//	var ErrVolumeNotConstructed = errors.New("Volume must be created via NewVolume")
//
//	type Volume struct {
//	    gallons int
//	    guard   ConstructorGuard
//	}
//
//	func NewVolume(gallons int) (Volume, error) {
//	    if gallons <= 0 {
//	        return Volume{}, errors.New("gallons must be positive")
//	    }
//	    return Volume{
//	        gallons: gallons,
//	        guard:   NewConstructorGuard(),
//	    }, nil
//	}
//
//	func (v Volume) Validate() error {
//	    return v.guard.Validate(ErrVolumeNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a new ConstructorGuard that marks an object as
// properly constructed. This should be called in the constructor of domain objects
// to ensure they can be distinguished from zero-value instances.
//
// Returns:
//   - A ConstructorGuard with its constructed flag set
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate checks whether the guarded object was properly constructed through
// its designated constructor function.
//
// If the object was created as a zero value (not through the constructor),
// this method returns the provided validation error. If validationError is nil,
// ErrDefaultConstructorGuard is returned instead.
//
// Parameters:
//   - validationError: The error to return if the object was not properly constructed
//
// Returns:
//   - nil if the object was properly constructed
//   - validationError if the object was not constructed through its constructor
//   - ErrDefaultConstructorGuard if validationError is nil and object not constructed
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
