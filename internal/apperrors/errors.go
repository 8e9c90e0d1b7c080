package apperrors

import "errors"

// The error taxonomy is a closed set of sentinels. Layers wrap them with
// fmt.Errorf("%w: ...") to add context; callers classify with errors.Is.

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrAccountNotFound indicates that a referenced account key does not exist.
// Distinct from ErrNotFound so posting failures can name the missing account.
var ErrAccountNotFound = errors.New("account not found")

// ErrDoubleEntry indicates that a journal's debit and credit totals do not
// match. Kept separate from ErrValidation because it is the core accounting
// invariant.
var ErrDoubleEntry = errors.New("journal debits and credits do not balance")

// ErrStorage wraps any failure surfaced by the storage layer (connectivity
// loss, constraint machinery, scan errors), preserving the original cause.
var ErrStorage = errors.New("storage error")
