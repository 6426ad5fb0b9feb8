package drive

import "errors"

var (
	ErrNotFound     = errors.New("entity or share grant not found")
	ErrUnauthorized = errors.New("requester is not the owner of this entity")
	ErrExpired      = errors.New("share grant has expired")

	// ErrInconsistent means a parent pointer resolved to a missing row, or a
	// walk revisited a node. Correct cascade deletion should make this
	// impossible; it exists so a racing delete cannot hang or crash a walk.
	ErrInconsistent = errors.New("entity tree is inconsistent")
)
