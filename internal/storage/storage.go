// Package storage defines the key-value store used to persist short code mappings
// and the error kinds every backend reports.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Store maps short codes to original URLs.
type Store interface {
	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key, value string) error
	// Get returns the value stored under key. A missing key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	// Ping succeeds when a connection to the store can be obtained.
	Ping(ctx context.Context) error
	Close() error
}

var (
	// ErrUnavailable means no connection to the store could be obtained.
	ErrUnavailable = errors.New("store unavailable")
	// ErrQuery means a command reached the store but failed.
	ErrQuery = errors.New("store query failed")
)

// ErrorKind classifies store failures for the transport layer.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnavailable
	KindQuery
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindQuery:
		return "query"
	default:
		return "none"
	}
}

// Kind reports which store failure err represents.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrQuery):
		return KindQuery
	default:
		return KindNone
	}
}

// Unavailable wraps a connection failure of operation op.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// Query wraps a command failure of operation op.
func Query(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
}
