package memoize

import (
	"errors"
	"fmt"

	"github.com/kvgrid/rattlecache/internal/apperrors"
	"golang.org/x/sync/singleflight"
)

// core is the subset of the cache's surface the adapter is allowed to call,
// per spec.md §4.2: "The adapter calls only contains, get, put, and update
// on the core and holds no state of its own beyond what identifies the
// wrapped function." *cache.Cache satisfies this structurally.
type core interface {
	Contains(id string) bool
	Get(id string) (any, error)
	Put(id string, value any) error
	Update(id string, value any) error
}

// writeThrough stores value under id, creating the entry if it is absent.
// This is the adapter-level guarantee spec.md §4.2 describes for forced
// recomputation: the core's own update() errors on an absent id (see
// DESIGN.md), so the adapter falls back to put() when that happens.
func writeThrough(c core, id string, value any) error {
	err := c.Update(id, value)
	var notFound *apperrors.ErrNotFound
	if errors.As(err, &notFound) {
		return c.Put(id, value)
	}
	return err
}

// Tagged wraps fn so its result is cached under the fixed identifier tag.
// The first call computes and stores the result; later calls return the
// cached value. Because tag is known to the caller, the underlying core
// entry can also be read or overwritten directly (spec.md §4.2.1).
//
// Passing updateCache=true bypasses any existing hit, recomputes fn, and
// writes the result back through the core regardless of whether an entry
// already existed.
//
// Unlike Args, concurrent misses are not collapsed: each may invoke fn.
func Tagged(c core, tag string, fn func() (any, error)) func(updateCache bool) (any, error) {
	return func(updateCache bool) (any, error) {
		if !updateCache && c.Contains(tag) {
			return c.Get(tag)
		}
		v, err := fn()
		if err != nil {
			return nil, err
		}
		if err := writeThrough(c, tag, v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Func is the signature memoize.Args wraps: a function taking positional
// and keyword arguments and returning a result or an error.
type Func func(args []any, kwargs map[string]any) (any, error)

// Args wraps fn so its result is cached under an identifier derived from
// name and a canonical fingerprint of its arguments (spec.md §4.2.2). The
// caller never sees the derived identifier and must not assume one exists
// in the core under a predictable name.
//
// Concurrent calls with identical arguments are collapsed into a single
// invocation of fn via singleflight, so a cache stampede on a cold key
// only computes the result once.
func Args(c core, name string, fn Func) func(args []any, kwargs map[string]any, updateCache bool) (any, error) {
	var group singleflight.Group

	return func(args []any, kwargs map[string]any, updateCache bool) (any, error) {
		id, err := fingerprint(name, args, kwargs)
		if err != nil {
			return nil, err
		}

		if !updateCache && c.Contains(id) {
			return c.Get(id)
		}

		v, err, _ := group.Do(id, func() (any, error) {
			result, err := fn(args, kwargs)
			if err != nil {
				return nil, err
			}
			if err := writeThrough(c, id, result); err != nil {
				return nil, err
			}
			return result, nil
		})
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Dependency wraps fn so its result is cached under an identifier derived
// not from its own arguments but from the return value of a caller-supplied
// dependency function, invoked with the same call-time arguments. This is
// the third call shape (a third decorator in the original implementation,
// cached_dependency): distinct from the fixed tag Tagged uses and from the
// direct argument fingerprint Args uses, the identifier tracks whatever
// dependency considers the call's cache key to be — for example a resource
// version or a database row's last-modified timestamp rather than the
// arguments themselves.
//
// name distinguishes this wrapped function's identifiers from any other
// function memoized the same way; dependency's result is formatted with
// fmt.Sprintf("%v", ...) to build the identifier, so it should be a value
// with a stable, comparable string form.
func Dependency(c core, name string, dependency Func, fn Func) func(args []any, kwargs map[string]any, updateCache bool) (any, error) {
	return func(args []any, kwargs map[string]any, updateCache bool) (any, error) {
		depValue, err := dependency(args, kwargs)
		if err != nil {
			return nil, err
		}
		id := fmt.Sprintf("%s:%v", name, depValue)

		if !updateCache && c.Contains(id) {
			return c.Get(id)
		}

		result, err := fn(args, kwargs)
		if err != nil {
			return nil, err
		}
		if err := writeThrough(c, id, result); err != nil {
			return nil, err
		}
		return result, nil
	}
}
