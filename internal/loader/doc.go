// Package loader reads manifest bytes from disk on behalf of the resolver.
// It owns every filesystem access: opening, size-limited reading and closing
// happen here, and callers receive an immutable byte snapshot.
package loader
