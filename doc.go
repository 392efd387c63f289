// Package anymap provides a container that holds up to one value per
// concrete Go type, a map keyed by the types themselves. Values go in and
// come out fully typed through the package level functions, the erasure in
// between is an implementation detail.
//
// The AnyMap and CloneMap instantiations pick between plain and duplicable
// stored values. A build with the anymap_flat tag swaps the built-in map
// backing for a flat open-addressing table driven by the precomputed
// per-type hash token, a build with anymap_checks arms internal consistency
// checks around the unchecked downcasts.
package anymap
