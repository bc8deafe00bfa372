// Package proxy builds delegating wrappers around model instances.
//
// A proxy Type is declared against a wrapped model.Type. Build mirrors every
// property and method declared directly on the wrapped type as a forwarding
// member, except names the proxy declares itself. Proxy instances hold a
// shared, non-owning reference to one model instance.
package proxy
