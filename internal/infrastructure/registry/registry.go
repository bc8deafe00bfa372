package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/markwash/meta/internal/domain/model"
	"github.com/markwash/meta/internal/domain/proxy"
	"github.com/markwash/meta/internal/domain/shared"
	"go.uber.org/zap"
)

// TypeRegistry holds model and proxy types by name
type TypeRegistry struct {
	mu      sync.RWMutex
	models  map[string]*model.Type
	proxies map[string]*proxy.Type
	logger  *zap.Logger
}

// NewTypeRegistry creates a new type registry
func NewTypeRegistry(logger *zap.Logger) *TypeRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TypeRegistry{
		models:  make(map[string]*model.Type),
		proxies: make(map[string]*proxy.Type),
		logger:  logger.Named("registry"),
	}
}

// RegisterModel registers a model type under its name
func (r *TypeRegistry) RegisterModel(t *model.Type) error {
	if t == nil {
		return fmt.Errorf("%w: model type cannot be nil", shared.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.models[name]; exists {
		return fmt.Errorf("%w: model type '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.models[name] = t

	r.logger.Debug("model type registered",
		zap.String("type", name),
		zap.Strings("fields", t.AllFields()),
		zap.Int("bases", len(t.Bases())),
	)
	return nil
}

// Model returns a model type by name
func (r *TypeRegistry) Model(name string) (*model.Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.models[name]
	if !exists {
		return nil, fmt.Errorf("%w: model type '%s' not found", shared.ErrNotFound, name)
	}
	return t, nil
}

// ListModels returns all registered model type names
func (r *TypeRegistry) ListModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnregisterModel removes a model type. It fails while a registered proxy
// still wraps it.
func (r *TypeRegistry) UnregisterModel(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, exists := r.models[name]
	if !exists {
		return fmt.Errorf("%w: model type '%s' not found", shared.ErrNotFound, name)
	}
	for proxyName, p := range r.proxies {
		if p.Wrapped() == t {
			return fmt.Errorf("%w: model type '%s' is wrapped by proxy '%s'", shared.ErrInvalidInput, name, proxyName)
		}
	}
	delete(r.models, name)

	r.logger.Debug("model type unregistered", zap.String("type", name))
	return nil
}

// RegisterProxy registers a proxy type. Its wrapped model type must already
// be registered.
func (r *TypeRegistry) RegisterProxy(t *proxy.Type) error {
	if t == nil {
		return fmt.Errorf("%w: proxy type cannot be nil", shared.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.proxies[name]; exists {
		return fmt.Errorf("%w: proxy type '%s' already registered", shared.ErrAlreadyExists, name)
	}
	wrapped := t.Wrapped()
	if registered, ok := r.models[wrapped.Name()]; !ok || registered != wrapped {
		return fmt.Errorf("%w: proxy '%s' wraps unregistered model type '%s'", shared.ErrInvalidConfiguration, name, wrapped.Name())
	}
	r.proxies[name] = t

	r.logger.Debug("proxy type registered",
		zap.String("proxy", name),
		zap.String("wraps", wrapped.Name()),
		zap.Strings("properties", t.Properties()),
		zap.Strings("methods", t.Methods()),
	)
	return nil
}

// Proxy returns a proxy type by name
func (r *TypeRegistry) Proxy(name string) (*proxy.Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.proxies[name]
	if !exists {
		return nil, fmt.Errorf("%w: proxy type '%s' not found", shared.ErrNotFound, name)
	}
	return t, nil
}

// ListProxies returns all registered proxy type names
func (r *TypeRegistry) ListProxies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.proxies))
	for name := range r.proxies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnregisterProxy removes a proxy type
func (r *TypeRegistry) UnregisterProxy(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.proxies[name]; !exists {
		return fmt.Errorf("%w: proxy type '%s' not found", shared.ErrNotFound, name)
	}
	delete(r.proxies, name)

	r.logger.Debug("proxy type unregistered", zap.String("proxy", name))
	return nil
}

// Construct builds an instance of the named model type
func (r *TypeRegistry) Construct(typeName string, args model.Args) (*model.Instance, error) {
	t, err := r.Model(typeName)
	if err != nil {
		return nil, err
	}
	inst, err := t.Construct(args)
	if err != nil {
		r.logger.Debug("model construction failed",
			zap.String("type", typeName),
			zap.Strings("keywords", args.Keyword.Names()),
			zap.Error(err),
		)
		return nil, err
	}
	return inst, nil
}

// ConstructProxy attaches a proxy of the named type to wrapped
func (r *TypeRegistry) ConstructProxy(proxyName string, wrapped *model.Instance, args model.Args) (*proxy.Instance, error) {
	t, err := r.Proxy(proxyName)
	if err != nil {
		return nil, err
	}
	p, err := t.New(wrapped, args)
	if err != nil {
		r.logger.Debug("proxy construction failed",
			zap.String("proxy", proxyName),
			zap.Error(err),
		)
		return nil, err
	}
	return p, nil
}
