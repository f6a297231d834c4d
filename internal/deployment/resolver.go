package deployment

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/bidcli/internal/store"
)

// StoreKey is where the last good descriptor is persisted.
const StoreKey = "LAST_DEPLOYMENT"

// Resolver probes sources in priority order and remembers the last good result.
type Resolver struct {
	sources []Source
	kv      store.KV
	chainID int64
	log     *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// NewResolver creates a resolver for the given chain over sources, highest
// priority first. kv may be nil to disable persistence.
func NewResolver(kv store.KV, chainID int64, sources []Source, opts ...Option) *Resolver {
	r := &Resolver{
		sources: sources,
		kv:      kv,
		chainID: chainID,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ChainID is the network every accepted descriptor must be on.
func (r *Resolver) ChainID() int64 { return r.chainID }

// Detect returns the first descriptor that validates. Source failures are
// logged and skipped.
func (r *Resolver) Detect(ctx context.Context) (*Descriptor, error) {
	for _, src := range r.sources {
		d, err := src.Load(ctx)
		if err != nil {
			r.log.Debug("deployment source yielded nothing", zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		if err := Validate(d, r.chainID); err != nil {
			r.log.Warn("deployment source rejected", zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		r.log.Info("deployment found", zap.String("source", src.Name()), zap.String("address", d.ContractAddress))
		return d, nil
	}
	return nil, ErrNoDeployment
}

// Resolve detects a deployment and persists it. When detection fails the
// persisted descriptor is used if it still validates.
func (r *Resolver) Resolve(ctx context.Context) (*Descriptor, error) {
	d, err := r.Detect(ctx)
	if err == nil {
		if perr := r.Persist(d); perr != nil {
			r.log.Warn("could not persist deployment", zap.Error(perr))
		}
		return d, nil
	}
	if saved, ok := r.Persisted(); ok {
		r.log.Info("using persisted deployment", zap.String("address", saved.ContractAddress))
		return saved, nil
	}
	return nil, ErrNoDeployment
}

// Persist stores d as the last known deployment.
func (r *Resolver) Persist(d *Descriptor) error {
	if r.kv == nil {
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding deployment: %w", err)
	}
	return r.kv.Set(StoreKey, string(data))
}

// Persisted loads the last known deployment. A value that no longer decodes
// or validates is removed.
func (r *Resolver) Persisted() (*Descriptor, bool) {
	if r.kv == nil {
		return nil, false
	}
	raw, ok := r.kv.Get(StoreKey)
	if !ok {
		return nil, false
	}
	var d Descriptor
	err := json.Unmarshal([]byte(raw), &d)
	if err == nil {
		err = Validate(&d, r.chainID)
	}
	if err != nil {
		r.log.Warn("discarding persisted deployment", zap.Error(err))
		_ = r.kv.Remove(StoreKey)
		return nil, false
	}
	return &d, true
}
