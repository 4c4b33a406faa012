package hostfuncs

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
)

// EnvStore is the job environment: a snapshot of the base environment plus the
// variables set by pipeline steps. It is safe for concurrent use.
type EnvStore struct {
	mu    sync.RWMutex
	vars  map[string]string
	grant EnvGrant
}

// envStoreConfig holds configuration for an EnvStore.
type envStoreConfig struct {
	base  []string
	grant EnvGrant
}

// EnvStoreOption configures an EnvStore.
type EnvStoreOption func(*envStoreConfig)

// WithBaseEnv replaces the process environment as the starting point.
func WithBaseEnv(env []string) EnvStoreOption {
	return func(c *envStoreConfig) {
		c.base = env
	}
}

// WithEnvGrant allows gated variables such as PATH to be set.
func WithEnvGrant(grant EnvGrant) EnvStoreOption {
	return func(c *envStoreConfig) {
		c.grant = grant
	}
}

// NewEnvStore creates an EnvStore seeded from os.Environ.
func NewEnvStore(opts ...EnvStoreOption) *EnvStore {
	cfg := envStoreConfig{base: os.Environ()}
	for _, opt := range opts {
		opt(&cfg)
	}

	vars := make(map[string]string, len(cfg.base))
	for _, e := range cfg.base {
		if k, v, ok := strings.Cut(e, "="); ok && k != "" {
			vars[k] = v
		}
	}
	return &EnvStore{vars: vars, grant: cfg.grant}
}

// Get returns the value of name and whether it is set.
func (s *EnvStore) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	return v, ok
}

// Set applies vars in order. Either every variable is applied or none is.
func (s *EnvStore) Set(vars []entities.EnvVar) error {
	for _, v := range vars {
		if reason := CheckEnv(v.Name, s.grant); reason != "" {
			return fmt.Errorf("cannot set %s: %s", v.Name, reason)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vars {
		s.vars[v.Name] = v.Value
	}
	return nil
}

// Environ returns the environment as sorted KEY=VALUE entries.
func (s *EnvStore) Environ() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	env := make([]string, 0, len(s.vars))
	for k, v := range s.vars {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

// PerformGetEnv answers a get_env call.
func PerformGetEnv(s *EnvStore, req entities.GetEnvRequest) entities.GetEnvResponse {
	v, ok := s.Get(req.Name)
	return entities.GetEnvResponse{Value: v, Found: ok}
}

// PerformSetEnvs answers a set_envs call.
func PerformSetEnvs(s *EnvStore, req entities.SetEnvsRequest) entities.SetEnvsResponse {
	if err := s.Set(req.Vars); err != nil {
		return entities.SetEnvsResponse{Error: entities.NewErrorDetail("env", err.Error())}
	}
	return entities.SetEnvsResponse{}
}
