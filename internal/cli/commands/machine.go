package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/classmeta/internal/classdef"
	"github.com/conduit-lang/classmeta/internal/store"
	"github.com/conduit-lang/classmeta/internal/store/redisstore"
	"github.com/conduit-lang/classmeta/internal/store/sqlstore"
	"github.com/conduit-lang/classmeta/internal/vm"
	"github.com/conduit-lang/classmeta/runtime/classes"
)

// errNoStore is returned by commands that need a configured store
var errNoStore = errors.New("no store configured: set store.driver in classmeta.yaml")

// errNoSecret is returned when a token is requested without a signing key
var errNoSecret = errors.New("server.jwt_secret is not set")

// openStore connects to the configured store. It returns nil when no
// driver is configured.
func (s *session) openStore(ctx context.Context) (store.Store, error) {
	sc := s.cfg.Store
	switch sc.Driver {
	case "":
		return nil, nil
	case "redis":
		rc := redisstore.DefaultConfig()
		rc.Addr = sc.Redis.Addr
		rc.Password = sc.Redis.Password
		rc.DB = sc.Redis.DB
		if sc.Redis.Prefix != "" {
			rc.Prefix = sc.Redis.Prefix
		}
		st, err := redisstore.New(rc)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("store opened", zap.String("driver", sc.Driver), zap.String("addr", rc.Addr))
		return st, nil
	default:
		st, err := sqlstore.Open(ctx, sc.Driver, sc.DSN)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("store opened", zap.String("driver", sc.Driver))
		return st, nil
	}
}

// documents returns the definitions to load: the store's documents when
// st is not nil, the configured files otherwise
func (s *session) documents(ctx context.Context, st store.Store) ([]*classdef.Document, error) {
	if st != nil {
		return store.Documents(ctx, st)
	}
	if len(s.cfg.Definitions) == 0 {
		return nil, errors.New("no definitions: pass --definitions or set definitions in classmeta.yaml")
	}
	return classdef.LoadPaths(s.cfg.Definitions...)
}

// machine builds a Machine from the configured source
func (s *session) machine(ctx context.Context) (*vm.Machine, error) {
	st, err := s.openStore(ctx)
	if err != nil {
		return nil, err
	}
	if st != nil {
		defer st.Close()
	}
	return s.load(ctx, st)
}

func (s *session) load(ctx context.Context, st store.Store) (*vm.Machine, error) {
	docs, err := s.documents(ctx, st)
	if err != nil {
		return nil, err
	}
	m := vm.New(vm.WithLogger(s.logger))
	if _, err := m.Load(docs...); err != nil {
		return nil, fmt.Errorf("failed to load definitions: %w", err)
	}
	return m, nil
}

// typeNotFound is a failed type lookup together with the names a user
// may have meant
type typeNotFound struct {
	err        error
	name       string
	candidates []string
}

func (e *typeNotFound) Error() string { return e.err.Error() }

func (e *typeNotFound) Unwrap() error { return e.err }

// resolve looks up a type reference. A loader prefix selects the loader:
// "plugins:com.acme.Plugin".
func resolve(m *vm.Machine, ref string) (*classes.Type, error) {
	loader, name := splitRef(ref)
	t, err := m.Resolve(loader, name)
	if err == nil {
		return t, nil
	}
	var nf *classes.NotFoundError
	if errors.As(err, &nf) && nf.Kind == "class" {
		var names []string
		for _, t := range m.Types() {
			if !t.IsHidden() {
				names = append(names, t.Name())
			}
		}
		return nil, &typeNotFound{err: err, name: nf.Name, candidates: names}
	}
	return nil, err
}

// splitRef separates an optional "loader:" prefix from a type reference
func splitRef(ref string) (loader, name string) {
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}

// resolveAll resolves parameter type references as seen from loader
func resolveAll(m *vm.Machine, loader string, refs []string) ([]*classes.Type, error) {
	out := make([]*classes.Type, 0, len(refs))
	for _, ref := range refs {
		t, err := m.Resolve(loader, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
