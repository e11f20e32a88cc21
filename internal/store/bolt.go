package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.etcd.io/bbolt"

	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

var bucketScenarios = []byte("scenarios")

// BoltStore implements Store in a single bbolt file, for local CLI use
// without a database server.
type BoltStore struct {
	db *bbolt.DB
}

// NewBolt opens or creates the bbolt database at path. The parent directory
// is created if it does not exist.
func NewBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, eris.Wrap(err, "bolt: create directory")
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, eris.Wrap(err, "bolt: open")
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Migrate(_ context.Context) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketScenarios)
		return err
	})
	return eris.Wrap(err, "bolt: migrate")
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) SaveScenario(_ context.Context, name string, cs waterfall.CapitalStructure) (*Scenario, error) {
	now := time.Now().UTC()
	sc := &Scenario{
		ID:        uuid.New().String(),
		Name:      name,
		Structure: cs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.put(sc); err != nil {
		return nil, eris.Wrap(err, "bolt: insert scenario")
	}
	return sc, nil
}

func (s *BoltStore) UpdateScenario(ctx context.Context, id string, cs waterfall.CapitalStructure) error {
	sc, err := s.GetScenario(ctx, id)
	if err != nil {
		return err
	}
	sc.Structure = cs
	sc.UpdatedAt = time.Now().UTC()
	return eris.Wrapf(s.put(sc), "bolt: update scenario %s", id)
}

func (s *BoltStore) GetScenario(_ context.Context, id string) (*Scenario, error) {
	var sc *Scenario
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := scenarioBucket(tx)
		if err != nil {
			return err
		}
		data := b.Get([]byte(id))
		if data == nil {
			return nil
		}
		sc = &Scenario{}
		return json.Unmarshal(data, sc)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "bolt: get scenario %s", id)
	}
	if sc == nil {
		return nil, notFound("bolt", id)
	}
	return sc, nil
}

func (s *BoltStore) ListScenarios(_ context.Context, filter ScenarioFilter) ([]Scenario, error) {
	var all []Scenario
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := scenarioBucket(tx)
		if err != nil {
			return err
		}
		return b.ForEach(func(_, v []byte) error {
			var sc Scenario
			if err := json.Unmarshal(v, &sc); err != nil {
				return err
			}
			if filter.Name == "" || sc.Name == filter.Name {
				all = append(all, sc)
			}
			return nil
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "bolt: list scenarios")
	}

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if filter.Offset >= len(all) {
		return nil, nil
	}
	all = all[filter.Offset:]
	if len(all) > filter.limit() {
		all = all[:filter.limit()]
	}
	return all, nil
}

func (s *BoltStore) DeleteScenario(_ context.Context, id string) error {
	found := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := scenarioBucket(tx)
		if err != nil {
			return err
		}
		if b.Get([]byte(id)) == nil {
			return nil
		}
		found = true
		return b.Delete([]byte(id))
	})
	if err != nil {
		return eris.Wrapf(err, "bolt: delete scenario %s", id)
	}
	if !found {
		return notFound("bolt", id)
	}
	return nil
}

func (s *BoltStore) put(sc *Scenario) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := scenarioBucket(tx)
		if err != nil {
			return err
		}
		return b.Put([]byte(sc.ID), data)
	})
}

// scenarioBucket returns the scenarios bucket, or an error when Migrate has
// not created it.
func scenarioBucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	b := tx.Bucket(bucketScenarios)
	if b == nil {
		return nil, eris.New("bolt: scenarios bucket missing, run migrate")
	}
	return b, nil
}
