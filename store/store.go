package store

import (
	"encoding/json"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

var (
	stateKey        = []byte("state")
	contractInfoKey = []byte("contract_info")
)

// State is the owner/counter record written at instantiation.
type State struct {
	Count int32  `json:"count"`
	Owner string `json:"owner"`
}

// ContractVersion identifies the code that wrote the store.
type ContractVersion struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

// KVStore keeps the router records in a cosmos-db database as JSON values.
type KVStore struct {
	db dbm.DB
}

func NewKVStore(db dbm.DB) *KVStore {
	return &KVStore{db: db}
}

func NewMemStore() *KVStore {
	return NewKVStore(dbm.NewMemDB())
}

// OpenLevelDB opens (or creates) a goleveldb-backed store at dir/name.db.
func OpenLevelDB(name string, dir string) (*KVStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open store %s in %s", name, dir)
	}
	return NewKVStore(db), nil
}

func (s *KVStore) Close() error {
	return s.db.Close()
}

func (s *KVStore) LoadState() (State, error) {
	var state State
	if err := s.load(stateKey, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

func (s *KVStore) SaveState(state State) error {
	return s.save(stateKey, state)
}

// UpdateState loads the state, applies fn and saves the result. Nothing is written if fn fails.
func (s *KVStore) UpdateState(fn func(State) (State, error)) (State, error) {
	state, err := s.LoadState()
	if err != nil {
		return State{}, err
	}
	state, err = fn(state)
	if err != nil {
		return State{}, err
	}
	if err := s.SaveState(state); err != nil {
		return State{}, err
	}
	return state, nil
}

func (s *KVStore) LoadContractVersion() (ContractVersion, error) {
	var version ContractVersion
	if err := s.load(contractInfoKey, &version); err != nil {
		return ContractVersion{}, err
	}
	return version, nil
}

func (s *KVStore) SaveContractVersion(version ContractVersion) error {
	return s.save(contractInfoKey, version)
}

func (s *KVStore) load(key []byte, v any) error {
	bz, err := s.db.Get(key)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", key)
	}
	if bz == nil {
		return errors.Wrapf(ErrNotFound, "%s", key)
	}
	if err := json.Unmarshal(bz, v); err != nil {
		return errors.Wrapf(err, "failed to decode %s", key)
	}
	return nil
}

func (s *KVStore) save(key []byte, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", key)
	}
	if err := s.db.Set(key, bz); err != nil {
		return errors.Wrapf(err, "failed to write %s", key)
	}
	return nil
}
