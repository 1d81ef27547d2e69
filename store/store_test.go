package store

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	s := NewMemStore()

	_, err := s.LoadState()
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SaveState(State{Count: 17, Owner: "creator"}))
	state, err := s.LoadState()
	require.NoError(t, err)
	require.Equal(t, State{Count: 17, Owner: "creator"}, state)
}

func TestUpdateStateLeavesRecordOnError(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.SaveState(State{Count: 1, Owner: "creator"}))

	_, err := s.UpdateState(func(state State) (State, error) {
		state.Count = 99
		return state, errors.New("rejected")
	})
	require.Error(t, err)

	state, err := s.LoadState()
	require.NoError(t, err)
	require.Equal(t, int32(1), state.Count)

	state, err = s.UpdateState(func(state State) (State, error) {
		state.Count++
		return state, nil
	})
	require.NoError(t, err)
	require.Equal(t, int32(2), state.Count)
}

func TestLevelDBPersists(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenLevelDB("router", dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveContractVersion(ContractVersion{Contract: "crates.io:wasm-dexrouter", Version: "0.1.0"}))
	require.NoError(t, s.Close())

	s, err = OpenLevelDB("router", dir)
	require.NoError(t, err)
	defer s.Close()

	version, err := s.LoadContractVersion()
	require.NoError(t, err)
	require.Equal(t, "crates.io:wasm-dexrouter", version.Contract)
}
