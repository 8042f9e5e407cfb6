// Package state persists one deployment state document per environment under
// $HOME/.clawctl/state/<environment>.json.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/openclaw/clawctl/internal/clawerrors"
	"github.com/openclaw/clawctl/internal/models"
)

const stateDocumentVersion = 1

type Store struct {
	dir string
}

func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("Unable to resolve home directory. Error: %v", err)
	}
	dir := filepath.Join(homeDir, ".clawctl", "state")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("Unable to create state directory %s. Error: %v", dir, err)
	}
	return &Store{dir: dir}, nil
}

// New returns a fresh state document for an environment. The lineage is
// assigned once and never changes for the life of the deployment.
func (s *Store) New(environment, region string) *models.State {
	return &models.State{
		Version:     stateDocumentVersion,
		Lineage:     uuid.NewString(),
		Environment: environment,
		Region:      region,
	}
}

func (s *Store) Load(environment string) (*models.State, error) {
	b, err := os.ReadFile(s.path(environment))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, clawerrors.ErrStateNotFound{Environment: environment}
		}
		return nil, fmt.Errorf("Unable to read state document. Error: %v", err)
	}
	var st models.State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("Cannot unmarshal state json. Error: %v", err)
	}
	return &st, nil
}

// Save increments the serial and writes the document atomically via a temp
// file rename, so a crash mid-write never loses the previous serial.
func (s *Store) Save(st *models.State) error {
	st.Serial++
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("Unable to marshal state object. Error: %v", err)
	}
	tmp, err := os.CreateTemp(s.dir, st.Environment+".*.tmp")
	if err != nil {
		return fmt.Errorf("Unable to create temp state file. Error: %v", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("Unable to write state document. Error: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("Unable to close temp state file. Error: %v", err)
	}
	return os.Rename(tmp.Name(), s.path(st.Environment))
}

// Delete removes the document after a completed teardown.
func (s *Store) Delete(environment string) error {
	if err := os.Remove(s.path(environment)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("Unable to remove state document. Error: %v", err)
	}
	return nil
}

func (s *Store) path(environment string) string {
	return filepath.Join(s.dir, environment+".json")
}
