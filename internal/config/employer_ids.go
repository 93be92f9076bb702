package config

import (
	"encoding/json"
	"github.com/pkg/errors"
	"iter"
	"os"
)

type employerIDEntry struct {
	ID int `json:"id"`
}

// EmployerIDs reads a JSON array of {"id": ...} objects and yields the ids in file order.
func EmployerIDs(filename string) (iter.Seq[int], error) {
	if err := checkFileExists(filename); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var entries []employerIDEntry
	if err = json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", filename)
	}

	return func(yield func(int) bool) {
		for _, entry := range entries {
			if !yield(entry.ID) {
				return
			}
		}
	}, nil
}
