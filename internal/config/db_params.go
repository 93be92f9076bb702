package config

import (
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"io/fs"
	"os"
)

const DefaultDbSection = "postgresql"

var (
	ErrFileNotFound   = errors.New("file not found")
	ErrMissingSection = errors.New("section not found")
)

// LoadDbParams returns key/value pairs of the given INI section, keys lower-cased.
func LoadDbParams(filename, section string) (map[string]string, error) {
	if section == "" {
		section = DefaultDbSection
	}

	if err := checkFileExists(filename); err != nil {
		return nil, err
	}

	file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", filename)
	}

	if !file.HasSection(section) {
		return nil, errors.Wrapf(ErrMissingSection, "section '%s' in %s", section, filename)
	}

	return file.Section(section).KeysHash(), nil
}

func checkFileExists(filename string) error {
	info, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(ErrFileNotFound, "'%s'", filename)
		}
		return err
	}

	if info.IsDir() {
		return errors.Wrapf(ErrFileNotFound, "'%s' is a directory", filename)
	}
	return nil
}
