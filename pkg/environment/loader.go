package environment

import (
	"fmt"
	"io"
	"os"

	"github.com/bastiangx/wordsolve/internal/utils"
	"github.com/charmbracelet/log"
)

// Load reads and validates the dataset at path. A missing, short or corrupt
// file returns an error wrapping ErrDataRead; callers should ask for a rebuild.
func Load(path string) (*Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataRead, err)
	}
	e, err := Decode(data)
	if err != nil {
		log.Debugf("Rejected dataset %s: %v", path, err)
		return nil, err
	}
	log.Debugf("Loaded dataset %s: %d words, %d targets, strategy=%s", path, e.Len(), len(e.targets), e.strategy)
	return e, nil
}

// ReadHeader reads only the header of the dataset at path.
func ReadHeader(path string) (Header, error) {
	file, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrDataRead, err)
	}
	defer file.Close()

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(file, buf); err != nil {
		return Header{}, fmt.Errorf("%w: failed to read header: %v", ErrDataRead, err)
	}
	return ParseHeader(buf)
}

// WriteFile persists e to path, replacing any existing file atomically.
func WriteFile(path string, e *Environment) error {
	data, err := e.MarshalBinary()
	if err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset %s: %w", path, err)
	}
	log.Debugf("Wrote dataset %s (%d bytes)", path, len(data))
	return nil
}
