// Package loader handles cartridge file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/xipe/internal/machine"
)

// Extensions lists the file extensions that cartridges are usually stored with.
var Extensions = []string{".ch8", ".c8", ".rom"}

// Loader handles loading cartridge files from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new cartridge loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load reads a cartridge file. Cartridges are raw program bytes without a
// header, files that do not fit into the program space are rejected.
func (l *Loader) Load(fileName string) ([]byte, error) {
	if !HasCartridgeExtension(fileName) {
		l.logger.Warn("Unexpected file extension, loading file as raw cartridge",
			log.String("file", fileName))
	}

	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", fileName, err)
	}
	defer func() { _ = file.Close() }()

	// read one byte more than allowed to detect oversized files
	data, err := io.ReadAll(io.LimitReader(file, machine.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", fileName, err)
	}
	if len(data) > machine.MaxProgramSize {
		return nil, fmt.Errorf("%w: file %s exceeds %d bytes",
			machine.ErrProgramTooLarge, fileName, machine.MaxProgramSize)
	}
	if len(data) == 0 {
		l.logger.Warn("Cartridge file is empty", log.String("file", fileName))
	}

	l.logger.Debug("Cartridge loaded",
		log.String("file", fileName),
		log.Int("size", len(data)))
	return data, nil
}

// HasCartridgeExtension returns whether the file name has one of the
// usual cartridge file extensions.
func HasCartridgeExtension(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	return slices.Contains(Extensions, ext)
}
